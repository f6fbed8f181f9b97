package validator

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"classbook/internal/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Note     string
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(sample{Email: "a@b.io", Password: "secret"}))

	errs := Validate(sample{Email: "nope", Password: "123"})
	assert.Equal(t, map[string]string{"email": "email", "password": "min"}, errs)
}

func TestBindJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	bind := func(body string) error {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		var s sample
		return BindJSON(c, &s)
	}

	assert.NoError(t, bind(`{"email":"a@b.io","password":"secret"}`))
	assert.ErrorIs(t, bind(`{"email":`), ErrInvalidBody)

	err := bind(`{"email":"a@b.io"}`)
	var appErr *apperror.Error
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, map[string]string{"password": "required"}, appErr.Details)
}
