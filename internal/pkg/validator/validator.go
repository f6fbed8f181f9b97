package validator

import (
	"errors"
	"reflect"
	"strings"

	"classbook/internal/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// Validate checks struct tags and returns field name -> failed tag, or nil.
// Field names follow the json tags so they match request payloads.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[e.Field()] = e.Tag()
	}
	return fields
}

var ErrInvalidBody = apperror.Validation("VALIDATION_ERROR", "Invalid request body")

// BindJSON decodes the request body into dst and validates it. Failures are
// returned as validation errors carrying per-field details.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return ErrInvalidBody
	}
	if fields := Validate(dst); fields != nil {
		return ErrInvalidBody.WithDetails(fields)
	}
	return nil
}
