package notification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"classbook/internal/domain"
	"classbook/internal/middleware"
	"classbook/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)
	list, _ := args.Get(0).([]domain.Notification)
	return list, args.Error(1)
}

func (m *MockRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func setup(repo Repository) (*gin.Engine, string) {
	gin.SetMode(gin.TestMode)
	tokens := jwt.New("inbox-secret", time.Hour)
	r := gin.New()
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(tokens, nil))
	NewHandler(NewService(repo)).RegisterRoutes(protected)
	token, _ := tokens.GenerateToken(8, domain.RoleStudent)
	return r, token
}

func call(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetNotifications_ClampsLimit(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListByUser", mock.Anything, int64(8), 100).
		Return([]domain.Notification{{ID: 1, UserID: 8, Title: "Booking confirmed"}}, nil)
	repo.On("CountUnread", mock.Anything, int64(8)).Return(int64(1), nil)
	r, token := setup(repo)

	w := call(r, http.MethodGet, "/api/v1/notifications?limit=500", token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unread_count":1`)
	assert.Contains(t, w.Body.String(), "Booking confirmed")
}

func TestMarkAsRead(t *testing.T) {
	repo := new(MockRepository)
	repo.On("MarkAsRead", mock.Anything, int64(3), int64(8)).Return(nil)
	repo.On("MarkAsRead", mock.Anything, int64(4), int64(8)).Return(gorm.ErrRecordNotFound)
	r, token := setup(repo)

	assert.Equal(t, http.StatusOK, call(r, http.MethodPatch, "/api/v1/notifications/3/read", token).Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodPatch, "/api/v1/notifications/4/read", token).Code)
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPatch, "/api/v1/notifications/x/read", token).Code)
}

func TestMarkAllAsRead(t *testing.T) {
	repo := new(MockRepository)
	repo.On("MarkAllAsRead", mock.Anything, int64(8)).Return(nil)
	r, token := setup(repo)

	w := call(r, http.MethodPatch, "/api/v1/notifications/read-all", token)
	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}
