package middleware

import (
	"context"
	"net/http"
	"strings"

	"classbook/internal/domain"
	"classbook/internal/pkg/jwt"
	"classbook/internal/pkg/response"
	"classbook/internal/repository"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// UserLookup resolves the current role of a token's subject. Role changes and
// account deletions take effect on the next request instead of at token expiry.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// JWTAuth requires a bearer token. When users is nil the role carried by the
// token is trusted as is.
func JWTAuth(tokens TokenValidator, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		role := claims.Role
		if users != nil {
			u, err := users.GetByID(c.Request.Context(), claims.UserID)
			if err != nil {
				if repository.IsNotFound(err) {
					response.Abort(c, http.StatusUnauthorized, "USER_NOT_FOUND", "Not authorized, user no longer exists")
					return
				}
				_ = c.Error(err)
				response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
				return
			}
			role = u.Role
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, string(role))
		c.Next()
	}
}

// CallerFrom returns the identity set by JWTAuth, or the zero Caller on public routes.
func CallerFrom(c *gin.Context) domain.Caller {
	return domain.Caller{
		UserID: c.GetInt64(ctxUserID),
		Role:   domain.Role(c.GetString(ctxRole)),
	}
}
