package auth

import "classbook/internal/pkg/apperror"

var (
	ErrInvalidCredentials = apperror.Unauthorized("INVALID_CREDENTIALS", "Invalid credentials")
	ErrEmailAlreadyExists = apperror.Validation("EMAIL_EXISTS", "User already exists")
	ErrInvalidRole        = apperror.Validation("INVALID_ROLE", "Role must be student or faculty")
	ErrUserNotFound       = apperror.NotFound("USER_NOT_FOUND", "User not found")
)
