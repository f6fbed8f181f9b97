package user

import (
	"context"

	"classbook/internal/access"
	"classbook/internal/domain"
	"classbook/internal/pkg/apperror"
	"classbook/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrUserNotFound = apperror.NotFound("USER_NOT_FOUND", "User not found")
	ErrForbidden    = apperror.Forbidden("FORBIDDEN", "Not authorized")
	ErrInvalidRole  = apperror.Validation("INVALID_ROLE", "Invalid role")
	ErrDeleteSelf   = apperror.Validation("CANNOT_DELETE_SELF", "Cannot delete your own account")
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateRole(ctx context.Context, id int64, role domain.Role) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// Service is the admin user directory.
type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) List(ctx context.Context, caller domain.Caller) ([]domain.User, error) {
	if !access.Allow(access.ManageUsers, caller, 0) {
		return nil, ErrForbidden
	}
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, caller domain.Caller, id int64) (*domain.User, error) {
	if !access.Allow(access.ManageUsers, caller, 0) {
		return nil, ErrForbidden
	}
	return s.get(ctx, id)
}

func (s *Service) UpdateRole(ctx context.Context, caller domain.Caller, id int64, rawRole string) (*domain.User, error) {
	if !access.Allow(access.ManageUsers, caller, 0) {
		return nil, ErrForbidden
	}
	role := domain.Role(rawRole)
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	u, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.log.Info("user role changed", zap.Int64("user_id", id), zap.String("role", string(role)), zap.Int64("by", caller.UserID))
	return u, nil
}

// Delete removes a user account. Admins cannot remove their own account.
// Bookings made by the user stay with their name snapshot.
func (s *Service) Delete(ctx context.Context, caller domain.Caller, id int64) error {
	if !access.Allow(access.ManageUsers, caller, 0) {
		return ErrForbidden
	}
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if id == caller.UserID {
		return ErrDeleteSelf
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	s.log.Info("user deleted", zap.Int64("user_id", id), zap.Int64("by", caller.UserID))
	return nil
}

func (s *Service) get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
