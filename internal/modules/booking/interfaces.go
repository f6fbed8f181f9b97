package booking

import (
	"context"

	"classbook/internal/domain"
	"classbook/internal/repository"
)

// BookingRepository defines the storage operations the service needs.
type BookingRepository interface {
	CreateIfFree(ctx context.Context, b *domain.Booking, check func(existing []domain.Booking) error) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error)
	FindBlocking(ctx context.Context, classroomID int64, date domain.Date) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, decide repository.StatusDecider) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context) (domain.BookingStats, error)
}

type ClassroomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Classroom, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
