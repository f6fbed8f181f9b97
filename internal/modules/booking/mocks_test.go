package booking

import (
	"context"
	"sync"

	"classbook/internal/domain"
	"classbook/internal/notification"
	"classbook/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

// CreateIfFree runs check against the configured existing bookings the way
// the real repository does inside its transaction.
func (m *MockBookingRepository) CreateIfFree(ctx context.Context, b *domain.Booking, check func([]domain.Booking) error) error {
	args := m.Called(ctx, b)
	existing, _ := args.Get(0).([]domain.Booking)
	if err := check(existing); err != nil {
		return err
	}
	if err := args.Error(1); err != nil {
		return err
	}
	b.ID = 100
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]domain.Booking)
	return list, args.Error(1)
}

func (m *MockBookingRepository) FindBlocking(ctx context.Context, classroomID int64, date domain.Date) ([]domain.Booking, error) {
	args := m.Called(ctx, classroomID, date)
	list, _ := args.Get(0).([]domain.Booking)
	return list, args.Error(1)
}

// UpdateStatus applies decide to the configured current booking and slot.
func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, decide repository.StatusDecider) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if err := args.Error(2); err != nil {
		return nil, err
	}
	current := *args.Get(0).(*domain.Booking)
	sameSlot, _ := args.Get(1).([]domain.Booking)
	next, err := decide(&current, sameSlot)
	if err != nil {
		return nil, err
	}
	current.Status = next
	return &current, nil
}

func (m *MockBookingRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBookingRepository) CountByStatus(ctx context.Context) (domain.BookingStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.BookingStats), args.Error(1)
}

type MockClassroomRepository struct {
	mock.Mock
}

func (m *MockClassroomRepository) GetByID(ctx context.Context, id int64) (*domain.Classroom, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*domain.Classroom), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []notification.Event
}

func (p *recordingPublisher) Publish(ev notification.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) Events() []notification.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notification.Event(nil), p.events...)
}
