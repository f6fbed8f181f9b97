package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"classbook/internal/config"
	"classbook/internal/database"
	"classbook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "repo.db")
	db, err := database.Connect(config.DatabaseConfig{DSN: dsn}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop(), Models()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Create inserts b without any availability check, for arranging fixtures.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*b = *toDomainBooking(m)
	return nil
}

func newBooking(classroomID int64, date, start, end string, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		UserID:        7,
		UserName:      "Ann",
		ClassroomID:   classroomID,
		ClassroomName: "Lab",
		Date:          domain.Date(date),
		StartTime:     domain.MustTime(start),
		EndTime:       domain.MustTime(end),
		Purpose:       "Lecture",
		Status:        status,
	}
}

func TestBookingRepository_CreateIfFree(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(setupDB(t))

	first := newBooking(1, "2025-03-10", "10:00", "11:00", domain.BookingPending)
	require.NoError(t, repo.CreateIfFree(ctx, first, func(existing []domain.Booking) error {
		assert.Empty(t, existing)
		return nil
	}))
	assert.NotZero(t, first.ID)

	errTaken := errors.New("taken")
	second := newBooking(1, "2025-03-10", "10:30", "11:30", domain.BookingPending)
	err := repo.CreateIfFree(ctx, second, func(existing []domain.Booking) error {
		require.Len(t, existing, 1)
		assert.Equal(t, first.ID, existing[0].ID)
		return errTaken
	})
	assert.ErrorIs(t, err, errTaken)

	all, err := repo.List(ctx, BookingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestBookingRepository_FindBlockingSkipsTerminal(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(setupDB(t))

	require.NoError(t, repo.Create(ctx, newBooking(1, "2025-03-10", "08:00", "09:00", domain.BookingConfirmed)))
	require.NoError(t, repo.Create(ctx, newBooking(1, "2025-03-10", "09:00", "10:00", domain.BookingCancelled)))
	require.NoError(t, repo.Create(ctx, newBooking(1, "2025-03-10", "10:00", "11:00", domain.BookingRejected)))
	require.NoError(t, repo.Create(ctx, newBooking(1, "2025-03-11", "08:00", "09:00", domain.BookingPending)))
	require.NoError(t, repo.Create(ctx, newBooking(2, "2025-03-10", "08:00", "09:00", domain.BookingPending)))

	got, err := repo.FindBlocking(ctx, 1, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.BookingConfirmed, got[0].Status)
	assert.Equal(t, "08:00", got[0].StartTime.String())
}

func TestBookingRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(setupDB(t))

	b := newBooking(1, "2025-03-10", "10:00", "11:00", domain.BookingPending)
	require.NoError(t, repo.Create(ctx, b))

	updated, err := repo.UpdateStatus(ctx, b.ID, func(cur *domain.Booking, sameSlot []domain.Booking) (domain.BookingStatus, error) {
		assert.Equal(t, domain.BookingPending, cur.Status)
		assert.Empty(t, sameSlot)
		return domain.BookingConfirmed, nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, updated.Status)

	stored, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, stored.Status)

	_, err = repo.UpdateStatus(ctx, 999, func(*domain.Booking, []domain.Booking) (domain.BookingStatus, error) {
		t.Fatal("decider must not run for a missing booking")
		return "", nil
	})
	assert.True(t, IsNotFound(err))
}

func TestBookingRepository_ListScheduleOrderAndFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(setupDB(t))

	require.NoError(t, repo.Create(ctx, newBooking(1, "2025-03-12", "09:00", "10:00", domain.BookingPending)))
	require.NoError(t, repo.Create(ctx, newBooking(1, "2025-03-10", "14:00", "15:00", domain.BookingConfirmed)))
	require.NoError(t, repo.Create(ctx, newBooking(2, "2025-03-10", "08:00", "09:00", domain.BookingCancelled)))

	rows, err := repo.List(ctx, BookingFilter{BySchedule: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "08:00", rows[0].StartTime.String())
	assert.Equal(t, "14:00", rows[1].StartTime.String())
	assert.Equal(t, domain.Date("2025-03-12"), rows[2].Date)

	rows, err = repo.List(ctx, BookingFilter{From: "2025-03-11", Statuses: []domain.BookingStatus{domain.BookingPending}})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = repo.List(ctx, BookingFilter{ClassroomID: 2})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestBookingRepository_CountByStatusAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(setupDB(t))

	b := newBooking(1, "2025-03-10", "10:00", "11:00", domain.BookingPending)
	require.NoError(t, repo.Create(ctx, b))
	require.NoError(t, repo.Create(ctx, newBooking(1, "2025-03-10", "11:00", "12:00", domain.BookingConfirmed)))
	require.NoError(t, repo.Create(ctx, newBooking(1, "2025-03-10", "12:00", "13:00", domain.BookingConfirmed)))

	st, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStats{Total: 3, Pending: 1, Confirmed: 2}, st)

	require.NoError(t, repo.Delete(ctx, b.ID))
	assert.True(t, IsNotFound(repo.Delete(ctx, b.ID)))
}

func TestUserRepository_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupDB(t))

	u := &domain.User{Name: "Ann", Email: "Ann@Example.com", PasswordHash: "x", Role: domain.RoleStudent}
	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, "ann@example.com", u.Email)

	dup := &domain.User{Name: "Ann 2", Email: "ann@example.com ", PasswordHash: "y", Role: domain.RoleFaculty}
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicate)

	got, err := repo.GetByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestUserRepository_RoleQueries(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupDB(t))

	admin := &domain.User{Name: "Root", Email: "root@x.io", PasswordHash: "x", Role: domain.RoleAdmin}
	student := &domain.User{Name: "Sam", Email: "sam@x.io", PasswordHash: "x", Role: domain.RoleStudent}
	require.NoError(t, repo.Create(ctx, admin))
	require.NoError(t, repo.Create(ctx, student))

	ids, err := repo.IDsByRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, []int64{admin.ID}, ids)

	promoted, err := repo.UpdateRole(ctx, student.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, promoted.Role)

	_, err = repo.UpdateRole(ctx, 999, domain.RoleAdmin)
	assert.True(t, IsNotFound(err))
}

func TestClassroomRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewClassroomRepository(setupDB(t))

	c := &domain.Classroom{Name: "Lab A", Capacity: 20, Building: "Main", RoomNumber: "101", Features: []string{"projector"}, Available: true}
	require.NoError(t, repo.Create(ctx, c))

	c.Available = false
	c.Features = nil
	require.NoError(t, repo.Update(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, got.Available)
	assert.Equal(t, []string{}, got.Features)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.GetByID(ctx, c.ID)
	assert.True(t, IsNotFound(err))
}

func TestNotificationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository(setupDB(t))

	require.NoError(t, repo.CreateMany(ctx, []domain.Notification{
		{UserID: 1, Type: domain.NotifBookingCreated, Title: "a", Data: map[string]any{"booking_id": 5}},
		{UserID: 1, Type: domain.NotifBookingUpdated, Title: "b"},
		{UserID: 2, Type: domain.NotifBookingCreated, Title: "c"},
	}))

	list, err := repo.ListByUser(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	n, err := repo.CountUnread(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, repo.MarkAsRead(ctx, list[0].ID, 1))
	assert.True(t, IsNotFound(repo.MarkAsRead(ctx, list[0].ID, 2)))

	require.NoError(t, repo.MarkAllAsRead(ctx, 1))
	n, err = repo.CountUnread(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNotificationRepository_DeleteReadBefore(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository(setupDB(t))
	old := time.Now().AddDate(0, 0, -60)

	require.NoError(t, repo.CreateMany(ctx, []domain.Notification{
		{UserID: 1, Type: domain.NotifBookingCreated, Title: "old read", CreatedAt: old},
		{UserID: 1, Type: domain.NotifBookingUpdated, Title: "old unread", CreatedAt: old},
		{UserID: 1, Type: domain.NotifBookingUpdated, Title: "fresh"},
	}))
	list, err := repo.ListByUser(ctx, 1, 10)
	require.NoError(t, err)
	for _, n := range list {
		if n.Title != "old unread" {
			require.NoError(t, repo.MarkAsRead(ctx, n.ID, 1))
		}
	}

	removed, err := repo.DeleteReadBefore(ctx, time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	list, err = repo.ListByUser(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
