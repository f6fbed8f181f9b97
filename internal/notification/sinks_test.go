package notification

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"classbook/internal/config"
	"classbook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestMailer(users UserLookup) (*Mailer, *[]sentMail) {
	var sent []sentMail
	m := NewMailer(config.MailConfig{SMTPHost: "smtp.test", SMTPPort: 2525, From: "Bookings <bookings@school.test>"}, users, zap.NewNop())
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
	return m, &sent
}

func sampleBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID: 11, UserID: 7, UserName: "Ann", ClassroomID: 2, ClassroomName: "Lab A",
		Date: "2025-05-02", StartTime: domain.MustTime("09:00"), EndTime: domain.MustTime("10:30"),
		Purpose: "Seminar", Status: status,
	}
}

func TestMailer_ConfirmationOnCreate(t *testing.T) {
	users := new(MockUserLookup)
	users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Name: "Ann", Email: "ann@school.test"}, nil)
	m, sent := newTestMailer(users)

	err := m.Deliver(context.Background(), Event{
		Type:      BookingCreated,
		Booking:   sampleBooking(domain.BookingPending),
		Classroom: &domain.Classroom{Name: "Lab A", Building: "Main", RoomNumber: "101"},
	})
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	mail := (*sent)[0]
	assert.Equal(t, "smtp.test:2525", mail.addr)
	assert.Equal(t, "bookings@school.test", mail.from)
	assert.Equal(t, []string{"ann@school.test"}, mail.to)
	assert.Contains(t, mail.msg, "Subject: Classroom Booking Confirmation")
	assert.Contains(t, mail.msg, "Lab A (Main, Room 101)")
	assert.Contains(t, mail.msg, "09:00 - 10:30")
}

func TestMailer_StatusChange(t *testing.T) {
	users := new(MockUserLookup)
	users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Name: "Ann", Email: "ann@school.test"}, nil)
	m, sent := newTestMailer(users)

	err := m.Deliver(context.Background(), Event{Type: BookingUpdated, Action: ActionStatusChanged, Booking: sampleBooking(domain.BookingRejected)})
	require.NoError(t, err)
	require.Len(t, *sent, 1)
	assert.Contains(t, (*sent)[0].msg, "Subject: Classroom Booking Rejected")
	assert.Contains(t, (*sent)[0].msg, "has been rejected")
	assert.Contains(t, (*sent)[0].msg, "contact administration")
}

func TestMailer_IgnoresOtherEvents(t *testing.T) {
	users := new(MockUserLookup)
	m, sent := newTestMailer(users)

	require.NoError(t, m.Deliver(context.Background(), Event{Type: BookingUpdated, Action: ActionCancelled, Booking: sampleBooking(domain.BookingCancelled)}))
	require.NoError(t, m.Deliver(context.Background(), Event{Type: ClassroomUpdated, Classroom: &domain.Classroom{}}))
	assert.Empty(t, *sent)
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestMailer_OwnerLookupFails(t *testing.T) {
	users := new(MockUserLookup)
	users.On("GetByID", mock.Anything, int64(7)).Return(nil, errors.New("gone"))
	m, sent := newTestMailer(users)

	err := m.Deliver(context.Background(), Event{Type: BookingCreated, Booking: sampleBooking(domain.BookingPending)})
	assert.Error(t, err)
	assert.Empty(t, *sent)
}

type MockInboxStore struct {
	mock.Mock
}

func (m *MockInboxStore) CreateMany(ctx context.Context, ns []domain.Notification) error {
	return m.Called(ctx, ns).Error(0)
}

type MockAdminDirectory struct {
	mock.Mock
}

func (m *MockAdminDirectory) IDsByRole(ctx context.Context, role domain.Role) ([]int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]int64), args.Error(1)
}

func TestInbox_OwnerAndOtherAdmins(t *testing.T) {
	store := new(MockInboxStore)
	admins := new(MockAdminDirectory)
	admins.On("IDsByRole", mock.Anything, domain.RoleAdmin).Return([]int64{1, 2}, nil)

	var rows []domain.Notification
	store.On("CreateMany", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		rows = args.Get(1).([]domain.Notification)
	}).Return(nil)

	inbox := NewInbox(store, admins)
	err := inbox.Deliver(context.Background(), Event{Type: BookingUpdated, Action: ActionStatusChanged, Booking: sampleBooking(domain.BookingConfirmed), ActorID: 1})
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, int64(7), rows[0].UserID)
	assert.Equal(t, domain.NotifBookingUpdated, rows[0].Type)
	assert.Equal(t, "Booking confirmed", rows[0].Title)
	assert.Equal(t, int64(2), rows[1].UserID)
}

func TestInbox_OwnerActionNotifiesOnlyAdmins(t *testing.T) {
	store := new(MockInboxStore)
	admins := new(MockAdminDirectory)
	admins.On("IDsByRole", mock.Anything, domain.RoleAdmin).Return([]int64{1}, nil)

	var rows []domain.Notification
	store.On("CreateMany", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		rows = args.Get(1).([]domain.Notification)
	}).Return(nil)

	inbox := NewInbox(store, admins)
	require.NoError(t, inbox.Deliver(context.Background(), Event{Type: BookingUpdated, Action: ActionCancelled, Booking: sampleBooking(domain.BookingCancelled), ActorID: 7}))

	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].UserID)
	assert.Equal(t, domain.NotifBookingCancelled, rows[0].Type)
}

func TestInbox_SkipsClassroomEvents(t *testing.T) {
	store := new(MockInboxStore)
	inbox := NewInbox(store, new(MockAdminDirectory))

	require.NoError(t, inbox.Deliver(context.Background(), Event{Type: ClassroomUpdated, Classroom: &domain.Classroom{}}))
	store.AssertNotCalled(t, "CreateMany", mock.Anything, mock.Anything)
}
