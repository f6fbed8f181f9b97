package classroom

import (
	"context"
	"sync"
	"testing"

	"classbook/internal/domain"
	"classbook/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, c *domain.Classroom) error {
	args := m.Called(ctx, c)
	if args.Error(0) == nil {
		c.ID = 9
	}
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.Classroom, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*domain.Classroom), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]domain.Classroom, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]domain.Classroom)
	return list, args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, c *domain.Classroom) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type events struct {
	mu  sync.Mutex
	got []notification.Event
}

func (e *events) Publish(ev notification.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.got = append(e.got, ev)
}

var (
	admin   = domain.Caller{UserID: 1, Role: domain.RoleAdmin}
	faculty = domain.Caller{UserID: 2, Role: domain.RoleFaculty}
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestCreate_Defaults(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	ev := &events{}
	svc := NewService(repo, ev, zap.NewNop())

	c, err := svc.Create(context.Background(), admin, CreateClassroomRequest{
		Name: " Lab A ", Capacity: 30, Building: "Science", Floor: intPtr(2), RoomNumber: "201",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(9), c.ID)
	assert.Equal(t, "Lab A", c.Name)
	assert.True(t, c.Available)
	assert.Equal(t, []string{}, c.Features)
	require.Len(t, ev.got, 1)
	assert.Equal(t, notification.ClassroomUpdated, ev.got[0].Type)
}

func TestCreate_ExplicitUnavailable(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := NewService(repo, notification.Discard{}, zap.NewNop())

	c, err := svc.Create(context.Background(), admin, CreateClassroomRequest{
		Name: "Hall", Capacity: 100, Building: "Main", Floor: intPtr(0), RoomNumber: "G1",
		Features: []string{"projector", " "}, Available: boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, c.Available)
	assert.Equal(t, []string{"projector"}, c.Features)
}

func TestCreate_Forbidden(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, notification.Discard{}, zap.NewNop())

	_, err := svc.Create(context.Background(), faculty, CreateClassroomRequest{Name: "x", Capacity: 1, Building: "b", RoomNumber: "1"})
	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdate_Partial(t *testing.T) {
	repo := new(MockRepository)
	current := &domain.Classroom{ID: 3, Name: "Lab A", Capacity: 30, Building: "Science", RoomNumber: "201", Features: []string{"projector"}, Available: true}
	repo.On("GetByID", mock.Anything, int64(3)).Return(current, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)
	ev := &events{}
	svc := NewService(repo, ev, zap.NewNop())

	c, err := svc.Update(context.Background(), admin, 3, UpdateClassroomRequest{Available: boolPtr(false), Name: strPtr("Lab A1")})
	require.NoError(t, err)

	assert.False(t, c.Available)
	assert.Equal(t, "Lab A1", c.Name)
	assert.Equal(t, 30, c.Capacity)
	assert.Equal(t, []string{"projector"}, c.Features)
	assert.Len(t, ev.got, 1)
}

func TestUpdate_InvalidCapacity(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, int64(3)).
		Return(&domain.Classroom{ID: 3, Name: "Lab", Capacity: 30, Building: "S", RoomNumber: "1"}, nil)
	svc := NewService(repo, notification.Discard{}, zap.NewNop())

	_, err := svc.Update(context.Background(), admin, 3, UpdateClassroomRequest{Capacity: intPtr(0)})
	assert.ErrorIs(t, err, domain.ErrInvalidClassroom)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestGetAndDelete_NotFound(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, int64(4)).Return(nil, gorm.ErrRecordNotFound)
	repo.On("Delete", mock.Anything, int64(4)).Return(gorm.ErrRecordNotFound)
	svc := NewService(repo, notification.Discard{}, zap.NewNop())

	_, err := svc.Get(context.Background(), 4)
	assert.ErrorIs(t, err, ErrClassroomNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), admin, 4), ErrClassroomNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), faculty, 4), ErrForbidden)
}
