package classroom

import (
	"context"
	"strings"
	"time"

	"classbook/internal/access"
	"classbook/internal/domain"
	"classbook/internal/notification"
	"classbook/internal/pkg/apperror"
	"classbook/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrClassroomNotFound = apperror.NotFound("CLASSROOM_NOT_FOUND", "Classroom not found")
	ErrForbidden         = apperror.Forbidden("FORBIDDEN", "Not authorized")
)

type Repository interface {
	Create(ctx context.Context, c *domain.Classroom) error
	GetByID(ctx context.Context, id int64) (*domain.Classroom, error)
	List(ctx context.Context) ([]domain.Classroom, error)
	Update(ctx context.Context, c *domain.Classroom) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo   Repository
	events notification.Publisher
	log    *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, events notification.Publisher, log *zap.Logger) *Service {
	return &Service{repo: repo, events: events, log: log, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]domain.Classroom, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Classroom, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, err
	}
	return c, nil
}

// Create adds a classroom. It is available and has no features unless the
// request says otherwise.
func (s *Service) Create(ctx context.Context, caller domain.Caller, req CreateClassroomRequest) (*domain.Classroom, error) {
	if !access.Allow(access.ManageClassrooms, caller, 0) {
		return nil, ErrForbidden
	}

	now := s.now()
	c := &domain.Classroom{
		Name:       strings.TrimSpace(req.Name),
		Capacity:   req.Capacity,
		Building:   strings.TrimSpace(req.Building),
		RoomNumber: strings.TrimSpace(req.RoomNumber),
		Features:   cleanFeatures(req.Features),
		Available:  true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.Floor != nil {
		c.Floor = *req.Floor
	}
	if req.Available != nil {
		c.Available = *req.Available
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info("classroom created", zap.Int64("classroom_id", c.ID), zap.String("name", c.Name))
	s.publish(c)
	return c, nil
}

func (s *Service) Update(ctx context.Context, caller domain.Caller, id int64, req UpdateClassroomRequest) (*domain.Classroom, error) {
	if !access.Allow(access.ManageClassrooms, caller, 0) {
		return nil, ErrForbidden
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Capacity != nil {
		c.Capacity = *req.Capacity
	}
	if req.Building != nil {
		c.Building = strings.TrimSpace(*req.Building)
	}
	if req.Floor != nil {
		c.Floor = *req.Floor
	}
	if req.RoomNumber != nil {
		c.RoomNumber = strings.TrimSpace(*req.RoomNumber)
	}
	if req.Features != nil {
		c.Features = cleanFeatures(*req.Features)
	}
	if req.Available != nil {
		c.Available = *req.Available
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, err
	}

	s.publish(c)
	return c, nil
}

// Delete removes the classroom. Existing bookings keep their classroom name.
func (s *Service) Delete(ctx context.Context, caller domain.Caller, id int64) error {
	if !access.Allow(access.ManageClassrooms, caller, 0) {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrClassroomNotFound
		}
		return err
	}
	s.log.Info("classroom deleted", zap.Int64("classroom_id", id))
	return nil
}

func (s *Service) publish(c *domain.Classroom) {
	s.events.Publish(notification.Event{
		Type:      notification.ClassroomUpdated,
		Classroom: c,
		At:        c.UpdatedAt,
	})
}

func cleanFeatures(in []string) []string {
	out := make([]string, 0, len(in))
	for _, f := range in {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
