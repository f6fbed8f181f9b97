package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"classbook/internal/config"
	"classbook/internal/database"
	"classbook/internal/domain"
	"classbook/internal/modules/auth"
	"classbook/internal/modules/booking"
	"classbook/internal/notification"
	"classbook/internal/pkg/lock"
	"classbook/internal/pkg/logger"
	"classbook/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	name, email, password string
	role                  domain.Role
}

var users = []seedUser{
	{"John Doe", "john.doe@example.com", "admin123", domain.RoleAdmin},
	{"Jane Smith", "jane.smith@example.com", "faculty123", domain.RoleFaculty},
	{"Bob Johnson", "bob.johnson@example.com", "student123", domain.RoleStudent},
}

var classrooms = []domain.Classroom{
	{Name: "Computer Lab A", Capacity: 30, Building: "Science Building", Floor: 2, RoomNumber: "201",
		Features: []string{"Computers", "Projector", "Whiteboard"}, Available: true},
	{Name: "Lecture Hall B", Capacity: 100, Building: "Main Building", Floor: 1, RoomNumber: "101",
		Features: []string{"Projector", "Whiteboard", "Microphone"}, Available: true},
	{Name: "Study Room C", Capacity: 10, Building: "Library", Floor: 3, RoomNumber: "305",
		Features: []string{"Whiteboard", "TV Screen"}, Available: true},
	{Name: "Conference Room D", Capacity: 20, Building: "Admin Building", Floor: 4, RoomNumber: "401",
		Features: []string{"Projector", "Video Conference System", "Whiteboard"}, Available: true},
	{Name: "Lab Room E", Capacity: 25, Building: "Science Building", Floor: 3, RoomNumber: "320",
		Features: []string{"Lab Equipment", "Computers", "Whiteboard"}, Available: false},
}

// Safe to run repeatedly: existing users and classrooms are kept and demo
// bookings that would collide are skipped.
func main() {
	configPath := flag.String("config", "", "path to a config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Connect(cfg.Database, zl)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db, zl, repository.Models()...); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	ids := make(map[domain.Role]int64)
	for _, su := range users {
		u, err := ensureUser(ctx, userRepo, su)
		if err != nil {
			zl.Fatal("seed user", zap.String("email", su.email), zap.Error(err))
		}
		ids[u.Role] = u.ID
	}

	rooms := make([]*domain.Classroom, 0, len(classrooms))
	for i := range classrooms {
		room, err := ensureClassroom(ctx, classroomRepo, classrooms[i])
		if err != nil {
			zl.Fatal("seed classroom", zap.String("name", classrooms[i].Name), zap.Error(err))
		}
		rooms = append(rooms, room)
	}

	svc := booking.NewService(bookingRepo, classroomRepo, userRepo, lock.NewKeyedMutex(), notification.Discard{}, zl)
	admin := domain.Caller{UserID: ids[domain.RoleAdmin], Role: domain.RoleAdmin}

	demo := []struct {
		role       domain.Role
		room       int
		dayOffset  int
		start, end string
		purpose    string
		confirm    bool
	}{
		{domain.RoleFaculty, 1, 1, "09:00", "10:30", "Introduction to Algorithms lecture", true},
		{domain.RoleStudent, 2, 1, "14:00", "16:00", "Group study session", false},
		{domain.RoleFaculty, 0, 2, "10:00", "12:00", "Programming lab", true},
		{domain.RoleStudent, 3, 3, "13:00", "14:00", "Project team meeting", false},
	}

	created := 0
	today := time.Now()
	for _, d := range demo {
		caller := domain.Caller{UserID: ids[d.role], Role: d.role}
		b, err := svc.CreateBooking(ctx, caller, booking.CreateBookingRequest{
			ClassroomID: rooms[d.room].ID,
			Date:        today.AddDate(0, 0, d.dayOffset).Format("2006-01-02"),
			StartTime:   d.start,
			EndTime:     d.end,
			Purpose:     d.purpose,
		})
		if errors.Is(err, booking.ErrBookingConflict) {
			continue
		}
		if err != nil {
			zl.Fatal("seed booking", zap.String("purpose", d.purpose), zap.Error(err))
		}
		if d.confirm {
			if _, err := svc.SetStatus(ctx, admin, b.ID, string(domain.BookingConfirmed)); err != nil {
				zl.Fatal("confirm booking", zap.Int64("booking_id", b.ID), zap.Error(err))
			}
		}
		created++
	}

	zl.Info("seed completed",
		zap.Int("users", len(users)),
		zap.Int("classrooms", len(rooms)),
		zap.Int("bookings_created", created),
	)
	for _, su := range users {
		zl.Info("login", zap.String("email", su.email), zap.String("password", su.password), zap.String("role", string(su.role)))
	}
}

func ensureUser(ctx context.Context, repo *repository.UserRepository, su seedUser) (*domain.User, error) {
	u, err := repo.GetByEmail(ctx, su.email)
	if err == nil {
		return u, nil
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(su.password, bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u = &domain.User{Name: su.name, Email: su.email, PasswordHash: hash, Role: su.role}
	if err := repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func ensureClassroom(ctx context.Context, repo *repository.ClassroomRepository, c domain.Classroom) (*domain.Classroom, error) {
	existing, err := repo.GetByName(ctx, c.Name)
	if err == nil {
		return existing, nil
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}
	if err := repo.Create(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
