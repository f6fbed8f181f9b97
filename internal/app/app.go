package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"classbook/internal/config"
	"classbook/internal/middleware"
	"classbook/internal/modules/auth"
	"classbook/internal/modules/booking"
	"classbook/internal/modules/classroom"
	inbox "classbook/internal/modules/notification"
	"classbook/internal/modules/report"
	"classbook/internal/modules/user"
	"classbook/internal/notification"
	jwtsvc "classbook/internal/pkg/jwt"
	"classbook/internal/pkg/lock"
	"classbook/internal/pkg/response"
	"classbook/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the assembled HTTP application with the background pieces that
// need an orderly shutdown.
type App struct {
	Router     *gin.Engine
	Dispatcher *notification.Dispatcher
	Hub        *notification.Hub
	Tokens     *jwtsvc.Service

	log     *zap.Logger
	closers []func() error
}

// Build wires repositories, services and handlers over db. Optional
// integrations (redis locks, smtp, amqp) are enabled from cfg.
func Build(cfg *config.Config, log *zap.Logger, db *gorm.DB) (*App, error) {
	a := &App{log: log}

	userRepo := repository.NewUserRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	a.Tokens = jwtsvc.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var locker lock.Locker = lock.NewKeyedMutex()
	if cfg.Redis.Enabled {
		rdb, err := lock.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		locker = lock.NewRedisLocker(rdb, cfg.Redis.LockTTL, log)
		log.Info("using redis slot locks", zap.String("addr", cfg.Redis.Addr))
	}

	a.Hub = notification.NewHub(a.Tokens, cfg.Server.AllowOrigins, log)
	sinks := []notification.Sink{
		a.Hub,
		notification.NewInbox(notificationRepo, userRepo),
	}
	if cfg.Mail.Enabled {
		sinks = append(sinks, notification.NewMailer(cfg.Mail, userRepo, log))
	}
	if cfg.AMQP.URL != "" {
		broker, err := notification.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			a.runClosers()
			return nil, err
		}
		a.closers = append(a.closers, broker.Close)
		sinks = append(sinks, broker)
		log.Info("publishing events to amqp", zap.String("exchange", cfg.AMQP.Exchange))
	}
	a.Dispatcher = notification.NewDispatcher(log, cfg.Notify.Workers, cfg.Notify.Buffer, sinks...)

	authHandler := auth.NewHandler(auth.NewService(userRepo, a.Tokens, log))
	userHandler := user.NewHandler(user.NewService(userRepo, log))
	classroomHandler := classroom.NewHandler(classroom.NewService(classroomRepo, a.Dispatcher, log))
	bookingHandler := booking.NewHandler(
		booking.NewService(bookingRepo, classroomRepo, userRepo, locker, a.Dispatcher, log),
	)
	reportHandler := report.NewHandler(report.NewService(bookingRepo, log))
	inboxHandler := inbox.NewHandler(inbox.NewService(notificationRepo))

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.ErrorLogger(log),
		middleware.CORS(cfg.Server.AllowOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ws", a.Hub.ServeWS)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(a.Tokens, userRepo))

		authHandler.RegisterProtectedRoutes(protected)
		classroomHandler.RegisterRoutes(v1, protected)
		bookingHandler.RegisterRoutes(v1, protected)
		reportHandler.RegisterRoutes(protected)
		userHandler.RegisterRoutes(protected)
		inboxHandler.RegisterRoutes(protected)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})

	a.Router = r
	return a, nil
}

// Shutdown drains queued notifications, disconnects websocket clients and
// closes external connections.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.Dispatcher.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	a.Hub.Close()
	if err := a.runClosers(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) runClosers() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Server builds the http.Server for the configured address.
func (a *App) Server(cfg config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
