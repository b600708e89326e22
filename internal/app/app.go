package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/schoolcast/schoolcast/config"
	"github.com/schoolcast/schoolcast/internal/database"
	"github.com/schoolcast/schoolcast/internal/domain"
	httpHandler "github.com/schoolcast/schoolcast/internal/http"
	"github.com/schoolcast/schoolcast/internal/repository"
	"github.com/schoolcast/schoolcast/internal/service"
	"github.com/schoolcast/schoolcast/internal/service/dispatch"
	"github.com/schoolcast/schoolcast/pkg/logger"
	"github.com/schoolcast/schoolcast/pkg/mailer"
	"github.com/schoolcast/schoolcast/pkg/ratelimiter"
)

// App encapsulates the application dependencies and configuration
type App struct {
	config *config.Config
	logger logger.Logger
	db     *sql.DB

	// Gateways
	mailer  domain.EmailGateway
	twilio  *service.TwilioService
	storage *service.StorageService

	// Repositories
	groupRepo     domain.GroupRepository
	messageRepo   domain.MessageRepository
	logRepo       domain.RecipientLogRepository
	scheduledRepo domain.ScheduledMessageRepository

	// Services
	resolver         *service.RecipientResolverService
	smsService       *service.SMSService
	emailService     *service.EmailService
	voiceService     *service.VoiceService
	messageService   *service.MessageService
	schedulerService *service.SchedulerService
	groupService     *service.GroupService

	rateLimiter *ratelimiter.RateLimiter

	mux    *http.ServeMux
	server *http.Server
}

// AppOption defines a functional option for configuring the App
type AppOption func(*App)

// WithMockDB configures the app to use an injected database
func WithMockDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

// WithMailer sets a custom email gateway
func WithMailer(m domain.EmailGateway) AppOption {
	return func(a *App) {
		a.mailer = m
	}
}

// WithLogger sets a custom logger
func WithLogger(logger logger.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts ...AppOption) *App {
	app := &App{
		config: cfg,
		logger: logger.NewLoggerWithLevel(cfg.LogLevel),
		mux:    http.NewServeMux(),
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// Initialize sets up all application components in dependency order
func (a *App) Initialize() error {
	if err := a.InitDB(); err != nil {
		return err
	}
	if err := a.InitGateways(); err != nil {
		return err
	}
	if err := a.InitRepositories(); err != nil {
		return err
	}
	if err := a.InitServices(); err != nil {
		return err
	}
	return a.InitHandlers()
}

// InitDB initializes the database connection and schema
func (a *App) InitDB() error {
	// Skip if database already set (e.g., by mock)
	if a.db != nil {
		return nil
	}

	a.logger.WithField("host", a.config.Database.Host).
		WithField("port", a.config.Database.Port).
		WithField("dbname", a.config.Database.DBName).
		Info("Connecting to database")

	if err := database.EnsureDatabaseExists(&a.config.Database); err != nil {
		return fmt.Errorf("failed to ensure database exists: %w", err)
	}

	db, err := database.Connect(&a.config.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.InitializeDatabase(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	a.db = db
	return nil
}

// InitGateways initializes the delivery gateways
func (a *App) InitGateways() error {
	if a.mailer == nil {
		mailerConfig := &mailer.Config{
			SMTPHost:     a.config.SMTP.Host,
			SMTPPort:     a.config.SMTP.Port,
			SMTPUsername: a.config.SMTP.Username,
			SMTPPassword: a.config.SMTP.Password,
			FromEmail:    a.config.SMTP.FromEmail,
			FromName:     a.config.SMTP.FromName,
		}
		if a.config.IsDevelopment() {
			a.mailer = mailer.NewTestSMTPMailer(mailerConfig, a.logger)
			a.logger.Info("Using test mailer for development")
		} else {
			a.mailer = mailer.NewSMTPMailer(mailerConfig, a.logger)
		}
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}
	a.twilio = service.NewTwilioService(
		httpClient,
		a.logger,
		a.config.Twilio.AccountSID,
		a.config.Twilio.AuthToken,
		a.config.Twilio.FromNumber,
		a.config.Twilio.CallerID,
	)

	storage, err := service.NewStorageService(a.config.Storage, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage service: %w", err)
	}
	a.storage = storage

	return nil
}

// InitRepositories initializes all repositories
func (a *App) InitRepositories() error {
	if a.db == nil {
		return fmt.Errorf("database must be initialized before repositories")
	}

	a.groupRepo = repository.NewGroupRepository(a.db)
	a.messageRepo = repository.NewMessageRepository(a.db)
	a.logRepo = repository.NewRecipientLogRepository(a.db)
	a.scheduledRepo = repository.NewScheduledMessageRepository(a.db)

	return nil
}

// InitServices initializes all application services
func (a *App) InitServices() error {
	// Immediate sends use a small window so interactive requests stay
	// responsive; the sweep drains its backlog with a larger one.
	immediateDispatcher := dispatch.NewDispatcher(&dispatch.Config{
		WindowSize:  a.config.Dispatch.WindowSize,
		WindowPause: a.config.Dispatch.WindowPause,
	}, a.logger)
	sweepDispatcher := dispatch.NewDispatcher(&dispatch.Config{
		WindowSize:  a.config.Dispatch.SweepWindowSize,
		WindowPause: a.config.Dispatch.WindowPause,
	}, a.logger)

	a.resolver = service.NewRecipientResolverService(a.groupRepo, a.logger)

	a.smsService = service.NewSMSService(
		a.resolver,
		a.twilio,
		a.messageRepo,
		a.logRepo,
		a.scheduledRepo,
		immediateDispatcher,
		a.logger,
	)

	a.emailService = service.NewEmailService(
		a.resolver,
		a.mailer,
		a.messageRepo,
		a.logRepo,
		a.scheduledRepo,
		immediateDispatcher,
		a.logger,
	)

	a.voiceService = service.NewVoiceService(
		a.resolver,
		a.twilio,
		a.storage,
		a.messageRepo,
		a.logRepo,
		a.scheduledRepo,
		immediateDispatcher,
		a.logger,
	)

	a.messageService = service.NewMessageService(a.messageRepo, a.logRepo, a.logger)

	a.schedulerService = service.NewSchedulerService(
		a.scheduledRepo,
		a.smsService,
		a.emailService,
		a.voiceService,
		sweepDispatcher,
		a.logger,
	)

	a.groupService = service.NewGroupService(a.groupRepo, a.logger)

	a.rateLimiter = ratelimiter.NewRateLimiter()

	return nil
}

// InitHandlers initializes all HTTP handlers and routes
func (a *App) InitHandlers() error {
	// Fresh ServeMux to avoid route conflicts on restart
	a.mux = http.NewServeMux()

	smsHandler := httpHandler.NewSMSHandler(a.smsService, a.messageService, a.logger)
	emailHandler := httpHandler.NewEmailHandler(a.emailService, a.messageService, a.logger)
	robocallHandler := httpHandler.NewRobocallHandler(a.voiceService, a.messageService, a.logger)
	schedulerHandler := httpHandler.NewSchedulerHandler(
		a.schedulerService,
		a.config.Scheduler.Token,
		a.rateLimiter,
		a.logger,
	)
	groupHandler := httpHandler.NewGroupHandler(a.groupService, a.logger)

	smsHandler.RegisterRoutes(a.mux)
	emailHandler.RegisterRoutes(a.mux)
	robocallHandler.RegisterRoutes(a.mux)
	schedulerHandler.RegisterRoutes(a.mux)
	groupHandler.RegisterRoutes(a.mux)

	a.mux.HandleFunc("GET /health", a.handleHealth)

	return nil
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := a.db.PingContext(r.Context()); err != nil {
		a.logger.WithField("error", err.Error()).Error("Health check failed")
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","version":%q}`, a.config.Version)
}

// Start starts the HTTP server and blocks until it stops
func (a *App) Start() error {
	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.logger.WithField("address", addr).Info("Server starting")

	a.server = &http.Server{
		Addr:         addr,
		Handler:      a.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return a.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server and releases resources
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Starting graceful shutdown")

	var shutdownErr error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			a.logger.WithField("error", err.Error()).Error("Error shutting down HTTP server")
			shutdownErr = err
		}
	}

	if a.rateLimiter != nil {
		a.rateLimiter.Stop()
	}

	if a.db != nil {
		a.logger.Info("Closing database connection")
		if err := a.db.Close(); err != nil {
			a.logger.WithField("error", err.Error()).Error("Error closing database connection")
			if shutdownErr == nil {
				shutdownErr = err
			}
		}
	}

	if shutdownErr == nil {
		a.logger.Info("Graceful shutdown completed")
	}
	return shutdownErr
}

// GetMux exposes the router for tests
func (a *App) GetMux() *http.ServeMux {
	return a.mux
}
