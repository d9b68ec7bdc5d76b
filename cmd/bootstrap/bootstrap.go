package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediconnect/config"
	deliveryHttp "mediconnect/internal/delivery/http"
	"mediconnect/internal/delivery/http/handler"
	"mediconnect/internal/delivery/http/middleware"
	domainRepo "mediconnect/internal/domain/repository"
	"mediconnect/internal/infrastructure/cache"
	"mediconnect/internal/infrastructure/database"
	"mediconnect/internal/infrastructure/llm"
	"mediconnect/internal/infrastructure/mail"
	"mediconnect/internal/infrastructure/oauth"
	"mediconnect/internal/infrastructure/storage"
	"mediconnect/internal/repository"
	"mediconnect/internal/repository/mongodb"
	"mediconnect/internal/service"
	"mediconnect/internal/usecase"
	"mediconnect/pkg/jwt"
	"mediconnect/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	MongoClient *mongo.Client
	RedisClient *redis.Client
	Server      *http.Server
	log         *logrus.Logger
}

// repositories is the entity store for the configured driver
type repositories struct {
	doctor      domainRepo.DoctorRepository
	patient     domainRepo.PatientRepository
	appointment domainRepo.AppointmentRepository
	code        domainRepo.OneTimeCodeRepository
	audit       domainRepo.AuditLogRepository
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg}

	// Setup logger
	app.log = setupLogger(cfg.Log.Level)
	app.log.Info("Configuration loaded successfully")

	// Initialize entity store
	repos, err := app.openStore()
	if err != nil {
		app.Close()
		return nil, err
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	app.log.Info("Redis connected successfully")

	// Initialize all layers
	server, err := app.initializeServer(repos)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// Migrate applies the gorm schema or the Mongo indexes for the configured driver
func Migrate() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := setupLogger(cfg.Log.Level)

	switch cfg.DB.Driver {
	case config.DriverMongo:
		client, db, err := database.NewMongoConnection(cfg.Mongo)
		if err != nil {
			return err
		}
		defer client.Disconnect(context.Background())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	default:
		db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	log.WithField("driver", cfg.DB.Driver).Info("Migration complete")
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

func (app *App) openStore() (*repositories, error) {
	cfg := app.Config

	if cfg.DB.Driver == config.DriverMongo {
		client, db, err := database.NewMongoConnection(cfg.Mongo)
		if err != nil {
			return nil, err
		}
		app.MongoClient = client
		app.log.Info("MongoDB connected successfully")

		return &repositories{
			doctor:      mongodb.NewDoctorRepository(db),
			patient:     mongodb.NewPatientRepository(db),
			appointment: mongodb.NewAppointmentRepository(db),
			code:        mongodb.NewOneTimeCodeRepository(db),
			audit:       mongodb.NewAuditLogRepository(db),
		}, nil
	}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	app.log.Info("Database connected successfully")

	return &repositories{
		doctor:      repository.NewDoctorRepository(db),
		patient:     repository.NewPatientRepository(db),
		appointment: repository.NewAppointmentRepository(db),
		code:        repository.NewOneTimeCodeRepository(db),
		audit:       repository.NewAuditLogRepository(db),
	}, nil
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(repos *repositories) (*http.Server, error) {
	cfg := app.Config
	log := app.log

	// Initialize JWT service and validator
	jwtService := jwt.NewJWTService(cfg.Session)
	customValidator := validator.NewValidator()

	// Initialize external collaborators
	fileStorage, err := storage.NewCloudinaryStorage(cfg.Cloudinary)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	mailer := mail.NewSMTPMailer(cfg.SMTP, cfg.OTP.TTL)
	identityProvider := oauth.NewGoogleProvider(cfg.Google)
	chatClient := llm.NewChatClient(cfg.LLM)

	// Initialize services
	sessionStore := service.NewSessionStore(app.RedisClient, jwtService, log)
	stateStore := service.NewOAuthStateStore(app.RedisClient)
	bookingGuard := service.NewBookingGuard(app.RedisClient, log)
	auditService := service.NewAuditService(log, repos.audit)

	// Initialize usecases
	verificationUsecase := usecase.NewVerificationUsecase(log, repos.code, repos.patient, mailer, identityProvider, stateStore, cfg.OTP.TTL)
	doctorUsecase := usecase.NewDoctorUsecase(log, repos.doctor, repos.appointment, fileStorage, auditService, usecase.UploadPolicy{
		LicenseFolder: cfg.Cloudinary.LicenseFolder,
		ProfileFolder: cfg.Cloudinary.ProfileFolder,
		MaxBytes:      cfg.Upload.MaxBytes,
	})
	adminUsecase := usecase.NewAdminUsecase(log, repos.doctor, auditService, usecase.AdminCredentials{
		Email:        cfg.Admin.Email,
		PasswordHash: cfg.Admin.PasswordHash,
	})
	appointmentUsecase := usecase.NewAppointmentUsecase(log, repos.appointment, repos.patient, repos.doctor, mailer, bookingGuard, auditService)
	symptomUsecase := usecase.NewSymptomUsecase(log, chatClient)

	// Initialize handlers
	sessions := handler.NewSessionManager(sessionStore, cfg.App.CookieSecure, log)
	adminHandler := handler.NewAdminHandler(adminUsecase, sessions, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, appointmentUsecase, sessions, customValidator, handler.UploadLimits{
		MaxBytes: cfg.Upload.MaxBytes,
		TempDir:  cfg.Upload.TempDir,
	}, log)
	patientHandler := handler.NewPatientHandler(verificationUsecase, appointmentUsecase, sessions, customValidator, cfg.App.BaseURL)
	symptomHandler := handler.NewSymptomHandler(symptomUsecase, customValidator)

	// Initialize middleware
	sessionMiddleware := middleware.NewSessionMiddleware(sessionStore, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.AllowedOrigin)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(adminHandler, doctorHandler, patientHandler, symptomHandler, sessionMiddleware, corsMiddleware, loggingMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.log.Infof("Server starting on port %s", app.Config.App.Port)
		app.log.Infof("Environment: %s, store: %s", app.Config.App.Env, app.Config.DB.Driver)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.MongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		app.MongoClient.Disconnect(ctx)
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
