package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"innerai_backend/internal/config"
	"innerai_backend/internal/database"
	"innerai_backend/internal/email"
	"innerai_backend/internal/handlers"
	"innerai_backend/internal/logger"
	"innerai_backend/internal/middleware"
	"innerai_backend/internal/repositories"
	"innerai_backend/internal/routes"
	"innerai_backend/internal/services"
	"innerai_backend/internal/storage"
	"innerai_backend/internal/validator"
	"innerai_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func Run() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	logger.Init(cfg.Server.Env)
	defer logger.Sync()
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := database.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open database", "error", err)
	}
	defer database.Close(gormDB)

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	if err := database.Seed(gormDB); err != nil {
		logger.Fatal("Failed to seed database", "error", err)
	}

	storageInstance, err := storage.NewStorage(ctx, storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	mailer := newMailer(cfg)
	if err := mailer.Validate(); err != nil {
		logger.Fatal("Invalid mail configuration", "error", err)
	}

	serviceContainer := InitializeServices(cfg, storageInstance, mailer)
	ginRouter := SetupRouter(cfg, gormDB, serviceContainer)

	sweepWorker := workers.NewTokenSweepWorker(gormDB, serviceContainer.AuthService, cfg.SweepInterval())
	workerDone := sweepWorker.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server startup error", "error", err)
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	<-workerDone
	logger.Info("Server stopped")
}

// newMailer - SMTP, если настроен, иначе коды только пишутся в лог
func newMailer(cfg *config.Config) email.Provider {
	if !cfg.SMTPEnabled() {
		logger.Warn("SMTP is not configured, verification codes will be logged")
		return email.NewLogProvider()
	}
	return email.NewGomailProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}, email.NewTemplateManager())
}

func InitializeServices(cfg *config.Config, storageInstance storage.Storage, mailer email.Provider) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository()
	tokenRepo := repositories.NewAuthTokenRepository()
	codeRepo := repositories.NewVerificationCodeRepository()
	submissionRepo := repositories.NewSubmissionRepository()
	meetingRepo := repositories.NewMeetingRepository()
	optionRepo := repositories.NewOptionRepository()

	authService := services.NewAuthService(
		services.AuthConfig{
			TokenSecret:         cfg.Auth.TokenSecret,
			TokenTTL:            cfg.TokenTTL(),
			VerificationCodeTTL: cfg.VerificationCodeTTL(),
			KDFIterations:       cfg.Auth.KDFIterations,
		},
		userRepo, tokenRepo, codeRepo, mailer,
	)

	return &services.ServiceContainer{
		AuthService:       authService,
		UserService:       services.NewUserService(userRepo),
		SubmissionService: services.NewSubmissionService(userRepo, submissionRepo),
		MeetingService:    services.NewMeetingService(meetingRepo, storageInstance),
		OptionService:     services.NewOptionService(optionRepo),
		HealthService:     services.NewHealthService(cfg.Dify.URL),
	}
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:       handlers.NewAuthHandler(baseHandler, container.AuthService),
		UserHandler:       handlers.NewUserHandler(baseHandler, container.UserService, container.AuthService),
		SubmissionHandler: handlers.NewSubmissionHandler(baseHandler, container.SubmissionService),
		MeetingHandler:    handlers.NewMeetingHandler(baseHandler, container.MeetingService),
		OptionHandler:     handlers.NewOptionHandler(baseHandler, container.OptionService),
		HealthHandler:     handlers.NewHealthHandler(baseHandler, container.HealthService),
	}
}

// SetupRouter собирает gin с middleware и всеми маршрутами
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, container *services.ServiceContainer) *gin.Engine {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	ginRouter.Use(middleware.DBMiddleware(gormDB))

	routes.RegisterRoutes(
		ginRouter,
		initializeHandlers(container),
		middleware.RequireAuth(container.AuthService),
		cfg.Server.StaticDir,
	)
	return ginRouter
}
