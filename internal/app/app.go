package app

import (
	"context"
	"fmt"

	"nudge_backend/internal/billing"
	"nudge_backend/internal/config"
	"nudge_backend/internal/database"
	"nudge_backend/internal/email"
	"nudge_backend/internal/handlers"
	"nudge_backend/internal/logger"
	"nudge_backend/internal/middleware"
	"nudge_backend/internal/repositories"
	"nudge_backend/internal/routes"
	"nudge_backend/internal/services"
	"nudge_backend/internal/storage"
	"nudge_backend/internal/validator"
	"nudge_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}
	logger.Info("Migrations applied")

	ginRouter, serviceContainer := SetupRouter(cfg, gormDB)

	cleanup := workers.NewCleanupWorker(serviceContainer.InvitationService)
	cleanup.Start(context.Background())

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the full dependency graph and returns the ready
// gin engine with the service container. Everything is constructed once
// here; nothing is pulled out of the request context later.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *services.ServiceContainer) {
	store, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "base_path", cfg.Storage.BasePath)

	var mailer email.Provider
	if cfg.Email.SMTPHost != "" {
		mailer, err = email.NewSMTPProvider(cfg)
		if err != nil {
			logger.Fatal("Failed to initialize email provider", "error", err)
		}
	} else {
		logger.Warn("SMTP host not configured; emails will only be logged")
		mailer = email.NewLogProvider()
	}

	billing.InitStripe(cfg)
	gateway := billing.NewStripeGateway(cfg)

	repos := repositories.NewRepositoryContainer(gormDB)
	serviceContainer := services.NewServiceContainer(repos, mailer, store, gateway)
	appHandlers := handlers.NewAppHandlers(serviceContainer, validator.New())

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter, serviceContainer
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}
