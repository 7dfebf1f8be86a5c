package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"subtrackr_backend/database"
	"subtrackr_backend/internal/auth"
	"subtrackr_backend/internal/config"
	"subtrackr_backend/internal/email"
	"subtrackr_backend/internal/handlers"
	"subtrackr_backend/internal/logger"
	"subtrackr_backend/internal/middleware"
	"subtrackr_backend/internal/routes"
	"subtrackr_backend/internal/services"
	"subtrackr_backend/internal/validator"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	auth.Init(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
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
		logger.Fatal("Failed to migrate database schema", "error", err)
	}

	serviceContainer := initializeServices(cfg)

	if err := serviceContainer.AuthService.EnsureFirstAdmin(gormDB, cfg.FirstAdminEmail, cfg.FirstAdminPassword); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB, serviceContainer)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter assembles the gin engine with all middleware and routes.
// Tests call it directly against a transaction-scoped database.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, serviceContainer *services.ServiceContainer) *gin.Engine {
	appHandlers := initializeHandlers(cfg, serviceContainer)

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config) *services.ServiceContainer {
	var mailer email.Provider
	if cfg.Email.SMTPHost != "" {
		mailer = email.NewSMTPProvider(&email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
		logger.Info("SMTP email provider initialized", "host", cfg.Email.SMTPHost)
	} else {
		mailer = email.NewNoopProvider()
		logger.Warn("SMTP is not configured, outbound email is suppressed")
	}

	var oidcClient *auth.OIDCClient
	if cfg.SSO.IssuerURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := auth.NewOIDCClient(ctx, cfg.SSO.IssuerURL, cfg.SSO.ClientID, cfg.SSO.ClientSecret, cfg.SSO.RedirectURL)
		if err != nil {
			logger.Fatal("Failed to initialize OIDC client", "error", err)
		}
		oidcClient = client
		logger.Info("OIDC client initialized", "issuer", cfg.SSO.IssuerURL)
	}

	return services.NewServiceContainer(services.ContainerOptions{
		OIDCClient:       oidcClient,
		Mailer:           mailer,
		MaxUploadSize:    cfg.Upload.MaxSize,
		AllowedMimeTypes: cfg.Upload.AllowedTypes,
	})
}

func initializeHandlers(cfg *config.Config, serviceContainer *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	return handlers.NewAppHandlers(serviceContainer, customValidator, cfg.Upload.MaxSize)
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}
