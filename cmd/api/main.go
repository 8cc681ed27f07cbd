package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/praxisdev/praxis-api/internal/config"
	"github.com/praxisdev/praxis-api/internal/database"
	"github.com/praxisdev/praxis-api/internal/handler"
	"github.com/praxisdev/praxis-api/internal/middleware"
	"github.com/praxisdev/praxis-api/internal/models"
	"github.com/praxisdev/praxis-api/internal/repository"
	"github.com/praxisdev/praxis-api/internal/router"
	"github.com/praxisdev/praxis-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Submission{},
		&models.Comment{},
		&models.Like{},
		&models.Mute{},
		&models.Viewer{},
		&models.Notification{},
		&models.Alert{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("no redis url configured, inbox counts will not be cached")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	submissionRepo := repository.NewSubmissionRepository(db)
	relationshipRepo := repository.NewRelationshipRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	submissionService := service.NewSubmissionService(submissionRepo, commentRepo, validate, logger)
	relationshipService := service.NewRelationshipService(relationshipRepo, submissionRepo, logger)
	inboxService := service.NewInboxService(notificationRepo, alertRepo, redisClient, cfg.InboxCacheTTL, logger)

	submissionHandler := handler.NewSubmissionHandler(submissionService, relationshipService, logger)
	inboxHandler := handler.NewInboxHandler(inboxService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		SubmissionHandler: submissionHandler,
		InboxHandler:      inboxHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
