package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/atis-edu/assessment-api/internal/config"
	"github.com/atis-edu/assessment-api/internal/database"
	"github.com/atis-edu/assessment-api/internal/handler"
	"github.com/atis-edu/assessment-api/internal/middleware"
	"github.com/atis-edu/assessment-api/internal/models"
	"github.com/atis-edu/assessment-api/internal/repository"
	"github.com/atis-edu/assessment-api/internal/router"
	"github.com/atis-edu/assessment-api/internal/service"
	"github.com/atis-edu/assessment-api/internal/utils"
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

	if err := db.AutoMigrate(&models.AcademicYear{}, &models.Institution{}, &models.KSQResult{}, &models.BSQResult{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, created events disabled")
		} else {
			defer natsConn.Drain()
		}
	}

	validate := utils.NewValidator()

	assessmentRepo := repository.NewAssessmentRepository(db)
	referenceRepo := repository.NewReferenceRepository(db)

	referenceService := service.NewReferenceService(referenceRepo, redisClient, cfg.ReferenceCacheTTL, logger)
	submissionService := service.NewSubmissionService(assessmentRepo, validate, natsConn, cfg.CreatedSubject, logger)
	sessionService := service.NewDraftSessionService(referenceService, submissionService, validate, cfg.DraftSessionTTL, logger)

	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	sessionService.StartSweeper(sweeperCtx)

	draftHandler := handler.NewDraftHandler(sessionService, logger)
	referenceHandler := handler.NewReferenceHandler(referenceService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		DraftHandler:     draftHandler,
		ReferenceHandler: referenceHandler,
		JWTMiddleware:    middleware.JWTProtected(cfg.JWTSecret),
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
