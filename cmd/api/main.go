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
	"github.com/rs/zerolog"

	"github.com/noah-isme/capstone-go-api/internal/config"
	"github.com/noah-isme/capstone-go-api/internal/database"
	"github.com/noah-isme/capstone-go-api/internal/handler"
	"github.com/noah-isme/capstone-go-api/internal/lifecycle"
	"github.com/noah-isme/capstone-go-api/internal/middleware"
	"github.com/noah-isme/capstone-go-api/internal/models"
	"github.com/noah-isme/capstone-go-api/internal/repository"
	"github.com/noah-isme/capstone-go-api/internal/router"
	"github.com/noah-isme/capstone-go-api/internal/service"
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

	if err := db.AutoMigrate(&models.Grade{}, &models.Team{}, &models.TeamMember{}, &models.Task{}, &models.TaskSubmission{}, &models.Report{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSUrl)
	if err != nil {
		logger.Warn().Err(err).Msg("running without nats event fan-out")
		natsConn = nil
	} else {
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	clock := lifecycle.SystemClock{}

	taskRepo := repository.NewTaskRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	reportRepo := repository.NewReportRepository(db)

	events := service.NewSubmissionEventPublisher(redisClient, natsConn, cfg.EventChannel, logger)

	taskService := service.NewTaskService(taskRepo, submissionRepo, teamRepo, clock, logger)
	submissionService := service.NewSubmissionService(submissionRepo, taskRepo, validate, clock, events, logger)
	teamStatsService := service.NewTeamStatsService(taskRepo, submissionRepo, teamRepo, redisClient, cfg.TaskGridTTL, clock, logger)
	reportService := service.NewReportService(reportRepo, validate, clock, logger)

	taskHandler := handler.NewTaskHandler(taskService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	teamStatsHandler := handler.NewTeamStatsHandler(teamStatsService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		TaskHandler:       taskHandler,
		SubmissionHandler: submissionHandler,
		TeamStatsHandler:  teamStatsHandler,
		ReportHandler:     reportHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
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
