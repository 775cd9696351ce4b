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

	"github.com/codoraai/hackeval-api/internal/config"
	"github.com/codoraai/hackeval-api/internal/database"
	"github.com/codoraai/hackeval-api/internal/handler"
	"github.com/codoraai/hackeval-api/internal/middleware"
	"github.com/codoraai/hackeval-api/internal/models"
	"github.com/codoraai/hackeval-api/internal/queue"
	"github.com/codoraai/hackeval-api/internal/repository"
	"github.com/codoraai/hackeval-api/internal/router"
	"github.com/codoraai/hackeval-api/internal/service"
	cloud "github.com/codoraai/hackeval-api/pkg/cloudinary"
	"github.com/codoraai/hackeval-api/pkg/evaluator"
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
		&models.Team{},
		&models.TeamMember{},
		&models.Submission{},
		&models.Judge{},
		&models.JudgeEvaluation{},
		&models.RoundState{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, leaderboard caching disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, submission events disabled")
			natsConn = nil
		} else {
			defer natsConn.Close()
		}
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	evaluatorClient, err := evaluator.New(evaluator.Config{
		URL:             cfg.EvaluatorURL,
		CallbackURL:     cfg.EvaluatorCallbackURL,
		WebhookSecret:   cfg.WebhookSecret,
		DispatchTimeout: cfg.EvaluatorDispatchTimeout,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create evaluator client: %v", err)
	}

	coordinator := queue.New(queue.Config{
		MaxConcurrency: cfg.QueueMaxConcurrency,
		MaxRetries:     cfg.QueueMaxRetries,
		BaseDelay:      cfg.QueueBaseDelay,
	}, logger)

	teamRepo := repository.NewTeamRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	judgeRepo := repository.NewJudgeRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	roundRepo := repository.NewRoundStateRepository(db)

	events := service.NewEventPublisher(natsConn, cfg.NATSSubject, logger)
	mail := service.NewLogMailDelivery(logger)

	submissionService := service.NewSubmissionService(
		teamRepo, submissionRepo, uploader, evaluatorClient, coordinator, events,
		cfg.EvaluatorMode, cfg.WebhookSecret, cfg.MaxUploadMB, logger,
	)
	teamService := service.NewTeamService(teamRepo, mail, cfg.JWTSecret, logger)
	judgeService := service.NewJudgeService(judgeRepo, evaluationRepo, teamRepo, cfg.JWTSecret, logger)
	leaderboardService := service.NewLeaderboardService(teamRepo, evaluationRepo, redisClient, cfg.LeaderboardCacheTTL, logger)
	roundService := service.NewRoundService(roundRepo, logger)
	importService := service.NewImportService(teamRepo, logger)

	sweeper := service.NewResendSweeper(
		teamRepo, submissionRepo, coordinator, submissionService,
		cfg.SweepInterval, cfg.SweepProcessingMax, logger,
	)
	sweeper.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		TeamHandler:        handler.NewTeamHandler(teamService, logger),
		SubmissionHandler:  handler.NewSubmissionHandler(submissionService, logger),
		WebhookHandler:     handler.NewWebhookHandler(submissionService, logger),
		JudgeHandler:       handler.NewJudgeHandler(judgeService, leaderboardService, logger),
		LeaderboardHandler: handler.NewLeaderboardHandler(leaderboardService, logger),
		RoundHandler:       handler.NewRoundHandler(roundService, logger),
		AdminHandler:       handler.NewAdminHandler(importService, teamService, logger),
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
		TeamGuard:          middleware.RequireRole("team"),
		JudgeGuard:         middleware.RequireRole("judge"),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, sweeper, coordinator)
}

func waitForShutdown(app *fiber.App, sweeper *service.ResendSweeper, coordinator *queue.Coordinator) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	sweeper.Stop()
	coordinator.Stop()

	log.Println("server stopped")
}
