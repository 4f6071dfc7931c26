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
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/liuwy-dev/tuimian-go-api/internal/config"
	"github.com/liuwy-dev/tuimian-go-api/internal/database"
	"github.com/liuwy-dev/tuimian-go-api/internal/handler"
	"github.com/liuwy-dev/tuimian-go-api/internal/middleware"
	"github.com/liuwy-dev/tuimian-go-api/internal/models"
	"github.com/liuwy-dev/tuimian-go-api/internal/policy"
	"github.com/liuwy-dev/tuimian-go-api/internal/repository"
	"github.com/liuwy-dev/tuimian-go-api/internal/review"
	"github.com/liuwy-dev/tuimian-go-api/internal/router"
	"github.com/liuwy-dev/tuimian-go-api/internal/service"
	"github.com/liuwy-dev/tuimian-go-api/pkg/ai"
	cloud "github.com/liuwy-dev/tuimian-go-api/pkg/cloudinary"
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
		&models.Achievement{},
		&models.ReviewDecision{},
		&models.AcademicRecord{},
		&models.Application{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, ranking snapshot cache disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSUrl != "" {
		natsConn, err = nats.Connect(cfg.NATSUrl)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
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

	validate := validator.New(validator.WithRequiredStructEnabled())

	policyValidator, err := policy.New(validate, cfg.ProgramCutoff)
	if err != nil {
		log.Fatalf("failed to compile policy schemas: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	recordRepo := repository.NewAcademicRecordRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)

	roster := review.NewRosterCache(func(ctx context.Context) ([]review.Reviewer, error) {
		reviewers, err := userRepo.ListActiveReviewers(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]review.Reviewer, 0, len(reviewers))
		for _, reviewer := range reviewers {
			out = append(out, review.Reviewer{
				ID:            reviewer.ID,
				Name:          reviewer.Name,
				StudentNumber: reviewer.StudentNumber,
			})
		}
		return out, nil
	}, cfg.ReviewerCacheTTL, logger)

	rankingService := service.NewRankingService(achievementRepo, userRepo, recordRepo, redisClient, cfg.RankingCacheTTL, logger)

	// Any status transition drops the cached leaderboard snapshot.
	events := service.CombinePublishers(
		service.NewNATSEventPublisher(natsConn, "achievement.status.changed", logger),
		service.PublisherFunc(func(service.AchievementStatusEvent) {
			rankingService.Invalidate(context.Background())
		}),
	)

	achievementService := service.NewAchievementService(achievementRepo, roster, policyValidator, validate, events, logger)
	reviewService := service.NewReviewService(achievementRepo, roster, validate, events, logger)
	eligibilityService := service.NewEligibilityService(achievementRepo, policyValidator, validate, logger)
	recordService := service.NewAcademicRecordService(recordRepo, validate, logger)
	applicationService := service.NewApplicationService(applicationRepo, validate, logger)
	uploadService := service.NewUploadService(uploader, 10, logger)

	var classifier ai.Classifier
	if cfg.AIProvider == "openai" && cfg.OpenAIAPIKey != "" {
		openaiClassifier, err := ai.NewOpenAIClassifier(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create openai classifier: %v", err)
		}
		classifier = openaiClassifier
	}
	pdfImportService := service.NewPDFImportService(classifier, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AchievementHandler:    handler.NewAchievementHandler(achievementService, logger),
		ReviewHandler:         handler.NewReviewHandler(reviewService, logger),
		EligibilityHandler:    handler.NewEligibilityHandler(eligibilityService, logger),
		AcademicRecordHandler: handler.NewAcademicRecordHandler(recordService, logger),
		ApplicationHandler:    handler.NewApplicationHandler(applicationService, logger),
		CatalogHandler:        handler.NewCatalogHandler(logger),
		RankingHandler:        handler.NewRankingHandler(rankingService, logger),
		UploadHandler:         handler.NewUploadHandler(uploadService, logger),
		PDFImportHandler:      handler.NewPDFImportHandler(pdfImportService, logger),
		JWTMiddleware:         middleware.JWTProtected(cfg.JWTSecret),
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
