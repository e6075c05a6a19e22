package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/ShivamSharma6214/MeetAct/pkg/validator"

	"github.com/ShivamSharma6214/MeetAct/internal/adapter/handler"
	"github.com/ShivamSharma6214/MeetAct/internal/adapter/repository"
	"github.com/ShivamSharma6214/MeetAct/internal/infrastructure/cache"
	"github.com/ShivamSharma6214/MeetAct/internal/infrastructure/database"
	"github.com/ShivamSharma6214/MeetAct/internal/infrastructure/events"
	"github.com/ShivamSharma6214/MeetAct/internal/infrastructure/external/oauth"
	"github.com/ShivamSharma6214/MeetAct/internal/infrastructure/storage"
	"github.com/ShivamSharma6214/MeetAct/internal/usecase/auth"
	meetingUsecase "github.com/ShivamSharma6214/MeetAct/internal/usecase/meeting"
	"github.com/ShivamSharma6214/MeetAct/internal/usecase/pipeline"
	"github.com/ShivamSharma6214/MeetAct/internal/usecase/reminder"
	"github.com/ShivamSharma6214/MeetAct/internal/usecase/tracker"
	pkgai "github.com/ShivamSharma6214/MeetAct/pkg/ai"
	"github.com/ShivamSharma6214/MeetAct/pkg/config"
	"github.com/ShivamSharma6214/MeetAct/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	log.Println("🔧 Initializing dependencies...")

	// Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// AutoMigrate is a development convenience; production schema is managed
	// with sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Running GORM AutoMigrate (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run AutoMigrate: %v", err)
		}
	} else {
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	// Redis
	log.Println("📦 Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Object storage
	log.Println("🪣 Connecting to object storage...")
	minioClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	// Logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Repositories
	log.Println("⚙️  Initializing repositories...")
	userRepo := repository.NewUserRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	itemRepo := repository.NewActionItemRepository(db)
	integrationRepo := repository.NewIntegrationRepository(db)
	reminderRepo := repository.NewReminderRepository(db)

	// Live event bus
	bus := events.NewBus(redisClient, logger)

	// OAuth + JWT
	log.Println("🔐 Initializing OAuth provider...")
	googleProvider := oauth.NewGoogleProvider(&cfg.OAuth)
	stateManager := oauth.NewStateManager(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)
	oauthService := auth.NewOAuthService(userRepo, googleProvider, stateManager, jwtManager)

	// Extraction pipeline
	log.Println("🤖 Initializing extraction pipeline...")
	geminiClient := pkgai.NewGeminiClient(&cfg.Gemini)
	normalizer := pipeline.NewNormalizer(minioClient, logger)
	transcriber := pipeline.NewTranscriber(geminiClient, &cfg.Gemini, logger)
	extractor := pipeline.NewExtractor(geminiClient, &cfg.Gemini, logger)
	pipelineService := pipeline.NewService(meetingRepo, itemRepo, normalizer, transcriber, extractor, bus, logger)

	// Meeting + tracker services
	meetingService := meetingUsecase.NewService(meetingRepo, itemRepo, integrationRepo, bus, logger)
	publisher := tracker.NewPublisher(integrationRepo, itemRepo, nil, logger)

	// Reminder worker
	reminderWorker := reminder.NewWorker(itemRepo, reminderRepo, 15*time.Minute, logger)
	reminderWorker.Start(context.Background())
	defer reminderWorker.Stop()

	// Handlers
	log.Println("🚀 Initializing handlers...")
	authHandler := handler.NewAuth(oauthService, logger)
	pipelineHandler := handler.NewPipelineHandler(pipelineService, logger)
	meetingHandler := handler.NewMeetingHandler(meetingService, logger)
	trackerHandler := handler.NewTrackerHandler(publisher, logger)
	eventsHandler := handler.NewEventsHandler(bus, meetingService, logger)
	storageHandler := handler.NewStorageHandler(minioClient, logger)

	// Routes
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, oauthService, authHandler, pipelineHandler, meetingHandler, trackerHandler, eventsHandler, storageHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server exited")
}
