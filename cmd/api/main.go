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

	pkgvalidator "github.com/salestrainer-team/sales-trainer/pkg/validator"

	"github.com/salestrainer-team/sales-trainer/internal/adapter/handler"
	"github.com/salestrainer-team/sales-trainer/internal/adapter/repository"
	"github.com/salestrainer-team/sales-trainer/internal/infrastructure/cache"
	"github.com/salestrainer-team/sales-trainer/internal/infrastructure/database"
	"github.com/salestrainer-team/sales-trainer/internal/infrastructure/storage"
	conversationUsecase "github.com/salestrainer-team/sales-trainer/internal/usecase/conversation"
	meetingUsecase "github.com/salestrainer-team/sales-trainer/internal/usecase/meeting"
	pkgai "github.com/salestrainer-team/sales-trainer/pkg/ai"
	"github.com/salestrainer-team/sales-trainer/pkg/config"
)

// @title           Sales Trainer API
// @version         1.0
// @description     Sales training simulator: text and voice conversations with AI-impersonated company representatives

// @host      localhost:8080
// @BasePath  /v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// Request IDs for response log correlation
	e.Use(middleware.RequestID())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run AutoMigrate only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Running GORM AutoMigrate (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run AutoMigrate: %v", err)
		}
	} else {
		log.Println("🔄 Skipping GORM AutoMigrate; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize the meeting-context cache. Redis when enabled, otherwise
	// the in-memory store.
	var contextCache cache.Store
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisStore, err := cache.NewRedisStore(cfg, logger)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		contextCache = redisStore
	} else {
		log.Println("📦 Using in-memory meeting-context cache")
		contextCache = cache.NewMemoryStore()
	}

	// Initialize audio blob storage. Optional: turns keep nil audio
	// references when storage is unavailable.
	var audioStore conversationUsecase.AudioStore
	log.Println("🪣 Connecting to object storage...")
	minioClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Printf("⚠️  Object storage unavailable, turn audio will not be persisted: %v", err)
	} else {
		audioStore = minioClient
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	meetingRepo := repository.NewMeetingRepository(db)
	conversationRepo := repository.NewConversationRepository(db)

	// Initialize AI backends
	log.Println("🤖 Initializing AI backends...")
	openaiClient := pkgai.NewOpenAIClient(&cfg.OpenAI)
	elevenLabsClient := pkgai.NewElevenLabsClient(&cfg.ElevenLabs)
	assemblyClient := pkgai.NewAssemblyAIClient(&cfg.Assembly)
	if !openaiClient.IsConfigured() {
		log.Println("⚠️  Text generation not configured, personas fall back to canned replies")
	}
	if !elevenLabsClient.IsConfigured() {
		log.Println("⚠️  Speech synthesis not configured, conversations run text-only")
	}
	if !assemblyClient.IsConfigured() {
		log.Println("⚠️  Transcription not configured, voice channel is disabled")
	}

	// Initialize conversation core
	log.Println("🗣️  Initializing conversation core...")
	selector := conversationUsecase.NewSelector(
		openaiClient,
		conversationUsecase.NewRegexAddresseeExtractor(),
		cfg.Conversation.HistoryWindow,
		logger,
	)
	sessionStream := conversationUsecase.NewSessionStream(cfg.Conversation.AudioChunkBytes, logger)
	conversationService := conversationUsecase.NewService(
		meetingRepo,
		conversationRepo,
		selector,
		elevenLabsClient,
		assemblyClient,
		audioStore,
		sessionStream,
		contextCache,
		cfg.Conversation.LedgerRetryMax,
		logger,
	)

	// Initialize meeting service
	log.Println("📅 Initializing meeting service...")
	meetingService := meetingUsecase.NewService(meetingRepo, contextCache, logger)

	// Initialize handlers
	meetingHandler := handler.NewMeetingHandler(meetingService, logger)
	conversationHandler := handler.NewConversationHandler(conversationService, logger)
	liveHandler := handler.NewLiveHandler(conversationService, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, meetingHandler, conversationHandler, liveHandler)
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
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
