package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lemartins07/english-assessment-service/internal/asr"
	asrgoogle "github.com/lemartins07/english-assessment-service/internal/asr/google"
	asrmock "github.com/lemartins07/english-assessment-service/internal/asr/mock"
	"github.com/lemartins07/english-assessment-service/internal/cache"
	"github.com/lemartins07/english-assessment-service/internal/config"
	"github.com/lemartins07/english-assessment-service/internal/handlers"
	"github.com/lemartins07/english-assessment-service/internal/llm"
	"github.com/lemartins07/english-assessment-service/internal/repositories"
	"github.com/lemartins07/english-assessment-service/internal/repositories/postgres"
	"github.com/lemartins07/english-assessment-service/internal/services"
	"github.com/lemartins07/english-assessment-service/internal/utils"
	"github.com/lemartins07/english-assessment-service/internal/validator"
	"github.com/lemartins07/english-assessment-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	// ===== Persistence =====

	var sessions repositories.SessionRepository
	if cfg.DatabaseURL != "" {
		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		repo := postgres.NewSessionRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			logger.Error("Failed to migrate database", "error", err)
			os.Exit(1)
		}
		sessions = repo
		logger.Info("Using PostgreSQL session repository")
	} else {
		sessions = repositories.NewMemorySessionRepository()
		logger.Info("DATABASE_URL not set, using in-memory session repository")
	}

	// ===== Blueprints =====

	blueprint := repositories.SeedPlacementBlueprint()
	v := validator.New()
	if err := v.Blueprint().ValidateBlueprint(blueprint); err != nil {
		logger.Error("Seed blueprint is invalid", "error", err)
		os.Exit(1)
	}

	var blueprints repositories.BlueprintProvider = repositories.NewStaticBlueprintProvider(blueprint)
	if redisClient, err := pkg.NewRedisClient(cfg); err != nil {
		logger.Warn("Redis unavailable, blueprint caching disabled", "error", err)
	} else {
		blueprints = cache.NewCachedBlueprintProvider(blueprints, cache.NewRedisCache(redisClient, slogger), slogger)
		logger.Info("Blueprint caching enabled")
	}

	// ===== Speech provider =====

	var rawClient asr.RawClient
	if cfg.SpeechProviderEnabled {
		client, err := asrgoogle.New(context.Background())
		if err != nil {
			logger.Error("Failed to create speech client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		rawClient = client
		logger.Info("Using Google speech provider")
	} else {
		rawClient = asrmock.New()
		logger.Warn("Speech provider disabled, using mock transcripts")
	}

	transcriber := asr.NewAdapter(rawClient, asr.Config{
		MaxDurationMs:  cfg.SpeechMaxDurationMs,
		MaxSizeBytes:   cfg.SpeechMaxSizeBytes,
		DefaultTimeout: cfg.SpeechDefaultTimeout,
	}, slogger)

	// ===== Rubric evaluation =====

	var chatClient llm.ChatClient
	if cfg.OpenAIAPIKey != "" {
		chatClient = llm.NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
		logger.Info("Using OpenAI rubric evaluator", "model", cfg.OpenAIModel)
	} else {
		chatClient = llm.NewStaticChatClient(`{"score": 70, "rationale": "Scoring provider not configured."}`)
		logger.Warn("OPENAI_API_KEY not set, rubric scores are static")
	}
	evaluator := services.NewRubricEvaluator(chatClient, slogger)

	// ===== Events =====

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	// ===== Services and HTTP =====

	assessmentService := services.NewAssessmentService(
		sessions, blueprints, transcriber, evaluator, publisher, slogger, v)
	exportService := services.NewExportService(sessions, blueprints, slogger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(assessmentService, exportService, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		logger.Info("Shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Server forced to shutdown", "error", err)
		}
	}()

	logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
