package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/redis/go-redis/v9"

	database "github.com/FACorreiaa/go-travel-itinerary/app/db"
	appLogger "github.com/FACorreiaa/go-travel-itinerary/app/logger"
	"github.com/FACorreiaa/go-travel-itinerary/app/observability/metrics"
	"github.com/FACorreiaa/go-travel-itinerary/app/tracer"
	"github.com/FACorreiaa/go-travel-itinerary/config"
	"github.com/FACorreiaa/go-travel-itinerary/internal/api/behavior"
	generativeAI "github.com/FACorreiaa/go-travel-itinerary/internal/api/generative_ai"
	"github.com/FACorreiaa/go-travel-itinerary/internal/api/itinerary"
	"github.com/FACorreiaa/go-travel-itinerary/internal/api/itinerarycache"
	"github.com/FACorreiaa/go-travel-itinerary/internal/api/persona"
	"github.com/FACorreiaa/go-travel-itinerary/internal/api/place"
	"github.com/FACorreiaa/go-travel-itinerary/internal/api/travelctx"
	"github.com/FACorreiaa/go-travel-itinerary/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	// --- Logger Setup ---
	logger := setupLogger()
	slog.SetDefault(logger)

	// --- Application Context & Shutdown ---
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	tracer.InitTracingAndMetrics(cfg.Handlers.Prometheus.Port)
	metrics.InitAppMetrics()

	// --- Database Setup ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	// Run migrations *before* initializing the main pool
	err = database.RunMigrations(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- Cache Setup ---
	// Redis when configured, in-process cache otherwise.
	var cacheStore itinerarycache.Store
	if cfg.Repositories.Redis.Host != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Repositories.Redis.Host, cfg.Repositories.Redis.Port),
			Password: cfg.Repositories.Redis.Password,
			DB:       cfg.Repositories.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unreachable, falling back to in-memory cache", slog.Any("error", err))
			cacheStore = itinerarycache.NewMemoryStore()
		} else {
			cacheStore = itinerarycache.NewRedisStore(redisClient, logger)
		}
	} else {
		cacheStore = itinerarycache.NewMemoryStore()
	}

	// --- Generative Client ---
	modelStrategy := generativeAI.ModelStrategy{
		generativeAI.TierSimple:   cfg.Models.Simple,
		generativeAI.TierStandard: cfg.Models.Standard,
		generativeAI.TierComplex:  cfg.Models.Complex,
		generativeAI.TierPremium:  cfg.Models.Premium,
	}
	aiClient, err := generativeAI.NewAIClient(ctx, modelStrategy)
	if err != nil {
		logger.Error("Failed to initialize generative client", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Dependency Injection ---
	placeRepo := place.NewRepository(pool, logger)
	behaviorRepo := behavior.NewRepository(pool, logger)
	analyzer := persona.NewAnalyzer(logger)
	gatherer := travelctx.NewGatherer(nil, nil, logger)

	retryPolicy := itinerary.RetryPolicy{
		MaxAttempts:     uint64(cfg.Pipeline.RetryMaxAttempts),
		InitialInterval: cfg.Pipeline.RetryInitialInterval,
		MaxInterval:     cfg.Pipeline.RetryMaxInterval,
	}
	if retryPolicy.MaxAttempts == 0 {
		retryPolicy = itinerary.DefaultRetryPolicy()
	}

	orchestrator := itinerary.NewOrchestrator(aiClient, retryPolicy, logger)
	materializer := itinerary.NewMaterializer(cacheStore, cfg.Pipeline.CacheTTL, logger)
	fallbackPlanner := itinerary.NewFallbackPlanner(logger)

	itineraryService := itinerary.NewService(
		placeRepo,
		behaviorRepo,
		analyzer,
		gatherer,
		cacheStore,
		orchestrator,
		materializer,
		fallbackPlanner,
		cfg.Pipeline.GenerativeTimeout,
		logger,
	)
	itineraryHandler := itinerary.NewHandler(itineraryService, logger)

	// --- Router Setup ---
	routerConfig := &router.Config{
		ItineraryHandler: itineraryHandler,
	}
	mainRouter := router.SetupRouter(routerConfig)

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(cfg.Server.Timeout))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Mount("/", mainRouter)

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Pipeline.GenerativeTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	// --- Start Server Goroutine ---
	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	// --- Wait for Shutdown Signal ---
	<-ctx.Done()

	// --- Graceful Shutdown ---
	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" { // Default to development if not set
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		// JSON logs for production or other environments
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
