package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/MariamKalashyan/combinations-api/internal/cache"
	"github.com/MariamKalashyan/combinations-api/internal/config"
	"github.com/MariamKalashyan/combinations-api/internal/database"
	"github.com/MariamKalashyan/combinations-api/internal/handlers"
	"github.com/MariamKalashyan/combinations-api/internal/middleware"
	"github.com/MariamKalashyan/combinations-api/internal/service"
	"github.com/MariamKalashyan/combinations-api/internal/store"
)

func main() {
	// Initialize logger with stdout sync
	zapConfig := zap.NewProductionConfig()
	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("combinations API starting...",
		zap.String("version", "1.0.0"),
		zap.String("environment", os.Getenv("GO_ENV")),
	)

	// Load configuration
	cfg := config.Load()

	// Apply schema migrations
	if cfg.MigrateOnStart {
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		logger.Info("migrations applied")
	}

	// Initialize database
	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize Redis. The result cache is optional; the API runs without
	// it when Redis is down.
	var (
		rdb         *database.Redis
		resultCache service.ResultCache
	)
	rdb, err = database.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to connect to redis, result cache disabled", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
		resultCache = cache.New(rdb.Client(), cfg.CacheTTL)
	}

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS())

	// Health check handlers
	healthHandler := handlers.NewHealthHandler(db, rdb)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/deep", healthHandler.DeepHealth)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Initialize service and handlers
	combinationService := service.NewCombinationService(store.NewPostgresStore(db.Pool()), resultCache, logger)
	combinationsHandler := handlers.NewCombinationsHandler(combinationService, logger)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimitMiddleware(middleware.DefaultRateLimiter))
	{
		generate := v1.Group("")
		generate.Use(middleware.RateLimitMiddleware(middleware.GenerationRateLimiter))
		generate.POST("/generate", combinationsHandler.Generate)

		v1.GET("/response/:id", combinationsHandler.GetResponse)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited gracefully")
}
