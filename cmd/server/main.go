package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/cache"
	"github.com/SAP-F-2025/quiz-service/internal/config"
	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/handlers"
	"github.com/SAP-F-2025/quiz-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
	"github.com/SAP-F-2025/quiz-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := utils.NewBaseLogger(os.Stdout, cfg.IsProduction())
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	if cfg.AutoMigrate {
		if err := postgres.AutoMigrate(db); err != nil {
			return err
		}
		logger.Info("Database schema migrated")
	}

	cacheService := newCache(cfg, logger)

	eventPublisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		logger.Error("Failed to create event publisher, using mock", "error", err)
		eventPublisher = events.NewMockEventPublisher(logger)
	}
	defer func() {
		if err := eventPublisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", "error", err)
		}
	}()

	queue := services.NewNotificationQueue(logger, services.QueueConfig{
		Workers: cfg.Quiz.NotificationWorkers,
		Size:    cfg.Quiz.NotificationQueueSize,
		Timeout: cfg.Quiz.NotificationTimeout,
	})
	// Closed before the publisher so queued events still go out.
	defer queue.Close()

	repo := postgres.NewRepository(db)
	notifier := services.NewNotificationEventService(repo, eventPublisher, queue, logger, cfg.Quiz.FanoutCap)
	quizService := services.NewQuizService(db, repo, validator.New(), cacheService, notifier, logger)
	analyticsService := services.NewAnalyticsService(repo, cacheService, cfg.Quiz.AnalyticsCacheTTL, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	appLogger := utils.NewSlogLogger(logger)
	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestIDMiddleware(), utils.LoggerMiddleware(appLogger))

	handlers.NewHandlerManager(quizService, analyticsService, appLogger).
		SetupRoutes(router, cfg.Auth.NewCasdoorClient())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server is running", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newCache falls back to a no-op cache when Redis is not configured or
// unreachable; analytics are then recomputed on every request.
func newCache(cfg *config.Config, logger *slog.Logger) cache.CacheService {
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, caching disabled")
		return cache.NewNoopCache()
	}
	client, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, caching disabled", "error", err)
		return cache.NewNoopCache()
	}
	return cache.NewRedisCache(client, logger, cache.DefaultPrefix)
}
