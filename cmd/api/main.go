package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brightpaws/grooming-platform/internal/api/router"
	"github.com/brightpaws/grooming-platform/internal/app/bootstrap"
	"github.com/brightpaws/grooming-platform/internal/blog"
	appconfig "github.com/brightpaws/grooming-platform/internal/config"
	"github.com/brightpaws/grooming-platform/internal/grooming"
	"github.com/brightpaws/grooming-platform/internal/mediastore"
	"github.com/brightpaws/grooming-platform/internal/observability/metrics"
	"github.com/brightpaws/grooming-platform/internal/posts"
	"github.com/brightpaws/grooming-platform/pkg/logging"
)

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting grooming-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	pool, err := bootstrap.BuildPool(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)

	registry := prometheus.DefaultRegisterer
	bookingMetrics := metrics.NewBookingMetrics(registry)
	mediaMetrics := metrics.NewMediaMetrics(registry)

	mediaStore, err := bootstrap.BuildMediaStore(ctx, cfg, logger, mediaMetrics)
	if err != nil {
		logger.Error("failed to build media store", "error", err)
		os.Exit(1)
	}
	if mediaStore == nil {
		logger.Warn("media storage disabled: no bucket configured")
	}

	// Handlers
	bookingService := grooming.NewService(pool, logger, bookingMetrics)
	bookingHandler := grooming.NewHandler(bookingService, grooming.NewRepository(pool), logger)

	var mediaDeleter blog.ObjectDeleter
	var mediaHandler *mediastore.Handler
	if mediaStore != nil {
		mediaDeleter = mediaStore
		mediaHandler = mediastore.NewHandler(mediaStore, logger)
	}
	blogHandler := blog.NewHandler(blog.NewRepository(pool), mediaDeleter, logger)

	postsCache := posts.NewCache(redisClient, cfg.PostsCacheTTL)
	postsHandler := posts.NewHandler(posts.NewRepository(pool), postsCache, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		BookingHandler:     bookingHandler,
		BlogHandler:        blogHandler,
		PostsHandler:       postsHandler,
		MediaHandler:       mediaHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		BookingRateLimit:   2,
		BookingRateBurst:   10,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
