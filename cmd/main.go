package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bilgisen/spacecards/internal/api"
	"github.com/bilgisen/spacecards/internal/cache"
	"github.com/bilgisen/spacecards/internal/config"
	"github.com/bilgisen/spacecards/internal/feed"
	"github.com/bilgisen/spacecards/internal/logger"
	"github.com/bilgisen/spacecards/internal/middleware"
	"github.com/bilgisen/spacecards/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type sessionStore interface {
	session.Store
	Close() error
}

func main() {
	// Load and validate configuration
	cfg := config.Load()

	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: cfg.LogFile,
		Pretty: cfg.IsDevelopment(),
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Str("env", cfg.Env).Msg("Starting application...")

	store, err := newSessionStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.SessionBackend).Msg("Failed to initialize session store")
	}
	defer func() {
		log.Info().Msg("Closing session store...")
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing session store")
		}
	}()

	content := feed.NewService(feed.ServiceConfig{
		ArticlesBaseURL: cfg.ArticlesBaseURL,
		ContentBaseURL:  cfg.ContentBaseURL,
		Timeout:         cfg.UpstreamTimeout,
		UserAgent:       cfg.UserAgent,
		Location:        cfg.Location(),
	})

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	api.SetupRoutes(app, content, store, cfg)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func newSessionStore(cfg *config.Config) (sessionStore, error) {
	if cfg.SessionBackend == config.BackendRedis {
		return cache.NewRedisStore(cfg.RedisURL, cfg.RedisPrefix, cfg.SessionTTL)
	}
	return cache.NewMemoryStore(cfg.SessionTTL), nil
}
