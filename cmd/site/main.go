// Command site serves the server-rendered Typoteka pages.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"typoteka/internal/apiclient"
	"typoteka/internal/cache"
	"typoteka/internal/config"
	"typoteka/internal/middleware"
	"typoteka/internal/observability"
	"typoteka/internal/site"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg, err := config.LoadConfig()
	if err == nil {
		err = cfg.ValidateSite()
	}
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	middleware.ConfigureLogger(cfg.Env, cfg.LogLevel)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "typoteka-site",
		ServiceVersion: "1.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampler,
	})
	if err != nil {
		middleware.Logger.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Sessions fall back to process memory when Redis is unavailable.
	var storage fiber.Storage
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			middleware.Logger.Warn("redis unavailable, keeping sessions in memory", slog.String("error", err.Error()))
		} else {
			storage = cache.NewSessionStorage(rdb)
		}
	}

	api := apiclient.New(cfg.APIURL, time.Duration(cfg.APITimeoutMS)*time.Millisecond, apiclient.DefaultBreakerConfig())
	s := site.New(cfg, api, storage)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		middleware.Logger.Info("shutting down site")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			middleware.Logger.Error("site shutdown error", slog.String("error", err.Error()))
		}
		if storage != nil {
			_ = storage.Close()
		}
		if err := shutdownTracing(ctx); err != nil {
			middleware.Logger.Error("tracing shutdown error", slog.String("error", err.Error()))
		}
	}()

	if err := s.Start(); err != nil {
		middleware.Logger.Error("site stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
