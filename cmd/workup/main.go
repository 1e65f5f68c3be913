package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/Workup/internal/api"
	"github.com/MikeSquared-Agency/Workup/internal/cache"
	"github.com/MikeSquared-Agency/Workup/internal/catalog"
	"github.com/MikeSquared-Agency/Workup/internal/config"
	"github.com/MikeSquared-Agency/Workup/internal/hermes"
	"github.com/MikeSquared-Agency/Workup/internal/service"
	"github.com/MikeSquared-Agency/Workup/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	var logger *slog.Logger
	if cfg.Logging.Format == "text" {
		logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Risk configuration catalog
	cat, err := catalog.Load(cfg.Scoring.ConfigDir)
	if err != nil {
		logger.Error("failed to load risk configs", "error", err)
		os.Exit(1)
	}
	if _, ok := cat.Get(cfg.Scoring.DefaultVersion); !ok {
		logger.Error("default algorithm version not in catalog", "version", cfg.Scoring.DefaultVersion, "versions", cat.Versions())
		os.Exit(1)
	}
	logger.Info("risk configs loaded", "versions", cat.Versions())

	// Database
	db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	// Redis (optional)
	var resultCache cache.Cache = cache.NopCache{}
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("failed to connect to redis, running without cache", "error", err)
		} else {
			resultCache = rc
			defer rc.Close()
			logger.Info("connected to redis", "ttl", cfg.CacheTTL())
		}
	}

	svc := service.New(db, hermesClient, resultCache, cat, service.Options{
		DefaultVersion: cfg.Scoring.DefaultVersion,
		CacheTTL:       cfg.CacheTTL(),
	}, logger)

	// Evidence packs submitted over NATS
	if err := svc.SetupSubscriptions(); err != nil {
		logger.Warn("failed to subscribe to evidence submissions", "error", err)
	}

	// API server
	router := api.NewRouter(svc, cfg.Server.AdminToken, cfg.Server.RequestsPerMinute, logger)
	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:           api.NewMetricsRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}
