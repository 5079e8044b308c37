// Command seoscan runs the SEO audit service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/seoscan/seoscan/internal/analyzer"
	"github.com/seoscan/seoscan/internal/audit"
	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/fetcher"
	"github.com/seoscan/seoscan/internal/pagespeed"
	"github.com/seoscan/seoscan/internal/scoring"
	"github.com/seoscan/seoscan/internal/server"
	"github.com/seoscan/seoscan/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	store, err := newStore(cfg.Storage)
	if err != nil {
		logger.Error("failed to open storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	f := fetcher.New(
		fetcher.WithUserAgent(cfg.Fetcher.UserAgent),
		fetcher.WithTimeout(cfg.Fetcher.Timeout),
		fetcher.WithMaxBodySize(cfg.Fetcher.MaxBodySize),
	)
	defer f.Close()

	psClient := pagespeed.NewClient(
		pagespeed.WithBaseURL(cfg.PageSpeed.BaseURL),
		pagespeed.WithAPIKey(cfg.PageSpeed.APIKey),
		pagespeed.WithHTTPClient(&http.Client{Timeout: cfg.PageSpeed.Timeout}),
		pagespeed.WithRateLimit(cfg.PageSpeed.RequestsPerSecond),
	)

	service := audit.New(store, f, analyzer.New(), psClient, scoring.New(cfg.Scoring), logger)
	handler := server.NewHandler(service, logger)
	router := server.NewRouter(handler, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", slog.String("error", err.Error()))
	}
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func newStore(cfg config.StorageConfig) (storage.Store, error) {
	if cfg.Type == "memory" {
		return storage.NewMemoryStore(), nil
	}
	return storage.NewSQLiteStore(cfg.Path)
}
