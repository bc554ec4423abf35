/**
 * @description
 * This is the main entry point for SubsTracker. One binary serves the HTTP
 * API and runs the embedded cron scheduler for the daily subscription check.
 * It loads configuration, wires the selected storage backend and notification
 * transport, starts the server and the scheduler, and shuts both down
 * gracefully on SIGINT/SIGTERM.
 */
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/xymn2023/SubsTracker-Docker/internal/api"
	"github.com/xymn2023/SubsTracker-Docker/internal/app"
	"github.com/xymn2023/SubsTracker-Docker/internal/config"
	"github.com/xymn2023/SubsTracker-Docker/internal/store"
	"github.com/xymn2023/SubsTracker-Docker/pkg/notify"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load .env file for local development.
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	repo, cleanup, err := newStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer cleanup()
	logger.Info("store initialized", "backend", cfg.StoreBackend)

	notifier, err := notify.New(notify.Settings{
		Type:             cfg.NotificationType,
		TelegramBotToken: cfg.TelegramBotToken,
		TelegramChatID:   cfg.TelegramChatID,
		WeComCorpID:      cfg.WeComCorpID,
		WeComCorpSecret:  cfg.WeComCorpSecret,
		WeComAgentID:     cfg.WeComAgentID,
		WeComToUser:      cfg.WeComToUser,
		NotifyXToken:     cfg.NotifyXToken,
		AMQPURL:          cfg.AMQPURL,
		AMQPExchange:     cfg.AMQPExchange,
	})
	if err != nil {
		logger.Error("failed to initialize notifier", "error", err)
		os.Exit(1)
	}
	if closer, ok := notifier.(interface{ Close() }); ok {
		defer closer.Close()
	}
	logger.Info("notifier initialized", "type", cfg.NotificationType)

	service := app.NewService(repo)
	checker := app.NewChecker(repo, notifier, logger)

	scheduler := app.NewScheduler(checker, logger, cfg.CheckSchedule)
	scheduler.Start()

	handler := api.NewHandler(service, checker, notifier, api.AuthConfig{
		Username:     cfg.AdminUsername,
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPassHash,
		JWTSecret:    []byte(cfg.JWTSecret),
		SessionTTL:   time.Duration(cfg.SessionTTLHours) * time.Hour,
	})
	router := api.NewRouter(handler, []byte(cfg.JWTSecret))

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		logger.Info("starting HTTP server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal to gracefully shut down.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}

	stopCtx := scheduler.Stop()
	<-stopCtx.Done() // Wait for any running check to finish.
	logger.Info("stopped gracefully")
}

// newStore builds the persistence backend selected by configuration.
func newStore(ctx context.Context, cfg *config.Config) (app.Repository, func(), error) {
	if cfg.StoreBackend == "postgres" {
		poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		poolCfg.MaxConnLifetime = 30 * time.Minute
		poolCfg.MaxConnIdleTime = 5 * time.Minute

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgresStore(pool), pool.Close, nil
	}

	fs, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	return fs, func() {}, nil
}
