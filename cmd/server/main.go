package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"student-feedback/internal/config"
	"student-feedback/internal/database"
	"student-feedback/internal/handlers"
	"student-feedback/internal/logger"
	"student-feedback/internal/notify"
	"student-feedback/internal/repository"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred cleanup always happens.
func run() error {
	cfg := config.Load()

	log := logger.New(cfg)
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateway, closeGateway, err := openGateway(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
		return err
	}
	defer closeGateway()

	store := repository.NewResponseStore(gateway, log.Named("store"))
	store.Initialize(ctx)

	feedbackHandler := handlers.NewFeedbackHandler(store, newNotifier(cfg, log), log.Named("http"))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(feedbackHandler, cfg.AllowedOrigin),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("graceful shutdown failed", zap.Error(err))
		}
	}()

	log.Info("feedback form starting", zap.String("port", cfg.Port), zap.String("driver", cfg.StorageDriver))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server failed", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return nil
}

func newNotifier(cfg *config.Config, log *zap.Logger) notify.Notifier {
	if cfg.EmailNotifications() {
		log.Info("emailing notifications", zap.Strings("to", cfg.NotifyEmailTo))
		return notify.NewResendNotifier(cfg.ResendAPIKey, cfg.NotifyEmailFrom, cfg.NotifyEmailTo, log)
	}
	return notify.NewLogNotifier(log)
}

func openGateway(ctx context.Context, cfg *config.Config, log *zap.Logger) (database.Gateway, func(), error) {
	noop := func() {}

	switch cfg.StorageDriver {
	case config.DriverMemory:
		log.Warn("using in-memory storage, feedback will not survive a restart")
		return database.NewMemory(), noop, nil

	case config.DriverFile:
		f, err := database.NewFile(cfg.StoragePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("storing feedback in file", zap.String("path", f.Path()))
		return f, noop, nil

	case config.DriverSQLite:
		s, err := database.NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("storing feedback in sqlite", zap.String("path", s.Path()))
		return s, func() { s.Close() }, nil

	case config.DriverMongo:
		client, db, err := database.Connect(ctx, cfg.MongoURI, cfg.DBName, log)
		if err != nil {
			return nil, nil, err
		}
		return database.NewMongo(db), func() { client.Disconnect(context.Background()) }, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
