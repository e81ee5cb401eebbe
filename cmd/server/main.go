package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hongminglow/care-admin/internal/config"
	"github.com/hongminglow/care-admin/internal/logging"
	"github.com/hongminglow/care-admin/internal/server"
	"github.com/hongminglow/care-admin/internal/storage"
	"github.com/hongminglow/care-admin/internal/storage/memory"
	postgres "github.com/hongminglow/care-admin/internal/storage/postgres"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Info("no .env file found; relying on existing environment")
	}

	userStore, closeStore, err := openStore(context.Background(), cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}
	defer closeStore()

	srv := server.New(cfg, userStore, logger)

	go func() {
		logger.Info("care-admin backend listening", zap.String("addr", cfg.HTTPAddress()))
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("graceful shutdown error", zap.Error(err))
	}
}

// openStore returns the in-memory store when databaseURL is "memory", Postgres otherwise.
func openStore(ctx context.Context, databaseURL string, logger *zap.Logger) (storage.UserStore, func(), error) {
	if databaseURL == "memory" {
		logger.Warn("using in-memory user store; data is lost on exit")
		store := memory.NewUserStore()
		return store, store.Close, nil
	}
	store, err := postgres.NewUserStore(ctx, databaseURL)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}
