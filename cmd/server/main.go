package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/hongminglow/user-records/internal/config"
	"github.com/hongminglow/user-records/internal/logger"
	"github.com/hongminglow/user-records/internal/server"
	"github.com/hongminglow/user-records/internal/storage"
	"github.com/hongminglow/user-records/internal/storage/memory"
	postgres "github.com/hongminglow/user-records/internal/storage/postgres"
)

type closableStore interface {
	storage.UserStore
	Close()
}

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(0).Fatal("load config", "error", err)
	}
	log := logger.New(cfg.LogLevel)
	if envErr != nil {
		log.Info("no .env file found; relying on existing environment")
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal("init storage", "driver", cfg.StorageDriver, "error", err)
	}
	defer store.Close()

	srv, err := server.New(cfg, store, log)
	if err != nil {
		log.Fatal("init server", "error", err)
	}

	go func() {
		log.Info("user records service listening", "addr", cfg.HTTPAddress(), "mount", cfg.UsersMount, "driver", cfg.StorageDriver)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error("graceful shutdown error", "error", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (closableStore, error) {
	if cfg.StorageDriver == config.DriverMemory {
		return memory.NewUserStore(), nil
	}
	store, err := postgres.NewUserStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return store, nil
}
