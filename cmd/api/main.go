package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-files-api/internal/application/auth"
	fileapp "github.com/go-files-api/internal/application/file"
	"github.com/go-files-api/internal/application/status"
	"github.com/go-files-api/internal/application/user"
	"github.com/go-files-api/internal/config"
	"github.com/go-files-api/internal/infrastructure/content"
	"github.com/go-files-api/internal/infrastructure/docstore"
	redisinfra "github.com/go-files-api/internal/infrastructure/redis"
	"github.com/go-files-api/internal/pkg/logger"
	"github.com/go-files-api/internal/queue"
	transporthttp "github.com/go-files-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.AppEnv)
	if envErr != nil {
		log.Info("no .env file found, reading from environment")
	}

	ctx := context.Background()

	stores, err := docstore.Open(ctx, cfg)
	if err != nil {
		log.Error("open document store", "driver", cfg.DocumentStore, "err", err)
		os.Exit(1)
	}
	// Creates tables or indexes when they don't exist yet.
	if err := stores.Bootstrap(ctx); err != nil {
		log.Warn("bootstrap document store", "err", err)
	}

	contentStore, err := content.Open(ctx, cfg)
	if err != nil {
		log.Error("open content store", "driver", cfg.StorageDriver, "err", err)
		os.Exit(1)
	}

	kv := redisinfra.NewClient(cfg)
	jobs := queue.NewClient(cfg)

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:   stores.Users,
		SessionKV:  kv,
		SessionTTL: cfg.SessionTTL,
	})
	router := transporthttp.NewRouter(cfg, &transporthttp.Services{
		Users: user.NewService(stores.Users),
		Auth:  authSvc,
		Files: fileapp.NewService(fileapp.ServiceDeps{
			FileRepo:   stores.Files,
			Content:    contentStore,
			Queue:      jobs,
			FolderPath: cfg.FolderPath,
			Logger:     log,
		}),
		Status: status.NewService(status.ServiceDeps{
			KV:       kv,
			DB:       stores,
			UserRepo: stores.Users,
			FileRepo: stores.Files,
		}),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "store", cfg.DocumentStore, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "err", err)
	}
	closeAll(shutdownCtx, log, jobs, kv, stores)
	log.Info("server stopped")
}

func closeAll(ctx context.Context, log *slog.Logger, jobs *queue.Client, kv *redisinfra.Client, stores *docstore.Stores) {
	if err := jobs.Close(); err != nil {
		log.Warn("close queue client", "err", err)
	}
	if err := kv.Close(); err != nil {
		log.Warn("close redis", "err", err)
	}
	if err := stores.Close(ctx); err != nil {
		log.Warn("close document store", "err", err)
	}
}
