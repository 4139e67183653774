package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-files-api/internal/config"
	"github.com/go-files-api/internal/infrastructure/content"
	"github.com/go-files-api/internal/infrastructure/docstore"
	"github.com/go-files-api/internal/pkg/logger"
	"github.com/go-files-api/internal/queue"
	"github.com/go-files-api/internal/worker"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.AppEnv)

	stores, err := docstore.Open(ctx, cfg)
	if err != nil {
		log.Error("open document store", "driver", cfg.DocumentStore, "err", err)
		os.Exit(1)
	}
	defer stores.Close(context.Background())

	contentStore, err := content.Open(ctx, cfg)
	if err != nil {
		log.Error("open content store", "driver", cfg.StorageDriver, "err", err)
		os.Exit(1)
	}

	server := asynq.NewServer(queue.RedisOpt(cfg), asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
		Queues:      map[string]int{queue.ThumbnailQueue: 1},
		Logger:      logger.Asynq{L: log},
	})
	processor := worker.NewProcessor(stores.Files, contentStore, log)

	go func() {
		<-ctx.Done()
		server.Shutdown()
	}()

	log.Info("worker starting", "concurrency", cfg.WorkerConcurrency, "queue", queue.ThumbnailQueue)
	if err := server.Run(processor.Handler()); err != nil {
		log.Error("worker stopped", "err", err)
		os.Exit(1)
	}
}
