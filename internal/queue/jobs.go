package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-files-api/internal/config"
	"github.com/hibiken/asynq"
)

const (
	// ThumbnailTask is scheduled each time a file with content is uploaded.
	ThumbnailTask = "file:thumbnail"

	// ThumbnailQueue is the asynq queue thumbnail jobs run on.
	ThumbnailQueue = "thumbnails"
)

// ThumbnailPayload identifies the file whose thumbnails should be generated.
type ThumbnailPayload struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}

// NewThumbnailTask builds the asynq task for payload.
func NewThumbnailTask(payload ThumbnailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(ThumbnailTask, data, asynq.Queue(ThumbnailQueue)), nil
}

// RedisOpt returns the asynq connection settings for cfg.
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// Client enqueues jobs. Retries follow the asynq defaults.
type Client struct {
	client *asynq.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{client: asynq.NewClient(RedisOpt(cfg))}
}

// EnqueueThumbnail returns once the job is durably accepted by the broker.
func (c *Client) EnqueueThumbnail(ctx context.Context, payload ThumbnailPayload) error {
	task, err := NewThumbnailTask(payload)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue thumbnail task: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
