package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-files-api/internal/domain"
	"github.com/go-files-api/internal/queue"
	"github.com/go-files-api/internal/thumbnail"
	"github.com/hibiken/asynq"
)

type fileLookup interface {
	GetOwned(ctx context.Context, fileID, userID string) (*domain.File, error)
}

type contentStore interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
}

// Processor is plugged into the asynq worker loop.
type Processor struct {
	files  fileLookup
	store  contentStore
	log    *slog.Logger
	widths []int
}

// NewProcessor constructs a thumbnail processor for domain.ThumbnailWidths.
func NewProcessor(files fileLookup, store contentStore, log *slog.Logger) *Processor {
	return &Processor{files: files, store: store, log: log, widths: domain.ThumbnailWidths}
}

// Handler registers the thumbnail job handler.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.ThumbnailTask, p.handleThumbnail)
	return mux
}

func (p *Processor) handleThumbnail(ctx context.Context, task *asynq.Task) error {
	var payload queue.ThumbnailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	return p.Process(ctx, payload)
}

// Process generates every thumbnail width for the file named by payload.
//
// A payload without ids is rejected without retry. A record that no longer
// exists yields domain.ErrFileNotFound. Past the lookup, each width is
// best-effort: failures are logged and the job still succeeds, and rerunning
// a job overwrites the same paths with identical bytes.
func (p *Processor) Process(ctx context.Context, payload queue.ThumbnailPayload) error {
	if payload.FileID == "" {
		return fmt.Errorf("%w: %w", domain.NewFault(domain.ErrInvalidInput, "Missing fileId"), asynq.SkipRetry)
	}
	if payload.UserID == "" {
		return fmt.Errorf("%w: %w", domain.NewFault(domain.ErrInvalidInput, "Missing userId"), asynq.SkipRetry)
	}
	log := p.log.With("fileId", payload.FileID, "userId", payload.UserID)

	f, err := p.files.GetOwned(ctx, payload.FileID, payload.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("file %s: %w", payload.FileID, domain.ErrFileNotFound)
	}
	if err != nil {
		return fmt.Errorf("look up file %s: %w", payload.FileID, err)
	}
	if f.IsFolder() || f.LocalPath == "" {
		log.Info("file has no content, skipping thumbnails")
		return nil
	}

	data, err := p.store.Read(ctx, f.LocalPath)
	if err != nil {
		log.Warn("could not read file content", "err", err)
		return nil
	}
	src, err := thumbnail.Decode(data)
	if errors.Is(err, thumbnail.ErrSourceTooLarge) {
		log.Warn("image too large for thumbnails, skipping", "err", err)
		return nil
	}
	if err != nil {
		log.Info("content is not a decodable image", "err", err)
		return nil
	}

	written := 0
	for _, w := range p.widths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.generate(ctx, src, f.LocalPath, w); err != nil {
			log.Error("thumbnail generation failed", "width", w, "err", err)
			continue
		}
		written++
	}
	log.Info("thumbnails generated", "written", written, "requested", len(p.widths))
	return nil
}

func (p *Processor) generate(ctx context.Context, src *thumbnail.Source, localPath string, width int) error {
	out, err := src.Resize(width)
	if err != nil {
		return err
	}
	return p.store.Write(ctx, domain.ThumbnailPath(localPath, width), out)
}
