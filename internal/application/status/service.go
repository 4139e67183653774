package status

import (
	"context"
	"fmt"
	"time"
)

// checkTimeout bounds each liveness check; a hung backend reads as down.
const checkTimeout = 2 * time.Second

type Health struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

type Service interface {
	Status(ctx context.Context) Health
	Stats(ctx context.Context) (*Stats, error)
}

type kvChecker interface {
	IsAlive(ctx context.Context) bool
}

type dbPinger interface {
	Ping(ctx context.Context) error
}

type counter interface {
	Count(ctx context.Context) (int64, error)
}

type service struct {
	kv    kvChecker
	db    dbPinger
	users counter
	files counter
}

type ServiceDeps struct {
	KV       kvChecker
	DB       dbPinger
	UserRepo counter
	FileRepo counter
}

func NewService(deps ServiceDeps) Service {
	return &service{kv: deps.KV, db: deps.DB, users: deps.UserRepo, files: deps.FileRepo}
}

func (s *service) Status(ctx context.Context) Health {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	return Health{
		Redis: s.kv.IsAlive(ctx),
		DB:    s.db.Ping(ctx) == nil,
	}
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	files, err := s.files.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count files: %w", err)
	}
	return &Stats{Users: users, Files: files}, nil
}
