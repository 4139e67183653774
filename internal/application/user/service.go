package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-files-api/internal/domain"
	"github.com/go-files-api/internal/pkg/id"
	"github.com/go-files-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

type service struct {
	repo userStore
}

func NewService(repo userStore) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		var fe *validate.FieldError
		if errors.As(err, &fe) && fe.Field == "password" {
			return nil, domain.NewFault(domain.ErrInvalidInput, "Missing password")
		}
		return nil, domain.NewFault(domain.ErrInvalidInput, "Missing email")
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, domain.NewFault(domain.ErrConflict, "Already exist")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("look up email: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		UserID:       id.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewFault(domain.ErrConflict, "Already exist")
		}
		return nil, err
	}
	return u, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}
