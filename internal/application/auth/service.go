package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-files-api/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SessionKeyPrefix namespaces session tokens in the key-value store.
const SessionKeyPrefix = "auth_"

// DefaultSessionTTL is how long a token stays valid after Connect.
const DefaultSessionTTL = 24 * time.Hour

// Service issues and resolves X-Token sessions.
type Service interface {
	Connect(ctx context.Context, email, password string) (string, error)
	Disconnect(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type sessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type service struct {
	users    userStore
	sessions sessionStore
	ttl      time.Duration
	newToken func() string
}

type ServiceDeps struct {
	UserRepo   userStore
	SessionKV  sessionStore
	SessionTTL time.Duration
	// NewToken overrides token generation; defaults to a random UUID.
	NewToken func() string
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		users:    deps.UserRepo,
		sessions: deps.SessionKV,
		ttl:      deps.SessionTTL,
		newToken: deps.NewToken,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultSessionTTL
	}
	if s.newToken == nil {
		s.newToken = uuid.NewString
	}
	return s
}

// SessionKey returns the key-value store key for token.
func SessionKey(token string) string { return SessionKeyPrefix + token }

func unauthorized() error { return domain.NewFault(domain.ErrUnauthorized, "Unauthorized") }

func (s *service) Connect(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", unauthorized()
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", unauthorized()
	}
	if err != nil {
		return "", fmt.Errorf("look up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", unauthorized()
	}
	token := s.newToken()
	if err := s.sessions.Set(ctx, SessionKey(token), u.UserID, s.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (s *service) Disconnect(ctx context.Context, token string) error {
	if _, err := s.Authenticate(ctx, token); err != nil {
		return err
	}
	if err := s.sessions.Del(ctx, SessionKey(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Authenticate resolves token to its user. Missing, expired or orphaned
// tokens are all ErrUnauthorized.
func (s *service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, unauthorized()
	}
	userID, err := s.sessions.Get(ctx, SessionKey(token))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, unauthorized()
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	u, err := s.users.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, unauthorized()
	}
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	return u, nil
}
