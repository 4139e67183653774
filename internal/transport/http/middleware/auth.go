package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-files-api/internal/domain"
)

type contextKey string

const UserKey contextKey = "user"

// TokenHeader carries the session token issued by GET /connect.
const TokenHeader = "X-Token"

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// RequireUser rejects requests without a live session with 401.
func RequireUser(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := authn.Authenticate(r.Context(), r.Header.Get(TokenHeader))
			if errors.Is(err, domain.ErrUnauthorized) {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if err != nil {
				slog.ErrorContext(r.Context(), "authenticate", "err", err)
				writeJSONError(w, http.StatusInternalServerError, "Internal error")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserKey, u)))
		})
	}
}

// OptionalUser attaches the session user when the token resolves and lets
// anonymous requests through otherwise.
func OptionalUser(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(TokenHeader)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			u, err := authn.Authenticate(r.Context(), token)
			if err != nil && !errors.Is(err, domain.ErrUnauthorized) {
				slog.ErrorContext(r.Context(), "authenticate", "err", err)
				writeJSONError(w, http.StatusInternalServerError, "Internal error")
				return
			}
			if u != nil {
				r = r.WithContext(context.WithValue(r.Context(), UserKey, u))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext returns the user attached by RequireUser or OptionalUser.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(UserKey).(*domain.User)
	return u, ok && u != nil
}
