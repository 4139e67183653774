package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-files-api/internal/domain"
)

// ErrorEnvelope is the body of every non-2xx JSON response.
type ErrorEnvelope struct {
	Error string `json:"error"`
}

// TokenEnvelope wraps the GET /connect response.
type TokenEnvelope struct {
	Token string `json:"token"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorEnvelope{Error: msg})
}

// respondError maps a service error onto the HTTP taxonomy. Unknown errors
// are logged and reported as 500 without leaking details.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := errorStatus(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeError(w, status, msg)
}

func errorStatus(err error) (int, string) {
	var fault *domain.Fault
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.As(err, &fault):
		switch {
		case errors.Is(fault.Kind, domain.ErrInvalidInput),
			errors.Is(fault.Kind, domain.ErrBadRequest),
			errors.Is(fault.Kind, domain.ErrConflict),
			errors.Is(fault.Kind, domain.ErrParentNotFound),
			errors.Is(fault.Kind, domain.ErrParentNotAFolder):
			return http.StatusBadRequest, fault.Message
		}
	}
	return http.StatusInternalServerError, "Internal error"
}
