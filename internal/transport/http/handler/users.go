package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-files-api/internal/application/user"
	"github.com/go-files-api/internal/domain"
	"github.com/go-files-api/internal/transport/http/middleware"
)

type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler { return &UserHandler{svc: svc} }

// Create registers a user. An unreadable body is treated as empty so the
// client gets the same "Missing email" answer as for {}.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	u, err := h.svc.Create(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, u)
}
