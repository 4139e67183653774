package handler

import (
	"net/http"

	"github.com/go-files-api/internal/application/status"
)

// AppHandler serves the liveness and counter endpoints.
type AppHandler struct {
	svc status.Service
}

func NewAppHandler(svc status.Service) *AppHandler { return &AppHandler{svc: svc} }

func (h *AppHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status(r.Context()))
}

func (h *AppHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
