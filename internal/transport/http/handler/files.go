package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	fileapp "github.com/go-files-api/internal/application/file"
	"github.com/go-files-api/internal/domain"
	"github.com/go-files-api/internal/transport/http/middleware"
)

// FileHandler serves the /files endpoints.
type FileHandler struct {
	svc     fileapp.Service
	maxBody int64
}

// NewFileHandler caps upload bodies at maxBody bytes.
func NewFileHandler(svc fileapp.Service, maxBody int64) *FileHandler {
	return &FileHandler{svc: svc, maxBody: maxBody}
}

func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	}
	return u, ok
}

func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	var req domain.UploadFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Payload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	f, err := h.svc.Upload(r.Context(), u, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *FileHandler) Show(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	f, err := h.svc.Get(r.Context(), u.UserID, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FileHandler) Index(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		page = 0
	}
	files, err := h.svc.List(r.Context(), u.UserID, domain.ParentID(q.Get("parentId")), page)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if files == nil {
		files = []domain.File{}
	}
	writeJSON(w, http.StatusOK, files)
}

func (h *FileHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setPublic(w, r, true)
}

func (h *FileHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublic(w, r, false)
}

func (h *FileHandler) setPublic(w http.ResponseWriter, r *http.Request, public bool) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	f, err := h.svc.SetPublic(r.Context(), u.UserID, chi.URLParam(r, "id"), public)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// Data streams the original content or a thumbnail. The caller is optional.
func (h *FileHandler) Data(w http.ResponseWriter, r *http.Request) {
	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid size")
			return
		}
		size = n
	}
	requester, _ := middleware.UserFromContext(r.Context())
	c, err := h.svc.Content(r.Context(), requester, chi.URLParam(r, "id"), size)
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", c.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(c.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(c.Data)
}
