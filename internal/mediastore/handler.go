package mediastore

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/brightpaws/grooming-platform/pkg/logging"
)

// Handler handles HTTP requests for media uploads.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a new media handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// Upload handles POST /admin/uploads: a multipart form with one "file" field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")
	_, url, err := h.store.UploadImage(r.Context(), header.Filename, contentType, file, header.Size)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"location": url})
}

// PresignRequest is the body for POST /admin/uploads/presign.
type PresignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// Presign handles POST /admin/uploads/presign for direct video uploads.
func (h *Handler) Presign(w http.ResponseWriter, r *http.Request) {
	var req PresignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Filename) == "" || strings.TrimSpace(req.ContentType) == "" {
		http.Error(w, "filename and contentType are required", http.StatusBadRequest)
		return
	}

	url, key, err := h.store.PresignVideoUpload(r.Context(), req.Filename, req.ContentType)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"url": url,
		"key": key,
	})
}

func (h *Handler) writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnsupportedType):
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
	case errors.Is(err, ErrTooLarge):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, ErrNotConfigured):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		h.logger.Error("upload failed", "error", err)
		http.Error(w, "upload failed", http.StatusInternalServerError)
	}
}
