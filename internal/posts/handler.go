package posts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/brightpaws/grooming-platform/pkg/logging"
)

// Handler handles HTTP requests for text blog posts.
type Handler struct {
	repo   *Repository
	cache  *Cache
	logger *logging.Logger
}

// NewHandler creates a new posts handler. cache may be nil.
func NewHandler(repo *Repository, cache *Cache, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, cache: cache, logger: logger}
}

// ListPostsResponse is the response for listing posts.
type ListPostsResponse struct {
	Posts []*Post `json:"posts"`
	Count int     `json:"count"`
}

// PublicList handles GET /posts requests, served from cache when possible.
func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.cache.Get(r.Context()); ok {
		writeJSON(w, http.StatusOK, ListPostsResponse{Posts: cached, Count: len(cached)})
		return
	}

	posts, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list posts", "error", err)
		http.Error(w, "failed to list posts", http.StatusInternalServerError)
		return
	}
	if err := h.cache.Set(r.Context(), posts); err != nil {
		h.logger.Warn("failed to cache post listing", "error", err)
	}
	writeJSON(w, http.StatusOK, ListPostsResponse{Posts: posts, Count: len(posts)})
}

// List handles GET /admin/posts requests, always hitting the database.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list posts", "error", err)
		http.Error(w, "failed to list posts", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ListPostsResponse{Posts: posts, Count: len(posts)})
}

// Get handles GET /posts/{postID} and GET /admin/posts/{postID} requests.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	post, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.writePostError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// PostRequest is the body for creating or updating a post. Tags arrive as a
// comma-separated string.
type PostRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Tags        string  `json:"tags"`
}

// Create handles POST /admin/posts requests.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePostRequest(w, r)
	if !ok {
		return
	}

	post, err := h.repo.Create(r.Context(), req.Title, req.Description, parseTags(req.Tags))
	if err != nil {
		h.logger.Error("failed to create post", "error", err)
		http.Error(w, "failed to create post", http.StatusInternalServerError)
		return
	}

	h.invalidate(r)
	h.logger.Info("post created", "id", post.ID, "title", post.Title)
	writeJSON(w, http.StatusCreated, post)
}

// Update handles PUT /admin/posts/{postID} requests.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	req, ok := decodePostRequest(w, r)
	if !ok {
		return
	}

	post, err := h.repo.Update(r.Context(), id, req.Title, req.Description, parseTags(req.Tags))
	if err != nil {
		h.writePostError(w, err)
		return
	}

	h.invalidate(r)
	writeJSON(w, http.StatusOK, post)
}

// Delete handles DELETE /admin/posts/{postID} requests.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writePostError(w, err)
		return
	}
	h.invalidate(r)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) invalidate(r *http.Request) {
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Warn("failed to invalidate post cache", "error", err)
	}
}

func (h *Handler) writePostError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrPostNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	h.logger.Error("post operation failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func decodePostRequest(w http.ResponseWriter, r *http.Request) (*PostRequest, bool) {
	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	if strings.TrimSpace(req.Title) == "" {
		http.Error(w, ErrMissingTitle.Error(), http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}

func postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
