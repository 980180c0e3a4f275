package blog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/brightpaws/grooming-platform/pkg/logging"
)

// ObjectDeleter removes stored media objects when posts drop them.
type ObjectDeleter interface {
	Delete(ctx context.Context, keys ...string) error
}

// Handler handles HTTP requests for media blog posts.
type Handler struct {
	repo   *Repository
	media  ObjectDeleter
	logger *logging.Logger
}

// NewHandler creates a new blog handler. media may be nil when no object
// storage is configured; dropped keys are then left in place.
func NewHandler(repo *Repository, media ObjectDeleter, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, media: media, logger: logger}
}

// ListPostsResponse is the response for listing posts.
type ListPostsResponse struct {
	Posts  []*Post `json:"posts"`
	Count  int     `json:"count"`
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
}

// List handles GET /blog and GET /admin/blog requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Limit: 10, Offset: 0}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 50 {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	posts, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list blog posts", "error", err)
		http.Error(w, "failed to list posts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ListPostsResponse{
		Posts:  posts,
		Count:  len(posts),
		Offset: filter.Offset,
		Limit:  filter.Limit,
	})
}

// Get handles GET /admin/blog/{postID} requests.
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

// CreatePostRequest is the body for creating a post. Images and video are
// uploaded separately; only their object keys travel here.
type CreatePostRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Tags        TagList  `json:"tags"`
	Images      []string `json:"images"`
	VideoKey    *string  `json:"video_key"`
}

// Create handles POST /admin/blog requests.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		http.Error(w, ErrMissingTitle.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.repo.Create(r.Context(), req.Title, req.Description, req.Tags, req.Images, req.VideoKey)
	if err != nil {
		h.logger.Error("failed to create blog post", "error", err)
		http.Error(w, "failed to create post", http.StatusInternalServerError)
		return
	}

	h.logger.Info("blog post created", "id", post.ID, "title", post.Title)
	writeJSON(w, http.StatusCreated, post)
}

// UpdatePostRequest is the body for updating a post. Absent fields keep their
// stored values; reset flags clear media and delete the dropped objects.
type UpdatePostRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Tags        *TagList `json:"tags"`
	Images      []string `json:"images"`
	VideoKey    *string  `json:"video_key"`
	ResetImages bool     `json:"reset_images"`
	ResetVideo  bool     `json:"reset_video"`
}

// Update handles PUT /admin/blog/{postID} requests.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	current, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.writePostError(w, err)
		return
	}

	title := current.Title
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			http.Error(w, ErrMissingTitle.Error(), http.StatusBadRequest)
			return
		}
		title = *req.Title
	}
	description := current.Description
	if req.Description != nil {
		description = req.Description
	}
	tags := current.Tags
	if req.Tags != nil {
		tags = *req.Tags
	}

	var dropped []string
	images := current.Images
	if req.ResetImages {
		dropped = append(dropped, images...)
		images = nil
	}
	images = append(images, req.Images...)

	video := current.VideoURL
	if req.ResetVideo && video != nil {
		dropped = append(dropped, *video)
		video = nil
	}
	if req.VideoKey != nil {
		if video != nil && *video != *req.VideoKey {
			dropped = append(dropped, *video)
		}
		video = req.VideoKey
	}

	post, err := h.repo.Update(r.Context(), id, title, description, tags, images, video)
	if err != nil {
		h.writePostError(w, err)
		return
	}

	h.deleteMedia(r.Context(), dropped)
	writeJSON(w, http.StatusOK, post)
}

// Delete handles DELETE /admin/blog/{postID} requests.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	post, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.writePostError(w, err)
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writePostError(w, err)
		return
	}

	dropped := post.Images
	if post.VideoURL != nil {
		dropped = append(dropped, *post.VideoURL)
	}
	h.deleteMedia(r.Context(), dropped)

	w.WriteHeader(http.StatusNoContent)
}

// deleteMedia removes dropped objects. Failures are logged, not surfaced; the
// post row is already updated and orphaned objects are harmless.
func (h *Handler) deleteMedia(ctx context.Context, keys []string) {
	if h.media == nil || len(keys) == 0 {
		return
	}
	if err := h.media.Delete(ctx, keys...); err != nil {
		h.logger.Warn("failed to delete dropped media", "error", err, "keys", keys)
	}
}

func (h *Handler) writePostError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrPostNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	h.logger.Error("blog post operation failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
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
