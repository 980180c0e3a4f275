package grooming

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/brightpaws/grooming-platform/pkg/logging"
)

type ingestor interface {
	Ingest(ctx context.Context, payload Payload) (*Result, error)
}

// Handler handles HTTP requests for bookings.
type Handler struct {
	svc    ingestor
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates a new bookings handler.
func NewHandler(svc ingestor, repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, repo: repo, logger: logger}
}

// CreateBooking handles POST /bookings requests.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var payload Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Error("failed to decode booking payload", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.svc.Ingest(r.Context(), payload)
	if err != nil {
		h.logger.Error("failed to ingest booking", "error", err)
		http.Error(w, "failed to save booking", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": "Booking saved",
		"data":    result,
	})
}

// ListBookingsResponse is the response for the admin booking list.
type ListBookingsResponse struct {
	Bookings []*BookingSummary `json:"bookings"`
	Count    int               `json:"count"`
	Offset   int               `json:"offset"`
	Limit    int               `json:"limit"`
}

// ListBookings handles GET /admin/bookings requests.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Limit: 50, Offset: 0}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	bookings, err := h.repo.ListBookings(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list bookings", "error", err)
		http.Error(w, "failed to list bookings", http.StatusInternalServerError)
		return
	}

	response := ListBookingsResponse{
		Bookings: bookings,
		Count:    len(bookings),
		Offset:   filter.Offset,
		Limit:    filter.Limit,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}
