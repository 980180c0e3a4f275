package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brightpaws/grooming-platform/internal/blog"
	"github.com/brightpaws/grooming-platform/internal/grooming"
	httpmiddleware "github.com/brightpaws/grooming-platform/internal/http/middleware"
	"github.com/brightpaws/grooming-platform/internal/mediastore"
	"github.com/brightpaws/grooming-platform/internal/posts"
	"github.com/brightpaws/grooming-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	BookingHandler     *grooming.Handler
	BlogHandler        *blog.Handler
	PostsHandler       *posts.Handler
	MediaHandler       *mediastore.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// BookingRateLimit caps public submissions per second per IP.
	// Zero disables the limiter.
	BookingRateLimit float64
	BookingRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		if cfg.BookingRateLimit > 0 {
			public.Use(httpmiddleware.RateLimit(cfg.BookingRateLimit, cfg.BookingRateBurst))
		}
		if cfg.BookingHandler != nil {
			public.Post("/bookings", cfg.BookingHandler.CreateBooking)
		}
		if cfg.BlogHandler != nil {
			public.Get("/blog", cfg.BlogHandler.List)
		}
		if cfg.PostsHandler != nil {
			public.Get("/posts", cfg.PostsHandler.PublicList)
			public.Get("/posts/{postID}", cfg.PostsHandler.Get)
		}
	})

	// Admin endpoints
	r.Route("/admin", func(admin chi.Router) {
		if cfg.BookingHandler != nil {
			admin.Get("/bookings", cfg.BookingHandler.ListBookings)
		}
		if cfg.BlogHandler != nil {
			admin.Route("/blog", func(b chi.Router) {
				b.Get("/", cfg.BlogHandler.List)
				b.Post("/", cfg.BlogHandler.Create)
				b.Get("/{postID}", cfg.BlogHandler.Get)
				b.Put("/{postID}", cfg.BlogHandler.Update)
				b.Delete("/{postID}", cfg.BlogHandler.Delete)
			})
		}
		if cfg.PostsHandler != nil {
			admin.Route("/posts", func(p chi.Router) {
				p.Get("/", cfg.PostsHandler.List)
				p.Post("/", cfg.PostsHandler.Create)
				p.Get("/{postID}", cfg.PostsHandler.Get)
				p.Put("/{postID}", cfg.PostsHandler.Update)
				p.Delete("/{postID}", cfg.PostsHandler.Delete)
			})
		}
		if cfg.MediaHandler != nil {
			admin.Post("/uploads", cfg.MediaHandler.Upload)
			admin.Post("/uploads/presign", cfg.MediaHandler.Presign)
		}
	})

	return r
}
