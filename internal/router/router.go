package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appLogger "github.com/FACorreiaa/go-vinebar-venice/app/logger"
	"github.com/FACorreiaa/go-vinebar-venice/internal/api/catalog"
	"github.com/FACorreiaa/go-vinebar-venice/internal/api/focus"
	"github.com/FACorreiaa/go-vinebar-venice/internal/api/quiz"
	"github.com/FACorreiaa/go-vinebar-venice/internal/api/saved"
	"github.com/FACorreiaa/go-vinebar-venice/internal/api/selector"
	"github.com/FACorreiaa/go-vinebar-venice/internal/api/share"
)

// Config contains dependencies needed for the router setup
type Config struct {
	CatalogHandler  *catalog.HandlerImpl
	SelectorHandler *selector.HandlerImpl
	QuizHandler     *quiz.HandlerImpl
	SavedHandler    *saved.HandlerImpl
	FocusHandler    *focus.HandlerImpl
	ShareHandler    *share.HandlerImpl
	Logger          *slog.Logger
	Timeout         time.Duration
}

// SetupRouter mounts the versioned API and the health check. Server-wide
// middleware is applied by New.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081", "http://localhost:19006", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", cfg.CatalogHandler.ListCategories)
			r.Get("/{categoryID}/venues", cfg.CatalogHandler.ListVenues)
			r.Get("/{categoryID}/pick", cfg.SelectorHandler.Pick)
		})

		r.Route("/venues", func(r chi.Router) {
			r.Get("/", cfg.CatalogHandler.FindVenue)
			r.Get("/{venueID}", cfg.CatalogHandler.GetVenue)
			r.Get("/{venueID}/share", cfg.ShareHandler.GetPayload)
			r.Get("/{venueID}/route", cfg.FocusHandler.Route)
		})

		r.Route("/quiz", func(r chi.Router) {
			r.Get("/", cfg.QuizHandler.GetQuiz)
			r.Post("/classify", cfg.QuizHandler.Classify)
			r.Post("/result", cfg.QuizHandler.Result)
		})

		r.Route("/saved", func(r chi.Router) {
			r.Get("/", cfg.SavedHandler.ListSaved)
			r.Get("/{venueID}", cfg.SavedHandler.GetSaved)
			r.Put("/{venueID}", cfg.SavedHandler.AddSaved)
			r.Delete("/{venueID}", cfg.SavedHandler.RemoveSaved)
			r.Post("/{venueID}/toggle", cfg.SavedHandler.ToggleSaved)
		})

		r.Route("/map", func(r chi.Router) {
			r.Post("/focus", cfg.FocusHandler.Focus)
			r.Post("/ready", cfg.FocusHandler.MapReady)
			r.Post("/enter", cfg.FocusHandler.Enter)
			r.Post("/leave", cfg.FocusHandler.Leave)
			r.Get("/region", cfg.FocusHandler.GetRegion)
			r.Put("/region", cfg.FocusHandler.SaveRegion)
			r.Post("/select/{venueID}", cfg.FocusHandler.Select)
			r.Delete("/select", cfg.FocusHandler.ClearSelection)
		})
	})

	return r
}

// New wraps SetupRouter in the server-wide middleware stack.
func New(cfg *Config) http.Handler {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5, "application/json"))
	r.Mount("/", SetupRouter(cfg))
	return r
}
