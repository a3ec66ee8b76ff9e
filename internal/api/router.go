// Package api exposes scoring, extraction, comparison, itinerary assembly and
// trip planning over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sells-group/tripscore/internal/config"
	"github.com/sells-group/tripscore/internal/model"
	"github.com/sells-group/tripscore/internal/planner"
	"github.com/sells-group/tripscore/internal/scorer"
	"github.com/sells-group/tripscore/internal/store"
)

// DefaultMaxBodyBytes bounds a request body.
const DefaultMaxBodyBytes = 1 << 20

// Planner is the session and planning surface the handlers depend on.
type Planner interface {
	Session(ctx context.Context, userKey string) (planner.Session, error)
	UpdateWeights(ctx context.Context, userKey string, raw model.RawWeights) (planner.Session, error)
	LastItinerary(ctx context.Context, userKey string) (*store.CachedItinerary, error)
	Plan(ctx context.Context, userKey string, req planner.Request) (*planner.Result, error)
}

// Options configures the router.
type Options struct {
	AllowedOrigins   []string
	Timeout          time.Duration
	MaxBodyBytes     int64
	Scoring          scorer.Config
	Locale           string
	ActivitiesPerDay int
}

// OptionsFor builds router options from the application config.
func OptionsFor(cfg *config.Config) Options {
	return Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		Timeout:          time.Duration(cfg.Server.TimeoutSecs) * time.Second,
		Scoring:          scorer.FromConfig(cfg.Scoring),
		Locale:           cfg.Itinerary.Locale,
		ActivitiesPerDay: cfg.Itinerary.ActivitiesPerDay,
	}
}

// Server holds the handler dependencies.
type Server struct {
	planner Planner
	opts    Options
}

// NewRouter creates the API router with all routes configured.
func NewRouter(p Planner, opts Options) http.Handler {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.Scoring.OptimalCheapest == 0 && opts.Scoring.OptimalDirectWindow == 0 {
		opts.Scoring = scorer.DefaultConfig()
	}
	s := &Server{planner: p, opts: opts}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(chimiddleware.Timeout(opts.Timeout))

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/weights/{user}", func(r chi.Router) {
			r.Get("/", s.getWeights)
			r.Put("/", s.putWeights)
		})
		r.Get("/itinerary/{user}", s.lastItinerary)
		r.Post("/extract/markdown", s.extractMarkdown)
		r.Post("/score/{kind}", s.score)
		r.Post("/compare", s.compare)
		r.Post("/itinerary", s.itinerary)
		r.Post("/plan", s.plan)
	})

	return r
}
