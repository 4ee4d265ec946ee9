/*
server.go - HTTP router and middleware configuration

MIDDLEWARE STACK:
 1. RequestID:  Unique ID per request for tracing
 2. Logger:     Request logging
 3. Recoverer:  Panic recovery (500 instead of crash)
 4. CORS:       Cross-origin requests for presentation clients
 5. Metrics:    Prometheus request counters per route pattern

SECURITY NOTE:

	No authentication middleware. All endpoints are public and read-only.
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rgehrsitz/consorcio/internal/metrics"
)

// Options configures the router
type Options struct {
	AllowedOrigins []string
	// Gatherer backs /metrics; nil uses the default Prometheus registry.
	Gatherer prometheus.Gatherer
	// Quiet drops the request logger, for tests.
	Quiet bool
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts Options) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// Middleware
	r.Use(middleware.RequestID)
	if !opts.Quiet {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(observeRequests)

	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/projections", h.Project)
		r.Post("/capital-gain", h.CapitalGain)
		r.Post("/leverage", h.Leverage)
		r.Post("/sensitivity", h.Sensitivity)
		r.Post("/compare", h.CompareVariants)
		r.Post("/optimize", h.Optimize)

		r.Route("/simulations", func(r chi.Router) {
			r.Get("/", h.ListSimulations)
			r.Get("/{name}", h.GetSimulation)
		})

		r.Get("/templates", h.ListTemplates)
	})

	return r
}

// observeRequests records every request under its route pattern
func observeRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.ObserveHTTP(route, status, time.Since(start))
	})
}
