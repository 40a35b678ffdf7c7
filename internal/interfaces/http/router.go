// Package http wires the platform's REST surface: the risk-analysis
// operation, attorney and public-source record management, evidence storage,
// and the operational probes.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/prometheus"
	"github.com/lexatlas/lexatlas/internal/interfaces/http/handlers"
	"github.com/lexatlas/lexatlas/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.
type RouterConfig struct {
	AnalysisHandler *handlers.AnalysisHandler
	AttorneyHandler *handlers.AttorneyHandler
	SourceHandler   *handlers.SourceHandler
	StorageHandler  *handlers.StorageHandler
	HealthHandler   *handlers.HealthHandler

	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
}

// NewRouter constructs the complete route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.Handle("/metrics", cfg.MetricsCollector.Handler())
	}

	if cfg.StorageHandler != nil {
		r.Post("/upload/{category}", cfg.StorageHandler.Upload)
		r.Get("/files/{category}", cfg.StorageHandler.List)
		r.Get("/files/{category}/link", cfg.StorageHandler.Link)
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.AnalysisHandler != nil {
			api.Post("/risk-analysis", cfg.AnalysisHandler.Analyze)
		}
		registerAttorneyRoutes(api, cfg.AttorneyHandler)
		registerSourceRoutes(api, cfg.SourceHandler)
	})

	return r
}

// registerAttorneyRoutes mounts attorney record endpoints under /attorneys.
func registerAttorneyRoutes(r chi.Router, h *handlers.AttorneyHandler) {
	if h == nil {
		return
	}
	r.Route("/attorneys", func(ar chi.Router) {
		ar.Get("/", h.List)
		ar.Post("/", h.Create)
		ar.Post("/bulk-upload", h.BulkUpload)

		ar.Route("/{attorneyID}", func(item chi.Router) {
			item.Get("/", h.Get)
			item.Put("/", h.Update)
			item.Delete("/", h.Delete)
		})
	})
}

// registerSourceRoutes mounts public-source record endpoints under
// /public-sources.
func registerSourceRoutes(r chi.Router, h *handlers.SourceHandler) {
	if h == nil {
		return
	}
	r.Route("/public-sources", func(sr chi.Router) {
		sr.Get("/", h.List)
		sr.Post("/", h.Create)
		sr.Post("/bulk-upload", h.BulkUpload)

		sr.Route("/{sourceID}", func(item chi.Router) {
			item.Get("/", h.Get)
			item.Put("/", h.Update)
			item.Delete("/", h.Delete)
			item.Patch("/enrichment", h.Enrich)
		})
	})
}
