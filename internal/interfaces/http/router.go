// Package http assembles the chi route tree and the HTTP server around the
// keyword intelligence handlers.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyRank-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/KeyRank-Intelligence/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies required
// to construct the complete HTTP route tree. Nil handlers leave their routes
// unregistered; nil middleware is skipped.
type RouterConfig struct {
	KeywordHandler     *handlers.KeywordHandler
	AnalysisHandler    *handlers.AnalysisHandler
	RawFeedHandler     *handlers.RawFeedHandler
	MarketplaceHandler *handlers.MarketplaceHandler
	HealthHandler      *handlers.HealthHandler

	CORSMiddleware      *middleware.CORSMiddleware
	LoggingMiddleware   *middleware.LoggingMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware

	MetricsCollector prometheus.MetricsCollector
}

// NewRouter builds the route tree: health probes and metrics at the root,
// the API surface under /api/v1.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if cfg.CORSMiddleware != nil {
		r.Use(cfg.CORSMiddleware.Handler)
	}
	if cfg.LoggingMiddleware != nil {
		r.Use(cfg.LoggingMiddleware.Handler)
	}
	if cfg.RateLimitMiddleware != nil {
		r.Use(cfg.RateLimitMiddleware.Handler)
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.Handle("/metrics", cfg.MetricsCollector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		registerKeywordRoutes(api, cfg.KeywordHandler)
		registerAnalysisRoutes(api, cfg.AnalysisHandler)
		registerRawFeedRoutes(api, cfg.RawFeedHandler)
		registerMarketplaceRoutes(api, cfg.MarketplaceHandler)
	})

	return r
}

// registerKeywordRoutes mounts scoring, expansion and bulk endpoints under
// /keywords.
func registerKeywordRoutes(r chi.Router, h *handlers.KeywordHandler) {
	if h == nil {
		return
	}
	r.Route("/keywords", func(kr chi.Router) {
		kr.Post("/score", h.Score)
		kr.Post("/suggest", h.Suggest)
		kr.Post("/bulk", h.Bulk)
		kr.Post("/bulk/async", h.BulkAsync)
		kr.Get("/bulk/jobs/{jobID}", h.BulkJob)
	})
}

// registerAnalysisRoutes mounts competitor analysis and history endpoints.
func registerAnalysisRoutes(r chi.Router, h *handlers.AnalysisHandler) {
	if h == nil {
		return
	}
	r.Post("/competitors/analyze", h.Analyze)

	r.Route("/analyses", func(ar chi.Router) {
		ar.Get("/", h.List)
		ar.Route("/{analysisID}", func(item chi.Router) {
			item.Get("/", h.Get)
			item.Get("/export", h.Export)
		})
	})
}

// registerRawFeedRoutes mounts portal export parsing under /rawfeed.
func registerRawFeedRoutes(r chi.Router, h *handlers.RawFeedHandler) {
	if h == nil {
		return
	}
	r.Post("/rawfeed/magnet", h.Magnet)
}

// registerMarketplaceRoutes mounts the marketplace table endpoint.
func registerMarketplaceRoutes(r chi.Router, h *handlers.MarketplaceHandler) {
	if h == nil {
		return
	}
	r.Get("/marketplaces", h.List)
}
