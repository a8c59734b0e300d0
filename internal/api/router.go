// Package api serves the read-only entitlement API next to the health and
// metrics endpoints of the worker manager.
package api

import (
	"net/http"
	"time"

	"jobvance-workers/internal/common/logger"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Health      *HealthHandler
	Entitlement *EntitlementHandler
}

// NewRouter wires the routes. A nil metrics handler serves the default
// Prometheus registry.
func NewRouter(h *Handlers, metricsHandler http.Handler, log logger.Logger) http.Handler {
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", h.Health.Health)
	r.Get("/ready", h.Health.Ready)
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/v1/entitlements/{tier}", func(r chi.Router) {
		r.Get("/", h.Entitlement.Get)
		r.Get("/features/{feature}", h.Entitlement.Feature)
		r.Get("/rows", h.Entitlement.Rows)
	})

	return r
}

func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Debug("http request", map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"durationMs": time.Since(start).Milliseconds(),
				"requestId":  chimiddleware.GetReqID(r.Context()),
			})
		})
	}
}
