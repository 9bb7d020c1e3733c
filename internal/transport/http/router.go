// Package httptransport assembles the public HTTP surface: claim routes,
// health and metrics.
package httptransport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	claimhandler "proofmark/internal/claim/handler"
	"proofmark/internal/transport/http/shared"
)

// HealthChecker reports whether a backing resource is reachable.
type HealthChecker func(ctx context.Context) error

// NewRouter wires all public endpoints.
func NewRouter(claims *claimhandler.Handler, checks map[string]HealthChecker) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", handleHealth(checks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	claims.Register(r)

	return r
}

func handleHealth(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
			} else {
				body[name] = "ok"
			}
		}
		shared.WriteJSON(w, status, body)
	}
}
