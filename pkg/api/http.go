package api

import (
	"net/http"

	"github.com/cuemby/bistro/pkg/metrics"
)

// NewHealthMux builds the minimal net/http surface spec §6 keeps: a
// liveness probe plus Prometheus metrics. Adapted from the teacher's
// HealthServer, keeping only the mux (there is no Start method) and with
// the gRPC-specific readiness checks replaced by metrics.HealthChecker. The caller owns the
// http.Server so it can shut it down gracefully on signal.
func NewHealthMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/health", metrics.HealthHandler())
	mux.Handle("/ready", metrics.ReadyHandler())
	mux.Handle("/healthz", metrics.LivenessHandler())
	mux.Handle("/metrics", metrics.Handler())
	return mux
}
