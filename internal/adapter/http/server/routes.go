package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes - setups http routes
func (a *API) setupRoutes() {
	// System Health
	a.mux.HandleFunc("GET /health", a.routes.health.HealthCheck)

	setupMetricsRoute(a.mux)

	// WebSocket entry point for drivers and passengers
	a.mux.HandleFunc("GET /ws", a.routes.socket.HandleWebSocket)

	// Internal endpoints for the other services
	a.mux.HandleFunc("GET /internal/drivers/active", a.routes.ops.ActiveDrivers)
	a.mux.HandleFunc("GET /internal/users/{user_id}/online", a.routes.ops.UserOnline)
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
}
