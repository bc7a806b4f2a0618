package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Dispatch metrics
	WebSocketConnectionsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
		[]string{"service"},
	)

	DriversOnlineGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "drivers_online_total",
			Help: "Current number of drivers accepting trip requests",
		},
		[]string{"service"},
	)

	InboundEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_inbound_events_total",
			Help: "Total number of inbound websocket events by type and outcome",
		},
		[]string{"service", "event", "outcome"},
	)

	BroadcastFanout = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dispatch_broadcast_fanout_members",
			Help:    "Number of room members a broadcast was delivered to",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
		[]string{"service", "event"},
	)

	DeliveryFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_delivery_failures_total",
			Help: "Total number of per-member delivery failures during broadcast",
		},
		[]string{"service"},
	)

	RoomsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dispatch_rooms_total",
			Help: "Current number of rooms with at least one member",
		},
		[]string{"service"},
	)
)

// RecordHTTPMetrics records counter and duration for one served HTTP request.
func RecordHTTPMetrics(service, method, path string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	HttpRequestsTotal.WithLabelValues(service, method, path, statusStr).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, statusStr).Observe(duration.Seconds())
}

// RecordInboundEvent records the outcome of one inbound websocket event.
// Outcome is one of "ok", "dropped", "unknown".
func RecordInboundEvent(service, event, outcome string) {
	InboundEventsTotal.WithLabelValues(service, event, outcome).Inc()
}
