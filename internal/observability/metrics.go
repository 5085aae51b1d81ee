package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RealtimeEventsPublished counts realtime events by type and outcome.
	RealtimeEventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "typoteka_realtime_events_total",
		Help: "Realtime events published, by type and outcome",
	}, []string{"event_type", "outcome"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "typoteka_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// CacheLookups counts cache-aside lookups by key family and result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "typoteka_cache_lookups_total",
		Help: "Cache-aside lookups by key family and result",
	}, []string{"key", "result"})

	// APIClientRequests counts site-to-API calls by route and outcome.
	APIClientRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "typoteka_api_client_requests_total",
		Help: "Requests made by the site to the REST API",
	}, []string{"method", "outcome"})

	// CircuitBreakerState reports the API client breaker state (0 closed, 1 half-open, 2 open).
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "typoteka_circuit_breaker_state",
		Help: "Circuit breaker state: 0 closed, 1 half-open, 2 open",
	}, []string{"name"})
)
