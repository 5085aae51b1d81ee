package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "typoteka_redis_errors_total",
		Help: "Total number of failed Redis commands",
	}, []string{"command"})

	// ActiveWebSockets is the number of open realtime connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "typoteka_active_websockets",
		Help: "Number of open websocket connections",
	})

	// RateLimited counts requests rejected by the Redis rate limiter.
	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "typoteka_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"resource"})
)

var (
	promMu sync.Mutex
	prom   = make(map[string]*fiberprometheus.FiberPrometheus)
)

// InitMetrics returns the request metrics collector for serviceName.
// Collectors are registered once per service name on the default registry.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promMu.Lock()
	defer promMu.Unlock()
	if p, ok := prom[serviceName]; ok {
		return p
	}
	p := fiberprometheus.New(serviceName)
	prom[serviceName] = p
	return p
}

// MetricsMiddleware records per-request Prometheus metrics.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
