package devserver

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the per-server Prometheus collectors. A private registry
// keeps test instances from colliding on registration.
type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roomserver_requests_total",
			Help: "Total number of HTTP requests handled, by endpoint and status.",
		}, []string{"endpoint", "method", "status"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roomserver_errors_total",
			Help: "Total number of requests answered with a 4xx or 5xx status.",
		}, []string{"endpoint"}),
	}
	m.registry.MustRegister(m.requests, m.errors)
	return m
}

// middleware records request and error counters per route.
func (m *metrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := c.Writer.Status()

		m.requests.WithLabelValues(endpoint, c.Request.Method, strconv.Itoa(status)).Inc()
		if status >= 400 {
			m.errors.WithLabelValues(endpoint).Inc()
		}
	}
}

// handler exposes the registry for the /metrics endpoint.
func (m *metrics) handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
