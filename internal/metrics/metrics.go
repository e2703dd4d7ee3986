package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prepinter",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "path", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "prepinter",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "prepinter",
		Name:      "http_in_flight_requests",
		Help:      "Current number of in-flight HTTP requests",
	})

	llmFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prepinter",
		Name:      "llm_fallbacks_total",
		Help:      "Total number of LLM calls that fell back to canned output",
	}, []string{"kind"})
)

// Middleware registra metricas por request usando la ruta con parametros
// (c.FullPath) como label para acotar la cardinalidad.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		httpRequests.With(labels).Inc()
		httpLatency.With(labels).Observe(time.Since(start).Seconds())
	}
}

// RecordLLMFallback cuenta un fallback del LLM (kind: questions o feedback).
func RecordLLMFallback(kind string) {
	llmFallbacks.WithLabelValues(kind).Inc()
}

// Handler expone el endpoint estandar de Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}
