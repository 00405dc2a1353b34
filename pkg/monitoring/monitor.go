package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// SyncTotal 同步次数，result: completed / skipped / failed
	SyncTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devtrack_sync_total",
			Help: "Total number of sync passes by outcome",
		},
		[]string{"trigger", "result"},
	)

	SyncDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "devtrack_sync_duration_seconds",
			Help:    "Duration of a full sync pass",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 60},
		},
		[]string{"trigger"},
	)

	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devtrack_fetch_total",
			Help: "External platform fetches by status",
		},
		[]string{"platform", "status"},
	)

	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "devtrack_fetch_duration_seconds",
			Help:    "Duration of external platform fetches",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 12},
		},
		[]string{"platform"},
	)

	// RateLimitedTotal 被限流拒绝的请求，scope: api / sync
	RateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devtrack_rate_limited_total",
			Help: "Requests rejected by rate limiting",
		},
		[]string{"scope"},
	)

	CoachingTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devtrack_coaching_total",
			Help: "Coaching analyses by source (oracle / fallback)",
		},
		[]string{"source"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(SyncTotal)
	prometheus.MustRegister(SyncDuration)
	prometheus.MustRegister(FetchTotal)
	prometheus.MustRegister(FetchDuration)
	prometheus.MustRegister(RateLimitedTotal)
	prometheus.MustRegister(CoachingTotal)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
