package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)

	GmailCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gmail_call_duration_seconds",
			Help:    "Gmail API call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"operation", "status"},
	)

	EmailsCategorized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_categorized_total",
			Help: "Total number of emails categorized",
		},
		[]string{"category"},
	)

	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_created_total",
			Help: "Total number of login sessions created",
		},
	)
)

// RecordGmailCall records one outbound Gmail API call.
func RecordGmailCall(operation, status string, duration time.Duration) {
	GmailCallDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// IncrementCategorized increases the per-category classification counter.
func IncrementCategorized(category string) {
	EmailsCategorized.WithLabelValues(category).Inc()
}

// GinMiddleware observes request durations per route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
