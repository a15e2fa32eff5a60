package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts requests served by the local HTTP surface.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leads",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "path", "status"})

	// HTTPDuration observes request handling time per route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "leads",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	// AirtableRequests counts outbound Airtable calls by operation and outcome.
	AirtableRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leads",
		Name:      "airtable_requests_total",
		Help:      "Airtable API requests by operation and outcome",
	}, []string{"operation", "outcome"})

	// CachedLeads tracks the size of the in-memory lead list mirror.
	CachedLeads = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "leads",
		Name:      "cached_total",
		Help:      "Number of leads currently held in the local cache",
	})

	// EditRollbacks counts optimistic edits reverted after a remote failure.
	EditRollbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "leads",
		Name:      "edit_rollbacks_total",
		Help:      "Optimistic lead edits rolled back after a failed remote update",
	})
)

// Handler exposes the default Prometheus registry.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// Middleware instruments every request with the counters above. The route
// template (not the raw path) is used as the path label to keep cardinality
// bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
