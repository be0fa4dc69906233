package monitoring

import (
	"strconv"
	"sync"
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

	AIRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Text-completion calls by provider, purpose and outcome",
		},
		[]string{"model", "purpose", "status"},
	)

	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "Latency of text-completion calls",
			Buckets: []float64{1, 5, 10, 20, 40, 60, 120},
		},
		[]string{"model", "purpose"},
	)

	// GenerationCounter outcome is one of: ai, parse_fallback, error_fallback.
	GenerationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assignment_generations_total",
			Help: "Assignment generations by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	SubmissionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assignment_submissions_total",
			Help: "Submission attempts by result",
		},
		[]string{"result"},
	)

	SubmissionScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assignment_submission_score",
			Help:    "Distribution of graded scores",
			Buckets: []float64{10, 25, 50, 70, 85, 95, 100},
		},
	)

	PointsAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "points_transactions_total",
			Help: "Point ledger entries by type",
		},
		[]string{"type"},
	)

	WSOnlineUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_online_users",
			Help: "Websocket connections held by this instance",
		},
	)

	WSMessageCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ws_messages_total",
			Help: "Websocket messages by type and direction",
		},
		[]string{"type", "direction"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			AIRequestCounter,
			AIRequestDuration,
			GenerationCounter,
			SubmissionCounter,
			SubmissionScore,
			PointsAwarded,
			WSOnlineUsers,
			WSMessageCounter,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
