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

	// ExamSubmissions 按结果（passed / failed）统计的提交次数
	ExamSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engageup_exam_submissions_total",
			Help: "Graded exam submissions by outcome",
		},
		[]string{"outcome"},
	)

	ProvisionedAccounts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engageup_provisioned_accounts_total",
			Help: "Accounts created by bulk provisioning",
		},
	)

	NotificationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engageup_notification_failures_total",
			Help: "Best-effort notifications that could not be delivered",
		},
		[]string{"kind"},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engageup_cache_lookups_total",
			Help: "Cache lookups by key and result",
		},
		[]string{"key", "result"},
	)
)

var registerOnce sync.Once

// Init 可重复调用，只注册一次
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			ExamSubmissions,
			ProvisionedAccounts,
			NotificationFailures,
			CacheLookups,
		)
	})
}

func ObserveSubmission(passed bool) {
	outcome := "failed"
	if passed {
		outcome = "passed"
	}
	ExamSubmissions.WithLabelValues(outcome).Inc()
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
