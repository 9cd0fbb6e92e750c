package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInitIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}

func TestObserveSubmission(t *testing.T) {
	before := testutil.ToFloat64(ExamSubmissions.WithLabelValues("passed"))
	ObserveSubmission(true)
	ObserveSubmission(false)
	assert.Equal(t, before+1, testutil.ToFloat64(ExamSubmissions.WithLabelValues("passed")))
}

func TestMetricsMiddlewareCountsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(RequestCounter.WithLabelValues(http.MethodGet, "/api/health", "200"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	after := testutil.ToFloat64(RequestCounter.WithLabelValues(http.MethodGet, "/api/health", "200"))

	assert.Equal(t, before+1, after)
}
