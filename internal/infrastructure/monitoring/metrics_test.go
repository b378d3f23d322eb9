package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsAreIsolated(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RecordWindowOp("open")
	assert.Equal(t, 1.0, testutil.ToFloat64(a.WindowOps.WithLabelValues("open")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.WindowOps.WithLabelValues("open")))
}

func TestSnapshot(t *testing.T) {
	m := NewMetrics()

	m.RecordHTTPRequest("GET", "/desktop", "200", 10*time.Millisecond, 0, 10)
	m.RecordHTTPRequest("GET", "/desktop", "404", 30*time.Millisecond, 0, 10)
	m.SetWindowsOpen(3)
	m.RecordCommand("ls", "ok")
	m.RecordAICall("chat", "error", time.Second)
	m.IncWSConnections()

	s := m.Snapshot()
	assert.Equal(t, int64(2), s.TotalRequests)
	assert.Equal(t, int64(1), s.TotalErrors)
	assert.Equal(t, int64(3), s.OpenWindows)
	assert.Equal(t, int64(1), s.Commands)
	assert.Equal(t, int64(1), s.AIFailures)
	assert.Equal(t, int64(1), s.ActiveConnections)
	assert.InDelta(t, 0.02, s.AvgLatencySeconds, 0.0001)
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	r := gin.New()
	r.Use(Middleware(m))
	r.GET("/windows/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/windows/win_1", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/windows/:id", "204")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := NewMetrics()
	m.RecordWindowOp("focus")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `desktop_window_operations_total{op="focus"} 1`)
	assert.Contains(t, w.Body.String(), "desktop_uptime_seconds")
}

func TestTimerNilMetrics(t *testing.T) {
	assert.NotPanics(t, func() { NewTimer(nil, "chat").Stop("success") })
}
