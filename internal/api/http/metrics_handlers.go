package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/parthos/desktop/backend/internal/infrastructure/monitoring"
)

// MetricsSummary provides high-level metrics
type MetricsSummary struct {
	TotalRequests     int64   `json:"total_requests"`
	AverageLatencyMs  float64 `json:"average_latency_ms"`
	ErrorRate         float64 `json:"error_rate"`
	AIFailureRate     float64 `json:"ai_failure_rate"`
	ActiveConnections int64   `json:"active_connections"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// MetricsReport is the JSON rendition of the collected metrics.
type MetricsReport struct {
	Timestamp time.Time                  `json:"timestamp"`
	Backend   monitoring.MetricsSnapshot `json:"backend"`
	Desktop   map[string]any             `json:"desktop"`
	Summary   MetricsSummary             `json:"summary"`
}

func summarize(s monitoring.MetricsSnapshot) MetricsSummary {
	out := MetricsSummary{
		TotalRequests:     s.TotalRequests,
		AverageLatencyMs:  s.AvgLatencySeconds * 1000,
		ActiveConnections: s.ActiveConnections,
		UptimeSeconds:     s.UptimeSeconds,
	}
	if s.TotalRequests > 0 {
		out.ErrorRate = float64(s.TotalErrors) / float64(s.TotalRequests)
	}
	if s.AICalls > 0 {
		out.AIFailureRate = float64(s.AIFailures) / float64(s.AICalls)
	}
	return out
}

// GetMetricsJSON returns collected metrics as JSON
func (h *Handlers) GetMetricsJSON(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metrics disabled"})
		return
	}
	snap := h.metrics.Snapshot()
	stats := h.desktop.Windows().Stats()
	c.JSON(http.StatusOK, MetricsReport{
		Timestamp: time.Now(),
		Backend:   snap,
		Desktop: map[string]any{
			"windows":    stats,
			"apps":       h.desktop.Catalog().Len(),
			"start_menu": h.desktop.Windows().Snapshot().IsStartMenuOpen,
		},
		Summary: summarize(snap),
	})
}
