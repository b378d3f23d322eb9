package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/parthos/desktop/backend/internal/domain/ai"
	"github.com/parthos/desktop/backend/internal/domain/desktop"
	"github.com/parthos/desktop/backend/internal/domain/shell"
	"github.com/parthos/desktop/backend/internal/domain/vfs"
	"github.com/parthos/desktop/backend/internal/infrastructure/monitoring"
	"github.com/parthos/desktop/backend/internal/infrastructure/resilience"
	"github.com/parthos/desktop/backend/internal/shared/utils"
)

const (
	serviceName = "parthos-desktop"
	version     = "1.0.0"
)

// breakerReporter is implemented by collaborators guarded by a breaker.
type breakerReporter interface {
	BreakerState() resilience.State
}

// Handlers contains all HTTP handlers
type Handlers struct {
	desktop *desktop.Desktop
	remote  ai.Collaborator
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(d *desktop.Desktop, metrics *monitoring.Metrics, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		desktop: d,
		remote:  d.Remote(),
		metrics: metrics,
		logger:  logger,
	}
}

// Root handles the liveness check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": serviceName,
		"version": version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	aiStatus := gin.H{"configured": true}
	if _, off := h.remote.(ai.Unavailable); off {
		aiStatus["configured"] = false
	}
	if br, ok := h.remote.(breakerReporter); ok {
		aiStatus["breaker"] = br.BreakerState().String()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"windows": h.desktop.Windows().Stats(),
		"apps":    h.desktop.Catalog().Len(),
		"ai":      aiStatus,
	})
}

// windowID reads and validates the :id path parameter.
func windowID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := utils.ValidateID(id, "window_id"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return id, true
}

// bindJSON decodes the body, answering 400 on failure.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return false
	}
	return true
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, desktop.ErrNoWindow):
		return http.StatusNotFound
	case errors.Is(err, desktop.ErrWrongContent),
		errors.Is(err, ai.ErrPromptRequired),
		errors.Is(err, ai.ErrInvalidParams):
		return http.StatusBadRequest
	case errors.Is(err, ai.ErrBusy),
		errors.Is(err, shell.ErrBusy),
		errors.Is(err, shell.ErrEditing),
		errors.Is(err, shell.ErrNotEditing):
		return http.StatusConflict
	case errors.Is(err, ai.ErrClosed), errors.Is(err, shell.ErrClosed):
		return http.StatusGone
	case errors.Is(err, ai.ErrUnavailable), errors.Is(err, resilience.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	var pe *vfs.PathError
	if errors.As(err, &pe) {
		return http.StatusUnprocessableEntity
	}
	var ge *ai.GenerationError
	if errors.As(err, &ge) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// fail writes the {error, details} body used by every failing endpoint.
func fail(c *gin.Context, err error, message string) {
	c.JSON(statusFor(err), gin.H{"error": message, "details": ai.Detail(err)})
}
