package http

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/parthos/desktop/backend/internal/shared/types"
	"github.com/parthos/desktop/backend/internal/shared/utils"
)

// GetDesktop returns the shell chrome: icons, start menu, taskbar and stack.
func (h *Handlers) GetDesktop(c *gin.Context) {
	c.JSON(http.StatusOK, h.desktop.View())
}

// GetSnapshot returns the full desktop including every window's content.
// Media data URLs make this large, so it is encoded with sonic.
func (h *Handlers) GetSnapshot(c *gin.Context) {
	data, err := sonic.Marshal(h.desktop.Snapshot())
	if err != nil {
		h.logger.Error("failed to encode snapshot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode snapshot"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// ListApps lists the application catalog
func (h *Handlers) ListApps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"apps":    h.desktop.Catalog().List(),
		"desktop": h.desktop.Catalog().Desktop(),
	})
}

// OpenApp opens an app or focuses its visible window. Unknown apps are a
// no-op reported as success=false.
func (h *Handlers) OpenApp(c *gin.Context) {
	appID := c.Param("appId")
	if err := utils.ValidateID(appID, "app_id"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	win, ok := h.desktop.Windows().OpenApp(appID)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"success": false, "app_id": appID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "app_id": appID, "window": win})
}

func (h *Handlers) windowOp(c *gin.Context, op func(id string) bool) {
	id, ok := windowID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   op(id),
		"window_id": id,
		"state":     h.desktop.Windows().Snapshot(),
	})
}

// FocusWindow brings a window to the top, restoring it if minimized
func (h *Handlers) FocusWindow(c *gin.Context) {
	h.windowOp(c, h.desktop.Windows().FocusWindow)
}

// MinimizeWindow toggles a window's minimized state
func (h *Handlers) MinimizeWindow(c *gin.Context) {
	h.windowOp(c, h.desktop.Windows().ToggleMinimize)
}

// CloseWindow schedules removal after the exit animation
func (h *Handlers) CloseWindow(c *gin.Context) {
	h.windowOp(c, h.desktop.Windows().RequestClose)
}

// MoveWindow commits a window's position after a drag
func (h *Handlers) MoveWindow(c *gin.Context) {
	id, ok := windowID(c)
	if !ok {
		return
	}
	var pos types.Position
	if !bindJSON(c, &pos) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   h.desktop.Windows().UpdateWindowPosition(id, pos),
		"window_id": id,
	})
}

// GetContent returns the live state of a window's content
func (h *Handlers) GetContent(c *gin.Context) {
	id, ok := windowID(c)
	if !ok {
		return
	}
	if _, exists := h.desktop.Windows().Get(id); !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "window not found"})
		return
	}
	view, ok := h.desktop.ContentView(id)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"window_id": id, "static": true})
		return
	}
	c.JSON(http.StatusOK, view)
}

// ToggleStartMenu flips the start menu
func (h *Handlers) ToggleStartMenu(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"open": h.desktop.Windows().ToggleStartMenu()})
}

// CloseStartMenu hides the start menu
func (h *Handlers) CloseStartMenu(c *gin.Context) {
	h.desktop.Windows().CloseStartMenu()
	c.JSON(http.StatusOK, gin.H{"open": false})
}
