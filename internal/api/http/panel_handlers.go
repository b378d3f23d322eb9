package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parthos/desktop/backend/internal/domain/ai"
	"github.com/parthos/desktop/backend/internal/shared/utils"
)

// PostChatMessage starts a chat exchange in a chat window. The reply
// streams into the panel; follow it over the window's websocket or by
// polling the content endpoint.
func (h *Handlers) PostChatMessage(c *gin.Context) {
	id, ok := windowID(c)
	if !ok {
		return
	}
	var req struct {
		Message string `json:"message"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := utils.ValidateMessage(req.Message); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	panel, err := h.desktop.Chat(id)
	if err != nil {
		fail(c, err, "Chat not available")
		return
	}
	if err := panel.Post(req.Message); err != nil {
		fail(c, err, "Message rejected")
		return
	}
	c.JSON(http.StatusAccepted, panel.View())
}

// SubmitImage starts an image generation in an image window
func (h *Handlers) SubmitImage(c *gin.Context) {
	id, ok := windowID(c)
	if !ok {
		return
	}
	var req struct {
		Prompt string `json:"prompt"`
	}
	if !bindJSON(c, &req) {
		return
	}

	panel, err := h.desktop.Image(id)
	if err != nil {
		fail(c, err, "Image generator not available")
		return
	}
	if err := panel.Submit(req.Prompt); err != nil {
		fail(c, err, "Generation rejected")
		return
	}
	c.JSON(http.StatusAccepted, panel.View())
}

// SubmitVideo starts a video generation in a video window
func (h *Handlers) SubmitVideo(c *gin.Context) {
	id, ok := windowID(c)
	if !ok {
		return
	}
	var req struct {
		Prompt      string `json:"prompt"`
		AspectRatio string `json:"aspectRatio"`
		Resolution  string `json:"resolution"`
	}
	if !bindJSON(c, &req) {
		return
	}

	panel, err := h.desktop.Video(id)
	if err != nil {
		fail(c, err, "Video generator not available")
		return
	}
	params := ai.VideoParams{AspectRatio: req.AspectRatio, Resolution: req.Resolution}
	if err := panel.Submit(req.Prompt, params); err != nil {
		fail(c, err, "Generation rejected")
		return
	}
	c.JSON(http.StatusAccepted, panel.View())
}
