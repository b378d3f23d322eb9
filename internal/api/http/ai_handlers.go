package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/parthos/desktop/backend/internal/domain/ai"
	"github.com/parthos/desktop/backend/internal/shared/utils"
)

type chatTurn struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type chatRequest struct {
	History []chatTurn `json:"history"`
	Message string     `json:"message"`
}

func (r chatRequest) history() []ai.Message {
	out := make([]ai.Message, 0, len(r.History))
	for _, turn := range r.History {
		role := ai.RoleModel
		if turn.Sender == "user" {
			role = ai.RoleUser
		}
		out = append(out, ai.Message{Role: role, Text: turn.Text})
	}
	return out
}

// Chat streams the persona's reply as plain text fragments.
func (h *Handlers) Chat(c *gin.Context) {
	var req chatRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := utils.ValidateMessage(req.Message); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	started := false
	err := h.remote.StreamChat(c.Request.Context(), ai.ChatRequest{
		SystemInstruction: ai.SystemInstruction(),
		History:           req.history(),
		Message:           req.Message,
	}, func(fragment string) error {
		if !started {
			c.Header("Content-Type", "text/plain; charset=utf-8")
			c.Status(http.StatusOK)
			started = true
		}
		if _, err := c.Writer.WriteString(fragment); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})

	switch {
	case err != nil && !started:
		fail(c, err, "Failed to process chat message")
	case err != nil:
		// Headers are gone; the client sees a truncated body.
		h.logger.Warn("chat stream interrupted", zap.Error(err))
	case !started:
		c.Header("Content-Type", "text/plain; charset=utf-8")
		c.Status(http.StatusOK)
		c.Writer.WriteHeaderNow()
	}
}

// GenerateText returns one complete reply
func (h *Handlers) GenerateText(c *gin.Context) {
	var req struct {
		Prompt            string `json:"prompt"`
		SystemInstruction string `json:"systemInstruction"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := utils.ValidatePrompt(req.Prompt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text, err := h.remote.GenerateText(c.Request.Context(), req.Prompt, req.SystemInstruction)
	if err != nil {
		fail(c, err, "Failed to generate response from AI")
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// GenerateImage returns a data URL for one square JPEG
func (h *Handlers) GenerateImage(c *gin.Context) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := utils.ValidatePrompt(req.Prompt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := h.remote.GenerateImage(c.Request.Context(), req.Prompt)
	if err != nil {
		fail(c, err, "An error occurred during image generation.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}

// GenerateVideo starts a long-running generation and returns its handle
func (h *Handlers) GenerateVideo(c *gin.Context) {
	var req struct {
		Prompt      string `json:"prompt"`
		AspectRatio string `json:"aspectRatio"`
		Resolution  string `json:"resolution"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := utils.ValidatePrompt(req.Prompt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	op, err := h.remote.StartVideo(c.Request.Context(), req.Prompt, ai.VideoParams{
		AspectRatio: req.AspectRatio,
		Resolution:  req.Resolution,
	})
	if err != nil {
		fail(c, err, "Failed to start video generation.")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"operation": op})
}

// VideoStatus refreshes an operation and, once done, returns the video as
// a data URL.
func (h *Handlers) VideoStatus(c *gin.Context) {
	var req struct {
		Operation *ai.Operation `json:"operation"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.Operation == nil || req.Operation.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Operation data is required"})
		return
	}

	ctx := c.Request.Context()
	op, err := h.remote.VideoStatus(ctx, *req.Operation)
	if err != nil {
		fail(c, err, "Failed to get video status.")
		return
	}
	if !op.Done {
		c.JSON(http.StatusOK, gin.H{"done": false, "operation": op})
		return
	}
	if op.VideoURI == "" {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to get video status.",
			"details": "Video URI not found in completed operation.",
		})
		return
	}

	url, err := h.remote.FetchVideo(ctx, op)
	if err != nil {
		fail(c, err, "Failed to get video status.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"done": true, "videoUrl": url})
}
