package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parthos/desktop/backend/internal/domain/shell"
	"github.com/parthos/desktop/backend/internal/shared/utils"
)

func (h *Handlers) terminal(c *gin.Context) (*shell.Session, bool) {
	id, ok := windowID(c)
	if !ok {
		return nil, false
	}
	term, err := h.desktop.Terminal(id)
	if err != nil {
		fail(c, err, "Terminal not available")
		return nil, false
	}
	return term, true
}

// GetTerminal returns the terminal view
func (h *Handlers) GetTerminal(c *gin.Context) {
	term, ok := h.terminal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, term.View())
}

// SubmitTerminal runs one input line. A web query holds the request until
// the answer arrives.
func (h *Handlers) SubmitTerminal(c *gin.Context) {
	term, ok := h.terminal(c)
	if !ok {
		return
	}
	var req struct {
		Input string `json:"input"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := utils.ValidateCommand(req.Input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := term.Submit(c.Request.Context(), req.Input); err != nil {
		fail(c, err, "Command rejected")
		return
	}
	c.JSON(http.StatusOK, term.View())
}

// HistoryUp recalls the previous command
func (h *Handlers) HistoryUp(c *gin.Context) {
	term, ok := h.terminal(c)
	if !ok {
		return
	}
	input, moved := term.HistoryUp()
	c.JSON(http.StatusOK, gin.H{"input": input, "moved": moved})
}

// HistoryDown recalls the next command, clearing input past the newest
func (h *Handlers) HistoryDown(c *gin.Context) {
	term, ok := h.terminal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"input": term.HistoryDown()})
}

// SaveEditor writes the nano buffer
func (h *Handlers) SaveEditor(c *gin.Context) {
	term, ok := h.terminal(c)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := utils.ValidateFileContent(req.Content); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := term.SaveEditor(req.Content); err != nil {
		fail(c, err, "Save failed")
		return
	}
	c.JSON(http.StatusOK, term.View())
}

// ExitEditor leaves nano and returns to the prompt
func (h *Handlers) ExitEditor(c *gin.Context) {
	term, ok := h.terminal(c)
	if !ok {
		return
	}
	if err := term.ExitEditor(); err != nil {
		fail(c, err, "Not editing")
		return
	}
	c.JSON(http.StatusOK, term.View())
}
