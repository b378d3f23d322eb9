package http

import "github.com/gin-gonic/gin"

// Register mounts every desktop, terminal, panel and generation route.
// gateway runs in front of the /ai routes only.
func (h *Handlers) Register(r gin.IRouter, gateway ...gin.HandlerFunc) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	// Desktop shell
	r.GET("/desktop", h.GetDesktop)
	r.GET("/desktop/snapshot", h.GetSnapshot)
	r.GET("/apps", h.ListApps)
	r.POST("/apps/:appId/open", h.OpenApp)
	r.POST("/start-menu/toggle", h.ToggleStartMenu)
	r.POST("/start-menu/close", h.CloseStartMenu)

	// Windows
	r.POST("/windows/:id/focus", h.FocusWindow)
	r.POST("/windows/:id/minimize", h.MinimizeWindow)
	r.PUT("/windows/:id/position", h.MoveWindow)
	r.DELETE("/windows/:id", h.CloseWindow)
	r.GET("/windows/:id/content", h.GetContent)

	// Terminal
	r.GET("/windows/:id/terminal", h.GetTerminal)
	r.POST("/windows/:id/terminal/submit", h.SubmitTerminal)
	r.POST("/windows/:id/terminal/history/up", h.HistoryUp)
	r.POST("/windows/:id/terminal/history/down", h.HistoryDown)
	r.POST("/windows/:id/terminal/editor/save", h.SaveEditor)
	r.POST("/windows/:id/terminal/editor/exit", h.ExitEditor)

	// Generation panels
	r.POST("/windows/:id/chat/messages", h.PostChatMessage)
	r.POST("/windows/:id/image", h.SubmitImage)
	r.POST("/windows/:id/video", h.SubmitVideo)

	// Generation gateway
	ai := r.Group("/ai", gateway...)
	ai.POST("/chat", h.Chat)
	ai.POST("/generate-text", h.GenerateText)
	ai.POST("/generate-image", h.GenerateImage)
	ai.POST("/generate-video", h.GenerateVideo)
	ai.POST("/video-status", h.VideoStatus)

	r.POST("/logs", h.StreamLogs)
	r.GET("/metrics/json", h.GetMetricsJSON)
}
