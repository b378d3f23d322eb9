package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/parthos/desktop/backend/internal/domain/ai"
	"github.com/parthos/desktop/backend/internal/domain/desktop"
	"github.com/parthos/desktop/backend/internal/infrastructure/logging"
	"github.com/parthos/desktop/backend/internal/infrastructure/monitoring"
	"github.com/parthos/desktop/backend/internal/shared/types"
	"github.com/parthos/desktop/backend/internal/shared/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 * 1024
	outboxSize     = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is enforced on the HTTP routes
	},
}

// clientMessage is every frame a client may send.
type clientMessage struct {
	Type     string          `json:"type"`
	AppID    string          `json:"appId,omitempty"`
	WindowID string          `json:"windowId,omitempty"`
	Position *types.Position `json:"position,omitempty"`
	Text     string          `json:"text,omitempty"`
}

// Handler manages WebSocket connections
type Handler struct {
	desktop *desktop.Desktop
	hub     *Hub
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(d *desktop.Desktop, hub *Hub, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		desktop: d,
		hub:     hub,
		metrics: metrics,
		logger:  logger,
	}
}

// Register mounts the desktop stream and the per-window chat socket.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/ws", h.HandleDesktop)
	r.GET("/windows/:id/chat", h.HandleChat)
}

// HandleDesktop streams cues, state changes and content updates, and accepts
// window operations from the client.
func (h *Handler) HandleDesktop(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	events, cancel := h.hub.Subscribe(nil)
	cl := h.open(conn)
	defer h.finish(cl, cancel)

	cl.send(gin.H{"type": "system", "message": "Connected to ParthOS desktop"})
	cl.send(gin.H{"type": "snapshot", "snapshot": h.desktop.Snapshot()})
	go cl.writePump(events, h.desktopFrame)

	cl.readPump(func(msg clientMessage) {
		switch msg.Type {
		case "ping":
			cl.send(gin.H{"type": "pong"})
		case "open":
			win, ok := h.desktop.Windows().OpenApp(msg.AppID)
			cl.send(gin.H{"type": "ack", "op": msg.Type, "success": ok, "windowId": win.ID})
		case "focus":
			h.ack(cl, msg, h.desktop.Windows().FocusWindow)
		case "minimize":
			h.ack(cl, msg, h.desktop.Windows().ToggleMinimize)
		case "close":
			h.ack(cl, msg, h.desktop.Windows().RequestClose)
		case "move":
			if msg.Position == nil {
				cl.sendError("position is required")
				return
			}
			pos := *msg.Position
			h.ack(cl, msg, func(id string) bool {
				return h.desktop.Windows().UpdateWindowPosition(id, pos)
			})
		case "start_menu":
			cl.send(gin.H{"type": "ack", "op": msg.Type, "success": true, "open": h.desktop.Windows().ToggleStartMenu()})
		default:
			cl.sendError("unknown message type")
		}
	})
}

func (h *Handler) ack(cl *client, msg clientMessage, op func(id string) bool) {
	cl.send(gin.H{
		"type":     "ack",
		"op":       msg.Type,
		"success":  op(msg.WindowID),
		"windowId": msg.WindowID,
	})
}

func (h *Handler) desktopFrame(ev desktop.Event) (gin.H, bool) {
	switch ev.Type {
	case desktop.EventCue:
		return gin.H{"type": "cue", "cue": ev.Cue}, false
	case desktop.EventState:
		return gin.H{"type": "state", "state": ev.State}, false
	case desktop.EventContent:
		if view, ok := h.desktop.ContentView(ev.WindowID); ok {
			return gin.H{"type": "content", "windowId": ev.WindowID, "view": view}, false
		}
	}
	return nil, false
}

// HandleChat follows one chat window: every change of the transcript is
// pushed as a view frame and "send" frames post messages.
func (h *Handler) HandleChat(c *gin.Context) {
	id := c.Param("id")
	if err := utils.ValidateID(id, "window_id"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	panel, err := h.desktop.Chat(id)
	if err != nil {
		status := http.StatusBadRequest
		if _, exists := h.desktop.Windows().Get(id); !exists {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", logging.Window(id), zap.Error(err))
		return
	}

	events, cancel := h.hub.Subscribe(func(ev desktop.Event) bool {
		return ev.Type == desktop.EventState || ForWindow(id)(ev)
	})
	cl := h.open(conn)
	defer h.finish(cl, cancel)

	cl.send(gin.H{"type": "view", "windowId": id, "view": panel.View()})
	go cl.writePump(events, func(ev desktop.Event) (gin.H, bool) {
		if ev.Type == desktop.EventState {
			if ev.State != nil && !hasWindow(*ev.State, id) {
				return gin.H{"type": "closed", "windowId": id}, true
			}
			return nil, false
		}
		return gin.H{"type": "view", "windowId": id, "view": panel.View()}, false
	})

	cl.readPump(func(msg clientMessage) {
		switch msg.Type {
		case "ping":
			cl.send(gin.H{"type": "pong"})
		case "send":
			if err := utils.ValidateMessage(msg.Text); err != nil {
				cl.sendError(err.Error())
				return
			}
			if err := panel.Post(msg.Text); err != nil {
				cl.sendError(ai.Detail(err))
			}
		default:
			cl.sendError("unknown message type")
		}
	})
}

func hasWindow(state types.DesktopState, id string) bool {
	for _, w := range state.Windows {
		if w.ID == id {
			return true
		}
	}
	return false
}

func (h *Handler) open(conn *websocket.Conn) *client {
	if h.metrics != nil {
		h.metrics.IncWSConnections()
	}
	return &client{
		conn:    conn,
		out:     make(chan gin.H, outboxSize),
		done:    make(chan struct{}),
		metrics: h.metrics,
		logger:  h.logger,
	}
}

func (h *Handler) finish(cl *client, cancel func()) {
	cancel()
	cl.shutdown()
	if h.metrics != nil {
		h.metrics.DecWSConnections()
	}
}

// render turns an event into a frame. A nil frame skips the event; last
// ends the connection after the frame is written.
type render func(desktop.Event) (frame gin.H, last bool)

// client owns one connection. Only writePump writes data frames to conn.
type client struct {
	conn *websocket.Conn
	out  chan gin.H
	done chan struct{}
	once sync.Once

	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// send queues a frame. Frames queued after shutdown are dropped.
func (cl *client) send(frame gin.H) {
	select {
	case cl.out <- frame:
	case <-cl.done:
	}
}

func (cl *client) sendError(msg string) {
	cl.send(gin.H{
		"type":      "error",
		"message":   msg,
		"timestamp": time.Now().Unix(),
	})
}

// shutdown closes the connection, which also ends readPump.
func (cl *client) shutdown() {
	cl.once.Do(func() {
		close(cl.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = cl.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		cl.conn.Close()
	})
}

func (cl *client) readPump(handle func(clientMessage)) {
	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				cl.logger.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}
		var msg clientMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			cl.sendError("invalid message")
			continue
		}
		cl.record("in", msg.Type)
		handle(msg)
	}
}

// writePump serialises queued frames and rendered events onto the socket
// and keeps the connection alive with pings.
func (cl *client) writePump(events <-chan desktop.Event, renderEvent render) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame := <-cl.out:
			if !cl.write(frame) {
				return
			}
		case ev, ok := <-events:
			if !ok {
				cl.shutdown()
				return
			}
			frame, last := renderEvent(ev)
			if frame != nil && !cl.write(frame) {
				return
			}
			if last {
				cl.shutdown()
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				cl.shutdown()
				return
			}
		case <-cl.done:
			return
		}
	}
}

func (cl *client) write(frame gin.H) bool {
	data, err := sonic.Marshal(frame)
	if err != nil {
		cl.logger.Error("failed to encode frame", zap.Error(err))
		return true
	}
	_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		cl.shutdown()
		return false
	}
	if t, ok := frame["type"].(string); ok {
		cl.record("out", t)
	}
	return true
}

func (cl *client) record(direction, msgType string) {
	if cl.metrics != nil {
		cl.metrics.RecordWSMessage(direction, msgType)
	}
}
