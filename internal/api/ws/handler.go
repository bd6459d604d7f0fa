package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
)

// Invoker runs commands by name.
type Invoker interface {
	Execute(ctx context.Context, name string, args map[string]interface{}) (*types.Result, error)
}

// Handler upgrades HTTP requests to IPC connections.
type Handler struct {
	hub      *Hub
	invoker  Invoker
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, invoker Invoker, logger *zap.Logger) *Handler {
	return &Handler{
		hub:     hub,
		invoker: invoker,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Origins are checked by the CORS middleware in front of the route.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	cl, ok := h.hub.register()
	if !ok {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}
	h.logger.Debug("IPC client connected", zap.String("client", cl.id.String()))

	done := make(chan struct{})
	go h.writePump(conn, cl, done)

	h.readPump(c.Request.Context(), conn, cl)

	h.hub.unregister(cl)
	<-done
	h.logger.Debug("IPC client disconnected", zap.String("client", cl.id.String()))
}

func (h *Handler) readPump(ctx context.Context, conn *websocket.Conn, cl *client) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}

		var msg types.WSMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			h.reply(cl, types.WSMessage{Type: types.MessageError, Message: "malformed message"})
			continue
		}
		h.hub.recorder.RecordWSMessage("in", msg.Type)

		switch msg.Type {
		case types.MessageInvoke:
			h.handleInvoke(ctx, cl, msg)
		case types.MessagePing:
			h.reply(cl, types.WSMessage{Type: types.MessagePong})
		default:
			h.reply(cl, types.WSMessage{Type: types.MessageError, ID: msg.ID, Message: "unknown message type"})
		}
	}
}

func (h *Handler) handleInvoke(ctx context.Context, cl *client, msg types.WSMessage) {
	if msg.Command == "" {
		h.reply(cl, types.WSMessage{Type: types.MessageError, ID: msg.ID, Message: "command required"})
		return
	}

	result, err := h.invoker.Execute(ctx, msg.Command, msg.Args)
	if err != nil {
		h.logger.Debug("IPC command failed",
			zap.String("command", msg.Command),
			zap.String("client", cl.id.String()),
			zap.Error(err))
	}
	h.reply(cl, types.WSMessage{Type: types.MessageResult, ID: msg.ID, Result: result})
}

// reply queues a response frame. A full queue means the client is gone or
// stuck; the read loop will notice soon enough.
func (h *Handler) reply(cl *client, msg types.WSMessage) {
	frame, err := sonic.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to encode IPC message", zap.Error(err))
		return
	}
	if cl.trySend(frame) {
		h.hub.recorder.RecordWSMessage("out", msg.Type)
	}
}

func (h *Handler) writePump(conn *websocket.Conn, cl *client, done chan<- struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
		close(done)
	}()

	for {
		select {
		case frame, ok := <-cl.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
