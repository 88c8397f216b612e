package handler

import (
	"errors"
	"net/http"
	"reviewwidget/backend/internal/bridge"
	"reviewwidget/backend/internal/models"
	"reviewwidget/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const sendBufferSize = 256

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The widget is embedded on arbitrary host pages.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeCompanion connects the companion surface of an open session.
func (h *Handler) ServeCompanion(c *gin.Context) {
	handle := c.Query("session")
	if handle == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "session is required"})
		return
	}
	session, err := h.Sessions.GetSession(handle)
	if errors.Is(err, storage.ErrSessionNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Session not found or expired"})
		return
	}
	if err != nil {
		h.log.Errorw("Failed to look up companion session", "session", handle, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up session"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warnw("WebSocket upgrade failed", "session", handle, "error", err)
		return
	}

	h.attach(&bridge.WebSocketClient{
		Handle:   session.Handle,
		WidgetID: session.WidgetID,
		Identity: session.Actor,
		Kind:     bridge.CompanionClient,
		Conn:     conn,
	})
}

// ServeViewer subscribes a widget page to live updates.
func (h *Handler) ServeViewer(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warnw("WebSocket upgrade failed", "widget", c.Param("id"), "error", err)
		return
	}

	h.attach(&bridge.WebSocketClient{
		Handle:   uuid.New().String(),
		WidgetID: c.Param("id"),
		Identity: identityFrom(c),
		Kind:     bridge.ViewerClient,
		Conn:     conn,
	})
}

func (h *Handler) attach(client *bridge.WebSocketClient) {
	client.Hub = h.Hub
	client.Send = make(chan models.OutboundMessage, sendBufferSize)
	client.Log = h.log

	h.Hub.RegisterCh <- client
	client.Run()
}
