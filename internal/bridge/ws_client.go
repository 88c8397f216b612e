package bridge

import (
	"reviewwidget/backend/internal/config"
	"reviewwidget/backend/internal/models"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// WebSocketClient implements Client over a gorilla/websocket connection.
type WebSocketClient struct {
	Handle   string
	WidgetID string
	Identity *models.Identity
	Kind     ClientKind
	Conn     *websocket.Conn
	Hub      *ManagerService
	Send     chan models.OutboundMessage

	Log *zap.SugaredLogger

	closeOnce sync.Once
}

func (c *WebSocketClient) GetHandle() string                             { return c.Handle }
func (c *WebSocketClient) GetWidgetID() string                           { return c.WidgetID }
func (c *WebSocketClient) GetIdentity() *models.Identity                 { return c.Identity }
func (c *WebSocketClient) GetKind() ClientKind                           { return c.Kind }
func (c *WebSocketClient) GetSendChannel() chan<- models.OutboundMessage { return c.Send }

// Run starts the pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes Send, which stops writePump and then the connection.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(config.MaxCompanionFrameLen)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Log.Warnw("Error reading message", "conn", c.Handle, "error", err)
			}
			break
		}

		// Viewers only listen.
		if c.Kind != CompanionClient {
			continue
		}

		msg, err := DecodeInbound(message)
		if err != nil {
			c.Log.Infow("Dropping invalid companion message", "session", c.Handle, "error", err)
			continue
		}

		c.Hub.IncomingCh <- Incoming{Handle: c.Handle, Message: msg}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := c.Conn.WriteJSON(message); err != nil {
				c.Log.Warnw("Error writing message", "conn", c.Handle, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
