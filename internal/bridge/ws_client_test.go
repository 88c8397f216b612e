package bridge_test

import (
	"net/http"
	"net/http/httptest"
	"reviewwidget/backend/internal/bridge"
	"reviewwidget/backend/internal/models"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWebSocketClient_CompanionRoundTrip(t *testing.T) {
	storageMock := new(MockStorage)
	hub := createTestHub(storageMock)
	handler := new(MockResultHandler)
	hub.SetResultHandler(handler)

	actor := &models.Identity{ID: "user_A", Name: "Ann"}
	session := &models.CompanionSession{
		Handle:   "h1",
		WidgetID: "w1",
		Actor:    actor,
		Visible:  true,
		Pending:  models.OutboundMessage{Type: models.MessageChangeView, Payload: models.ViewAddReview},
	}
	storageMock.On("GetSession", "h1").Return(session, nil)
	storageMock.On("DeleteSession", "h1").Return(nil)

	applied := make(chan models.InboundMessage, 1)
	handler.On("HandleCompanionResult", session, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		applied <- args.Get(1).(models.InboundMessage)
	})

	go hub.Run()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := &bridge.WebSocketClient{
			Handle:   "h1",
			WidgetID: "w1",
			Identity: actor,
			Kind:     bridge.CompanionClient,
			Conn:     conn,
			Hub:      hub,
			Send:     make(chan models.OutboundMessage, 8),
			Log:      zap.NewNop().Sugar(),
		}
		hub.RegisterCh <- client
		client.Run()
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var pending map[string]any
	require.NoError(t, conn.ReadJSON(&pending))
	assert.Equal(t, "CHANGE_VIEW", pending["type"])
	assert.Equal(t, "ADD_REVIEW", pending["payload"])

	// Invalid frames are dropped without consuming the session.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ADD_REVIEW","payload":{"text":"x","rate":9}}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ADD_REVIEW","payload":{"text":"Great","rate":5}}`)))

	select {
	case msg := <-applied:
		assert.Equal(t, models.MessageAddReview, msg.Type)
		assert.Equal(t, "Great", msg.Payload.Text)
		assert.Equal(t, 5, msg.Payload.Rate)
	case <-time.After(2 * time.Second):
		t.Fatal("companion result was not applied")
	}
	handler.AssertNumberOfCalls(t, "HandleCompanionResult", 1)
}

func TestWebSocketClient_CloseIsIdempotent(t *testing.T) {
	client := &bridge.WebSocketClient{Send: make(chan models.OutboundMessage, 1)}

	assert.NotPanics(t, func() {
		client.Close()
		client.Close()
	})
}
