package bridge_test

import (
	"reviewwidget/backend/internal/bridge"
	"reviewwidget/backend/internal/models"
	"sync/atomic"
)

type MockClient struct {
	handle      string
	widgetID    string
	identity    *models.Identity
	kind        bridge.ClientKind
	RecvChannel chan models.OutboundMessage
	closed      atomic.Bool
}

func newMockCompanion(handle, widgetID string) *MockClient {
	return &MockClient{
		handle:      handle,
		widgetID:    widgetID,
		kind:        bridge.CompanionClient,
		RecvChannel: make(chan models.OutboundMessage, 10),
	}
}

func newMockViewer(handle, widgetID string, identity *models.Identity) *MockClient {
	return &MockClient{
		handle:      handle,
		widgetID:    widgetID,
		identity:    identity,
		kind:        bridge.ViewerClient,
		RecvChannel: make(chan models.OutboundMessage, 10),
	}
}

func (c *MockClient) GetHandle() string                             { return c.handle }
func (c *MockClient) GetWidgetID() string                           { return c.widgetID }
func (c *MockClient) GetIdentity() *models.Identity                 { return c.identity }
func (c *MockClient) GetKind() bridge.ClientKind                    { return c.kind }
func (c *MockClient) GetSendChannel() chan<- models.OutboundMessage { return c.RecvChannel }

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.closed.Store(true)
}

func (c *MockClient) IsClosed() bool {
	return c.closed.Load()
}
