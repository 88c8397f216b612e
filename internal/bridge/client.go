package bridge

import "reviewwidget/backend/internal/models"

// ClientKind tells companion surfaces apart from widget viewers.
type ClientKind int

const (
	// CompanionClient is a form surface bound to one session handle.
	CompanionClient ClientKind = iota
	// ViewerClient watches one widget for state changes and notifications.
	ViewerClient
)

// Client is the interface for any connection the hub manages.
// It abstracts the underlying transport so tests can use in-memory clients.
type Client interface {
	// GetHandle returns the session handle (companions) or connection id (viewers).
	GetHandle() string
	GetWidgetID() string
	// GetIdentity returns the connected user, or nil when unknown.
	GetIdentity() *models.Identity
	GetKind() ClientKind

	// GetSendChannel returns the channel the hub writes outbound messages to.
	GetSendChannel() chan<- models.OutboundMessage

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's connection and associated channels.
	Close()
}
