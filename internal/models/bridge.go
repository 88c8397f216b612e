package models

// MessageType names a message exchanged with the companion surface or a viewer.
type MessageType string

const (
	// Outbound to the companion surface.
	MessageChangeView   MessageType = "CHANGE_VIEW"
	MessageDownloadData MessageType = "DOWNLOAD_DATA"

	// Inbound from the companion surface.
	MessageAddReview    MessageType = "ADD_REVIEW"
	MessageEditReview   MessageType = "EDIT_REVIEW"
	MessageDeleteReview MessageType = "DELETE_REVIEW"

	// Outbound to widget viewers.
	MessageStateChanged MessageType = "STATE_CHANGED"
	MessageNotify       MessageType = "NOTIFY"
)

// View is the form the companion surface should show.
type View string

const (
	ViewAddReview  View = "ADD_REVIEW"
	ViewEditReview View = "EDIT_REVIEW"
)

// OutboundMessage is sent from the widget to a connected surface.
// For CHANGE_VIEW the payload is the target View and Review carries the edit pre-fill;
// for DOWNLOAD_DATA the payload is the redacted review list.
type OutboundMessage struct {
	Type    MessageType  `json:"type"`
	Payload any          `json:"payload,omitempty"`
	Review  *ReviewDraft `json:"review,omitempty"`
}

// ReviewInput is the payload of every inbound companion message.
// ID is empty for ADD_REVIEW; Text, Rate and Anonymous are unused by DELETE_REVIEW.
type ReviewInput struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Rate      int    `json:"rate" validate:"min=1,max=5"`
	Anonymous bool   `json:"anonymous"`
}

// InboundMessage is a decoded and validated message from the companion surface.
type InboundMessage struct {
	Type    MessageType `json:"type"`
	Payload ReviewInput `json:"payload"`
}

// WidgetEvent is fanned out to every server instance over pub/sub.
// An empty RecipientID addresses every viewer of the widget.
type WidgetEvent struct {
	WidgetID    string          `json:"widgetId"`
	RecipientID string          `json:"recipientId,omitempty"`
	Message     OutboundMessage `json:"message"`
}
