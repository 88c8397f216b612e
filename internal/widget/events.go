package widget

import "reviewwidget/backend/internal/models"

// Event is one discrete user action applied to a widget.
type Event interface {
	actor() *models.Identity
}

// Origin identifies whoever triggered an event. Actor is nil when the identity is unknown.
type Origin struct {
	Actor *models.Identity
}

func (o Origin) actor() *models.Identity { return o.Actor }

// As is shorthand for an Origin carrying actor.
func As(actor *models.Identity) Origin { return Origin{Actor: actor} }

// CompanionOrigin marks events that arrived as a message from a companion session.
type CompanionOrigin struct {
	Origin
	Handle string
}

func (c CompanionOrigin) sessionHandle() string { return c.Handle }

type companionEvent interface {
	Event
	sessionHandle() string
}

// OpenAddForm asks for the companion surface in add mode.
type OpenAddForm struct{ Origin }

// OpenEditForm asks for the companion surface pre-filled with an existing review.
type OpenEditForm struct {
	Origin
	ReviewID string
}

// ReviewAdded is a completed ADD_REVIEW request.
// ID and Timestamp are assigned by the Controller when left empty.
type ReviewAdded struct {
	CompanionOrigin
	ID        string
	Timestamp int64
	Text      string
	Rate      int
	Anonymous bool
}

// ReviewEdited is a completed EDIT_REVIEW request.
type ReviewEdited struct {
	CompanionOrigin
	ID        string
	Text      string
	Rate      int
	Anonymous bool
}

// ReviewDeleted is a completed DELETE_REVIEW request.
type ReviewDeleted struct {
	CompanionOrigin
	ID string
}

// HideReviews hides the list. An empty scope means HideForEveryone.
type HideReviews struct {
	Origin
	Scope models.HideScope
}

// ShowReviews unhides the list when the actor is allowed to.
type ShowReviews struct{ Origin }

// ExportReviews sends the redacted collection to a download-only companion session.
type ExportReviews struct{ Origin }

// SetTitle replaces the widget title.
type SetTitle struct {
	Origin
	Title string
}

// SetSort replaces the display ordering.
type SetSort struct {
	Origin
	SortBy models.SortOrder
}

// PropertyMenu is a change reported by the widget's property menu.
type PropertyMenu struct {
	Origin
	PropertyName  string
	PropertyValue string
}

const (
	PropertyDisplayTitle = "display-title"
	PropertyLanguage     = "language"
)

// FromCompanion converts a validated companion message into its event.
// The session's actor becomes the event actor. Messages the session was not
// opened for are refused.
func FromCompanion(session *models.CompanionSession, msg models.InboundMessage) (Event, bool) {
	if !session.Accepts(msg) {
		return nil, false
	}
	origin := CompanionOrigin{Origin: As(session.Actor), Handle: session.Handle}
	p := msg.Payload
	switch msg.Type {
	case models.MessageAddReview:
		return ReviewAdded{CompanionOrigin: origin, Text: p.Text, Rate: p.Rate, Anonymous: p.Anonymous}, true
	case models.MessageEditReview:
		return ReviewEdited{CompanionOrigin: origin, ID: p.ID, Text: p.Text, Rate: p.Rate, Anonymous: p.Anonymous}, true
	case models.MessageDeleteReview:
		return ReviewDeleted{CompanionOrigin: origin, ID: p.ID}, true
	}
	return nil, false
}
