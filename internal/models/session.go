package models

import "time"

// CompanionSession is one opened companion surface awaiting at most one inbound message.
type CompanionSession struct {
	Handle    string          `json:"handle"`
	WidgetID  string          `json:"widgetId"`
	Actor     *Identity       `json:"actor,omitempty"`
	Visible   bool            `json:"visible"` // false for download-only sessions
	Pending   OutboundMessage `json:"pending"`
	CreatedAt time.Time       `json:"createdAt"`
}

// View reports the form a visible session was opened on.
// The payload is a View in memory and a plain string once read back from Redis.
func (s *CompanionSession) View() (View, bool) {
	if !s.Visible || s.Pending.Type != MessageChangeView {
		return "", false
	}
	switch v := s.Pending.Payload.(type) {
	case View:
		return v, true
	case string:
		return View(v), true
	}
	return "", false
}

// Accepts reports whether msg answers the request the session was opened for.
// An add form may only add; an edit form may only edit or delete the review it was pre-filled with.
// Download-only sessions accept nothing.
func (s *CompanionSession) Accepts(msg InboundMessage) bool {
	view, ok := s.View()
	if !ok {
		return false
	}
	switch msg.Type {
	case MessageAddReview:
		return view == ViewAddReview
	case MessageEditReview, MessageDeleteReview:
		return view == ViewEditReview && s.Pending.Review != nil && s.Pending.Review.ID == msg.Payload.ID
	}
	return false
}
