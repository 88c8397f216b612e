package models

// Review is one user-submitted rating with an optional comment.
type Review struct {
	ID        string   `json:"id"`
	User      Identity `json:"user"`
	Text      string   `json:"text"`
	Rate      int      `json:"rate"`
	Timestamp int64    `json:"timestamp"` // milliseconds since epoch
	Edited    bool     `json:"edited"`
	Anonymous bool     `json:"anonymous"`
}

// ReviewDraft is the editable part of a review, used to pre-fill the companion form.
type ReviewDraft struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Rate      int    `json:"rate"`
	Anonymous bool   `json:"anonymous"`
}

// Draft returns the editable fields of r.
func (r Review) Draft() ReviewDraft {
	return ReviewDraft{ID: r.ID, Text: r.Text, Rate: r.Rate, Anonymous: r.Anonymous}
}
