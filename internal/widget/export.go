package widget

import "reviewwidget/backend/internal/models"

// Redact returns a copy of reviews in stored order where every anonymous review
// has its user replaced by the empty placeholder identity.
func Redact(reviews []models.Review) []models.Review {
	out := make([]models.Review, len(reviews))
	for i, r := range reviews {
		if r.Anonymous {
			r.User = models.Identity{}
		}
		out[i] = r
	}
	return out
}
