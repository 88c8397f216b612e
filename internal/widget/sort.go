package widget

import (
	"cmp"
	"reviewwidget/backend/internal/models"
	"slices"
)

// SortReviews returns a new slice ordered by order, leaving reviews untouched.
// Ascending orders are stable; descending orders are the exact reverse of the
// ascending result. Unknown orders keep the stored (newest-first) order.
func SortReviews(reviews []models.Review, order models.SortOrder) []models.Review {
	out := slices.Clone(reviews)
	if out == nil {
		out = []models.Review{}
	}

	byTime := func(a, b models.Review) int { return cmp.Compare(a.Timestamp, b.Timestamp) }
	byRate := func(a, b models.Review) int { return cmp.Compare(a.Rate, b.Rate) }

	switch order {
	case models.AscendingByTime:
		slices.SortStableFunc(out, byTime)
	case models.DescendingByTime:
		slices.SortStableFunc(out, byTime)
		slices.Reverse(out)
	case models.AscendingByRate:
		slices.SortStableFunc(out, byRate)
	case models.DescendingByRate:
		slices.SortStableFunc(out, byRate)
		slices.Reverse(out)
	}
	return out
}
