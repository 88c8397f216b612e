package widget_test

import (
	"math/rand"
	"reviewwidget/backend/internal/models"
	"reviewwidget/backend/internal/widget"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(reviews []models.Review) []string {
	out := make([]string, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, r.ID)
	}
	return out
}

func TestSortReviews_Orders(t *testing.T) {
	reviews := []models.Review{
		{ID: "a", Rate: 3, Timestamp: 30},
		{ID: "b", Rate: 5, Timestamp: 10},
		{ID: "c", Rate: 3, Timestamp: 20},
		{ID: "d", Rate: 1, Timestamp: 40},
	}

	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(widget.SortReviews(reviews, models.AscendingByTime)))
	assert.Equal(t, []string{"d", "a", "c", "b"}, ids(widget.SortReviews(reviews, models.DescendingByTime)))
	assert.Equal(t, []string{"d", "a", "c", "b"}, ids(widget.SortReviews(reviews, models.AscendingByRate)), "ties keep their stored order")
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(widget.SortReviews(reviews, models.DescendingByRate)))
}

func TestSortReviews_UnknownOrderKeepsStoredOrder(t *testing.T) {
	reviews := []models.Review{{ID: "x", Timestamp: 2}, {ID: "y", Timestamp: 1}}

	sorted := widget.SortReviews(reviews, models.SortOrder("BY_LENGTH"))

	assert.Equal(t, reviews, sorted)
	sorted[0].ID = "changed"
	assert.Equal(t, "x", reviews[0].ID, "result must not alias the input")
}

func TestSortReviews_DoesNotMutateInput(t *testing.T) {
	reviews := []models.Review{{ID: "a", Rate: 1}, {ID: "b", Rate: 5}}
	snapshot := slices.Clone(reviews)

	_ = widget.SortReviews(reviews, models.DescendingByRate)

	assert.Equal(t, snapshot, reviews)
}

func TestSortReviews_Empty(t *testing.T) {
	assert.Empty(t, widget.SortReviews(nil, models.AscendingByTime))
	assert.NotNil(t, widget.SortReviews(nil, models.AscendingByTime))
}

// TestSortReviews_ReverseSymmetry checks that descending by time is ascending reversed,
// including collections with equal timestamps.
func TestSortReviews_ReverseSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		n := rng.Intn(20)
		reviews := make([]models.Review, n)
		for j := range reviews {
			reviews[j] = models.Review{ID: string(rune('a' + j)), Timestamp: int64(rng.Intn(5)), Rate: rng.Intn(5) + 1}
		}

		asc := widget.SortReviews(reviews, models.AscendingByTime)
		slices.Reverse(asc)
		assert.Equal(t, widget.SortReviews(reviews, models.DescendingByTime), asc)

		ascRate := widget.SortReviews(reviews, models.AscendingByRate)
		slices.Reverse(ascRate)
		assert.Equal(t, widget.SortReviews(reviews, models.DescendingByRate), ascRate)
	}
}
