// Package analysis derives the aggregate rating summary shown above the review list.
// Everything here is recomputed from the review collection on each render.
package analysis

import (
	"reviewwidget/backend/internal/config"
	"reviewwidget/backend/internal/models"
)

// Bucket is the share of reviews carrying one rate.
type Bucket struct {
	Rate  int     `json:"rate"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
	Bar   float64 `json:"bar"`
}

// Summary is the aggregate over a review collection.
type Summary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	// Buckets are ordered from the highest rate to the lowest.
	Buckets []Bucket `json:"buckets"`
}

// Summarize computes average and per-rate distribution.
// Both are 0 for an empty collection.
func Summarize(reviews []models.Review) Summary {
	counts := make(map[int]int, config.MaxRate)
	sum := 0
	for _, r := range reviews {
		sum += r.Rate
		counts[r.Rate]++
	}

	s := Summary{Count: len(reviews)}
	if s.Count > 0 {
		s.Average = float64(sum) / float64(s.Count)
	}

	s.Buckets = make([]Bucket, 0, config.MaxRate)
	for rate := config.MaxRate; rate >= config.MinRate; rate-- {
		share := 0.0
		if s.Count > 0 {
			share = float64(counts[rate]) / float64(s.Count)
		}
		s.Buckets = append(s.Buckets, Bucket{
			Rate:  rate,
			Count: counts[rate],
			Share: share,
			Bar:   BarLength(share),
		})
	}
	return s
}

// Distribution returns the share of reviews rated rate, or 0 outside 1..5.
func (s Summary) Distribution(rate int) float64 {
	for _, b := range s.Buckets {
		if b.Rate == rate {
			return b.Share
		}
	}
	return 0
}

// BarLength scales a share to the percentage bar width.
// An empty bucket still gets a visible track of MinBarLength.
func BarLength(share float64) float64 {
	if share == 0 {
		return config.MinBarLength
	}
	return share * config.BarLength
}
