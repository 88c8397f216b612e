package widget

import (
	"fmt"
	"reviewwidget/backend/internal/analysis"
	"reviewwidget/backend/internal/localization"
	"reviewwidget/backend/internal/models"
	"time"
)

// View is the render model of one widget as seen by one viewer.
type View struct {
	WidgetID     string            `json:"widgetId"`
	Lang         string            `json:"lang"`
	Title        string            `json:"title,omitempty"`
	DisplayTitle bool              `json:"displayTitle"`
	SortBy       models.SortOrder  `json:"sortBy"`
	SortLabel    string            `json:"sortLabel"`
	Average      string            `json:"average"`
	Buckets      []BucketView      `json:"buckets"`
	CountLabel   string            `json:"countLabel"`
	Hidden       bool              `json:"hidden"`
	HiddenNotice string            `json:"hiddenNotice,omitempty"`
	Reviews      []ReviewView      `json:"reviews"`
	CanExport    bool              `json:"canExport"`
	Labels       map[string]string `json:"labels"`
}

// BucketView is one percentage bar.
type BucketView struct {
	Rate       int     `json:"rate"`
	Percentage string  `json:"percentage"`
	Bar        float64 `json:"bar"`
}

// ReviewView is one rendered review.
type ReviewView struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	PhotoURL    *string `json:"photoUrl,omitempty"`
	Anonymous   bool    `json:"anonymous"`
	Text        string  `json:"text"`
	EditedLabel string  `json:"editedLabel,omitempty"`
	Rate        int     `json:"rate"`
	Timestamp   int64   `json:"timestamp"`
	Date        string  `json:"date"`
	Owned       bool    `json:"owned"`
}

var labelKeys = []string{"add", "download", "title", "display", "lang", "hide", "expose", "initiator_expose", "everyone_expose"}

// Render builds the view of state for viewer, which may be nil.
func Render(state *models.WidgetState, viewer *models.Identity, loc *localization.Localizer) *View {
	lang := state.Lang
	summary := analysis.Summarize(state.Reviews)

	v := &View{
		WidgetID:     state.WidgetID,
		Lang:         lang,
		DisplayTitle: state.DisplayTitle,
		SortBy:       state.SortBy,
		SortLabel:    loc.GetString(lang, string(state.SortBy)),
		Average:      fmt.Sprintf("%.1f", summary.Average),
		Hidden:       state.Hidden,
		Reviews:      []ReviewView{},
		CanExport:    len(state.Reviews) > 0 && !state.Hidden,
		Labels:       make(map[string]string, len(labelKeys)),
	}
	if state.DisplayTitle {
		v.Title = state.Title
	}
	for _, key := range labelKeys {
		v.Labels[key] = loc.GetString(lang, key)
	}

	for _, b := range summary.Buckets {
		v.Buckets = append(v.Buckets, BucketView{
			Rate:       b.Rate,
			Percentage: fmt.Sprintf("%.1f%%", b.Share*100),
			Bar:        b.Bar,
		})
	}

	if summary.Count > 0 {
		v.CountLabel = fmt.Sprintf("%s (%d)", loc.GetString(lang, "all"), summary.Count)
	} else {
		v.CountLabel = loc.GetString(lang, "click")
	}

	if state.Hidden {
		if state.HiddenBy != nil {
			v.HiddenNotice = fmt.Sprintf("%s %s.", loc.GetString(lang, "hidden_by"), state.HiddenBy.Name)
		} else {
			v.HiddenNotice = loc.GetString(lang, "hidden")
		}
		return v
	}

	for _, r := range SortReviews(state.Reviews, state.SortBy) {
		v.Reviews = append(v.Reviews, renderReview(r, viewer, lang, loc))
	}
	return v
}

func renderReview(r models.Review, viewer *models.Identity, lang string, loc *localization.Localizer) ReviewView {
	owned := viewer.SameAs(&r.User)
	rv := ReviewView{
		ID:          r.ID,
		DisplayName: r.User.Name,
		PhotoURL:    r.User.PhotoURL,
		Anonymous:   r.Anonymous,
		Text:        r.Text,
		Rate:        r.Rate,
		Timestamp:   r.Timestamp,
		Date:        time.UnixMilli(r.Timestamp).UTC().Format(time.DateTime),
		Owned:       owned,
	}
	if r.Anonymous && !owned {
		rv.DisplayName = loc.GetString(lang, "anonymousUser")
		rv.PhotoURL = nil
	}
	if r.Edited {
		rv.EditedLabel = fmt.Sprintf("(%s)", loc.GetString(lang, "edited"))
	}
	return rv
}
