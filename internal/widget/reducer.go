package widget

import (
	"reviewwidget/backend/internal/config"
	"reviewwidget/backend/internal/models"
)

// Apply computes the state that follows ev together with the side effects it requests.
// It never mutates state; when nothing changes the returned state equals the input.
func Apply(state *models.WidgetState, ev Event) (*models.WidgetState, []Intent) {
	next := state.Clone()
	var intents []Intent

	switch e := ev.(type) {
	case OpenAddForm:
		intents = append(intents, OpenCompanion{View: models.ViewAddReview})

	case OpenEditForm:
		idx := indexOf(next.Reviews, e.ReviewID)
		if idx < 0 {
			break
		}
		review := next.Reviews[idx]
		if e.Actor.SameAs(&review.User) {
			draft := review.Draft()
			intents = append(intents, OpenCompanion{View: models.ViewEditReview, Prefill: &draft})
		} else {
			// Non-owners end the whole session instead of getting a refusal.
			intents = append(intents, CloseSession{})
		}

	case ReviewAdded:
		if e.Actor != nil {
			review := models.Review{
				ID:        e.ID,
				User:      *e.Actor,
				Text:      e.Text,
				Rate:      e.Rate,
				Timestamp: e.Timestamp,
				Anonymous: e.Anonymous,
			}
			next.Reviews = append([]models.Review{review}, next.Reviews...)
		}
		if next.Hidden {
			intents = append(intents, Notify{Key: "comment_when_hidden", Recipient: e.Actor})
		}
		intents = append(intents, CloseSession{})

	case ReviewEdited:
		if idx := indexOf(next.Reviews, e.ID); idx >= 0 {
			r := &next.Reviews[idx]
			r.Text = e.Text
			r.Rate = e.Rate
			r.Anonymous = e.Anonymous
			r.Edited = true
		}
		intents = append(intents, CloseSession{})

	case ReviewDeleted:
		if idx := indexOf(next.Reviews, e.ID); idx >= 0 {
			next.Reviews = append(next.Reviews[:idx], next.Reviews[idx+1:]...)
		}
		intents = append(intents, CloseSession{})

	case HideReviews:
		switch e.Scope {
		case "", models.HideForEveryone:
			next.Hidden = true
			next.HiddenBy = nil
		case models.HideByInitiator:
			next.Hidden = true
			// Without a known identity the previous hider is kept.
			if e.Actor != nil {
				hider := *e.Actor
				next.HiddenBy = &hider
			}
		}

	case ShowReviews:
		if next.HiddenBy == nil || next.HiddenBy.SameAs(e.Actor) {
			next.Hidden = false
			break
		}
		intents = append(intents, Notify{
			Key:       "expose_not_allowed",
			Recipient: e.Actor,
			Subject:   next.HiddenBy.Name,
		})

	case ExportReviews:
		intents = append(intents, Download{Reviews: Redact(next.Reviews)})

	case SetTitle:
		next.Title = e.Title

	case SetSort:
		next.SortBy = e.SortBy

	case PropertyMenu:
		switch e.PropertyName {
		case PropertyDisplayTitle:
			next.DisplayTitle = !next.DisplayTitle
		case PropertyLanguage:
			lang := e.PropertyValue
			if lang == "" {
				lang = config.PropertyMenuFallbackLang
			}
			if config.IsSupportedLocale(lang) {
				next.Lang = lang
			}
		}
	}

	return next, intents
}

func indexOf(reviews []models.Review, id string) int {
	for i, r := range reviews {
		if r.ID == id {
			return i
		}
	}
	return -1
}
