package models

import (
	"encoding/json"
	"fmt"
	"reviewwidget/backend/internal/config"
)

// Persisted field keys, in the order they are written back to storage.
// FieldHidden precedes FieldHiddenBy so a reader never observes a hider without the hidden flag.
const (
	FieldReviews      = "reviews"
	FieldTitle        = "title"
	FieldDisplayTitle = "display-title"
	FieldSortBy       = "sort-by"
	FieldLang         = "lang"
	FieldLocked       = "locked"
	FieldHidden       = "hidden"
	FieldHiddenBy     = "hidden-by"
)

var FieldOrder = []string{
	FieldReviews,
	FieldTitle,
	FieldDisplayTitle,
	FieldSortBy,
	FieldLang,
	FieldLocked,
	FieldHidden,
	FieldHiddenBy,
}

// WidgetState is everything one widget instance persists.
type WidgetState struct {
	WidgetID string   `json:"widgetId"`
	Reviews  []Review `json:"reviews"`
	Settings
}

// FieldValue is one persisted key with its current value.
type FieldValue struct {
	Key   string
	Value any
}

// DefaultState returns the state of a widget that has never been written.
func DefaultState(widgetID string) *WidgetState {
	return &WidgetState{
		WidgetID: widgetID,
		Reviews:  []Review{},
		Settings: Settings{
			DisplayTitle: true,
			SortBy:       DescendingByTime,
			Lang:         config.DefaultLang,
		},
	}
}

// Clone returns a copy that shares no slices or pointers with s.
func (s *WidgetState) Clone() *WidgetState {
	out := *s
	out.Reviews = make([]Review, len(s.Reviews))
	copy(out.Reviews, s.Reviews)
	if s.HiddenBy != nil {
		hb := *s.HiddenBy
		out.HiddenBy = &hb
	}
	return &out
}

// Fields returns every persisted key with its value, in FieldOrder.
func (s *WidgetState) Fields() []FieldValue {
	return []FieldValue{
		{FieldReviews, s.Reviews},
		{FieldTitle, s.Title},
		{FieldDisplayTitle, s.DisplayTitle},
		{FieldSortBy, s.SortBy},
		{FieldLang, s.Lang},
		{FieldLocked, s.Locked},
		{FieldHidden, s.Hidden},
		{FieldHiddenBy, s.HiddenBy},
	}
}

// SetField decodes a raw JSON value stored under key into s.
func (s *WidgetState) SetField(key string, raw []byte) error {
	var target any
	switch key {
	case FieldReviews:
		target = &s.Reviews
	case FieldTitle:
		target = &s.Title
	case FieldDisplayTitle:
		target = &s.DisplayTitle
	case FieldSortBy:
		target = &s.SortBy
	case FieldLang:
		target = &s.Lang
	case FieldLocked:
		target = &s.Locked
	case FieldHidden:
		target = &s.Hidden
	case FieldHiddenBy:
		s.HiddenBy = nil
		target = &s.HiddenBy
	default:
		return fmt.Errorf("unknown field %q", key)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode field %q: %w", key, err)
	}
	if s.Reviews == nil {
		s.Reviews = []Review{}
	}
	return nil
}
