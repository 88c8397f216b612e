package config

import "time"

const (
	// Rating
	MinRate = 1
	MaxRate = 5

	// Percentage bars
	BarLength    = 320
	MinBarLength = 1

	// Localization
	DefaultLang = "en-US"

	// Language picked by the property menu when the dropdown reports no value.
	PropertyMenuFallbackLang = "zh-CN"

	// Companion sessions
	DefaultSessionTTL    = 10 * time.Minute
	SessionKeyPrefix     = "companion:session:"
	WidgetEventsChannel  = "widget:events"
	MaxReviewTextLength  = 5000
	MaxCompanionFrameLen = 64 << 10

	// Widget write lock shared by every server instance
	WidgetLockPrefix    = "widget:lock:"
	WidgetLockTTL       = 10 * time.Second
	WidgetLockWait      = 5 * time.Second
	WidgetLockRetryWait = 20 * time.Millisecond
)

var SupportedLocales = []string{"en-US", "zh-CN"}

// IsSupportedLocale reports whether lang has a translation table.
func IsSupportedLocale(lang string) bool {
	for _, l := range SupportedLocales {
		if l == lang {
			return true
		}
	}
	return false
}
