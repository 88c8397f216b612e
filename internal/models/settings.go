package models

// SortOrder selects the display ordering of the review list.
type SortOrder string

const (
	AscendingByTime  SortOrder = "ASCENDING_BY_TIME"
	DescendingByTime SortOrder = "DESCENDING_BY_TIME"
	AscendingByRate  SortOrder = "ASCENDING_BY_RATE"
	DescendingByRate SortOrder = "DESCENDING_BY_RATE"
)

// SortOrders lists the supported orderings in menu order.
var SortOrders = []SortOrder{AscendingByTime, DescendingByTime, AscendingByRate, DescendingByRate}

// Valid reports whether s is one of the supported orderings.
func (s SortOrder) Valid() bool {
	switch s {
	case AscendingByTime, DescendingByTime, AscendingByRate, DescendingByRate:
		return true
	}
	return false
}

// HideScope controls who may unhide a hidden review list.
type HideScope string

const (
	HideForEveryone HideScope = "EVERYONE"
	HideByInitiator HideScope = "INITIATOR"
)

// Settings are the display settings persisted next to the reviews.
type Settings struct {
	Title        string    `json:"title"`
	DisplayTitle bool      `json:"displayTitle"`
	SortBy       SortOrder `json:"sortBy"`
	Lang         string    `json:"lang"`
	Locked       bool      `json:"locked"` // reserved, not enforced
	Hidden       bool      `json:"hidden"`
	HiddenBy     *Identity `json:"hiddenBy"`
}
