package models

// Identity is a snapshot of the user who performed an action.
// The zero value is the placeholder used when a review is redacted.
type Identity struct {
	// ID is the stable identity key used for ownership checks.
	ID string `json:"id,omitempty"`
	// Name is the display name at capture time.
	Name string `json:"name,omitempty"`
	// PhotoURL is an optional avatar reference.
	PhotoURL *string `json:"photoUrl,omitempty"`
}

// SameAs reports whether two identities share an identity key.
// A nil identity never matches.
func (i *Identity) SameAs(other *Identity) bool {
	if i == nil || other == nil {
		return false
	}
	return i.ID != "" && i.ID == other.ID
}
