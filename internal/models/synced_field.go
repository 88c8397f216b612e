package models

import "time"

// SyncedField is one persisted key of one widget instance.
// Every key is stored and updated on its own, so a write is atomic per field only.
type SyncedField struct {
	WidgetID  string    `gorm:"primaryKey;type:text"`
	Key       string    `gorm:"primaryKey;type:text"`
	Value     string    `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
