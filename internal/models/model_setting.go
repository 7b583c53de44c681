package models

import "time"

// ModelSetting persists the per-model enablement toggle. The catalog itself
// ships as an embedded asset; only enablement survives restarts.
type ModelSetting struct {
	ID        uint      `gorm:"primaryKey"`
	Provider  string    `gorm:"size:50;not null;index:idx_setting_provider"`
	ModelKey  string    `gorm:"size:255;not null;uniqueIndex"`
	Enabled   bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
