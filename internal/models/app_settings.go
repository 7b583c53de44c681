package models

import "time"

// AppSettings holds the user preferences consumed by the pipeline: which
// enhancement stages run, the preferred commit format, and the default model.
type AppSettings struct {
	ID               uint   `gorm:"primaryKey"` // single-row table (ID=1)
	Version          int    `gorm:"not null;default:1"`
	DefaultModelKey  string `gorm:"size:255"`
	PreferredFormat  string `gorm:"size:32;not null;default:conventional"` // "conventional" | "plain"
	Persona          string `gorm:"type:text"`
	EnhanceFormat    bool   `gorm:"not null;default:true"`
	EnhanceGrammar   bool   `gorm:"not null;default:true"`
	EnhanceEmoji     bool   `gorm:"not null;default:false"`
	EnhanceSentiment bool   `gorm:"not null;default:true"`
	EnhanceTone      bool   `gorm:"not null;default:true"`
	UpdatedAt        time.Time
}
