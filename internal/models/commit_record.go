package models

import "time"

// CommitMessageRecord is one completed generation, appended to history once
// and never rewritten. Only the feedback fields (rating, comment, user-edited
// flag) may change after creation; the raw and enhanced text are immutable.
type CommitMessageRecord struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	RawMessage       string    `gorm:"type:text;not null" json:"rawMessage"`
	EnhancedMessage  string    `gorm:"type:text;not null" json:"enhancedMessage"`
	DiffFingerprint  string    `gorm:"size:64;not null;index:idx_record_fingerprint" json:"diffFingerprint"`
	ModelKey         string    `gorm:"size:255;not null" json:"modelKey"`
	LatencyMillis    int64     `gorm:"not null" json:"latencyMillis"`
	CostEstimate     float64   `gorm:"not null" json:"costEstimate"`
	AppliedStepsJSON string    `gorm:"type:text" json:"-"`
	Sentiment        string    `gorm:"size:20" json:"sentiment"`
	Tone             string    `gorm:"size:20" json:"tone"`
	FormatValid      bool      `json:"formatValid"`
	Truncated        bool      `json:"truncated"`
	UserEdited       bool      `json:"userEdited"`
	FeedbackRating   int       `json:"feedbackRating"`
	FeedbackComment  string    `gorm:"type:text" json:"feedbackComment,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
