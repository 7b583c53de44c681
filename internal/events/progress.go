package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Stage names one step of the generation pipeline. The terminal "error" stage
// carries the name of the failing stage in its payload.
type Stage string

const (
	StageAnalysisStarted     Stage = "analysis-started"
	StageAnalysisComplete    Stage = "analysis-complete"
	StageGenerationProgress  Stage = "generation-progress"
	StageGenerationComplete  Stage = "generation-complete"
	StageEnhancementComplete Stage = "enhancement-complete"
	StagePersisted           Stage = "persisted"
	StageError               Stage = "error"
)

// ProgressEvent is the payload delivered to subscribers for each pipeline
// stage transition. Message carries fragment text for generation-progress
// events and the human-readable cause for error events.
type ProgressEvent struct {
	ID         string            `json:"id"`
	Stage      Stage             `json:"stage"`
	Message    string            `json:"message,omitempty"`
	SessionKey string            `json:"sessionKey,omitempty"`
	Sequence   uint64            `json:"sequence,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type contextKey string

const sessionContextKey contextKey = "commitforge/events/session"

// WithSession returns a derived context annotated with the given session key
// so event emitters can automatically scope payloads.
func WithSession(ctx context.Context, sessionKey string) context.Context {
	if strings.TrimSpace(sessionKey) == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionContextKey, sessionKey)
}

// SessionFromContext extracts the session key associated with ctx.
func SessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(sessionContextKey).(string); ok {
		return v
	}
	return ""
}

// NewProgressEvent builds a stage event with a fresh ID and timestamp.
func NewProgressEvent(stage Stage, message string) ProgressEvent {
	return ProgressEvent{
		ID:        uuid.NewString(),
		Stage:     stage,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewErrorEvent builds a terminal error event naming the failing stage.
func NewErrorEvent(failedStage, cause string) ProgressEvent {
	evt := NewProgressEvent(StageError, cause)
	evt.Metadata = map[string]string{"stage": failedStage}
	return evt
}
