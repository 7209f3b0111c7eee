package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/lemartins07/english-assessment-service/internal/models"
)

// EventType represents the session lifecycle signals sent to the
// analytics sink.
type EventType string

const (
	EventSessionStarted   EventType = "session.started"
	EventSessionFinalized EventType = "session.finalized"
)

const (
	eventSource  = "english-assessment-service"
	eventVersion = "1.0"
)

// RetentionEvent is the envelope for all retention events.
type RetentionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewRetentionEvent builds an envelope around a payload.
func NewRetentionEvent(eventType EventType, data interface{}) *RetentionEvent {
	return &RetentionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

// SessionStartedEvent is emitted when a learner starts an assessment.
type SessionStartedEvent struct {
	SessionID   string    `json:"session_id"`
	UserID      string    `json:"user_id"`
	BlueprintID string    `json:"blueprint_id"`
	StartedAt   time.Time `json:"started_at"`
}

// SessionFinalizedEvent is emitted when a session is sealed with a result.
type SessionFinalizedEvent struct {
	SessionID      string                      `json:"session_id"`
	UserID         string                      `json:"user_id"`
	BlueprintID    string                      `json:"blueprint_id"`
	AggregateScore float64                     `json:"aggregate_score"`
	Level          models.ProficiencyLevel     `json:"level"`
	SkillScores    map[models.SkillTag]float64 `json:"skill_scores"`
	FinalizedAt    time.Time                   `json:"finalized_at"`
}
