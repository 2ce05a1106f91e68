package events

import (
	"time"

	"github.com/Thanhvan06/japanese-quiz-service/internal/models"
)

// EventType identifies the session lifecycle events published downstream.
type EventType string

const (
	EventSessionStarted   EventType = "session.started"
	EventSessionCompleted EventType = "session.completed"
)

// SessionEvent is the envelope for all session events.
type SessionEvent struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Data      interface{} `json:"data"`
}

// SessionStartedEvent is emitted when a question set loads successfully.
type SessionStartedEvent struct {
	SessionID        string              `json:"session_id"`
	UserID           string              `json:"user_id,omitempty"`
	SourceKind       models.SourceKind   `json:"source_kind"`
	QuestionType     models.QuestionType `json:"question_type"`
	QuestionCount    int                 `json:"question_count"`
	TimeLimitSeconds int                 `json:"time_limit_seconds"`
	StartedAt        time.Time           `json:"started_at"`
}

// SessionCompletedEvent carries the final score after submission, manual
// or timeout-forced.
type SessionCompletedEvent struct {
	SessionID    string                 `json:"session_id"`
	UserID       string                 `json:"user_id,omitempty"`
	SourceKind   models.SourceKind      `json:"source_kind"`
	QuestionType models.QuestionType    `json:"question_type"`
	CorrectCount int                    `json:"correct_count"`
	TotalCount   int                    `json:"total_count"`
	Percentage   int                    `json:"percentage"`
	Tier         models.PerformanceTier `json:"tier"`
	EndReason    string                 `json:"end_reason"` // "manual" or "timeout"
	DurationSecs int                    `json:"duration_secs"`
	SubmittedAt  time.Time              `json:"submitted_at"`
}
