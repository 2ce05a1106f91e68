package models

import (
	"math"
	"time"

	"gorm.io/datatypes"
)

// PerformanceTier is the coarse qualitative label derived from the final
// percentage score.
type PerformanceTier string

const (
	TierExcellent PerformanceTier = "Excellent"
	TierGreat     PerformanceTier = "Great"
	TierGood      PerformanceTier = "Good"
	TierEffort    PerformanceTier = "Needs more effort"
	TierKeepGoing PerformanceTier = "Don't give up"
)

// TierFor maps a percentage to its tier. Thresholds are inclusive lower
// bounds, highest match wins.
func TierFor(percentage int) PerformanceTier {
	switch {
	case percentage >= 90:
		return TierExcellent
	case percentage >= 75:
		return TierGreat
	case percentage >= 60:
		return TierGood
	case percentage >= 50:
		return TierEffort
	default:
		return TierKeepGoing
	}
}

// QuestionResult is the per-question breakdown shown on the result screen.
type QuestionResult struct {
	QuestionID  uint   `json:"question_id"`
	Index       int    `json:"index"`
	Answered    bool   `json:"answered"`
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation,omitempty"`
}

// ResultSummary is derived from QuestionSet + AnswerRecord, never mutated
// in place.
type ResultSummary struct {
	CorrectCount int              `json:"correct_count"`
	TotalCount   int              `json:"total_count"`
	Percentage   int              `json:"percentage"`
	Tier         PerformanceTier  `json:"tier"`
	Questions    []QuestionResult `json:"questions"`
}

// ScorePercentage rounds half away from zero so results are deterministic.
func ScorePercentage(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// TestResult is the persisted record of a completed session. In-progress
// sessions are never stored.
type TestResult struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	SessionID    string         `json:"session_id" gorm:"not null;size:64;index"`
	UserID       string         `json:"user_id" gorm:"size:64;index"`
	SourceKind   SourceKind     `json:"source_kind" gorm:"not null;size:32"`
	QuestionType QuestionType   `json:"question_type" gorm:"not null;size:32"`
	CorrectCount int            `json:"correct_count" gorm:"not null"`
	TotalCount   int            `json:"total_count" gorm:"not null"`
	Percentage   int            `json:"percentage" gorm:"not null"`
	Tier         PerformanceTier `json:"tier" gorm:"not null;size:32"`
	DurationSecs int            `json:"duration_secs"`
	Breakdown    datatypes.JSON `json:"breakdown" gorm:"type:jsonb"` // []QuestionResult
	CreatedAt    time.Time      `json:"created_at"`
}

func (TestResult) TableName() string {
	return "test_results"
}
