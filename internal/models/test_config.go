package models

type SourceKind string

const (
	SourceLevel            SourceKind = "level"
	SourceTopic            SourceKind = "topic"
	SourceFlashcardSet     SourceKind = "flashcard_set"
	SourceGrammarSelection SourceKind = "grammar_selection"
)

// MinQuestionCount is the lower clamp bound for a session's question count.
const MinQuestionCount = 10

// TimeLimits are the selectable countdown durations in seconds.
// 0 means unlimited: the timer stays dormant and never fires.
var TimeLimits = []int{0, 300, 600, 900, 1200, 1800}

// SourceParams identifies the question material for one source kind.
// Only the fields matching Kind are meaningful.
type SourceParams struct {
	LevelCode      string `json:"level_code,omitempty"`
	TopicID        uint   `json:"topic_id,omitempty"`
	FlashcardSetID uint   `json:"flashcard_set_id,omitempty"`
	// GrammarIDs filters grammar questions; empty means "all".
	GrammarIDs []uint `json:"grammar_ids,omitempty"`
}

// TestConfiguration is immutable once a session starts.
type TestConfiguration struct {
	SourceKind       SourceKind   `json:"source_kind" validate:"required,source_kind"`
	SourceParams     SourceParams `json:"source_params"`
	QuestionType     QuestionType `json:"question_type" validate:"required,question_type"`
	QuestionCount    int          `json:"question_count" validate:"required,min=1"`
	TimeLimitSeconds int          `json:"time_limit_seconds" validate:"time_limit"`
}

// ClampQuestionCount bounds the requested count to [MinQuestionCount,
// maxAvailable] before the fetch request is issued. When fewer than
// MinQuestionCount questions exist, maxAvailable wins.
func (c *TestConfiguration) ClampQuestionCount(maxAvailable int) int {
	count := c.QuestionCount
	if count < MinQuestionCount {
		count = MinQuestionCount
	}
	if count > maxAvailable {
		count = maxAvailable
	}
	return count
}

// ValidTimeLimit reports whether the duration is one of the enumerated set.
func ValidTimeLimit(seconds int) bool {
	for _, limit := range TimeLimits {
		if limit == seconds {
			return true
		}
	}
	return false
}
