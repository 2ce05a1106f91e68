package session

import (
	"github.com/Thanhvan06/japanese-quiz-service/internal/models"
)

// AnswerTracker is the index-keyed store of per-question answers. Keys are
// dense 0-based question indices matching the loaded question set. Only
// the current value per key matters; entries may be overwritten freely
// until the tracker is frozen at submission.
type AnswerTracker struct {
	answers map[int]models.Answer
	frozen  bool
}

func NewAnswerTracker() *AnswerTracker {
	return &AnswerTracker{
		answers: make(map[int]models.Answer),
	}
}

// Set inserts or overwrites the answer for a question. An empty
// arrangement reverts the entry to unanswered: the sentinel for
// "unanswered" is the absent entry, not a stored empty list. Writes on a
// frozen tracker are discarded.
func (t *AnswerTracker) Set(index int, value models.Answer) {
	if t.frozen {
		return
	}
	if arr, ok := value.(models.ArrangementAnswer); ok && arr.Empty() {
		delete(t.answers, index)
		return
	}
	if value == nil {
		delete(t.answers, index)
		return
	}
	t.answers[index] = value
}

// Get returns the current answer, or false when the question is unanswered.
func (t *AnswerTracker) Get(index int) (models.Answer, bool) {
	value, ok := t.answers[index]
	return value, ok
}

func (t *AnswerTracker) IsAnswered(index int) bool {
	_, ok := t.answers[index]
	return ok
}

// AnsweredCount returns the number of recorded answers.
func (t *AnswerTracker) AnsweredCount() int {
	return len(t.answers)
}

// Freeze makes the tracker read-only. Called when the session transitions
// to submitted.
func (t *AnswerTracker) Freeze() {
	t.frozen = true
}
