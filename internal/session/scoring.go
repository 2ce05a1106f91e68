package session

import (
	"github.com/Thanhvan06/japanese-quiz-service/internal/models"
)

// Score computes per-question correctness and the aggregate summary from
// the loaded question set and the recorded answers. Unanswered questions
// count as incorrect; there is no partial credit.
func Score(questions []models.Question, answers *AnswerTracker) models.ResultSummary {
	summary := models.ResultSummary{
		TotalCount: len(questions),
		Questions:  make([]models.QuestionResult, len(questions)),
	}

	for i := range questions {
		q := &questions[i]
		value, answered := answers.Get(i)
		correct := answered && isCorrect(q, value)
		if correct {
			summary.CorrectCount++
		}
		summary.Questions[i] = models.QuestionResult{
			QuestionID:  q.ID,
			Index:       i,
			Answered:    answered,
			Correct:     correct,
			Explanation: q.Explanation,
		}
	}

	summary.Percentage = models.ScorePercentage(summary.CorrectCount, summary.TotalCount)
	summary.Tier = models.TierFor(summary.Percentage)
	return summary
}

func isCorrect(q *models.Question, value models.Answer) bool {
	switch q.Variant() {
	case models.VariantSentenceArrangement:
		arr, ok := value.(models.ArrangementAnswer)
		if !ok {
			return false
		}
		return arrangementCorrect(q, arr.Sequence)
	default:
		choice, ok := value.(models.ChoiceAnswer)
		if !ok {
			return false
		}
		return choice.Option == q.CorrectOptionIndex()
	}
}

// arrangementCorrect checks the user's token texts against the arrange
// words sorted by their answer-key order. Order-sensitive exact match.
func arrangementCorrect(q *models.Question, sequence []int) bool {
	words := q.ArrangeWords()
	key := q.CorrectSequence()
	if len(sequence) != len(key) {
		return false
	}
	for i, idx := range sequence {
		if idx < 0 || idx >= len(words) {
			return false
		}
		if words[idx].Text != key[i] {
			return false
		}
	}
	return true
}
