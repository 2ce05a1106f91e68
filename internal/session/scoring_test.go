package session

import (
	"testing"

	"github.com/Thanhvan06/japanese-quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func choiceQuestion(id uint, correct int) models.Question {
	q := models.Question{
		ID:   id,
		Type: models.WordToMeaning,
	}
	for i := 0; i < 4; i++ {
		q.Options = append(q.Options, models.Option{
			Text:      string(rune('a' + i)),
			Role:      models.RoleChoice,
			IsCorrect: i == correct,
		})
	}
	return q
}

func TestScoreMultipleChoice(t *testing.T) {
	questions := []models.Question{
		choiceQuestion(1, 2),
		choiceQuestion(2, 1),
		choiceQuestion(3, 0),
		choiceQuestion(4, 3),
	}

	answers := NewAnswerTracker()
	answers.Set(0, models.ChoiceAnswer{Option: 2}) // correct
	answers.Set(1, models.ChoiceAnswer{Option: 1}) // correct
	answers.Set(2, models.ChoiceAnswer{Option: 3}) // wrong
	answers.Set(3, models.ChoiceAnswer{Option: 3}) // correct

	summary := Score(questions, answers)

	assert.Equal(t, 3, summary.CorrectCount)
	assert.Equal(t, 4, summary.TotalCount)
	assert.Equal(t, 75, summary.Percentage)
	assert.Equal(t, models.TierGreat, summary.Tier)

	assert.True(t, summary.Questions[0].Correct)
	assert.False(t, summary.Questions[2].Correct)
	assert.True(t, summary.Questions[2].Answered)
}

func TestScoreUnansweredCountsIncorrect(t *testing.T) {
	questions := []models.Question{
		choiceQuestion(1, 0),
		choiceQuestion(2, 0),
	}
	answers := NewAnswerTracker()
	answers.Set(0, models.ChoiceAnswer{Option: 0})

	summary := Score(questions, answers)

	assert.Equal(t, 1, summary.CorrectCount)
	assert.Equal(t, 50, summary.Percentage)
	assert.False(t, summary.Questions[1].Answered)
	assert.False(t, summary.Questions[1].Correct)
}

func TestScoreArrangementUsesSortOrder(t *testing.T) {
	// Option order a,b,c with answer-key positions 2,0,1: the correct
	// reading is b c a.
	q := models.Question{
		ID:   1,
		Type: models.SentenceArrangement,
		Options: []models.Option{
			{Text: "a", Role: models.RoleArrangeWord, SortOrder: 2},
			{Text: "b", Role: models.RoleArrangeWord, SortOrder: 0},
			{Text: "c", Role: models.RoleArrangeWord, SortOrder: 1},
			{Text: "。", Role: models.RoleDecoration},
		},
	}
	questions := []models.Question{q}

	tests := []struct {
		name     string
		sequence []int
		correct  bool
	}{
		{"correct order", []int{1, 2, 0}, true},
		{"option order", []int{0, 1, 2}, false},
		{"too short", []int{1, 2}, false},
		{"too long with dupe", []int{1, 2, 0, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := NewAnswerTracker()
			answers.Set(0, models.ArrangementAnswer{Sequence: tt.sequence})
			summary := Score(questions, answers)
			assert.Equal(t, tt.correct, summary.Questions[0].Correct)
		})
	}
}

func TestScoreWrongAnswerShapeIsIncorrect(t *testing.T) {
	questions := []models.Question{choiceQuestion(1, 0)}
	answers := NewAnswerTracker()
	answers.Set(0, models.ArrangementAnswer{Sequence: []int{0}})

	summary := Score(questions, answers)
	assert.Equal(t, 0, summary.CorrectCount)
}

func TestScorePercentageRounding(t *testing.T) {
	assert.Equal(t, 33, models.ScorePercentage(1, 3))
	assert.Equal(t, 67, models.ScorePercentage(2, 3))
	assert.Equal(t, 50, models.ScorePercentage(1, 2))
	assert.Equal(t, 13, models.ScorePercentage(1, 8))
	assert.Equal(t, 0, models.ScorePercentage(0, 0))
	assert.Equal(t, 100, models.ScorePercentage(5, 5))
}

func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		percentage int
		tier       models.PerformanceTier
	}{
		{100, models.TierExcellent},
		{90, models.TierExcellent},
		{89, models.TierGreat},
		{75, models.TierGreat},
		{74, models.TierGood},
		{60, models.TierGood},
		{59, models.TierEffort},
		{50, models.TierEffort},
		{49, models.TierKeepGoing},
		{0, models.TierKeepGoing},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tier, models.TierFor(tt.percentage), "percentage=%d", tt.percentage)
	}
}
