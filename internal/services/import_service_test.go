package services

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/Thanhvan06/japanese-quiz-service/internal/models"
	"github.com/Thanhvan06/japanese-quiz-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newImportFixture(t *testing.T) (*MockRepository, ImportService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := NewMockRepository()
	return repo, NewImportService(repo, logger, validator.New())
}

func TestImportQuestionsFromCSV(t *testing.T) {
	repo, service := newImportFixture(t)

	csv := strings.Join([]string{
		"type,level_code,prompt,furigana,option_a,option_b,option_c,correct,words,decorations,explanation",
		"word_to_meaning,N5,犬,いぬ,dog,cat,bird,a,,,basic vocabulary",
		"sentence_arrangement,N5,今日（　　）です,,,,,,私|は|学生,。,",
		"word_to_meaning,N5,猫,,dog,cat,,x,,,", // bad correct marker
		"word_to_meaning,N5,,,dog,cat,,a,,,",   // missing prompt
	}, "\n")

	var saved []*models.QuestionRecord
	repo.question.On("CreateBatch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).([]*models.QuestionRecord)
			for i, record := range saved {
				record.ID = uint(i + 1)
			}
		}).
		Return(nil)

	summary, err := service.ImportQuestionsFromCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalRows)
	assert.Equal(t, 2, summary.SuccessCount)
	assert.Equal(t, 2, summary.ErrorCount)
	assert.Equal(t, []uint{1, 2}, summary.CreatedQuestions)
	require.Len(t, summary.Errors, 2)
	assert.Equal(t, 4, summary.Errors[0].Row)
	assert.Equal(t, "correct", summary.Errors[0].Column)
	assert.Equal(t, 5, summary.Errors[1].Row)
	assert.Equal(t, "prompt", summary.Errors[1].Column)

	// The imported rows normalize into usable questions.
	require.Len(t, saved, 2)
	choice, err := saved[0].ToQuestion()
	require.NoError(t, err)
	assert.Equal(t, 0, choice.CorrectOptionIndex())
	assert.Equal(t, "いぬ", choice.Prompt.Furigana)
	assert.Equal(t, "basic vocabulary", choice.Explanation)

	arrangement, err := saved[1].ToQuestion()
	require.NoError(t, err)
	assert.Equal(t, []string{"私", "は", "学生"}, arrangement.CorrectSequence())
	assert.Len(t, arrangement.ArrangeWords(), 3)
	assert.Len(t, arrangement.Options, 4) // plus one decoration
}

func TestImportRejectsMissingHeader(t *testing.T) {
	_, service := newImportFixture(t)

	_, err := service.ImportQuestionsFromCSV(context.Background(), strings.NewReader("level_code,prompt\nN5,犬"))
	assert.True(t, IsValidation(err), "got %v", err)

	_, err = service.ImportQuestionsFromCSV(context.Background(), strings.NewReader("type,prompt"))
	assert.True(t, IsValidation(err), "got %v", err)
}

func TestImportAllRowsInvalidSkipsSave(t *testing.T) {
	repo, service := newImportFixture(t)

	csv := "type,prompt,option_a,option_b,correct\nword_to_meaning,,dog,cat,a"
	summary, err := service.ImportQuestionsFromCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 0, summary.SuccessCount)
	assert.Equal(t, 1, summary.ErrorCount)
	repo.question.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}
