package session

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/Thanhvan06/japanese-quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	questions []models.Question
	err       error
	onFetch   func()
}

func (s *stubSource) FetchQuestions(_ context.Context, _ models.TestConfiguration) ([]models.Question, error) {
	if s.onFetch != nil {
		s.onFetch()
	}
	return s.questions, s.err
}

func testConfig(timeLimit int) models.TestConfiguration {
	return models.TestConfiguration{
		SourceKind:       models.SourceLevel,
		SourceParams:     models.SourceParams{LevelCode: "N5"},
		QuestionType:     models.WordToMeaning,
		QuestionCount:    10,
		TimeLimitSeconds: timeLimit,
	}
}

func newActiveSession(t *testing.T, questions []models.Question, timeLimit int, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{
		WithID("test-session"),
		WithRand(rand.New(rand.NewSource(1))),
		WithTimerOptions(WithTickInterval(time.Hour)),
	}, opts...)
	s := New(opts...)
	require.NoError(t, s.Configure(testConfig(timeLimit)))
	require.NoError(t, s.Load(context.Background(), &stubSource{questions: questions}))
	require.Equal(t, StateActive, s.State())
	return s
}

func TestLoadEmptySetReturnsToConfiguring(t *testing.T) {
	s := New()
	cfg := testConfig(0)
	require.NoError(t, s.Configure(cfg))

	err := s.Load(context.Background(), &stubSource{})
	assert.ErrorIs(t, err, ErrEmptyQuestionSet)
	assert.Equal(t, StateConfiguring, s.State())
	// Configuration survives the failed load for editing.
	assert.Equal(t, cfg, s.Config())
}

func TestLoadFetchFailure(t *testing.T) {
	s := New()
	require.NoError(t, s.Configure(testConfig(0)))

	err := s.Load(context.Background(), &stubSource{err: errors.New("boom")})
	assert.ErrorIs(t, err, ErrFetchFailure)
	assert.Equal(t, StateConfiguring, s.State())
}

func TestConfigureOnlyBeforeLoad(t *testing.T) {
	s := newActiveSession(t, []models.Question{choiceQuestion(1, 0)}, 0)
	assert.ErrorIs(t, s.Configure(testConfig(0)), ErrNotConfigurable)
	assert.ErrorIs(t, s.Load(context.Background(), &stubSource{}), ErrNotConfigurable)
}

func TestAnswerValidation(t *testing.T) {
	s := newActiveSession(t, []models.Question{
		choiceQuestion(1, 0),
		*arrangementQuestion("a", "b", "c"),
	}, 0)

	assert.ErrorIs(t, s.SelectAnswer(-1, models.ChoiceAnswer{Option: 0}), ErrInvalidQuestionIndex)
	assert.ErrorIs(t, s.SelectAnswer(5, models.ChoiceAnswer{Option: 0}), ErrInvalidQuestionIndex)

	// Shape must match the question variant.
	assert.ErrorIs(t, s.SelectAnswer(0, models.ArrangementAnswer{Sequence: []int{0}}), ErrInvalidAnswer)
	assert.ErrorIs(t, s.SelectAnswer(1, models.ChoiceAnswer{Option: 0}), ErrInvalidAnswer)

	// Option bounds.
	assert.ErrorIs(t, s.SelectAnswer(0, models.ChoiceAnswer{Option: 4}), ErrInvalidAnswer)
	assert.NoError(t, s.SelectAnswer(0, models.ChoiceAnswer{Option: 1}))

	// Sequence bounds for a non-displayed arrangement question.
	assert.ErrorIs(t, s.SelectAnswer(1, models.ArrangementAnswer{Sequence: []int{9}}), ErrInvalidAnswer)
	assert.NoError(t, s.SelectAnswer(1, models.ArrangementAnswer{Sequence: []int{2, 0, 1}}))
}

func TestNavigation(t *testing.T) {
	s := newActiveSession(t, []models.Question{
		choiceQuestion(1, 0),
		choiceQuestion(2, 1),
		choiceQuestion(3, 2),
	}, 0)

	snap := s.Snapshot()
	assert.Equal(t, 0, snap.CurrentIndex)
	assert.Equal(t, 3, snap.TotalCount)

	// Previous at the first question is a no-op.
	require.NoError(t, s.Previous())
	assert.Equal(t, 0, s.Snapshot().CurrentIndex)

	// Skipping an unanswered question forward is allowed.
	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	assert.Equal(t, 2, s.Snapshot().CurrentIndex)

	require.NoError(t, s.Previous())
	assert.Equal(t, 1, s.Snapshot().CurrentIndex)
}

func TestNextOnLastQuestionSubmits(t *testing.T) {
	s := newActiveSession(t, []models.Question{
		choiceQuestion(1, 0),
		choiceQuestion(2, 1),
	}, 0)
	require.NoError(t, s.Next())

	// Terminal step is guarded while the last question is unanswered.
	assert.ErrorIs(t, s.Next(), ErrLastQuestionUnanswered)
	assert.ErrorIs(t, s.Submit(), ErrLastQuestionUnanswered)

	require.NoError(t, s.SelectAnswer(1, models.ChoiceAnswer{Option: 1}))
	require.NoError(t, s.Next())
	assert.Equal(t, StateSubmitted, s.State())

	result, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, 1, result.CorrectCount)
	assert.Equal(t, 50, result.Percentage)
}

func TestSubmittedCallsAreNoOps(t *testing.T) {
	s := newActiveSession(t, []models.Question{choiceQuestion(1, 0)}, 0)
	require.NoError(t, s.SelectAnswer(0, models.ChoiceAnswer{Option: 0}))
	require.NoError(t, s.Submit())

	first, err := s.Result()
	require.NoError(t, err)

	// Everything after submission is accepted silently and changes nothing.
	assert.NoError(t, s.Submit())
	assert.NoError(t, s.Next())
	assert.NoError(t, s.Previous())
	assert.NoError(t, s.SelectAnswer(0, models.ChoiceAnswer{Option: 3}))
	assert.NoError(t, s.MoveToArranged(0))

	second, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResultBeforeSubmit(t *testing.T) {
	s := newActiveSession(t, []models.Question{choiceQuestion(1, 0)}, 0)
	_, err := s.Result()
	assert.ErrorIs(t, err, ErrNotSubmitted)
}

func TestTimeoutSubmitBypassesUnansweredGuard(t *testing.T) {
	reasons := make(chan SubmitReason, 1)
	s := newActiveSession(t, []models.Question{choiceQuestion(1, 0)}, 1,
		WithSubmitHook(func(reason SubmitReason, _ models.ResultSummary) {
			reasons <- reason
		}))

	// Drive the countdown to zero with the last question unanswered.
	s.timer.Tick()

	assert.Equal(t, StateSubmitted, s.State())
	result, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, 0, result.CorrectCount)

	select {
	case reason := <-reasons:
		assert.Equal(t, SubmitTimeout, reason)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "submit hook did not fire")
	}
}

func TestManualSubmitHookReason(t *testing.T) {
	reasons := make(chan SubmitReason, 1)
	s := newActiveSession(t, []models.Question{choiceQuestion(1, 0)}, 0,
		WithSubmitHook(func(reason SubmitReason, _ models.ResultSummary) {
			reasons <- reason
		}))
	require.NoError(t, s.SelectAnswer(0, models.ChoiceAnswer{Option: 0}))
	require.NoError(t, s.Submit())

	select {
	case reason := <-reasons:
		assert.Equal(t, SubmitManual, reason)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "submit hook did not fire")
	}
}

func TestRestartClearsRunAndKeepsConfig(t *testing.T) {
	cfg := testConfig(300)
	s := newActiveSession(t, []models.Question{choiceQuestion(1, 0)}, 300)
	require.NoError(t, s.SelectAnswer(0, models.ChoiceAnswer{Option: 0}))
	staleTimer := s.timer

	s.Restart()

	assert.Equal(t, StateConfiguring, s.State())
	assert.Equal(t, cfg, s.Config())
	snap := s.Snapshot()
	assert.Equal(t, 0, snap.TotalCount)
	assert.Equal(t, 0, snap.AnsweredCount)
	assert.Nil(t, snap.Timer)

	// A stale tick from the old run is discarded.
	assert.False(t, staleTimer.Tick())
	assert.Equal(t, StateConfiguring, s.State())

	// The session is reusable: configure-load works again.
	require.NoError(t, s.Load(context.Background(), &stubSource{questions: []models.Question{choiceQuestion(2, 1)}}))
	assert.Equal(t, StateActive, s.State())
	assert.False(t, s.Snapshot().Answered)
}

func TestRestartDuringFetchDiscardsCompletion(t *testing.T) {
	s := New(WithRand(rand.New(rand.NewSource(1))))
	require.NoError(t, s.Configure(testConfig(0)))

	source := &stubSource{questions: []models.Question{choiceQuestion(1, 0)}}
	source.onFetch = func() { s.Restart() }

	err := s.Load(context.Background(), source)
	assert.ErrorIs(t, err, ErrNotActive)
	assert.Equal(t, StateConfiguring, s.State())
	assert.Equal(t, 0, s.Snapshot().TotalCount)
}

func TestExpiryAfterRestartIsDiscarded(t *testing.T) {
	s := newActiveSession(t, []models.Question{choiceQuestion(1, 0)}, 1)
	staleExpiry := s.expiryFunc(0)

	s.Restart()
	require.NoError(t, s.Load(context.Background(), &stubSource{questions: []models.Question{choiceQuestion(2, 0)}}))

	// An expiry armed for generation 0 must not submit generation 1.
	staleExpiry()
	assert.Equal(t, StateActive, s.State())
}

func TestPuzzleLifecycleThroughSession(t *testing.T) {
	s := newActiveSession(t, []models.Question{
		*arrangementQuestion("私", "は", "学生"),
		choiceQuestion(2, 0),
	}, 0)

	snap := s.Snapshot()
	require.NotNil(t, snap.Puzzle)
	require.Len(t, snap.Puzzle.Available, 3)
	assert.False(t, snap.Answered)

	first := snap.Puzzle.Available[0]
	require.NoError(t, s.MoveToArranged(first.OriginalIndex))
	snap = s.Snapshot()
	assert.True(t, snap.Answered)
	assert.Equal(t, []Token{first}, snap.Puzzle.Arranged)

	// Returning the only arranged token reverts to unanswered.
	require.NoError(t, s.MoveToAvailable(first.OriginalIndex))
	snap = s.Snapshot()
	assert.False(t, snap.Answered)
	assert.Empty(t, snap.Puzzle.Arranged)

	// Whole-sequence updates preserve the visible pool order.
	pool := snap.Puzzle.Available
	require.NoError(t, s.SelectAnswer(0, models.ArrangementAnswer{
		Sequence: []int{pool[1].OriginalIndex},
	}))
	snap = s.Snapshot()
	assert.Equal(t, []Token{pool[0], pool[2]}, snap.Puzzle.Available)

	// Arrangement survives navigating away and back.
	require.NoError(t, s.Next())
	assert.Nil(t, s.Snapshot().Puzzle)
	require.NoError(t, s.Previous())
	snap = s.Snapshot()
	assert.Equal(t, []Token{pool[1]}, snap.Puzzle.Arranged)
	assert.True(t, snap.Answered)

	// Moves on a non-puzzle question are rejected.
	require.NoError(t, s.Next())
	assert.ErrorIs(t, s.MoveToArranged(0), ErrInvalidAnswer)
}

func TestSnapshotDisplayPrompt(t *testing.T) {
	q := arrangementQuestion("a", "b")
	q.Prompt.Text = "今日（　　）です"
	s := newActiveSession(t, []models.Question{*q}, 0)

	assert.Equal(t, "今日"+models.BlankPlaceholder+"です", s.Snapshot().DisplayPrompt)
}
