package session

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/Thanhvan06/japanese-quiz-service/internal/models"
)

type State string

const (
	StateConfiguring State = "configuring"
	StateLoading     State = "loading"
	StateActive      State = "active"
	StateSubmitted   State = "submitted"
)

// SubmitReason distinguishes a manual submit from one forced by the
// countdown. Whichever happens first wins; the transition is idempotent
// afterwards.
type SubmitReason string

const (
	SubmitManual  SubmitReason = "manual"
	SubmitTimeout SubmitReason = "timeout"
)

// QuestionSource supplies the question set for a configuration. The
// session treats it as an opaque external collaborator; any failure is
// mapped to ErrFetchFailure.
type QuestionSource interface {
	FetchQuestions(ctx context.Context, cfg models.TestConfiguration) ([]models.Question, error)
}

// SubmitHook observes the terminal transition, e.g. to persist the result
// or publish an event. Invoked asynchronously, once per submission.
type SubmitHook func(reason SubmitReason, summary models.ResultSummary)

// Session is the test-session state machine:
//
//	configuring -> loading -> active -> submitted -> (restart) configuring
//
// It owns the question set, the answer record, the countdown and the
// puzzle state of the displayed question exclusively. All methods are
// safe for concurrent use; the only concurrent caller in practice is the
// timer goroutine racing user events.
type Session struct {
	mu sync.Mutex

	id        string
	state     State
	config    models.TestConfiguration
	questions []models.Question
	current   int
	answers   *AnswerTracker
	timer     *Timer
	puzzle    *Puzzle
	result    *models.ResultSummary
	startedAt time.Time

	// generation increments on every restart so stale fetch completions
	// and stale timer expiries can be detected and discarded.
	generation  uint64
	cancelFetch context.CancelFunc

	rng       *rand.Rand
	timerOpts []TimerOption
	onSubmit  SubmitHook
}

type Option func(*Session)

// WithID sets the external identifier used in logs and events.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithRand injects the shuffle source. Tests use a fixed seed.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithTimerOptions forwards options to the countdown created on load.
func WithTimerOptions(opts ...TimerOption) Option {
	return func(s *Session) { s.timerOpts = opts }
}

// WithSubmitHook registers the submission observer.
func WithSubmitHook(hook SubmitHook) Option {
	return func(s *Session) { s.onSubmit = hook }
}

func New(opts ...Option) *Session {
	s := &Session{
		state:   StateConfiguring,
		answers: NewAnswerTracker(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Config() models.TestConfiguration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// Configure accepts the test configuration. Only valid while configuring;
// the configuration is immutable once loading starts.
func (s *Session) Configure(cfg models.TestConfiguration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateConfiguring {
		return ErrNotConfigurable
	}
	s.config = cfg
	return nil
}

// Load fetches the question set and, on success, arms the countdown and
// activates the session. An empty result or a fetch failure returns the
// machine to configuring with the configuration preserved, so the caller
// can adjust and retry. A completion arriving after a restart is
// discarded instead of resurrecting the old session.
func (s *Session) Load(ctx context.Context, source QuestionSource) error {
	s.mu.Lock()
	if s.state != StateConfiguring {
		s.mu.Unlock()
		return ErrNotConfigurable
	}
	gen := s.generation
	cfg := s.config
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancelFetch = cancel
	s.state = StateLoading
	s.mu.Unlock()

	questions, err := source.FetchQuestions(fetchCtx, cfg)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		// Restarted while the fetch was in flight.
		return ErrNotActive
	}
	s.cancelFetch = nil
	if err != nil {
		s.state = StateConfiguring
		return fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}
	if len(questions) == 0 {
		s.state = StateConfiguring
		return ErrEmptyQuestionSet
	}

	s.questions = questions
	s.answers = NewAnswerTracker()
	s.current = 0
	s.result = nil
	s.startedAt = time.Now()
	s.timer = NewTimer(s.expiryFunc(gen), s.timerOpts...)
	s.timer.Start(cfg.TimeLimitSeconds)
	s.initPuzzle()
	s.state = StateActive
	return nil
}

// expiryFunc binds the countdown to the generation it was armed for, so
// an expiry that fires around a restart cannot submit the next run.
func (s *Session) expiryFunc(gen uint64) func() {
	return func() {
		s.mu.Lock()
		if s.generation != gen || s.state != StateActive {
			s.mu.Unlock()
			return
		}
		s.submitLocked(SubmitTimeout)
		s.mu.Unlock()
	}
}

// SelectAnswer records an answer for a question. Choice answers must
// match a multiple-choice question, sequences a sentence-arrangement
// question. Calls on a submitted session are no-ops.
func (s *Session) SelectAnswer(index int, value models.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitted {
		return nil
	}
	if s.state != StateActive {
		return ErrNotActive
	}
	if index < 0 || index >= len(s.questions) {
		return ErrInvalidQuestionIndex
	}
	q := &s.questions[index]

	switch answer := value.(type) {
	case models.ChoiceAnswer:
		if q.Variant() != models.VariantMultipleChoice {
			return ErrInvalidAnswer
		}
		if answer.Option < 0 || answer.Option >= len(q.Options) {
			return ErrInvalidAnswer
		}
		s.answers.Set(index, answer)
	case models.ArrangementAnswer:
		if q.Variant() != models.VariantSentenceArrangement {
			return ErrInvalidAnswer
		}
		if index == s.current && s.puzzle != nil {
			// Route through the puzzle so the available pool keeps its
			// order instead of reshuffling on every update.
			if !s.puzzle.ApplySequence(answer.Sequence) {
				return ErrInvalidAnswer
			}
			s.answers.Set(index, s.puzzle.Answer())
			return nil
		}
		if !validSequence(q, answer.Sequence) {
			return ErrInvalidAnswer
		}
		s.answers.Set(index, answer)
	default:
		return ErrInvalidAnswer
	}
	return nil
}

func validSequence(q *models.Question, sequence []int) bool {
	limit := len(q.ArrangeWords())
	seen := make(map[int]bool, len(sequence))
	for _, idx := range sequence {
		if idx < 0 || idx >= limit || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// MoveToArranged appends an available token to the current question's
// guess sequence and updates the answer record.
func (s *Session) MoveToArranged(originalIndex int) error {
	return s.movePuzzleToken(originalIndex, true)
}

// MoveToAvailable returns an arranged token to the pool. Removing the
// last token reverts the record to unanswered.
func (s *Session) MoveToAvailable(originalIndex int) error {
	return s.movePuzzleToken(originalIndex, false)
}

func (s *Session) movePuzzleToken(originalIndex int, toArranged bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitted {
		return nil
	}
	if s.state != StateActive {
		return ErrNotActive
	}
	if s.puzzle == nil {
		return ErrInvalidAnswer
	}
	var moved bool
	if toArranged {
		moved = s.puzzle.MoveToArranged(originalIndex)
	} else {
		moved = s.puzzle.MoveToAvailable(originalIndex)
	}
	if !moved {
		return ErrInvalidAnswer
	}
	s.answers.Set(s.current, s.puzzle.Answer())
	return nil
}

// Next advances to the following question. From the last question it is
// equivalent to Submit, including the unanswered guard at that terminal
// step; earlier unanswered questions can be skipped past freely.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitted {
		return nil
	}
	if s.state != StateActive {
		return ErrNotActive
	}
	if s.current == len(s.questions)-1 {
		if !s.answers.IsAnswered(s.current) {
			return ErrLastQuestionUnanswered
		}
		s.submitLocked(SubmitManual)
		return nil
	}
	s.current++
	s.initPuzzle()
	return nil
}

// Previous steps back one question. No-op at index 0.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitted {
		return nil
	}
	if s.state != StateActive {
		return ErrNotActive
	}
	if s.current == 0 {
		return nil
	}
	s.current--
	s.initPuzzle()
	return nil
}

// Submit freezes the session. Repeated calls are no-ops returning the
// same stable result. While positioned on an unanswered final question
// the manual submit is blocked; a timeout submit is not.
func (s *Session) Submit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitted {
		return nil
	}
	if s.state != StateActive {
		return ErrNotActive
	}
	if s.current == len(s.questions)-1 && !s.answers.IsAnswered(s.current) {
		return ErrLastQuestionUnanswered
	}
	s.submitLocked(SubmitManual)
	return nil
}

func (s *Session) submitLocked(reason SubmitReason) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.answers.Freeze()
	summary := Score(s.questions, s.answers)
	s.result = &summary
	s.state = StateSubmitted

	if s.onSubmit != nil {
		hook := s.onSubmit
		go hook(reason, summary)
	}
}

// Result returns the stable summary of a submitted session.
func (s *Session) Result() (models.ResultSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSubmitted || s.result == nil {
		return models.ResultSummary{}, ErrNotSubmitted
	}
	return *s.result, nil
}

// Restart discards the question set, answer record, timer and current
// index and returns to configuring. Any in-flight fetch and any armed
// countdown belong to an older generation afterwards and are discarded
// when they complete. The previous configuration is kept for editing.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if s.cancelFetch != nil {
		s.cancelFetch()
		s.cancelFetch = nil
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.questions = nil
	s.answers = NewAnswerTracker()
	s.puzzle = nil
	s.result = nil
	s.current = 0
	s.state = StateConfiguring
}

// ElapsedSeconds reports the time since the session became active.
func (s *Session) ElapsedSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startedAt.IsZero() {
		return 0
	}
	return int(time.Since(s.startedAt).Seconds())
}

// initPuzzle rebuilds the puzzle pools for the displayed question. Called
// only on a genuine change of displayed question or question set, never
// on a mere answer update, so the pool order stays put between clicks.
func (s *Session) initPuzzle() {
	q := &s.questions[s.current]
	if q.Variant() != models.VariantSentenceArrangement {
		s.puzzle = nil
		return
	}
	prior, _ := s.answers.Get(s.current)
	s.puzzle = NewPuzzle(q, prior, s.rng)
}

// TimerView is the presentation-ready countdown state.
type TimerView struct {
	Remaining int    `json:"remaining"`
	Running   bool   `json:"running"`
	Display   string `json:"display"`
	LowTime   bool   `json:"low_time"`
}

// PuzzleView exposes the token pools of the displayed question.
type PuzzleView struct {
	Arranged  []Token `json:"arranged"`
	Available []Token `json:"available"`
}

// Snapshot is a consistent read of everything the presentation layer
// needs to render the session.
type Snapshot struct {
	ID            string           `json:"id"`
	State         State            `json:"state"`
	CurrentIndex  int              `json:"current_index"`
	TotalCount    int              `json:"total_count"`
	AnsweredCount int              `json:"answered_count"`
	Question      *models.Question `json:"question,omitempty"`
	DisplayPrompt string           `json:"display_prompt,omitempty"`
	Answered      bool             `json:"answered"`
	Puzzle        *PuzzleView      `json:"puzzle,omitempty"`
	Timer         *TimerView       `json:"timer,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:            s.id,
		State:         s.state,
		CurrentIndex:  s.current,
		TotalCount:    len(s.questions),
		AnsweredCount: s.answers.AnsweredCount(),
	}
	if s.state == StateActive && s.current < len(s.questions) {
		q := s.questions[s.current]
		snap.Question = &q
		snap.DisplayPrompt = q.DisplayPrompt()
		snap.Answered = s.answers.IsAnswered(s.current)
	}
	if s.puzzle != nil {
		snap.Puzzle = &PuzzleView{
			Arranged:  s.puzzle.Arranged(),
			Available: s.puzzle.Available(),
		}
	}
	if s.timer != nil {
		snap.Timer = &TimerView{
			Remaining: s.timer.Remaining(),
			Running:   s.timer.Running(),
			Display:   s.timer.Display(),
			LowTime:   s.timer.LowTime(),
		}
	}
	return snap
}
