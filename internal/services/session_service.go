package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Thanhvan06/japanese-quiz-service/internal/cache"
	"github.com/Thanhvan06/japanese-quiz-service/internal/events"
	"github.com/Thanhvan06/japanese-quiz-service/internal/models"
	"github.com/Thanhvan06/japanese-quiz-service/internal/repositories"
	"github.com/Thanhvan06/japanese-quiz-service/internal/session"
	"github.com/Thanhvan06/japanese-quiz-service/internal/validator"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const questionCountTTL = 5 * time.Minute

// AnswerRequest carries one answer update for a question. Exactly one of
// Option, Sequence or Move should be set; an explicitly empty Sequence
// reverts the question to unanswered.
type AnswerRequest struct {
	QuestionIndex int        `json:"question_index"`
	Option        *int       `json:"option,omitempty"`
	Sequence      []int      `json:"sequence,omitempty"`
	Move          *TokenMove `json:"move,omitempty"`
}

// TokenMove moves a single puzzle token of the displayed question.
type TokenMove struct {
	OriginalIndex int    `json:"original_index"`
	To            string `json:"to"` // "arranged" or "available"
}

// SessionService owns the in-memory registry of live test sessions and
// the side effects around their lifecycle: question fetching, result
// persistence and event publishing.
type SessionService interface {
	StartSession(ctx context.Context, userID string, cfg models.TestConfiguration) (session.Snapshot, error)
	GetSession(ctx context.Context, id string) (session.Snapshot, error)
	SubmitAnswer(ctx context.Context, id string, req AnswerRequest) (session.Snapshot, error)
	NextQuestion(ctx context.Context, id string) (session.Snapshot, error)
	PreviousQuestion(ctx context.Context, id string) (session.Snapshot, error)
	SubmitSession(ctx context.Context, id string) (models.ResultSummary, error)
	GetResult(ctx context.Context, id string) (models.ResultSummary, error)
	RestartSession(ctx context.Context, id string, cfg *models.TestConfiguration) (session.Snapshot, error)
	AvailableQuestionCount(ctx context.Context, cfg models.TestConfiguration) (int64, error)
	ListResults(ctx context.Context, filters repositories.ResultFilters) ([]*models.TestResult, int64, error)
}

type sessionEntry struct {
	sess   *session.Session
	userID string
}

type sessionService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger
	ops       *ServiceLogger

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

func NewSessionService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	v *validator.Validator,
	logger *slog.Logger,
) SessionService {
	return &sessionService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		validator: v,
		logger:    logger,
		ops:       NewServiceLogger(logger, "session"),
		sessions:  make(map[string]*sessionEntry),
	}
}

// ===== LIFECYCLE =====

func (s *sessionService) StartSession(ctx context.Context, userID string, cfg models.TestConfiguration) (snap session.Snapshot, err error) {
	id := uuid.NewString()
	done := s.ops.TimeOperation(ctx, "start_session", id)
	defer func() { done(err) }()

	if err = s.validator.Validate(&cfg); err != nil {
		return session.Snapshot{}, err
	}

	entry := &sessionEntry{userID: userID}
	sess := session.New(
		session.WithID(id),
		session.WithSubmitHook(s.submitHook(entry)),
	)
	entry.sess = sess

	if err = sess.Configure(cfg); err != nil {
		return session.Snapshot{}, err
	}
	if err = s.loadQuestions(ctx, entry); err != nil {
		return session.Snapshot{}, err
	}

	s.mu.Lock()
	s.sessions[id] = entry
	s.mu.Unlock()

	return sess.Snapshot(), nil
}

// loadQuestions runs the fetch path shared by start and restart: count
// the available material, clamp the requested size and activate the
// session. The count comes through the cache because the same
// configuration screen polls it repeatedly.
func (s *sessionService) loadQuestions(ctx context.Context, entry *sessionEntry) error {
	cfg := entry.sess.Config()

	total, err := s.AvailableQuestionCount(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%w: %v", session.ErrFetchFailure, err)
	}
	if total == 0 {
		return ErrNoQuestions
	}

	source := &repoQuestionSource{
		repo:   s.repo,
		logger: s.logger,
		limit:  cfg.ClampQuestionCount(int(total)),
	}
	if err := entry.sess.Load(ctx, source); err != nil {
		return err
	}

	s.publishStarted(ctx, entry)
	return nil
}

func (s *sessionService) publishStarted(ctx context.Context, entry *sessionEntry) {
	snap := entry.sess.Snapshot()
	cfg := entry.sess.Config()
	event := events.NewSessionEvent(events.EventSessionStarted, events.SessionStartedEvent{
		SessionID:        snap.ID,
		UserID:           entry.userID,
		SourceKind:       cfg.SourceKind,
		QuestionType:     cfg.QuestionType,
		QuestionCount:    snap.TotalCount,
		TimeLimitSeconds: cfg.TimeLimitSeconds,
		StartedAt:        time.Now(),
	})
	if err := s.publisher.PublishSessionEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish session started event",
			"session_id", snap.ID, "error", err)
	}
}

// submitHook persists the result and publishes the completion event once
// the session reaches its terminal state, whether by user action or by
// the countdown.
func (s *sessionService) submitHook(entry *sessionEntry) session.SubmitHook {
	return func(reason session.SubmitReason, summary models.ResultSummary) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		sess := entry.sess
		cfg := sess.Config()

		breakdown, err := json.Marshal(summary.Questions)
		if err != nil {
			s.logger.Error("Failed to marshal result breakdown",
				"session_id", sess.ID(), "error", err)
			breakdown = []byte("[]")
		}

		result := &models.TestResult{
			SessionID:    sess.ID(),
			UserID:       entry.userID,
			SourceKind:   cfg.SourceKind,
			QuestionType: cfg.QuestionType,
			CorrectCount: summary.CorrectCount,
			TotalCount:   summary.TotalCount,
			Percentage:   summary.Percentage,
			Tier:         summary.Tier,
			DurationSecs: sess.ElapsedSeconds(),
			Breakdown:    datatypes.JSON(breakdown),
		}
		if err := s.repo.Result().Create(ctx, result); err != nil {
			s.logger.Error("Failed to persist test result",
				"session_id", sess.ID(), "error", err)
		}

		event := events.NewSessionEvent(events.EventSessionCompleted, events.SessionCompletedEvent{
			SessionID:    sess.ID(),
			UserID:       entry.userID,
			SourceKind:   cfg.SourceKind,
			QuestionType: cfg.QuestionType,
			CorrectCount: summary.CorrectCount,
			TotalCount:   summary.TotalCount,
			Percentage:   summary.Percentage,
			Tier:         summary.Tier,
			EndReason:    string(reason),
			DurationSecs: result.DurationSecs,
			SubmittedAt:  time.Now(),
		})
		if err := s.publisher.PublishSessionEvent(ctx, event); err != nil {
			s.logger.Error("Failed to publish session completed event",
				"session_id", sess.ID(), "error", err)
		}
	}
}

// ===== SESSION OPERATIONS =====

func (s *sessionService) GetSession(_ context.Context, id string) (session.Snapshot, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	return entry.sess.Snapshot(), nil
}

func (s *sessionService) SubmitAnswer(ctx context.Context, id string, req AnswerRequest) (snap session.Snapshot, err error) {
	done := s.ops.TimeOperation(ctx, "submit_answer", id)
	defer func() { done(err) }()

	entry, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	sess := entry.sess

	switch {
	case req.Move != nil:
		switch req.Move.To {
		case "arranged":
			err = sess.MoveToArranged(req.Move.OriginalIndex)
		case "available":
			err = sess.MoveToAvailable(req.Move.OriginalIndex)
		default:
			err = NewValidationError("move.to", "must be 'arranged' or 'available'", req.Move.To)
		}
	case req.Option != nil:
		err = sess.SelectAnswer(req.QuestionIndex, models.ChoiceAnswer{Option: *req.Option})
	case req.Sequence != nil:
		err = sess.SelectAnswer(req.QuestionIndex, models.ArrangementAnswer{Sequence: req.Sequence})
	default:
		err = NewValidationError("answer", "one of option, sequence or move is required", nil)
	}
	if err != nil {
		return session.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

func (s *sessionService) NextQuestion(ctx context.Context, id string) (snap session.Snapshot, err error) {
	done := s.ops.TimeOperation(ctx, "next_question", id)
	defer func() { done(err) }()

	entry, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err = entry.sess.Next(); err != nil {
		return session.Snapshot{}, err
	}
	return entry.sess.Snapshot(), nil
}

func (s *sessionService) PreviousQuestion(ctx context.Context, id string) (snap session.Snapshot, err error) {
	done := s.ops.TimeOperation(ctx, "previous_question", id)
	defer func() { done(err) }()

	entry, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err = entry.sess.Previous(); err != nil {
		return session.Snapshot{}, err
	}
	return entry.sess.Snapshot(), nil
}

func (s *sessionService) SubmitSession(ctx context.Context, id string) (summary models.ResultSummary, err error) {
	done := s.ops.TimeOperation(ctx, "submit_session", id)
	defer func() { done(err) }()

	entry, err := s.lookup(id)
	if err != nil {
		return models.ResultSummary{}, err
	}
	if err = entry.sess.Submit(); err != nil {
		return models.ResultSummary{}, err
	}
	return entry.sess.Result()
}

func (s *sessionService) GetResult(ctx context.Context, id string) (models.ResultSummary, error) {
	if entry, err := s.lookup(id); err == nil {
		if summary, err := entry.sess.Result(); err == nil {
			return summary, nil
		}
		return models.ResultSummary{}, session.ErrNotSubmitted
	}

	// Fall back to the persisted record so results survive process
	// restarts and registry eviction.
	stored, err := s.repo.Result().GetBySessionID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return models.ResultSummary{}, ErrResultNotFound
		}
		return models.ResultSummary{}, err
	}
	return summaryFromRecord(stored), nil
}

func summaryFromRecord(stored *models.TestResult) models.ResultSummary {
	summary := models.ResultSummary{
		CorrectCount: stored.CorrectCount,
		TotalCount:   stored.TotalCount,
		Percentage:   stored.Percentage,
		Tier:         stored.Tier,
	}
	if len(stored.Breakdown) > 0 {
		// Breakdown is best-effort; a bad payload still yields the totals.
		_ = json.Unmarshal(stored.Breakdown, &summary.Questions)
	}
	return summary
}

func (s *sessionService) RestartSession(ctx context.Context, id string, cfg *models.TestConfiguration) (snap session.Snapshot, err error) {
	done := s.ops.TimeOperation(ctx, "restart_session", id)
	defer func() { done(err) }()

	entry, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}

	entry.sess.Restart()
	if cfg != nil {
		if err = s.validator.Validate(cfg); err != nil {
			return session.Snapshot{}, err
		}
		if err = entry.sess.Configure(*cfg); err != nil {
			return session.Snapshot{}, err
		}
	}
	if err = s.loadQuestions(ctx, entry); err != nil {
		return session.Snapshot{}, err
	}
	return entry.sess.Snapshot(), nil
}

// ===== QUERIES =====

func (s *sessionService) AvailableQuestionCount(ctx context.Context, cfg models.TestConfiguration) (int64, error) {
	query := repositories.QueryFor(cfg)

	keyPayload, err := json.Marshal(query)
	if err != nil {
		return 0, err
	}
	key := "question_count:" + string(keyPayload)

	var cached int64
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	total, err := s.repo.Question().CountAvailable(ctx, query)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Set(ctx, key, total, questionCountTTL); err != nil {
		s.logger.Warn("Failed to cache question count", "key", key, "error", err)
	}
	return total, nil
}

func (s *sessionService) ListResults(ctx context.Context, filters repositories.ResultFilters) ([]*models.TestResult, int64, error) {
	return s.repo.Result().List(ctx, filters)
}

func (s *sessionService) lookup(id string) (*sessionEntry, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry, nil
}

// ===== QUESTION SOURCE =====

// repoQuestionSource adapts the question repository to the session's
// fetch interface. Malformed stored payloads are skipped with a warning
// instead of failing the whole set.
type repoQuestionSource struct {
	repo   repositories.Repository
	logger *slog.Logger
	limit  int
}

func (r *repoQuestionSource) FetchQuestions(ctx context.Context, cfg models.TestConfiguration) ([]models.Question, error) {
	records, err := r.repo.Question().FetchRandom(ctx, repositories.QueryFor(cfg), r.limit)
	if err != nil {
		return nil, err
	}

	questions := make([]models.Question, 0, len(records))
	for _, record := range records {
		q, err := record.ToQuestion()
		if err != nil {
			r.logger.Warn("Skipping malformed question record",
				"question_id", record.ID, "error", err)
			continue
		}
		questions = append(questions, q)
	}
	return questions, nil
}
