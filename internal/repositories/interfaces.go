package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Thanhvan06/japanese-quiz-service/internal/models"
	"gorm.io/gorm"
)

// Repository aggregates the data-access interfaces the services depend on.
type Repository interface {
	Question() QuestionRepository
	Result() ResultRepository
	Ping(ctx context.Context) error
	Close() error
}

// ===== SHARED FILTER STRUCTS =====

// QuestionQuery selects question material for one test configuration. It
// is the storage-side mirror of models.TestConfiguration: source kind +
// params + question type.
type QuestionQuery struct {
	Type           models.QuestionType `json:"type"`
	LevelCode      *string             `json:"level_code,omitempty"`
	TopicID        *uint               `json:"topic_id,omitempty"`
	FlashcardSetID *uint               `json:"flashcard_set_id,omitempty"`
	GrammarIDs     []uint              `json:"grammar_ids,omitempty"`
}

// QueryFor translates a test configuration into the storage query.
func QueryFor(cfg models.TestConfiguration) QuestionQuery {
	query := QuestionQuery{Type: cfg.QuestionType}
	switch cfg.SourceKind {
	case models.SourceLevel:
		level := cfg.SourceParams.LevelCode
		query.LevelCode = &level
	case models.SourceTopic:
		topic := cfg.SourceParams.TopicID
		query.TopicID = &topic
	case models.SourceFlashcardSet:
		set := cfg.SourceParams.FlashcardSetID
		query.FlashcardSetID = &set
	case models.SourceGrammarSelection:
		query.GrammarIDs = cfg.SourceParams.GrammarIDs
	}
	return query
}

type ResultFilters struct {
	UserID    *string    `json:"user_id,omitempty"`
	DateFrom  *time.Time `json:"date_from,omitempty"`
	DateTo    *time.Time `json:"date_to,omitempty"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortOrder string     `json:"sort_order"` // "asc", "desc"
}

// IsNotFoundError reports whether a repository error means "no such row".
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
