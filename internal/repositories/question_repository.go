package repositories

import (
	"context"

	"github.com/Thanhvan06/japanese-quiz-service/internal/models"
)

// QuestionRepository is the question bank boundary. Sampling is random so
// two sessions over the same material see different question sets.
type QuestionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, record *models.QuestionRecord) error
	CreateBatch(ctx context.Context, records []*models.QuestionRecord) error
	GetByID(ctx context.Context, id uint) (*models.QuestionRecord, error)
	Delete(ctx context.Context, id uint) error

	// Session queries
	CountAvailable(ctx context.Context, query QuestionQuery) (int64, error)
	FetchRandom(ctx context.Context, query QuestionQuery, limit int) ([]*models.QuestionRecord, error)
}
