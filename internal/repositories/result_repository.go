package repositories

import (
	"context"

	"github.com/Thanhvan06/japanese-quiz-service/internal/models"
)

// ResultRepository persists completed-session results only; in-progress
// sessions never touch storage.
type ResultRepository interface {
	Create(ctx context.Context, result *models.TestResult) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.TestResult, error)
	List(ctx context.Context, filters ResultFilters) ([]*models.TestResult, int64, error)
}
