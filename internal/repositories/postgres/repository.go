package postgres

import (
	"context"

	"github.com/Thanhvan06/japanese-quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type gormRepository struct {
	db       *gorm.DB
	question repositories.QuestionRepository
	result   repositories.ResultRepository
}

// NewRepository wires the gorm-backed repositories around one shared
// connection pool.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{
		db:       db,
		question: NewQuestionPostgreSQL(db),
		result:   NewResultPostgreSQL(db),
	}
}

func (r *gormRepository) Question() repositories.QuestionRepository {
	return r.question
}

func (r *gormRepository) Result() repositories.ResultRepository {
	return r.result
}

func (r *gormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *gormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
