package postgres

import (
	"context"

	"github.com/Thanhvan06/japanese-quiz-service/internal/models"
	"github.com/Thanhvan06/japanese-quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, record *models.QuestionRecord) error {
	return q.db.WithContext(ctx).Create(record).Error
}

func (q *QuestionPostgreSQL) CreateBatch(ctx context.Context, records []*models.QuestionRecord) error {
	if len(records) == 0 {
		return nil
	}
	return q.db.WithContext(ctx).Create(records).Error
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.QuestionRecord, error) {
	var record models.QuestionRecord
	if err := q.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (q *QuestionPostgreSQL) Delete(ctx context.Context, id uint) error {
	return q.db.WithContext(ctx).Delete(&models.QuestionRecord{}, id).Error
}

func (q *QuestionPostgreSQL) CountAvailable(ctx context.Context, query repositories.QuestionQuery) (int64, error) {
	var total int64
	db := q.applyQuery(q.db.WithContext(ctx).Model(&models.QuestionRecord{}), query)
	if err := db.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (q *QuestionPostgreSQL) FetchRandom(ctx context.Context, query repositories.QuestionQuery, limit int) ([]*models.QuestionRecord, error) {
	var records []*models.QuestionRecord
	db := q.applyQuery(q.db.WithContext(ctx).Model(&models.QuestionRecord{}), query)
	if err := db.Order("RANDOM()").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (q *QuestionPostgreSQL) applyQuery(db *gorm.DB, query repositories.QuestionQuery) *gorm.DB {
	db = db.Where("type = ?", query.Type)
	if query.LevelCode != nil {
		db = db.Where("level_code = ?", *query.LevelCode)
	}
	if query.TopicID != nil {
		db = db.Where("topic_id = ?", *query.TopicID)
	}
	if query.FlashcardSetID != nil {
		db = db.Where("flashcard_set_id = ?", *query.FlashcardSetID)
	}
	if len(query.GrammarIDs) > 0 {
		db = db.Where("grammar_id IN ?", query.GrammarIDs)
	}
	return db
}
