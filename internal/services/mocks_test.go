package services

import (
	"context"

	"github.com/Thanhvan06/japanese-quiz-service/internal/models"
	"github.com/Thanhvan06/japanese-quiz-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, record *models.QuestionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockQuestionRepository) CreateBatch(ctx context.Context, records []*models.QuestionRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id uint) (*models.QuestionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuestionRecord), args.Error(1)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) CountAvailable(ctx context.Context, query repositories.QuestionQuery) (int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) FetchRandom(ctx context.Context, query repositories.QuestionQuery, limit int) ([]*models.QuestionRecord, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.QuestionRecord), args.Error(1)
}

type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Create(ctx context.Context, result *models.TestResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.TestResult, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TestResult), args.Error(1)
}

func (m *MockResultRepository) List(ctx context.Context, filters repositories.ResultFilters) ([]*models.TestResult, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.TestResult), args.Get(1).(int64), args.Error(2)
}

type MockRepository struct {
	question *MockQuestionRepository
	result   *MockResultRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		question: new(MockQuestionRepository),
		result:   new(MockResultRepository),
	}
}

func (m *MockRepository) Question() repositories.QuestionRepository { return m.question }
func (m *MockRepository) Result() repositories.ResultRepository     { return m.result }
func (m *MockRepository) Ping(_ context.Context) error              { return nil }
func (m *MockRepository) Close() error                              { return nil }
