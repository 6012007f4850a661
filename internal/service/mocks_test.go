package service

import (
	"context"

	"github.com/Rrens/mock-interview/internal/domain"
	"github.com/Rrens/mock-interview/internal/llm"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockGenerator mocks the Generator interface
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, messages []domain.Message) (llm.Completion, error) {
	args := m.Called(ctx, messages)
	return args.Get(0).(llm.Completion), args.Error(1)
}

// MockInterviewRepository mocks the InterviewRepository interface
type MockInterviewRepository struct {
	mock.Mock
}

func (m *MockInterviewRepository) Create(ctx context.Context, session *domain.InterviewSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockInterviewRepository) Get(ctx context.Context, id uuid.UUID) (*domain.InterviewSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterviewSession), args.Error(1)
}

func (m *MockInterviewRepository) Update(ctx context.Context, session *domain.InterviewSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockInterviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInterviewRepository) List(ctx context.Context) ([]*domain.InterviewSession, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*domain.InterviewSession), args.Error(1)
}

func (m *MockInterviewRepository) Reset(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockLogArchive mocks the LogArchive interface
type MockLogArchive struct {
	mock.Mock
}

func (m *MockLogArchive) Save(ctx context.Context, entry *domain.InterviewLog) (string, error) {
	args := m.Called(ctx, entry)
	return args.String(0), args.Error(1)
}

func completion(text string) llm.Completion {
	return llm.Completion{Content: text, Provider: "lmstudio"}
}
