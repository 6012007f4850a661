package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Rrens/mock-interview/internal/domain"
	"github.com/Rrens/mock-interview/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func seedSession(t *testing.T, repo *memory.InterviewRepository) *domain.InterviewSession {
	t.Helper()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s := domain.NewInterviewSession(domain.InterviewContext{
		Company: "Acme", Role: "SRE", InterviewType: "behavioral", MaxQuestions: 3,
	}, now)
	s.AskQuestion("Q1?", now)
	require.NoError(t, s.RecordAnswer("a1", now.Add(time.Minute)))
	s.RecordEvaluation(7, "good")
	s.AskQuestion("Q2?", now.Add(2*time.Minute))
	require.NoError(t, repo.Create(context.Background(), s))
	return s
}

func TestExportService_Save(t *testing.T) {
	repo := memory.NewInterviewRepository()
	session := seedSession(t, repo)

	primary := new(MockLogArchive)
	primary.On("Save", mock.Anything, mock.MatchedBy(func(l *domain.InterviewLog) bool {
		return l.SessionID == session.ID &&
			l.EndTime == nil &&
			!l.IsComplete &&
			len(l.Questions) == 2 &&
			len(l.Answers) == 1 &&
			l.AverageScore == 7.0
	})).Return("interview_log_abc.json", nil)

	mirror := new(MockLogArchive)
	mirror.On("Save", mock.Anything, mock.Anything).Return("", errors.New("db down"))

	svc := NewExportService(repo, primary, mirror)
	location, err := svc.Save(context.Background(), session.ID.String())

	require.NoError(t, err)
	assert.Equal(t, "interview_log_abc.json", location, "mirror failures do not fail the export")
	primary.AssertExpectations(t)
	mirror.AssertExpectations(t)
}

func TestExportService_Save_NotFound(t *testing.T) {
	primary := new(MockLogArchive)
	svc := NewExportService(memory.NewInterviewRepository(), primary)

	_, err := svc.Save(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = svc.Save(context.Background(), "bogus")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	primary.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestExportService_Save_PrimaryFailure(t *testing.T) {
	repo := memory.NewInterviewRepository()
	session := seedSession(t, repo)

	primary := new(MockLogArchive)
	primary.On("Save", mock.Anything, mock.Anything).Return("", errors.New("permission denied"))

	svc := NewExportService(repo, primary)
	_, err := svc.Save(context.Background(), session.ID.String())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Contains(t, err.Error(), "permission denied")
}
