package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Rrens/mock-interview/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) *domain.InterviewSession {
	t.Helper()
	s := domain.NewInterviewSession(domain.InterviewContext{
		Company: "Acme", Role: "SRE", InterviewType: "behavioral", MaxQuestions: 2,
	}, time.Now())
	s.AskQuestion("Q1", time.Now())
	return s
}

func TestInterviewRepository_CreateGet(t *testing.T) {
	repo := NewInterviewRepository()
	ctx := context.Background()
	s := newSession(t)

	require.NoError(t, repo.Create(ctx, s))
	assert.Error(t, repo.Create(ctx, s), "duplicate ids are rejected")

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	_, err = repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestInterviewRepository_GetReturnsCopy(t *testing.T) {
	repo := NewInterviewRepository()
	ctx := context.Background()
	s := newSession(t)
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	require.NoError(t, got.RecordAnswer("mutated", time.Now()))
	got.RecordEvaluation(9, "great")

	again, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, again.Turns[0].Answer)
	assert.Equal(t, 0, again.TotalScore)

	require.NoError(t, repo.Update(ctx, got))
	again, err = repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "mutated", *again.Turns[0].Answer)
	assert.Equal(t, 9, again.TotalScore)
}

func TestInterviewRepository_Reset(t *testing.T) {
	repo := NewInterviewRepository()
	ctx := context.Background()
	a, b := newSession(t), newSession(t)
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	n, err := repo.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = repo.Get(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, repo.Update(ctx, b), domain.ErrSessionNotFound, "reset sessions are not resurrected")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInterviewRepository_Delete(t *testing.T) {
	repo := NewInterviewRepository()
	ctx := context.Background()
	s := newSession(t)
	require.NoError(t, repo.Create(ctx, s))

	require.NoError(t, repo.Delete(ctx, s.ID))
	assert.ErrorIs(t, repo.Delete(ctx, s.ID), domain.ErrSessionNotFound)
}

func TestInterviewRepository_ConcurrentAccess(t *testing.T) {
	repo := NewInterviewRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := newSession(t)
			assert.NoError(t, repo.Create(ctx, s))
			_, err := repo.Get(ctx, s.ID)
			assert.NoError(t, err)
			_, err = repo.List(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 50)
}
