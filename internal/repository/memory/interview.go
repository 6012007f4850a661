package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Rrens/mock-interview/internal/domain"
	"github.com/google/uuid"
)

// InterviewRepository implements domain.InterviewRepository in process memory.
// Sessions are stored and returned as deep copies; a caller only changes
// stored state through Update.
type InterviewRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*domain.InterviewSession
}

// NewInterviewRepository creates an empty store
func NewInterviewRepository() *InterviewRepository {
	return &InterviewRepository{
		sessions: make(map[uuid.UUID]*domain.InterviewSession),
	}
}

func (r *InterviewRepository) Create(ctx context.Context, session *domain.InterviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID]; exists {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	r.sessions[session.ID] = session.Clone()
	return nil
}

func (r *InterviewRepository) Get(ctx context.Context, id uuid.UUID) (*domain.InterviewSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s.Clone(), nil
}

// Update replaces a stored session. Sessions removed by Reset stay removed.
func (r *InterviewRepository) Update(ctx context.Context, session *domain.InterviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[session.ID]; !ok {
		return domain.ErrSessionNotFound
	}
	r.sessions[session.ID] = session.Clone()
	return nil
}

func (r *InterviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// List returns every session ordered by start time
func (r *InterviewRepository) List(ctx context.Context) ([]*domain.InterviewSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.InterviewSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

// Reset drops every session at once and reports how many were removed
func (r *InterviewRepository) Reset(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.sessions)
	r.sessions = make(map[uuid.UUID]*domain.InterviewSession)
	return n, nil
}
