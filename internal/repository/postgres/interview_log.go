package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Rrens/mock-interview/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InterviewLogRepository archives exported interview logs in Postgres
type InterviewLogRepository struct {
	pool *pgxpool.Pool
}

// NewInterviewLogRepository creates a new interview log repository
func NewInterviewLogRepository(pool *pgxpool.Pool) *InterviewLogRepository {
	return &InterviewLogRepository{pool: pool}
}

// Save inserts a snapshot of the log. Each save is a new row so repeated
// exports of a running interview keep their history.
func (r *InterviewLogRepository) Save(ctx context.Context, entry *domain.InterviewLog) (string, error) {
	query := `
		INSERT INTO interview_logs (session_id, company, role, interview_type, is_complete,
			total_score, average_score, payload, saved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	payload, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("failed to marshal interview log: %w", err)
	}

	var id int64
	err = r.pool.QueryRow(ctx, query,
		entry.SessionID,
		entry.Context.Company,
		entry.Context.Role,
		entry.Context.InterviewType,
		entry.IsComplete,
		entry.TotalScore,
		entry.AverageScore,
		payload,
		entry.SavedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert interview log: %w", err)
	}

	return fmt.Sprintf("interview_logs/%d", id), nil
}
