package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/mock-interview/internal/domain"
	"github.com/rs/zerolog/log"
)

// ExportService writes session snapshots to the log archives
type ExportService struct {
	repo    domain.InterviewRepository
	primary domain.LogArchive
	mirrors []domain.LogArchive
	now     func() time.Time
}

// NewExportService creates an export service. The primary archive decides
// success; mirrors are best effort.
func NewExportService(repo domain.InterviewRepository, primary domain.LogArchive, mirrors ...domain.LogArchive) *ExportService {
	return &ExportService{
		repo:    repo,
		primary: primary,
		mirrors: mirrors,
		now:     time.Now,
	}
}

// Save exports the session, complete or not, and returns the primary location
func (s *ExportService) Save(ctx context.Context, sessionID string) (string, error) {
	id, err := parseSessionID(sessionID)
	if err != nil {
		return "", err
	}

	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}

	entry := domain.NewInterviewLog(session, s.now())

	location, err := s.primary.Save(ctx, entry)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	for _, mirror := range s.mirrors {
		if _, err := mirror.Save(ctx, entry); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to mirror interview log")
		}
	}

	log.Info().Str("session_id", sessionID).Str("location", location).Msg("interview log saved")
	return location, nil
}
