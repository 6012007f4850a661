package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Rrens/mock-interview/internal/domain"
)

// filenameTimeLayout renders as YYYYMMDD_HHMMSS
const filenameTimeLayout = "20060102_150405"

// InterviewLogArchive writes interview logs as indented JSON files
type InterviewLogArchive struct {
	dir string
}

// NewInterviewLogArchive creates an archive rooted at dir
func NewInterviewLogArchive(dir string) *InterviewLogArchive {
	if dir == "" {
		dir = "."
	}
	return &InterviewLogArchive{dir: dir}
}

// Filename is interview_log_<first 8 chars of id>_<timestamp>.json
func Filename(entry *domain.InterviewLog) string {
	return fmt.Sprintf("interview_log_%s_%s.json",
		entry.SessionID.String()[:8],
		entry.SavedAt.Format(filenameTimeLayout),
	)
}

// Save writes the log and returns its file name
func (a *InterviewLogArchive) Save(ctx context.Context, entry *domain.InterviewLog) (string, error) {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal interview log: %w", err)
	}

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	name := Filename(entry)
	if err := os.WriteFile(filepath.Join(a.dir, name), data, 0o644); err != nil {
		return "", err
	}
	return name, nil
}
