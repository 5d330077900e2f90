package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

const defaultListLimit = 50

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// LogActivity logs an activity entry with the current timestamp if missing.
func (s *Service) LogActivity(ctx context.Context, entry *ActivityEntry) error {
	return Record(ctx, s.repo, entry)
}

// GetRecentActivity lists activity entries with filtering, newest first.
func (s *Service) GetRecentActivity(ctx context.Context, opts ListActivityOptions) ([]ActivityEntry, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	return s.repo.List(ctx, opts)
}

// Record writes entry through repo. Callers inside a transaction pass the
// transaction's repository so the entry commits with the change it describes.
func Record(ctx context.Context, repo Repository, entry *ActivityEntry) error {
	if entry == nil || entry.ActivityType == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// Details encodes v as the JSON details payload of an entry.
func Details(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
