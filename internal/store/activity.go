package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/spacelease/internal/domain/activity"
)

// ActivityRepository implements activity.Repository
type ActivityRepository struct {
	c conn
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{c: db.conn()}
}

// Log inserts a new activity entry
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	createdAt := entry.CreatedAt.UTC()
	if entry.CreatedAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO activity_log (
			space_id, contract_id, activity_type, summary, details, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	var id int64
	err := r.c.queryRow(ctx, query,
		entry.SpaceID,
		entry.ContractID,
		entry.ActivityType,
		entry.Summary,
		entry.Details,
		createdAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	entry.ID = id
	entry.CreatedAt = createdAt
	return nil
}

// List returns activity entries matching the given filters, newest first.
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	query := `
		SELECT id, space_id, contract_id, activity_type, summary, details, created_at
		FROM activity_log
	`

	var conditions []string
	var args []any
	if opts.SpaceID != nil {
		conditions = append(conditions, "space_id = ?")
		args = append(args, *opts.SpaceID)
	}
	if opts.ContractID != nil {
		conditions = append(conditions, "contract_id = ?")
		args = append(args, *opts.ContractID)
	}
	if opts.ActivityType != nil {
		conditions = append(conditions, "activity_type = ?")
		args = append(args, *opts.ActivityType)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.c.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []activity.ActivityEntry
	for rows.Next() {
		var entry activity.ActivityEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.SpaceID,
			&entry.ContractID,
			&entry.ActivityType,
			&entry.Summary,
			&entry.Details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity: %w", err)
	}
	return entries, nil
}
