package parking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rpggio/spacelease/internal/repository"
)

const defaultMaxAttempts = 3

// Tracker applies reserve and release against stored counters with a version
// compare-and-swap, reloading and retrying when another writer got there first.
type Tracker struct {
	repo        Repository
	logger      *slog.Logger
	maxAttempts int
}

// NewTracker creates a new parking capacity tracker.
func NewTracker(repo Repository, logger *slog.Logger) *Tracker {
	return &Tracker{repo: repo, logger: logger, maxAttempts: defaultMaxAttempts}
}

// Get returns a facility by ID.
func (t *Tracker) Get(ctx context.Context, id string) (*Facility, error) {
	f, err := t.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, fmt.Errorf("loading parking facility: %w", err)
	}
	return f, nil
}

// Reserve claims n spots on the facility.
func (t *Tracker) Reserve(ctx context.Context, id string, n int) (*Facility, error) {
	return t.apply(ctx, id, "reserve", func(f *Facility) error { return f.Reserve(n) })
}

// Release returns n spots to the facility.
func (t *Tracker) Release(ctx context.Context, id string, n int) (*Facility, error) {
	return t.apply(ctx, id, "release", func(f *Facility) error { return f.Release(n) })
}

func (t *Tracker) apply(ctx context.Context, id, op string, mutate func(*Facility) error) (*Facility, error) {
	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		f, err := t.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		expected := f.Version
		if err := mutate(f); err != nil {
			return nil, err
		}

		err = t.repo.UpdateReservation(ctx, id, f.ReservedSpots, expected)
		switch {
		case err == nil:
			f.Version = expected + 1
			if t.logger != nil {
				t.logger.Debug("parking counters updated", "facility_id", id, "op", op, "reserved", f.ReservedSpots)
			}
			return f, nil
		case errors.Is(err, repository.ErrConflict):
			if t.logger != nil {
				t.logger.Debug("parking version conflict, retrying", "facility_id", id, "op", op, "attempt", attempt)
			}
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrFacilityNotFound
		default:
			return nil, fmt.Errorf("updating parking facility: %w", err)
		}
	}
	return nil, ErrConcurrentUpdate
}
