package parking

import "context"

// Repository provides persistence operations for parking facilities.
type Repository interface {
	Get(ctx context.Context, id string) (*Facility, error)
	// UpdateReservation stores reserved if the row still has expectedVersion.
	UpdateReservation(ctx context.Context, id string, reserved int, expectedVersion int64) error
}
