package parking

import "github.com/rpggio/spacelease/internal/failure"

var (
	// ErrFacilityNotFound indicates the facility doesn't exist.
	ErrFacilityNotFound = failure.New(failure.ErrNotFound, "parking facility not found")
	// ErrInvalidSpotCount indicates a non-positive spot count.
	ErrInvalidSpotCount = failure.New(failure.ErrBadRequest, "spot count must be positive")
	// ErrCapacityExceeded indicates a reservation larger than the free spots.
	ErrCapacityExceeded = failure.New(failure.ErrConflict, "parking capacity exceeded")
	// ErrReleaseExceedsReserved indicates releasing more spots than are reserved.
	ErrReleaseExceedsReserved = failure.New(failure.ErrConflict, "release exceeds reserved spots")
	// ErrInvalidInput indicates malformed facility fields.
	ErrInvalidInput = failure.New(failure.ErrBadRequest, "invalid parking facility")
	// ErrInvalidType indicates an unknown facility type.
	ErrInvalidType = failure.New(failure.ErrBadRequest, "unknown parking type")
	// ErrConcurrentUpdate indicates the counters kept changing across every retry.
	ErrConcurrentUpdate = failure.New(failure.ErrConflict, "parking facility modified concurrently")
)
