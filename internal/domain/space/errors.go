package space

import "github.com/rpggio/spacelease/internal/failure"

var (
	// ErrSpaceNotFound indicates the space doesn't exist.
	ErrSpaceNotFound = failure.New(failure.ErrNotFound, "space not found")
	// ErrBuildingNotFound indicates the building doesn't exist.
	ErrBuildingNotFound = failure.New(failure.ErrNotFound, "building not found")
	// ErrSpaceUnavailable indicates the space is already occupied.
	ErrSpaceUnavailable = failure.New(failure.ErrConflict, "space is not available")
	// ErrConcurrentUpdate indicates the space changed since it was loaded.
	ErrConcurrentUpdate = failure.New(failure.ErrConflict, "space modified concurrently")
	// ErrParkingInUse indicates the facility is already attached to another space.
	ErrParkingInUse = failure.New(failure.ErrDuplicate, "parking facility already attached to a space")
	// ErrOccupancyDrift indicates the availability flag disagrees with contract state.
	ErrOccupancyDrift = failure.New(failure.ErrConflict, "space availability disagrees with active contracts")
	// ErrInvalidInput indicates invalid space input.
	ErrInvalidInput = failure.New(failure.ErrBadRequest, "invalid space input")
	// ErrInvalidType indicates an unknown space type.
	ErrInvalidType = failure.New(failure.ErrBadRequest, "unknown space type")
)
