package leasing

import (
	"github.com/rpggio/spacelease/internal/failure"
)

var (
	// ErrNoParking indicates parking spots were requested on a space without a facility.
	ErrNoParking = failure.New(failure.ErrBadRequest, "space has no parking facility")
	// ErrInvalidInitialStatus indicates a contract may only start PENDING or ACTIVE.
	ErrInvalidInitialStatus = failure.New(failure.ErrBadRequest, "initial contract status must be PENDING or ACTIVE")
	// ErrParkingHeldByContracts indicates a manual release would free spots active contracts hold.
	ErrParkingHeldByContracts = failure.New(failure.ErrConflict, "parking spots are held by active contracts")
)

// classify returns guard violations unchanged and wraps anything else as a
// business failure of op.
func classify(op string, err error) error {
	if failure.IsTyped(err) {
		return err
	}
	return failure.Business(op, err)
}
