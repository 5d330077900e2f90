package contract

import "github.com/rpggio/spacelease/internal/failure"

var (
	// ErrContractNotFound indicates the contract doesn't exist.
	ErrContractNotFound = failure.New(failure.ErrNotFound, "contract not found")
	// ErrInvalidTransition indicates the current status does not allow the transition.
	ErrInvalidTransition = failure.New(failure.ErrConflict, "invalid contract status transition")
	// ErrUnknownStatus indicates a status outside the lifecycle enumeration.
	ErrUnknownStatus = failure.New(failure.ErrBadRequest, "unknown contract status")
	// ErrInvalidInput indicates missing identifiers or malformed fields.
	ErrInvalidInput = failure.New(failure.ErrBadRequest, "invalid contract input")
	// ErrInvalidDates indicates a start date after the end date.
	ErrInvalidDates = failure.New(failure.ErrBadRequest, "start date must not be after end date")
	// ErrInvalidRent indicates a non-positive monthly rent.
	ErrInvalidRent = failure.New(failure.ErrBadRequest, "monthly rent must be positive")
	// ErrInvalidAmount indicates a negative deposit or fee.
	ErrInvalidAmount = failure.New(failure.ErrBadRequest, "deposit and fees must not be negative")
	// ErrInvalidPaymentMethod indicates an unknown payment method.
	ErrInvalidPaymentMethod = failure.New(failure.ErrBadRequest, "unknown payment method")
	// ErrEndDateInPast indicates a renewal end date before today.
	ErrEndDateInPast = failure.New(failure.ErrBadRequest, "new end date is in the past")
	// ErrNotYetExpired indicates expire was requested before the end date passed.
	ErrNotYetExpired = failure.New(failure.ErrBadRequest, "contract end date has not passed")
	// ErrDuplicateNumber indicates a contract number collision.
	ErrDuplicateNumber = failure.New(failure.ErrDuplicate, "contract number already exists")
	// ErrConcurrentUpdate indicates the contract changed since it was loaded.
	ErrConcurrentUpdate = failure.New(failure.ErrConflict, "contract modified concurrently")
)
