package contract

import "time"

// Status is the lifecycle state of a rental contract.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusActive     Status = "ACTIVE"
	StatusExpired    Status = "EXPIRED"
	StatusTerminated Status = "TERMINATED"
	StatusCancelled  Status = "CANCELLED"
	StatusRenewed    Status = "RENEWED"
)

// ParseStatus converts a raw status string into a Status.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusPending, StatusActive, StatusExpired, StatusTerminated, StatusCancelled, StatusRenewed:
		return s, nil
	default:
		return "", ErrUnknownStatus
	}
}

// Terminal reports whether no further lifecycle transition except cancel applies.
func (s Status) Terminal() bool {
	switch s {
	case StatusPending, StatusActive:
		return false
	default:
		return true
	}
}

// PaymentMethod is how the tenant pays rent.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentCard         PaymentMethod = "CARD"
	PaymentCheck        PaymentMethod = "CHECK"
	PaymentOnline       PaymentMethod = "ONLINE"
)

// Valid reports whether m is a known payment method. The empty value is valid.
func (m PaymentMethod) Valid() bool {
	switch m {
	case "", PaymentCash, PaymentBankTransfer, PaymentCard, PaymentCheck, PaymentOnline:
		return true
	default:
		return false
	}
}

// Contract binds one tenant to one space for a date range.
type Contract struct {
	ID                      string        `json:"id"`
	Number                  string        `json:"contract_number"`
	TenantID                string        `json:"tenant_id"`
	SpaceID                 string        `json:"space_id"`
	StartDate               time.Time     `json:"start_date"`
	EndDate                 time.Time     `json:"end_date"`
	MonthlyRent             float64       `json:"monthly_rent"`
	SecurityDeposit         float64       `json:"security_deposit"`
	Status                  Status        `json:"status"`
	IsPaid                  bool          `json:"is_paid"`
	PaymentMethod           PaymentMethod `json:"payment_method,omitempty"`
	Notes                   string        `json:"notes,omitempty"`
	Signature               string        `json:"signature,omitempty"`
	AutoRenewal             bool          `json:"auto_renewal"`
	EarlyTerminationAllowed bool          `json:"early_termination_allowed"`
	EarlyTerminationFee     float64       `json:"early_termination_fee"`
	LatePaymentFee          float64       `json:"late_payment_fee"`
	ParkingSpots            int           `json:"parking_spots"`
	ActualEndDate           *time.Time    `json:"actual_end_date,omitempty"`
	TerminationReason       *string       `json:"termination_reason,omitempty"`
	RenewedFromID           *string       `json:"renewed_from_id,omitempty"`
	DateCreated             time.Time     `json:"date_created"`
	CreatedAt               time.Time     `json:"created_at"`
	UpdatedAt               time.Time     `json:"updated_at"`
	Version                 int64         `json:"version"`
}

// CreateRequest contains the caller-supplied fields of a new contract.
type CreateRequest struct {
	SpaceID                 string
	TenantID                string
	StartDate               time.Time
	EndDate                 time.Time
	MonthlyRent             float64
	SecurityDeposit         float64
	PaymentMethod           PaymentMethod
	Notes                   string
	Signature               string
	AutoRenewal             bool
	EarlyTerminationAllowed bool
	EarlyTerminationFee     float64
	LatePaymentFee          float64

	// ParkingSpots are reserved on the space's facility while the contract is ACTIVE.
	ParkingSpots int
	// Status is the initial status, ACTIVE or PENDING. Empty means ACTIVE.
	Status Status
}

// RenewalTerms overrides fields carried forward from the renewed contract.
type RenewalTerms struct {
	NewEndDate      time.Time
	NewStartDate    *time.Time
	MonthlyRent     *float64
	SecurityDeposit *float64
	PaymentMethod   *PaymentMethod
	Notes           *string
	AutoRenewal     *bool
}
