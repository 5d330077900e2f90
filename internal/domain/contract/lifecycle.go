package contract

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// New builds a contract from a validated request.
func New(req CreateRequest, now time.Time, number string) (*Contract, error) {
	if err := ValidateCreateRequest(req); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = StatusActive
	}
	return &Contract{
		ID:                      uuid.NewString(),
		Number:                  number,
		TenantID:                req.TenantID,
		SpaceID:                 req.SpaceID,
		StartDate:               Day(req.StartDate),
		EndDate:                 Day(req.EndDate),
		MonthlyRent:             req.MonthlyRent,
		SecurityDeposit:         req.SecurityDeposit,
		Status:                  status,
		PaymentMethod:           req.PaymentMethod,
		Notes:                   req.Notes,
		Signature:               req.Signature,
		AutoRenewal:             req.AutoRenewal,
		EarlyTerminationAllowed: req.EarlyTerminationAllowed,
		EarlyTerminationFee:     req.EarlyTerminationFee,
		LatePaymentFee:          req.LatePaymentFee,
		ParkingSpots:            req.ParkingSpots,
		DateCreated:             now,
		CreatedAt:               now,
		UpdatedAt:               now,
	}, nil
}

// Activate moves a PENDING contract to ACTIVE and marks it paid.
func (c *Contract) Activate() error {
	switch c.Status {
	case StatusPending:
		c.Status = StatusActive
		c.IsPaid = true
		return nil
	case StatusActive, StatusExpired, StatusTerminated, StatusCancelled, StatusRenewed:
		return ErrInvalidTransition
	default:
		return ErrUnknownStatus
	}
}

// Terminate ends a PENDING or ACTIVE contract today. The early-termination
// flag does not restrict termination; it only affects the fee amount.
func (c *Contract) Terminate(reason string, today time.Time) error {
	switch c.Status {
	case StatusPending, StatusActive:
		end := Day(today)
		c.Status = StatusTerminated
		c.ActualEndDate = &end
		c.TerminationReason = reasonPtr(reason)
		return nil
	case StatusExpired, StatusTerminated, StatusCancelled, StatusRenewed:
		return ErrInvalidTransition
	default:
		return ErrUnknownStatus
	}
}

// Expire moves an ACTIVE contract whose end date has passed to EXPIRED.
func (c *Contract) Expire(today time.Time) error {
	switch c.Status {
	case StatusActive:
		if !Day(today).After(c.EndDate) {
			return ErrNotYetExpired
		}
		end := c.EndDate
		c.Status = StatusExpired
		c.ActualEndDate = &end
		return nil
	case StatusPending, StatusExpired, StatusTerminated, StatusCancelled, StatusRenewed:
		return ErrInvalidTransition
	default:
		return ErrUnknownStatus
	}
}

// Cancel moves a contract in any state except CANCELLED to CANCELLED.
func (c *Contract) Cancel(reason string, today time.Time) error {
	switch c.Status {
	case StatusPending, StatusActive, StatusExpired, StatusTerminated, StatusRenewed:
		end := Day(today)
		c.Status = StatusCancelled
		c.ActualEndDate = &end
		c.TerminationReason = reasonPtr(reason)
		return nil
	case StatusCancelled:
		return ErrInvalidTransition
	default:
		return ErrUnknownStatus
	}
}

// Renew marks c RENEWED and returns its ACTIVE successor. c is left untouched
// when an error is returned.
func (c *Contract) Renew(terms RenewalTerms, now time.Time, number string) (*Contract, error) {
	switch c.Status {
	case StatusActive, StatusExpired:
	case StatusPending, StatusTerminated, StatusCancelled, StatusRenewed:
		return nil, ErrInvalidTransition
	default:
		return nil, ErrUnknownStatus
	}

	today := Day(now)
	if terms.NewEndDate.IsZero() {
		return nil, ErrInvalidInput
	}
	end := Day(terms.NewEndDate)
	if end.Before(today) {
		return nil, ErrEndDateInPast
	}
	start := today
	if terms.NewStartDate != nil {
		start = Day(*terms.NewStartDate)
	}

	previousID := c.ID
	next := *c
	next.ID = uuid.NewString()
	next.Number = number
	next.StartDate = start
	next.EndDate = end
	next.Status = StatusActive
	next.IsPaid = false
	next.ActualEndDate = nil
	next.TerminationReason = nil
	next.RenewedFromID = &previousID
	next.DateCreated = now
	next.CreatedAt = now
	next.UpdatedAt = now
	next.Version = 0
	if terms.MonthlyRent != nil {
		next.MonthlyRent = *terms.MonthlyRent
	}
	if terms.SecurityDeposit != nil {
		next.SecurityDeposit = *terms.SecurityDeposit
	}
	if terms.PaymentMethod != nil {
		if !terms.PaymentMethod.Valid() {
			return nil, ErrInvalidPaymentMethod
		}
		next.PaymentMethod = *terms.PaymentMethod
	}
	if terms.Notes != nil {
		next.Notes = *terms.Notes
	}
	if terms.AutoRenewal != nil {
		next.AutoRenewal = *terms.AutoRenewal
	}
	if err := validateTerms(next.StartDate, next.EndDate, next.MonthlyRent, next.SecurityDeposit); err != nil {
		return nil, err
	}

	c.Status = StatusRenewed
	return &next, nil
}

func reasonPtr(reason string) *string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil
	}
	return &reason
}
