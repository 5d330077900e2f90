package contract

import (
	"strings"
	"time"
)

// ValidateCreateRequest validates the fields required to create a contract.
func ValidateCreateRequest(req CreateRequest) error {
	if strings.TrimSpace(req.SpaceID) == "" || strings.TrimSpace(req.TenantID) == "" {
		return ErrInvalidInput
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return ErrInvalidInput
	}
	if err := validateTerms(req.StartDate, req.EndDate, req.MonthlyRent, req.SecurityDeposit); err != nil {
		return err
	}
	if req.ParkingSpots < 0 {
		return ErrInvalidInput
	}
	if req.EarlyTerminationFee < 0 || req.LatePaymentFee < 0 {
		return ErrInvalidAmount
	}
	if !req.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}
	switch req.Status {
	case "", StatusActive, StatusPending:
	default:
		return ErrInvalidTransition
	}
	return nil
}

func validateTerms(start, end time.Time, rent, deposit float64) error {
	if Day(start).After(Day(end)) {
		return ErrInvalidDates
	}
	if rent <= 0 {
		return ErrInvalidRent
	}
	if deposit < 0 {
		return ErrInvalidAmount
	}
	return nil
}
