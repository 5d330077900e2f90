package contract

import "time"

const expiryWarningDays = 30

// IsActive reports whether the contract is ACTIVE and today lies within its dates.
func (c *Contract) IsActive(today time.Time) bool {
	today = Day(today)
	return c.Status == StatusActive && !today.Before(c.StartDate) && !today.After(c.EndDate)
}

// IsExpired reports whether the end date has passed or the status is EXPIRED.
func (c *Contract) IsExpired(today time.Time) bool {
	return Day(today).After(c.EndDate) || c.Status == StatusExpired
}

// DaysUntilExpiration is zero once the contract is expired.
func (c *Contract) DaysUntilExpiration(today time.Time) int {
	if c.IsExpired(today) {
		return 0
	}
	return daysBetween(today, c.EndDate)
}

// IsNearingExpiration reports whether the end date falls within the next 30 days.
func (c *Contract) IsNearingExpiration(today time.Time) bool {
	days := c.DaysUntilExpiration(today)
	return days > 0 && days <= expiryWarningDays
}

// DurationInMonths counts whole months between start and end.
func (c *Contract) DurationInMonths() int {
	return monthsBetween(c.StartDate, c.EndDate)
}

// TotalValue is the monthly rent times the whole-month duration.
func (c *Contract) TotalValue() float64 {
	return c.MonthlyRent * float64(c.DurationInMonths())
}

// InitialPayment is the first month's rent plus the deposit.
func (c *Contract) InitialPayment() float64 {
	return c.MonthlyRent + c.SecurityDeposit
}

// CanBeRenewed reports whether renewal is currently offered to the tenant.
func (c *Contract) CanBeRenewed(today time.Time) bool {
	if c.Status != StatusActive && c.Status != StatusExpired {
		return false
	}
	return c.AutoRenewal || Day(today).After(c.EndDate.AddDate(0, 0, -expiryWarningDays))
}

// EarlyTerminationFeeAmount is the fee owed on early termination.
func (c *Contract) EarlyTerminationFeeAmount() float64 {
	if !c.EarlyTerminationAllowed {
		return 0
	}
	return c.EarlyTerminationFee
}

// Summary bundles the derived values for display.
type Summary struct {
	IsActive                  bool    `json:"is_active"`
	IsExpired                 bool    `json:"is_expired"`
	IsNearingExpiration       bool    `json:"is_nearing_expiration"`
	DaysUntilExpiration       int     `json:"days_until_expiration"`
	DurationInMonths          int     `json:"duration_in_months"`
	TotalValue                float64 `json:"total_value"`
	InitialPayment            float64 `json:"initial_payment"`
	CanBeRenewed              bool    `json:"can_be_renewed"`
	EarlyTerminationFeeAmount float64 `json:"early_termination_fee_amount"`
}

// Summarize computes every derived value as of today.
func (c *Contract) Summarize(today time.Time) Summary {
	return Summary{
		IsActive:                  c.IsActive(today),
		IsExpired:                 c.IsExpired(today),
		IsNearingExpiration:       c.IsNearingExpiration(today),
		DaysUntilExpiration:       c.DaysUntilExpiration(today),
		DurationInMonths:          c.DurationInMonths(),
		TotalValue:                c.TotalValue(),
		InitialPayment:            c.InitialPayment(),
		CanBeRenewed:              c.CanBeRenewed(today),
		EarlyTerminationFeeAmount: c.EarlyTerminationFeeAmount(),
	}
}
