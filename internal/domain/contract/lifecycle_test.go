package contract_test

import (
	"testing"
	"time"

	"github.com/rpggio/spacelease/internal/domain/contract"
	"github.com/rpggio/spacelease/internal/failure"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := contract.ParseDate(raw)
	require.NoError(t, err)
	return d
}

func newContract(t *testing.T, status contract.Status) *contract.Contract {
	t.Helper()
	c, err := contract.New(contract.CreateRequest{
		SpaceID:         "space1",
		TenantID:        "tenant1",
		StartDate:       date(t, "2024-01-01"),
		EndDate:         date(t, "2024-12-31"),
		MonthlyRent:     1000,
		SecurityDeposit: 2000,
		Status:          status,
	}, date(t, "2024-01-01"), "RENT-1-ABCDEF12")
	require.NoError(t, err)
	return c
}

func TestNew_DefaultsToActive(t *testing.T) {
	c := newContract(t, "")
	require.Equal(t, contract.StatusActive, c.Status)
	require.NotEmpty(t, c.ID)
	require.Equal(t, "RENT-1-ABCDEF12", c.Number)
	require.False(t, c.IsPaid)
}

func TestNew_Validation(t *testing.T) {
	base := contract.CreateRequest{
		SpaceID:     "space1",
		TenantID:    "tenant1",
		StartDate:   date(t, "2024-01-01"),
		EndDate:     date(t, "2024-12-31"),
		MonthlyRent: 1000,
	}

	tests := []struct {
		name   string
		mutate func(*contract.CreateRequest)
		want   error
	}{
		{"missing space", func(r *contract.CreateRequest) { r.SpaceID = " " }, contract.ErrInvalidInput},
		{"missing tenant", func(r *contract.CreateRequest) { r.TenantID = "" }, contract.ErrInvalidInput},
		{"inverted dates", func(r *contract.CreateRequest) { r.StartDate = date(t, "2025-01-01") }, contract.ErrInvalidDates},
		{"zero rent", func(r *contract.CreateRequest) { r.MonthlyRent = 0 }, contract.ErrInvalidRent},
		{"negative deposit", func(r *contract.CreateRequest) { r.SecurityDeposit = -1 }, contract.ErrInvalidAmount},
		{"bad payment method", func(r *contract.CreateRequest) { r.PaymentMethod = "BARTER" }, contract.ErrInvalidPaymentMethod},
		{"terminal initial status", func(r *contract.CreateRequest) { r.Status = contract.StatusExpired }, contract.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			_, err := contract.New(req, time.Now(), "RENT-1-X")
			require.ErrorIs(t, err, tt.want)
		})
	}

	req := base
	req.MonthlyRent = -5
	_, err := contract.New(req, time.Now(), "RENT-1-X")
	require.ErrorIs(t, err, failure.ErrBadRequest)
}

func TestActivate(t *testing.T) {
	c := newContract(t, contract.StatusPending)
	require.NoError(t, c.Activate())
	require.Equal(t, contract.StatusActive, c.Status)
	require.True(t, c.IsPaid)

	require.ErrorIs(t, c.Activate(), contract.ErrInvalidTransition)
}

func TestTerminate(t *testing.T) {
	today := date(t, "2024-06-15")
	c := newContract(t, contract.StatusActive)
	c.EarlyTerminationAllowed = false

	require.NoError(t, c.Terminate("tenant moved out", today))
	require.Equal(t, contract.StatusTerminated, c.Status)
	require.Equal(t, today, *c.ActualEndDate)
	require.Equal(t, "tenant moved out", *c.TerminationReason)

	require.ErrorIs(t, c.Terminate("again", today), contract.ErrInvalidTransition)
}

func TestTerminate_FromPending(t *testing.T) {
	c := newContract(t, contract.StatusPending)
	require.NoError(t, c.Terminate("", date(t, "2024-02-01")))
	require.Nil(t, c.TerminationReason)
}

func TestExpire(t *testing.T) {
	c := newContract(t, contract.StatusActive)

	require.ErrorIs(t, c.Expire(date(t, "2024-12-31")), contract.ErrNotYetExpired)
	require.Equal(t, contract.StatusActive, c.Status)

	require.NoError(t, c.Expire(date(t, "2025-01-01")))
	require.Equal(t, contract.StatusExpired, c.Status)
	require.Equal(t, date(t, "2024-12-31"), *c.ActualEndDate)

	pending := newContract(t, contract.StatusPending)
	require.ErrorIs(t, pending.Expire(date(t, "2025-01-01")), contract.ErrInvalidTransition)
}

func TestCancel(t *testing.T) {
	for _, status := range []contract.Status{
		contract.StatusPending, contract.StatusActive, contract.StatusExpired,
		contract.StatusTerminated, contract.StatusRenewed,
	} {
		c := newContract(t, contract.StatusActive)
		c.Status = status
		require.NoError(t, c.Cancel("duplicate entry", date(t, "2024-03-01")), status)
		require.Equal(t, contract.StatusCancelled, c.Status)
	}

	c := newContract(t, contract.StatusActive)
	c.Status = contract.StatusCancelled
	require.ErrorIs(t, c.Cancel("", time.Now()), contract.ErrInvalidTransition)
}

func TestUnknownStatusIsRejectedEverywhere(t *testing.T) {
	c := newContract(t, contract.StatusActive)
	c.Status = "ACTIV"
	now := date(t, "2025-06-01")

	require.ErrorIs(t, c.Activate(), contract.ErrUnknownStatus)
	require.ErrorIs(t, c.Terminate("", now), contract.ErrUnknownStatus)
	require.ErrorIs(t, c.Expire(now), contract.ErrUnknownStatus)
	require.ErrorIs(t, c.Cancel("", now), contract.ErrUnknownStatus)
	_, err := c.Renew(contract.RenewalTerms{NewEndDate: now}, now, "RENT-2-X")
	require.ErrorIs(t, err, contract.ErrUnknownStatus)
}

func TestRenew_InheritsTerms(t *testing.T) {
	now := date(t, "2024-12-01")
	old := newContract(t, contract.StatusActive)
	old.PaymentMethod = contract.PaymentCard

	next, err := old.Renew(contract.RenewalTerms{NewEndDate: date(t, "2025-12-31")}, now, "RENT-2-NEXT0001")
	require.NoError(t, err)

	require.Equal(t, contract.StatusRenewed, old.Status)
	require.Equal(t, contract.StatusActive, next.Status)
	require.NotEqual(t, old.ID, next.ID)
	require.Equal(t, old.ID, *next.RenewedFromID)
	require.Equal(t, "RENT-2-NEXT0001", next.Number)
	require.Equal(t, old.TenantID, next.TenantID)
	require.Equal(t, old.SpaceID, next.SpaceID)
	require.Equal(t, 1000.0, next.MonthlyRent)
	require.Equal(t, 2000.0, next.SecurityDeposit)
	require.Equal(t, contract.PaymentCard, next.PaymentMethod)
	require.Equal(t, now, next.StartDate)
	require.False(t, next.StartDate.After(next.EndDate))
	require.Equal(t, int64(0), next.Version)
}

func TestRenew_Overrides(t *testing.T) {
	now := date(t, "2025-02-01")
	old := newContract(t, contract.StatusActive)
	old.Status = contract.StatusExpired

	rent := 1200.0
	start := date(t, "2025-03-01")
	next, err := old.Renew(contract.RenewalTerms{
		NewEndDate:   date(t, "2026-02-28"),
		NewStartDate: &start,
		MonthlyRent:  &rent,
	}, now, "RENT-3-X")
	require.NoError(t, err)
	require.Equal(t, 1200.0, next.MonthlyRent)
	require.Equal(t, start, next.StartDate)
}

func TestRenew_Guards(t *testing.T) {
	now := date(t, "2024-12-01")

	old := newContract(t, contract.StatusActive)
	_, err := old.Renew(contract.RenewalTerms{NewEndDate: date(t, "2024-11-30")}, now, "RENT-2-X")
	require.ErrorIs(t, err, contract.ErrEndDateInPast)
	require.Equal(t, contract.StatusActive, old.Status)

	start := date(t, "2026-01-01")
	_, err = old.Renew(contract.RenewalTerms{NewEndDate: date(t, "2025-06-30"), NewStartDate: &start}, now, "RENT-2-X")
	require.ErrorIs(t, err, contract.ErrInvalidDates)
	require.Equal(t, contract.StatusActive, old.Status)

	pending := newContract(t, contract.StatusPending)
	_, err = pending.Renew(contract.RenewalTerms{NewEndDate: date(t, "2025-12-31")}, now, "RENT-2-X")
	require.ErrorIs(t, err, contract.ErrInvalidTransition)
}

func TestParseStatus(t *testing.T) {
	s, err := contract.ParseStatus("RENEWED")
	require.NoError(t, err)
	require.Equal(t, contract.StatusRenewed, s)
	require.True(t, s.Terminal())
	require.False(t, contract.StatusPending.Terminal())

	_, err = contract.ParseStatus("active")
	require.ErrorIs(t, err, contract.ErrUnknownStatus)
}
