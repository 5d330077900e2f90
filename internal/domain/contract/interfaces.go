package contract

import (
	"context"
	"time"
)

// Repository provides persistence operations for contracts.
type Repository interface {
	Create(ctx context.Context, c *Contract) error
	Get(ctx context.Context, id string) (*Contract, error)
	// Update writes c if the stored version equals expectedVersion.
	Update(ctx context.Context, c *Contract, expectedVersion int64) error
	ActiveForSpace(ctx context.Context, spaceID string) (*Contract, error)
	List(ctx context.Context, opts ListOptions) ([]Contract, error)
	// HeldParkingSpots sums the spots held by ACTIVE contracts on spaces
	// served by the facility.
	HeldParkingSpots(ctx context.Context, facilityID string) (int, error)
}

// ListOptions filters contract listings.
type ListOptions struct {
	SpaceID  string
	TenantID string
	// OwnerID keeps contracts on spaces owned by this user.
	OwnerID string
	Status  *Status
	// EndingBefore keeps contracts whose end date is strictly before this day.
	EndingBefore *time.Time
	Limit        int
}
