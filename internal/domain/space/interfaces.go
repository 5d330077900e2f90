package space

import (
	"context"

	"github.com/rpggio/spacelease/internal/domain/contract"
	"github.com/rpggio/spacelease/internal/domain/parking"
)

// Repository provides persistence operations for spaces and buildings.
type Repository interface {
	// Create stores sp and, when non-nil, its parking facility atomically.
	Create(ctx context.Context, sp *Space, facility *parking.Facility) error
	Get(ctx context.Context, id string) (*Space, error)
	// UpdateAvailability writes the flag if the row still has expectedVersion.
	UpdateAvailability(ctx context.Context, id string, available bool, expectedVersion int64) error
	CreateBuilding(ctx context.Context, b *Building) error
	GetBuilding(ctx context.Context, id string) (*Building, error)
	CountByBuilding(ctx context.Context, buildingID string) (total, available int, err error)
}

// ContractLookup finds the contract currently occupying a space.
type ContractLookup interface {
	ActiveForSpace(ctx context.Context, spaceID string) (*contract.Contract, error)
}
