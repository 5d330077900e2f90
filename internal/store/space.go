package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/spacelease/internal/domain/parking"
	"github.com/rpggio/spacelease/internal/domain/space"
	"github.com/rpggio/spacelease/internal/repository"
)

// SpaceRepository implements space.Repository
type SpaceRepository struct {
	c conn
}

// NewSpaceRepository creates a new SpaceRepository
func NewSpaceRepository(db *DB) *SpaceRepository {
	return &SpaceRepository{c: db.conn()}
}

// Create inserts the facility, if any, and then the space in one transaction.
func (r *SpaceRepository) Create(ctx context.Context, sp *space.Space, facility *parking.Facility) error {
	return r.c.atomically(ctx, func(c conn) error {
		if facility != nil {
			if err := insertFacility(ctx, c, facility); err != nil {
				return err
			}
		}

		query := `
			INSERT INTO spaces (
				id, name, description, area, price_per_month, address, latitude, longitude,
				space_type, available, owner_id, building_id, parking_id, created_at, updated_at, version
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := c.exec(ctx, query,
			sp.ID,
			sp.Name,
			sp.Description,
			sp.Area,
			sp.PricePerMonth,
			sp.Address,
			sp.Latitude,
			sp.Longitude,
			sp.Type,
			sp.Available,
			sp.OwnerID,
			sp.BuildingID,
			sp.ParkingID,
			sp.CreatedAt,
			sp.UpdatedAt,
			sp.Version,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrDuplicate
			}
			if isForeignKeyViolation(err) {
				return repository.ErrForeignKeyViolation
			}
			return fmt.Errorf("failed to create space: %w", err)
		}
		return nil
	})
}

// Get retrieves a space by ID
func (r *SpaceRepository) Get(ctx context.Context, id string) (*space.Space, error) {
	query := `
		SELECT
			id, name, description, area, price_per_month, address, latitude, longitude,
			space_type, available, owner_id, building_id, parking_id, created_at, updated_at, version
		FROM spaces
		WHERE id = ?
	`

	var sp space.Space
	err := r.c.queryRow(ctx, query, id).Scan(
		&sp.ID,
		&sp.Name,
		&sp.Description,
		&sp.Area,
		&sp.PricePerMonth,
		&sp.Address,
		&sp.Latitude,
		&sp.Longitude,
		&sp.Type,
		&sp.Available,
		&sp.OwnerID,
		&sp.BuildingID,
		&sp.ParkingID,
		&sp.CreatedAt,
		&sp.UpdatedAt,
		&sp.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get space: %w", err)
	}
	return &sp, nil
}

// UpdateAvailability writes the availability flag with optimistic concurrency control
func (r *SpaceRepository) UpdateAvailability(ctx context.Context, id string, available bool, expectedVersion int64) error {
	query := `
		UPDATE spaces
		SET available = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?
	`
	result, err := r.c.exec(ctx, query, available, time.Now().UTC(), id, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update space: %w", err)
	}
	return r.c.casResult(ctx, result, "spaces", id)
}

// CreateBuilding inserts a building
func (r *SpaceRepository) CreateBuilding(ctx context.Context, b *space.Building) error {
	query := `INSERT INTO buildings (id, name, address, owner_id, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.c.exec(ctx, query, b.ID, b.Name, b.Address, b.OwnerID, b.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create building: %w", err)
	}
	return nil
}

// GetBuilding retrieves a building by ID
func (r *SpaceRepository) GetBuilding(ctx context.Context, id string) (*space.Building, error) {
	query := `SELECT id, name, address, owner_id, created_at FROM buildings WHERE id = ?`

	var b space.Building
	err := r.c.queryRow(ctx, query, id).Scan(&b.ID, &b.Name, &b.Address, &b.OwnerID, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get building: %w", err)
	}
	return &b, nil
}

// CountByBuilding counts all and available spaces of a building.
func (r *SpaceRepository) CountByBuilding(ctx context.Context, buildingID string) (total, available int, err error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN available THEN 1 ELSE 0 END), 0)
		FROM spaces
		WHERE building_id = ?
	`
	if err := r.c.queryRow(ctx, query, buildingID).Scan(&total, &available); err != nil {
		return 0, 0, fmt.Errorf("failed to count spaces: %w", err)
	}
	return total, available, nil
}
