package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/spacelease/internal/domain/parking"
	"github.com/rpggio/spacelease/internal/repository"
)

// ParkingRepository implements parking.Repository
type ParkingRepository struct {
	c conn
}

// NewParkingRepository creates a new ParkingRepository
func NewParkingRepository(db *DB) *ParkingRepository {
	return &ParkingRepository{c: db.conn()}
}

func insertFacility(ctx context.Context, c conn, f *parking.Facility) error {
	query := `
		INSERT INTO parking_facilities (
			id, number_of_spots, reserved_spots, price_per_spot, covered, parking_type,
			disabled_access_spots, electric_charging_spots, security_cameras, security_guard,
			access_card_required, height_restriction, operating_hours, created_at, updated_at, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := c.exec(ctx, query,
		f.ID,
		f.NumberOfSpots,
		f.ReservedSpots,
		f.PricePerSpot,
		f.Covered,
		f.Type,
		f.DisabledAccessSpots,
		f.ElectricChargingSpots,
		f.SecurityCameras,
		f.SecurityGuard,
		f.AccessCardRequired,
		f.HeightRestriction,
		f.OperatingHours,
		f.CreatedAt,
		f.UpdatedAt,
		f.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create parking facility: %w", err)
	}
	return nil
}

// Get retrieves a parking facility by ID
func (r *ParkingRepository) Get(ctx context.Context, id string) (*parking.Facility, error) {
	query := `
		SELECT
			id, number_of_spots, reserved_spots, price_per_spot, covered, parking_type,
			disabled_access_spots, electric_charging_spots, security_cameras, security_guard,
			access_card_required, height_restriction, operating_hours, created_at, updated_at, version
		FROM parking_facilities
		WHERE id = ?
	`

	var f parking.Facility
	err := r.c.queryRow(ctx, query, id).Scan(
		&f.ID,
		&f.NumberOfSpots,
		&f.ReservedSpots,
		&f.PricePerSpot,
		&f.Covered,
		&f.Type,
		&f.DisabledAccessSpots,
		&f.ElectricChargingSpots,
		&f.SecurityCameras,
		&f.SecurityGuard,
		&f.AccessCardRequired,
		&f.HeightRestriction,
		&f.OperatingHours,
		&f.CreatedAt,
		&f.UpdatedAt,
		&f.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get parking facility: %w", err)
	}
	return &f, nil
}

// UpdateReservation stores the reserved counter with optimistic concurrency control
func (r *ParkingRepository) UpdateReservation(ctx context.Context, id string, reserved int, expectedVersion int64) error {
	query := `
		UPDATE parking_facilities
		SET reserved_spots = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?
	`
	result, err := r.c.exec(ctx, query, reserved, time.Now().UTC(), id, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update parking facility: %w", err)
	}
	return r.c.casResult(ctx, result, "parking_facilities", id)
}
