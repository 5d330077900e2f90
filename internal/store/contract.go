package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/spacelease/internal/domain/contract"
	"github.com/rpggio/spacelease/internal/repository"
)

const contractColumns = `
	id, contract_number, tenant_id, space_id, start_date, end_date,
	monthly_rent, security_deposit, status, is_paid, payment_method, notes, signature,
	auto_renewal, early_termination_allowed, early_termination_fee, late_payment_fee,
	parking_spots, actual_end_date, termination_reason, renewed_from_id,
	date_created, created_at, updated_at, version`

// ContractRepository implements contract.Repository
type ContractRepository struct {
	c conn
}

// NewContractRepository creates a new ContractRepository
func NewContractRepository(db *DB) *ContractRepository {
	return &ContractRepository{c: db.conn()}
}

// Create inserts a contract. A taken contract number yields
// repository.ErrDuplicate; a second ACTIVE contract on the space yields
// repository.ErrConflict.
func (r *ContractRepository) Create(ctx context.Context, c *contract.Contract) error {
	query := `INSERT INTO rental_contracts (` + contractColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.c.exec(ctx, query,
		c.ID,
		c.Number,
		c.TenantID,
		c.SpaceID,
		contract.FormatDate(c.StartDate),
		contract.FormatDate(c.EndDate),
		c.MonthlyRent,
		c.SecurityDeposit,
		c.Status,
		c.IsPaid,
		c.PaymentMethod,
		c.Notes,
		c.Signature,
		c.AutoRenewal,
		c.EarlyTerminationAllowed,
		c.EarlyTerminationFee,
		c.LatePaymentFee,
		c.ParkingSpots,
		formatNullDate(c.ActualEndDate),
		c.TerminationReason,
		c.RenewedFromID,
		c.DateCreated,
		c.CreatedAt,
		c.UpdatedAt,
		c.Version,
	)
	if err != nil {
		return contractWriteError("create", err)
	}
	return nil
}

// Get retrieves a contract by ID
func (r *ContractRepository) Get(ctx context.Context, id string) (*contract.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM rental_contracts WHERE id = ?`

	c, err := scanContract(r.c.queryRow(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return c, nil
}

// Update writes the mutable fields of c with optimistic concurrency control.
// On success c.Version is advanced to the stored version.
func (r *ContractRepository) Update(ctx context.Context, c *contract.Contract, expectedVersion int64) error {
	query := `
		UPDATE rental_contracts
		SET status = ?, is_paid = ?, payment_method = ?, notes = ?, signature = ?,
		    auto_renewal = ?, actual_end_date = ?, termination_reason = ?,
		    updated_at = ?, version = ?
		WHERE id = ? AND version = ?
	`
	updatedAt := time.Now().UTC()
	result, err := r.c.exec(ctx, query,
		c.Status,
		c.IsPaid,
		c.PaymentMethod,
		c.Notes,
		c.Signature,
		c.AutoRenewal,
		formatNullDate(c.ActualEndDate),
		c.TerminationReason,
		updatedAt,
		expectedVersion+1,
		c.ID,
		expectedVersion,
	)
	if err != nil {
		return contractWriteError("update", err)
	}
	if err := r.c.casResult(ctx, result, "rental_contracts", c.ID); err != nil {
		return err
	}
	c.UpdatedAt = updatedAt
	c.Version = expectedVersion + 1
	return nil
}

// ActiveForSpace returns the ACTIVE contract on a space.
func (r *ContractRepository) ActiveForSpace(ctx context.Context, spaceID string) (*contract.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM rental_contracts WHERE space_id = ? AND status = ?`

	c, err := scanContract(r.c.queryRow(ctx, query, spaceID, contract.StatusActive))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active contract: %w", err)
	}
	return c, nil
}

// List returns contracts matching the given filters, soonest ending first.
func (r *ContractRepository) List(ctx context.Context, opts contract.ListOptions) ([]contract.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM rental_contracts`

	var conditions []string
	var args []any
	if opts.SpaceID != "" {
		conditions = append(conditions, "space_id = ?")
		args = append(args, opts.SpaceID)
	}
	if opts.TenantID != "" {
		conditions = append(conditions, "tenant_id = ?")
		args = append(args, opts.TenantID)
	}
	if opts.OwnerID != "" {
		conditions = append(conditions, "space_id IN (SELECT id FROM spaces WHERE owner_id = ?)")
		args = append(args, opts.OwnerID)
	}
	if opts.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *opts.Status)
	}
	if opts.EndingBefore != nil {
		// YYYY-MM-DD text compares in date order.
		conditions = append(conditions, "end_date < ?")
		args = append(args, contract.FormatDate(*opts.EndingBefore))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY end_date ASC, created_at ASC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.c.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	var contracts []contract.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		contracts = append(contracts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contracts: %w", err)
	}
	return contracts, nil
}

// HeldParkingSpots sums parking_spots over ACTIVE contracts whose space uses
// the facility.
func (r *ContractRepository) HeldParkingSpots(ctx context.Context, facilityID string) (int, error) {
	query := `SELECT COALESCE(SUM(parking_spots), 0) FROM rental_contracts
		WHERE status = ? AND space_id IN (SELECT id FROM spaces WHERE parking_id = ?)`

	var held int64
	if err := r.c.queryRow(ctx, query, contract.StatusActive, facilityID).Scan(&held); err != nil {
		return 0, fmt.Errorf("failed to sum held parking spots: %w", err)
	}
	return int(held), nil
}

func scanContract(row scanner) (*contract.Contract, error) {
	var (
		c          contract.Contract
		start, end string
		actualEnd  sql.NullString
	)
	err := row.Scan(
		&c.ID,
		&c.Number,
		&c.TenantID,
		&c.SpaceID,
		&start,
		&end,
		&c.MonthlyRent,
		&c.SecurityDeposit,
		&c.Status,
		&c.IsPaid,
		&c.PaymentMethod,
		&c.Notes,
		&c.Signature,
		&c.AutoRenewal,
		&c.EarlyTerminationAllowed,
		&c.EarlyTerminationFee,
		&c.LatePaymentFee,
		&c.ParkingSpots,
		&actualEnd,
		&c.TerminationReason,
		&c.RenewedFromID,
		&c.DateCreated,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.Version,
	)
	if err != nil {
		return nil, err
	}
	if c.StartDate, err = contract.ParseDate(start); err != nil {
		return nil, err
	}
	if c.EndDate, err = contract.ParseDate(end); err != nil {
		return nil, err
	}
	if actualEnd.Valid {
		d, err := contract.ParseDate(actualEnd.String)
		if err != nil {
			return nil, err
		}
		c.ActualEndDate = &d
	}
	return &c, nil
}

func contractWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		if strings.Contains(violatedUnique(err), "contract_number") {
			return repository.ErrDuplicate
		}
		return repository.ErrConflict
	case isForeignKeyViolation(err):
		return repository.ErrForeignKeyViolation
	default:
		return fmt.Errorf("failed to %s contract: %w", op, err)
	}
}

func formatNullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: contract.FormatDate(*t), Valid: true}
}
