// Package leasing coordinates contract lifecycle changes with the space
// availability flag and parking counters they affect. Every use case runs in
// one store transaction and dispatches its events only after commit.
package leasing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/spacelease/internal/domain/activity"
	"github.com/rpggio/spacelease/internal/domain/contract"
	"github.com/rpggio/spacelease/internal/domain/parking"
	"github.com/rpggio/spacelease/internal/domain/space"
	"github.com/rpggio/spacelease/internal/domain/user"
	"github.com/rpggio/spacelease/internal/notify"
	"github.com/rpggio/spacelease/internal/repository"
)

// Outcome is the committed result of a use case.
type Outcome struct {
	Contract *contract.Contract `json:"contract"`
	// Previous is the contract a renewal replaced.
	Previous *contract.Contract `json:"previous,omitempty"`
	Space    *space.Space       `json:"space"`
	Events   []notify.Event     `json:"-"`
}

// Service is the leasing coordinator.
type Service struct {
	store         Store
	publisher     notify.Publisher
	logger        *slog.Logger
	now           func() time.Time
	number        contract.NumberFunc
	initialStatus contract.Status
}

// NewService creates a coordinator. publisher may be nil.
func NewService(store Store, publisher notify.Publisher, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:         store,
		publisher:     publisher,
		logger:        logger,
		now:           time.Now,
		number:        contract.NewNumber,
		initialStatus: contract.StatusActive,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateContract signs a new contract on an available space. An ACTIVE
// contract occupies the space and reserves its parking spots; a PENDING one
// holds nothing until activated.
func (s *Service) CreateContract(ctx context.Context, req contract.CreateRequest) (*Outcome, error) {
	if req.Status == "" {
		req.Status = s.initialStatus
	}
	if req.Status != contract.StatusActive && req.Status != contract.StatusPending {
		return nil, ErrInvalidInitialStatus
	}
	now := s.now()
	c, err := contract.New(req, now, s.number(now))
	if err != nil {
		return nil, err
	}

	return s.run(ctx, "create contract", func(u *unit) (*Outcome, error) {
		if _, err := user.RequireRole(ctx, u.tx.Users(), c.TenantID, user.RoleTenant); err != nil {
			return nil, err
		}
		sp, err := u.registry.Load(ctx, c.SpaceID)
		if err != nil {
			return nil, err
		}
		if c.ParkingSpots > 0 && sp.ParkingID == nil {
			return nil, ErrNoParking
		}
		if !sp.Available {
			return nil, fmt.Errorf("%w: %s", space.ErrSpaceUnavailable, sp.ID)
		}

		out := &Outcome{Contract: c, Space: sp}
		if c.Status == contract.StatusActive {
			if err := u.registry.MarkOccupied(ctx, sp); err != nil {
				return nil, err
			}
		}
		if err := u.insertContract(ctx, c); err != nil {
			return nil, err
		}
		if c.Status == contract.StatusActive {
			if err := u.occupied(ctx, sp, c); err != nil {
				return nil, err
			}
			out.Events = append(out.Events, space.StatusChangeEvent(sp))
		}
		if err := u.record(ctx, sp, c, activity.TypeContractCreated,
			fmt.Sprintf("Contract %s created for space '%s'", c.Number, sp.Name),
			map[string]any{"tenant_id": c.TenantID, "status": c.Status, "parking_spots": c.ParkingSpots}); err != nil {
			return nil, err
		}
		if err := u.registry.Verify(ctx, sp); err != nil {
			return nil, err
		}
		out.Events = append(newContractEvents(c, sp), out.Events...)
		return out, nil
	})
}

// ActivateContract moves a PENDING contract to ACTIVE and occupies its space.
func (s *Service) ActivateContract(ctx context.Context, id string) (*Outcome, error) {
	return s.run(ctx, "activate contract", func(u *unit) (*Outcome, error) {
		c, sp, err := u.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if c.ParkingSpots > 0 && sp.ParkingID == nil {
			return nil, ErrNoParking
		}
		expected := c.Version
		if err := c.Activate(); err != nil {
			return nil, err
		}
		if err := u.registry.MarkOccupied(ctx, sp); err != nil {
			return nil, err
		}
		if err := u.saveContract(ctx, c, expected); err != nil {
			return nil, err
		}
		if err := u.occupied(ctx, sp, c); err != nil {
			return nil, err
		}
		if err := u.record(ctx, sp, c, activity.TypeContractActivated,
			fmt.Sprintf("Contract %s activated", c.Number), nil); err != nil {
			return nil, err
		}
		if err := u.registry.Verify(ctx, sp); err != nil {
			return nil, err
		}
		return &Outcome{
			Contract: c,
			Space:    sp,
			Events:   []notify.Event{space.StatusChangeEvent(sp), contractUpdateEvent(c, sp)},
		}, nil
	})
}

// TerminateContract ends a PENDING or ACTIVE contract today.
func (s *Service) TerminateContract(ctx context.Context, id, reason string) (*Outcome, error) {
	return s.end(ctx, "terminate contract", id, activity.TypeContractTerminated, func(c *contract.Contract, today time.Time) error {
		return c.Terminate(reason, today)
	})
}

// CancelContract cancels a contract in any state except CANCELLED.
func (s *Service) CancelContract(ctx context.Context, id, reason string) (*Outcome, error) {
	return s.end(ctx, "cancel contract", id, activity.TypeContractCancelled, func(c *contract.Contract, today time.Time) error {
		return c.Cancel(reason, today)
	})
}

// ExpireContract moves an ACTIVE contract whose end date has passed to EXPIRED.
func (s *Service) ExpireContract(ctx context.Context, id string) (*Outcome, error) {
	return s.end(ctx, "expire contract", id, activity.TypeContractExpired, func(c *contract.Contract, today time.Time) error {
		return c.Expire(today)
	})
}

// ExpireOverdue expires every ACTIVE contract whose end date is before today.
// Each contract expires in its own transaction; failures are collected and
// do not stop the sweep.
func (s *Service) ExpireOverdue(ctx context.Context) ([]*Outcome, error) {
	today := contract.Day(s.now())
	active := contract.StatusActive
	overdue, err := s.ListContracts(ctx, contract.ListOptions{Status: &active, EndingBefore: &today})
	if err != nil {
		return nil, err
	}

	var (
		outcomes []*Outcome
		errs     []error
	)
	for _, c := range overdue {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		out, err := s.ExpireContract(ctx, c.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("expiring %s: %w", c.Number, err))
			continue
		}
		outcomes = append(outcomes, out)
	}
	if len(outcomes) > 0 {
		s.logger.Info("overdue contracts expired", "count", len(outcomes), "failed", len(errs))
	}
	return outcomes, errors.Join(errs...)
}

// RenewContract replaces an ACTIVE or EXPIRED contract with a new ACTIVE one.
// Renewing an ACTIVE contract keeps the space and parking held throughout;
// renewing an EXPIRED one occupies the space again.
func (s *Service) RenewContract(ctx context.Context, id string, terms contract.RenewalTerms) (*Outcome, error) {
	return s.run(ctx, "renew contract", func(u *unit) (*Outcome, error) {
		old, sp, err := u.load(ctx, id)
		if err != nil {
			return nil, err
		}
		wasExpired := old.Status == contract.StatusExpired
		expected := old.Version
		now := s.now()
		next, err := old.Renew(terms, now, s.number(now))
		if err != nil {
			return nil, err
		}
		if wasExpired && next.ParkingSpots > 0 && sp.ParkingID == nil {
			return nil, ErrNoParking
		}

		// The old contract leaves ACTIVE before its successor enters it.
		if err := u.saveContract(ctx, old, expected); err != nil {
			return nil, err
		}
		var events []notify.Event
		if wasExpired {
			if err := u.registry.MarkOccupied(ctx, sp); err != nil {
				return nil, err
			}
			events = append(events, space.StatusChangeEvent(sp))
		}
		if err := u.insertContract(ctx, next); err != nil {
			return nil, err
		}
		if wasExpired {
			if err := u.occupied(ctx, sp, next); err != nil {
				return nil, err
			}
		}
		if err := u.record(ctx, sp, next, activity.TypeContractRenewed,
			fmt.Sprintf("Contract %s renewed as %s", old.Number, next.Number),
			map[string]any{"renewed_from_id": old.ID, "end_date": contract.FormatDate(next.EndDate)}); err != nil {
			return nil, err
		}
		if err := u.registry.Verify(ctx, sp); err != nil {
			return nil, err
		}

		events = append(events, contractUpdateEvent(next, sp))
		events = append(events, newContractEvents(next, sp)...)
		return &Outcome{Contract: next, Previous: old, Space: sp, Events: events}, nil
	})
}

// GetContract fetches a contract by ID.
func (s *Service) GetContract(ctx context.Context, id string) (*contract.Contract, error) {
	var c *contract.Contract
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		var err error
		c, err = loadContract(ctx, tx.Contracts(), id)
		return err
	})
	if err != nil {
		return nil, classify("get contract", err)
	}
	return c, nil
}

// ListContracts lists contracts matching opts, soonest ending first.
func (s *Service) ListContracts(ctx context.Context, opts contract.ListOptions) ([]contract.Contract, error) {
	var contracts []contract.Contract
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		var err error
		contracts, err = tx.Contracts().List(ctx, opts)
		if err != nil {
			return fmt.Errorf("listing contracts: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, classify("list contracts", err)
	}
	return contracts, nil
}

// ReserveParking claims n spots on a facility outside any contract.
func (s *Service) ReserveParking(ctx context.Context, facilityID string, n int) (parking.Capacity, error) {
	return s.adjustParking(ctx, "reserve parking", facilityID, n, activity.TypeParkingReserved, (*parking.Tracker).Reserve)
}

// ReleaseParking returns n spots to a facility. Spots held by ACTIVE
// contracts on the facility's spaces cannot be released this way.
func (s *Service) ReleaseParking(ctx context.Context, facilityID string, n int) (parking.Capacity, error) {
	return s.adjustParking(ctx, "release parking", facilityID, n, activity.TypeParkingReleased, (*parking.Tracker).Release, keepHeldSpots)
}

func keepHeldSpots(ctx context.Context, tx Tx, f *parking.Facility) error {
	held, err := tx.Contracts().HeldParkingSpots(ctx, f.ID)
	if err != nil {
		return fmt.Errorf("summing held parking spots: %w", err)
	}
	if f.ReservedSpots < held {
		return fmt.Errorf("%w: %d spots held by active contracts, %d would remain reserved",
			ErrParkingHeldByContracts, held, f.ReservedSpots)
	}
	return nil
}

// GetParking reports the counters of a facility.
func (s *Service) GetParking(ctx context.Context, facilityID string) (parking.Capacity, error) {
	var capacity parking.Capacity
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		f, err := parking.NewTracker(tx.Parking(), s.logger).Get(ctx, facilityID)
		if err != nil {
			return err
		}
		capacity = parking.CapacityOf(f)
		return nil
	})
	if err != nil {
		return parking.Capacity{}, classify("get parking", err)
	}
	return capacity, nil
}

type parkingOp func(t *parking.Tracker, ctx context.Context, id string, n int) (*parking.Facility, error)

// parkingCheck inspects the facility after the change; an error rolls it back.
type parkingCheck func(ctx context.Context, tx Tx, f *parking.Facility) error

func (s *Service) adjustParking(ctx context.Context, op, facilityID string, n int, typ activity.ActivityType, apply parkingOp, checks ...parkingCheck) (parking.Capacity, error) {
	var capacity parking.Capacity
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		f, err := apply(parking.NewTracker(tx.Parking(), s.logger), ctx, facilityID, n)
		if err != nil {
			return err
		}
		for _, check := range checks {
			if err := check(ctx, tx, f); err != nil {
				return err
			}
		}
		capacity = parking.CapacityOf(f)
		return activity.Record(ctx, tx.Activity(), &activity.ActivityEntry{
			ActivityType: typ,
			Summary:      fmt.Sprintf("%d parking spots on facility %s", n, facilityID),
			Details:      activity.Details(capacity),
		})
	})
	if err != nil {
		return parking.Capacity{}, classify(op, err)
	}
	return capacity, nil
}

// end applies a transition that takes a contract out of ACTIVE or PENDING and
// releases the space when the contract was holding it.
func (s *Service) end(ctx context.Context, op, id string, typ activity.ActivityType, transition func(*contract.Contract, time.Time) error) (*Outcome, error) {
	return s.run(ctx, op, func(u *unit) (*Outcome, error) {
		c, sp, err := u.load(ctx, id)
		if err != nil {
			return nil, err
		}
		previous := c.Status
		wasActive := previous == contract.StatusActive
		expected := c.Version
		if err := transition(c, u.today); err != nil {
			return nil, err
		}
		if err := u.saveContract(ctx, c, expected); err != nil {
			return nil, err
		}

		var events []notify.Event
		if wasActive {
			if err := u.released(ctx, sp, c); err != nil {
				return nil, err
			}
			events = append(events, space.StatusChangeEvent(sp))
		}
		details := map[string]any{"previous_status": previous, "status": c.Status}
		if c.TerminationReason != nil {
			details["reason"] = *c.TerminationReason
		}
		if err := u.record(ctx, sp, c, typ, fmt.Sprintf("Contract %s is now %s", c.Number, c.Status), details); err != nil {
			return nil, err
		}
		if err := u.registry.Verify(ctx, sp); err != nil {
			return nil, err
		}
		events = append(events, contractUpdateEvent(c, sp))
		return &Outcome{Contract: c, Space: sp, Events: events}, nil
	})
}

func (s *Service) run(ctx context.Context, op string, fn func(u *unit) (*Outcome, error)) (*Outcome, error) {
	var out *Outcome
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		var err error
		out, err = fn(s.newUnit(tx))
		return err
	})
	if err != nil {
		err = classify(op, err)
		s.logger.Warn("leasing operation failed", "op", op, "error", err)
		return nil, err
	}

	s.logger.Info("leasing operation committed", "op", op, "contract_id", out.Contract.ID, "status", out.Contract.Status, "space_id", out.Space.ID, "space_available", out.Space.Available)
	if s.publisher != nil && len(out.Events) > 0 {
		s.publisher.Dispatch(ctx, out.Events...)
	}
	return out, nil
}

// unit holds the transaction-bound collaborators of one use case.
type unit struct {
	tx       Tx
	registry *space.Registry
	tracker  *parking.Tracker
	today    time.Time
}

func (s *Service) newUnit(tx Tx) *unit {
	return &unit{
		tx:       tx,
		registry: space.NewRegistry(tx.Spaces(), tx.Contracts(), s.logger),
		tracker:  parking.NewTracker(tx.Parking(), s.logger),
		today:    contract.Day(s.now()),
	}
}

func (u *unit) load(ctx context.Context, id string) (*contract.Contract, *space.Space, error) {
	c, err := loadContract(ctx, u.tx.Contracts(), id)
	if err != nil {
		return nil, nil, err
	}
	sp, err := u.registry.Load(ctx, c.SpaceID)
	if err != nil {
		return nil, nil, err
	}
	return c, sp, nil
}

func loadContract(ctx context.Context, repo contract.Repository, id string) (*contract.Contract, error) {
	if id == "" {
		return nil, contract.ErrInvalidInput
	}
	c, err := repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, contract.ErrContractNotFound
		}
		return nil, fmt.Errorf("loading contract: %w", err)
	}
	return c, nil
}

func (u *unit) insertContract(ctx context.Context, c *contract.Contract) error {
	err := u.tx.Contracts().Create(ctx, c)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: %s", contract.ErrDuplicateNumber, c.Number)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %s", space.ErrSpaceUnavailable, c.SpaceID)
	default:
		return fmt.Errorf("creating contract: %w", err)
	}
}

func (u *unit) saveContract(ctx context.Context, c *contract.Contract, expected int64) error {
	err := u.tx.Contracts().Update(ctx, c, expected)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return contract.ErrContractNotFound
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %s", contract.ErrConcurrentUpdate, c.ID)
	default:
		return fmt.Errorf("updating contract: %w", err)
	}
}

// occupied completes occupation of sp by c after the flag flip: parking and audit.
func (u *unit) occupied(ctx context.Context, sp *space.Space, c *contract.Contract) error {
	if c.ParkingSpots > 0 {
		if _, err := u.tracker.Reserve(ctx, *sp.ParkingID, c.ParkingSpots); err != nil {
			return err
		}
		if err := u.record(ctx, sp, c, activity.TypeParkingReserved,
			fmt.Sprintf("%d parking spots reserved", c.ParkingSpots), nil); err != nil {
			return err
		}
	}
	return u.record(ctx, sp, c, activity.TypeSpaceOccupied, fmt.Sprintf("Space '%s' occupied", sp.Name), nil)
}

// released frees sp and the parking spots held by c.
func (u *unit) released(ctx context.Context, sp *space.Space, c *contract.Contract) error {
	if err := u.registry.MarkAvailable(ctx, sp); err != nil {
		return err
	}
	if c.ParkingSpots > 0 && sp.ParkingID != nil {
		if _, err := u.tracker.Release(ctx, *sp.ParkingID, c.ParkingSpots); err != nil {
			return err
		}
		if err := u.record(ctx, sp, c, activity.TypeParkingReleased,
			fmt.Sprintf("%d parking spots released", c.ParkingSpots), nil); err != nil {
			return err
		}
	}
	return u.record(ctx, sp, c, activity.TypeSpaceReleased, fmt.Sprintf("Space '%s' released", sp.Name), nil)
}

func (u *unit) record(ctx context.Context, sp *space.Space, c *contract.Contract, typ activity.ActivityType, summary string, details map[string]any) error {
	spaceID, contractID := sp.ID, c.ID
	entry := &activity.ActivityEntry{
		SpaceID:      &spaceID,
		ContractID:   &contractID,
		ActivityType: typ,
		Summary:      summary,
	}
	if details != nil {
		entry.Details = activity.Details(details)
	}
	return activity.Record(ctx, u.tx.Activity(), entry)
}
