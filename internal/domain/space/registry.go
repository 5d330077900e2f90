package space

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rpggio/spacelease/internal/domain/contract"
	"github.com/rpggio/spacelease/internal/repository"
)

// Registry is the only writer of a space's availability flag. It is bound to
// the repositories of one unit of work, so flag changes commit together with
// the contract changes that caused them.
type Registry struct {
	spaces    Repository
	contracts ContractLookup
	logger    *slog.Logger
}

// NewRegistry creates a registry over the given repositories.
func NewRegistry(spaces Repository, contracts ContractLookup, logger *slog.Logger) *Registry {
	return &Registry{spaces: spaces, contracts: contracts, logger: logger}
}

// Load fetches a space by ID.
func (r *Registry) Load(ctx context.Context, id string) (*Space, error) {
	return load(ctx, r.spaces, id)
}

// MarkOccupied flips an available space to unavailable.
func (r *Registry) MarkOccupied(ctx context.Context, sp *Space) error {
	if !sp.Available {
		return fmt.Errorf("%w: %s", ErrSpaceUnavailable, sp.ID)
	}
	return r.setAvailability(ctx, sp, false)
}

// MarkAvailable flips an occupied space back to available. It is a no-op for
// a space that is already available.
func (r *Registry) MarkAvailable(ctx context.Context, sp *Space) error {
	if sp.Available {
		return nil
	}
	return r.setAvailability(ctx, sp, true)
}

// ActiveContract returns the ACTIVE contract on sp, or nil when there is none.
func (r *Registry) ActiveContract(ctx context.Context, sp *Space) (*contract.Contract, error) {
	c, err := r.contracts.ActiveForSpace(ctx, sp.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading active contract: %w", err)
	}
	return c, nil
}

// HasActiveContract reports whether an ACTIVE contract exists for sp.
func (r *Registry) HasActiveContract(ctx context.Context, sp *Space) (bool, error) {
	c, err := r.ActiveContract(ctx, sp)
	if err != nil {
		return false, err
	}
	return c != nil, nil
}

// Verify checks that sp.Available is false exactly when an ACTIVE contract exists.
func (r *Registry) Verify(ctx context.Context, sp *Space) error {
	active, err := r.HasActiveContract(ctx, sp)
	if err != nil {
		return err
	}
	if sp.Available == active {
		if r.logger != nil {
			r.logger.Error("occupancy drift detected", "space_id", sp.ID, "available", sp.Available, "active_contract", active)
		}
		return fmt.Errorf("%w: space %s available=%t active_contract=%t", ErrOccupancyDrift, sp.ID, sp.Available, active)
	}
	return nil
}

func (r *Registry) setAvailability(ctx context.Context, sp *Space, available bool) error {
	err := r.spaces.UpdateAvailability(ctx, sp.ID, available, sp.Version)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return fmt.Errorf("%w: %s", ErrConcurrentUpdate, sp.ID)
		case errors.Is(err, repository.ErrNotFound):
			return ErrSpaceNotFound
		default:
			return fmt.Errorf("updating space availability: %w", err)
		}
	}
	sp.Available = available
	sp.Version++
	if r.logger != nil {
		r.logger.Debug("space availability changed", "space_id", sp.ID, "available", available, "version", sp.Version)
	}
	return nil
}

func load(ctx context.Context, repo Repository, id string) (*Space, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	sp, err := repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSpaceNotFound
		}
		return nil, fmt.Errorf("loading space: %w", err)
	}
	return sp, nil
}
