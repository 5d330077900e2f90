package space

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/spacelease/internal/domain/activity"
	"github.com/rpggio/spacelease/internal/domain/parking"
	"github.com/rpggio/spacelease/internal/domain/user"
	"github.com/rpggio/spacelease/internal/notify"
	"github.com/rpggio/spacelease/internal/repository"
)

// CreateRequest defines the inputs for listing a space.
type CreateRequest struct {
	Name          string
	Description   string
	Area          float64
	PricePerMonth float64
	Address       string
	Latitude      *float64
	Longitude     *float64
	Type          Type
	OwnerID       string
	BuildingID    *string
	Parking       *parking.Facility
}

// Service handles space listing and read aggregation. Occupancy changes go
// through Registry, never through Service.
type Service struct {
	spaces     Repository
	users      user.Repository
	activities activity.Repository
	publisher  notify.Publisher
	logger     *slog.Logger
}

// NewService creates a new space service. publisher may be nil.
func NewService(spaces Repository, users user.Repository, activities activity.Repository, publisher notify.Publisher, logger *slog.Logger) *Service {
	return &Service{
		spaces:     spaces,
		users:      users,
		activities: activities,
		publisher:  publisher,
		logger:     logger,
	}
}

// Create lists a new available space, with its parking facility if given.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Space, error) {
	if err := ValidateCreateRequest(req); err != nil {
		return nil, err
	}
	if _, err := user.RequireRole(ctx, s.users, req.OwnerID, user.RoleOwner); err != nil {
		return nil, err
	}
	if req.BuildingID != nil {
		if _, err := s.GetBuilding(ctx, *req.BuildingID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	sp := &Space{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Area:          req.Area,
		PricePerMonth: req.PricePerMonth,
		Address:       req.Address,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Type:          req.Type,
		Available:     true,
		OwnerID:       req.OwnerID,
		BuildingID:    req.BuildingID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var facility *parking.Facility
	if req.Parking != nil {
		f := *req.Parking
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		f.CreatedAt = now
		f.UpdatedAt = now
		f.Version = 0
		facility = &f
		sp.ParkingID = &f.ID
	}

	if err := s.spaces.Create(ctx, sp, facility); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrParkingInUse
		}
		return nil, fmt.Errorf("creating space: %w", err)
	}

	if s.activities != nil {
		spaceID := sp.ID
		_ = activity.Record(ctx, s.activities, &activity.ActivityEntry{
			SpaceID:      &spaceID,
			ActivityType: activity.TypeSpaceRegistered,
			Summary:      fmt.Sprintf("Space '%s' listed", sp.Name),
			Details:      activity.Details(map[string]any{"owner_id": sp.OwnerID, "parking_id": sp.ParkingID}),
		})
	}

	if s.publisher != nil {
		s.publisher.Dispatch(ctx, NewSpaceEvent(sp))
	}
	if s.logger != nil {
		s.logger.Info("space listed", "space_id", sp.ID, "owner_id", sp.OwnerID)
	}
	return sp, nil
}

// Get fetches a space by ID.
func (s *Service) Get(ctx context.Context, id string) (*Space, error) {
	return load(ctx, s.spaces, id)
}

// CreateBuilding registers a building owned by an existing owner.
func (s *Service) CreateBuilding(ctx context.Context, name, address, ownerID string) (*Building, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}
	if _, err := user.RequireRole(ctx, s.users, ownerID, user.RoleOwner); err != nil {
		return nil, err
	}
	b := &Building{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Address:   address,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}
	if err := s.spaces.CreateBuilding(ctx, b); err != nil {
		return nil, fmt.Errorf("creating building: %w", err)
	}
	return b, nil
}

// GetBuilding fetches a building by ID.
func (s *Service) GetBuilding(ctx context.Context, id string) (*Building, error) {
	b, err := s.spaces.GetBuilding(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBuildingNotFound
		}
		return nil, fmt.Errorf("loading building: %w", err)
	}
	return b, nil
}

// BuildingOccupancy reports the occupied fraction of a building's spaces.
func (s *Service) BuildingOccupancy(ctx context.Context, buildingID string) (Occupancy, error) {
	if _, err := s.GetBuilding(ctx, buildingID); err != nil {
		return Occupancy{}, err
	}
	total, available, err := s.spaces.CountByBuilding(ctx, buildingID)
	if err != nil {
		return Occupancy{}, fmt.Errorf("counting building spaces: %w", err)
	}
	return NewOccupancy(buildingID, total, available), nil
}
