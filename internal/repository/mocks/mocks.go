package mocks

import (
	"context"

	"github.com/rpggio/spacelease/internal/domain/activity"
	"github.com/rpggio/spacelease/internal/domain/contract"
	"github.com/rpggio/spacelease/internal/domain/parking"
	"github.com/rpggio/spacelease/internal/domain/space"
	"github.com/rpggio/spacelease/internal/domain/user"
	"github.com/rpggio/spacelease/internal/notify"
	"github.com/stretchr/testify/mock"
)

// SpaceRepository is a mock for space.Repository.
type SpaceRepository struct {
	mock.Mock
}

func (m *SpaceRepository) Create(ctx context.Context, sp *space.Space, facility *parking.Facility) error {
	args := m.Called(ctx, sp, facility)
	return args.Error(0)
}

func (m *SpaceRepository) Get(ctx context.Context, id string) (*space.Space, error) {
	args := m.Called(ctx, id)
	if sp, ok := args.Get(0).(*space.Space); ok {
		return sp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SpaceRepository) UpdateAvailability(ctx context.Context, id string, available bool, expectedVersion int64) error {
	args := m.Called(ctx, id, available, expectedVersion)
	return args.Error(0)
}

func (m *SpaceRepository) CreateBuilding(ctx context.Context, b *space.Building) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *SpaceRepository) GetBuilding(ctx context.Context, id string) (*space.Building, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*space.Building); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SpaceRepository) CountByBuilding(ctx context.Context, buildingID string) (int, int, error) {
	args := m.Called(ctx, buildingID)
	return args.Int(0), args.Int(1), args.Error(2)
}

// ContractRepository is a mock for contract.Repository.
type ContractRepository struct {
	mock.Mock
}

func (m *ContractRepository) Create(ctx context.Context, c *contract.Contract) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ContractRepository) Get(ctx context.Context, id string) (*contract.Contract, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*contract.Contract); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContractRepository) Update(ctx context.Context, c *contract.Contract, expectedVersion int64) error {
	args := m.Called(ctx, c, expectedVersion)
	return args.Error(0)
}

func (m *ContractRepository) ActiveForSpace(ctx context.Context, spaceID string) (*contract.Contract, error) {
	args := m.Called(ctx, spaceID)
	if c, ok := args.Get(0).(*contract.Contract); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContractRepository) List(ctx context.Context, opts contract.ListOptions) ([]contract.Contract, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]contract.Contract); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContractRepository) HeldParkingSpots(ctx context.Context, facilityID string) (int, error) {
	args := m.Called(ctx, facilityID)
	return args.Int(0), args.Error(1)
}

// ParkingRepository is a mock for parking.Repository.
type ParkingRepository struct {
	mock.Mock
}

func (m *ParkingRepository) Get(ctx context.Context, id string) (*parking.Facility, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(*parking.Facility); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ParkingRepository) UpdateReservation(ctx context.Context, id string, reserved int, expectedVersion int64) error {
	args := m.Called(ctx, id, reserved, expectedVersion)
	return args.Error(0)
}

// UserRepository is a mock for user.Repository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Publisher is a mock for notify.Publisher.
type Publisher struct {
	mock.Mock
}

func (m *Publisher) Dispatch(ctx context.Context, events ...notify.Event) {
	m.Called(ctx, events)
}
