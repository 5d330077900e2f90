package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/spacelease/internal/domain/activity"
	"github.com/rpggio/spacelease/internal/domain/contract"
	"github.com/rpggio/spacelease/internal/domain/parking"
	"github.com/rpggio/spacelease/internal/domain/space"
	"github.com/rpggio/spacelease/internal/domain/user"
	"github.com/rpggio/spacelease/internal/repository"
)

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	insertUser(t, db, "a@example.com", user.RoleTenant)
	err := repo.Create(ctx, &user.User{ID: "other", Name: "B", Email: "a@example.com", Role: user.RoleTenant, CreatedAt: time.Now()})
	require.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSpaceRepository_CreateWithParking(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	owner := insertUser(t, db, "owner@example.com", user.RoleOwner)
	repo := NewSpaceRepository(db)

	height := 2.1
	facility := newFacility(10)
	facility.HeightRestriction = &height
	sp := newSpace(owner.ID)
	sp.ParkingID = &facility.ID
	require.NoError(t, repo.Create(ctx, sp, facility))

	got, err := repo.Get(ctx, sp.ID)
	require.NoError(t, err)
	require.True(t, got.Available)
	require.Equal(t, facility.ID, *got.ParkingID)
	require.Nil(t, got.BuildingID)

	f, err := NewParkingRepository(db).Get(ctx, facility.ID)
	require.NoError(t, err)
	require.Equal(t, 10, f.NumberOfSpots)
	require.Equal(t, parking.TypeGarage, f.Type)
	require.InDelta(t, 2.1, *f.HeightRestriction, 0.0001)
}

func TestSpaceRepository_ParkingAttachedOnce(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	owner := insertUser(t, db, "owner@example.com", user.RoleOwner)
	repo := NewSpaceRepository(db)

	facility := newFacility(5)
	first := newSpace(owner.ID)
	first.ParkingID = &facility.ID
	require.NoError(t, repo.Create(ctx, first, facility))

	second := newSpace(owner.ID)
	second.ParkingID = &facility.ID
	require.ErrorIs(t, repo.Create(ctx, second, nil), repository.ErrDuplicate)

	_, err := repo.Get(ctx, second.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSpaceRepository_UpdateAvailabilityCAS(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	owner := insertUser(t, db, "owner@example.com", user.RoleOwner)
	repo := NewSpaceRepository(db)

	sp := newSpace(owner.ID)
	require.NoError(t, repo.Create(ctx, sp, nil))

	require.NoError(t, repo.UpdateAvailability(ctx, sp.ID, false, 0))
	require.ErrorIs(t, repo.UpdateAvailability(ctx, sp.ID, true, 0), repository.ErrConflict)
	require.ErrorIs(t, repo.UpdateAvailability(ctx, "missing", true, 0), repository.ErrNotFound)

	got, err := repo.Get(ctx, sp.ID)
	require.NoError(t, err)
	require.False(t, got.Available)
	require.Equal(t, int64(1), got.Version)
}

func TestSpaceRepository_CountByBuilding(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	owner := insertUser(t, db, "owner@example.com", user.RoleOwner)
	repo := NewSpaceRepository(db)

	b := &space.Building{ID: uuid.NewString(), Name: "Tower", OwnerID: owner.ID, CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.CreateBuilding(ctx, b))

	for i := 0; i < 3; i++ {
		sp := newSpace(owner.ID)
		sp.BuildingID = &b.ID
		require.NoError(t, repo.Create(ctx, sp, nil))
		if i == 0 {
			require.NoError(t, repo.UpdateAvailability(ctx, sp.ID, false, 0))
		}
	}

	total, available, err := repo.CountByBuilding(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Equal(t, 2, available)

	total, available, err = repo.CountByBuilding(ctx, "empty")
	require.NoError(t, err)
	require.Zero(t, total)
	require.Zero(t, available)
}

func TestParkingRepository_UpdateReservationCAS(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	owner := insertUser(t, db, "owner@example.com", user.RoleOwner)

	facility := newFacility(4)
	sp := newSpace(owner.ID)
	sp.ParkingID = &facility.ID
	require.NoError(t, NewSpaceRepository(db).Create(ctx, sp, facility))

	repo := NewParkingRepository(db)
	require.NoError(t, repo.UpdateReservation(ctx, facility.ID, 3, 0))
	require.ErrorIs(t, repo.UpdateReservation(ctx, facility.ID, 1, 0), repository.ErrConflict)

	// The schema refuses counters beyond capacity.
	require.Error(t, repo.UpdateReservation(ctx, facility.ID, 5, 1))

	f, err := repo.Get(ctx, facility.ID)
	require.NoError(t, err)
	require.Equal(t, 3, f.ReservedSpots)
	require.Equal(t, int64(1), f.Version)
}

func TestContractRepository_RoundTripAndUpdate(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	sp, tenant := seedSpace(t, db)
	repo := NewContractRepository(db)

	c := newContract(sp.ID, tenant.ID, contract.StatusPending)
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, c.Number, got.Number)
	require.True(t, c.StartDate.Equal(got.StartDate))
	require.True(t, c.EndDate.Equal(got.EndDate))
	require.Nil(t, got.ActualEndDate)
	require.Equal(t, contract.StatusPending, got.Status)

	end := contract.Day(time.Now())
	reason := "moved out"
	got.Status = contract.StatusTerminated
	got.ActualEndDate = &end
	got.TerminationReason = &reason
	require.NoError(t, repo.Update(ctx, got, 0))
	require.Equal(t, int64(1), got.Version)

	stale := *got
	require.ErrorIs(t, repo.Update(ctx, &stale, 0), repository.ErrConflict)

	reloaded, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, contract.StatusTerminated, reloaded.Status)
	require.True(t, end.Equal(*reloaded.ActualEndDate))
	require.Equal(t, reason, *reloaded.TerminationReason)
}

func TestContractRepository_OneActivePerSpace(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	sp, tenant := seedSpace(t, db)
	repo := NewContractRepository(db)

	first := newContract(sp.ID, tenant.ID, contract.StatusActive)
	require.NoError(t, repo.Create(ctx, first))

	second := newContract(sp.ID, tenant.ID, contract.StatusActive)
	require.ErrorIs(t, repo.Create(ctx, second), repository.ErrConflict)

	pending := newContract(sp.ID, tenant.ID, contract.StatusPending)
	require.NoError(t, repo.Create(ctx, pending))

	pending.Status = contract.StatusActive
	require.ErrorIs(t, repo.Update(ctx, pending, 0), repository.ErrConflict)

	active, err := repo.ActiveForSpace(ctx, sp.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, active.ID)
}

func TestContractRepository_DuplicateNumber(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	sp, tenant := seedSpace(t, db)
	repo := NewContractRepository(db)

	first := newContract(sp.ID, tenant.ID, contract.StatusPending)
	require.NoError(t, repo.Create(ctx, first))

	second := newContract(sp.ID, tenant.ID, contract.StatusPending)
	second.Number = first.Number
	require.ErrorIs(t, repo.Create(ctx, second), repository.ErrDuplicate)
}

func TestContractRepository_ListFilters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	sp, tenant := seedSpace(t, db)
	repo := NewContractRepository(db)

	today := contract.Day(time.Now())
	overdue := newContract(sp.ID, tenant.ID, contract.StatusActive)
	overdue.StartDate = today.AddDate(-1, 0, 0)
	overdue.EndDate = today.AddDate(0, 0, -1)
	require.NoError(t, repo.Create(ctx, overdue))

	pending := newContract(sp.ID, tenant.ID, contract.StatusPending)
	require.NoError(t, repo.Create(ctx, pending))

	active := contract.StatusActive
	got, err := repo.List(ctx, contract.ListOptions{Status: &active, EndingBefore: &today})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, overdue.ID, got[0].ID)

	all, err := repo.List(ctx, contract.ListOptions{SpaceID: sp.ID})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, overdue.ID, all[0].ID)

	limited, err := repo.List(ctx, contract.ListOptions{TenantID: tenant.ID, Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	spaceID := "space-1"
	entry1 := &activity.ActivityEntry{
		SpaceID:      &spaceID,
		ActivityType: activity.TypeSpaceRegistered,
		Summary:      "Space listed",
		Details:      `{"id":"space-1"}`,
		CreatedAt:    time.Now().UTC().Add(-time.Minute),
	}
	entry2 := &activity.ActivityEntry{
		SpaceID:      &spaceID,
		ActivityType: activity.TypeSpaceOccupied,
		Summary:      "Space occupied",
		CreatedAt:    time.Now().UTC(),
	}
	other := &activity.ActivityEntry{
		ActivityType: activity.TypeContractCreated,
		Summary:      "Contract created",
	}

	require.NoError(t, repo.Log(ctx, entry1))
	require.NoError(t, repo.Log(ctx, entry2))
	require.NoError(t, repo.Log(ctx, other))
	require.NotZero(t, entry1.ID)
	require.Greater(t, entry2.ID, entry1.ID)

	entries, err := repo.List(ctx, activity.ListActivityOptions{SpaceID: &spaceID})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, activity.TypeSpaceOccupied, entries[0].ActivityType)
	require.Equal(t, activity.TypeSpaceRegistered, entries[1].ActivityType)

	kind := activity.TypeContractCreated
	entries, err = repo.List(ctx, activity.ListActivityOptions{ActivityType: &kind})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Nil(t, entries[0].SpaceID)

	entries, err = repo.List(ctx, activity.ListActivityOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestContractRepository_HeldParkingSpots(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	owner := insertUser(t, db, "owner@example.com", user.RoleOwner)
	tenant := insertUser(t, db, "tenant@example.com", user.RoleTenant)
	repo := NewContractRepository(db)

	facility := newFacility(10)
	sp := newSpace(owner.ID)
	sp.ParkingID = &facility.ID
	require.NoError(t, NewSpaceRepository(db).Create(ctx, sp, facility))

	held, err := repo.HeldParkingSpots(ctx, facility.ID)
	require.NoError(t, err)
	require.Zero(t, held)

	active := newContract(sp.ID, tenant.ID, contract.StatusActive)
	active.ParkingSpots = 3
	require.NoError(t, repo.Create(ctx, active))
	pending := newContract(sp.ID, tenant.ID, contract.StatusPending)
	pending.ParkingSpots = 4
	require.NoError(t, repo.Create(ctx, pending))

	held, err = repo.HeldParkingSpots(ctx, facility.ID)
	require.NoError(t, err)
	require.Equal(t, 3, held)

	held, err = repo.HeldParkingSpots(ctx, "other-facility")
	require.NoError(t, err)
	require.Zero(t, held)
}

func TestContractRepository_ListByOwner(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	sp, tenant := seedSpace(t, db)
	repo := NewContractRepository(db)

	other := insertUser(t, db, "other-owner@example.com", user.RoleOwner)
	otherSpace := newSpace(other.ID)
	require.NoError(t, NewSpaceRepository(db).Create(ctx, otherSpace, nil))

	mine := newContract(sp.ID, tenant.ID, contract.StatusActive)
	require.NoError(t, repo.Create(ctx, mine))
	require.NoError(t, repo.Create(ctx, newContract(otherSpace.ID, tenant.ID, contract.StatusActive)))

	got, err := repo.List(ctx, contract.ListOptions{OwnerID: sp.OwnerID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, mine.ID, got[0].ID)

	got, err = repo.List(ctx, contract.ListOptions{OwnerID: tenant.ID})
	require.NoError(t, err)
	require.Empty(t, got)
}

func seedSpace(t *testing.T, db *DB) (*space.Space, *user.User) {
	t.Helper()
	owner := insertUser(t, db, "owner@example.com", user.RoleOwner)
	tenant := insertUser(t, db, "tenant@example.com", user.RoleTenant)
	sp := newSpace(owner.ID)
	require.NoError(t, NewSpaceRepository(db).Create(context.Background(), sp, nil))
	return sp, tenant
}

func newFacility(spots int) *parking.Facility {
	now := time.Now().UTC()
	return &parking.Facility{
		ID:            uuid.NewString(),
		NumberOfSpots: spots,
		PricePerSpot:  50,
		Type:          parking.TypeGarage,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func newContract(spaceID, tenantID string, status contract.Status) *contract.Contract {
	now := time.Now().UTC()
	today := contract.Day(now)
	return &contract.Contract{
		ID:          uuid.NewString(),
		Number:      contract.NewNumber(now),
		TenantID:    tenantID,
		SpaceID:     spaceID,
		StartDate:   today,
		EndDate:     today.AddDate(1, 0, 0),
		MonthlyRent: 1000,
		Status:      status,
		DateCreated: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
