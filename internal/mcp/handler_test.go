package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/spacelease/internal/domain/activity"
	"github.com/rpggio/spacelease/internal/domain/contract"
	"github.com/rpggio/spacelease/internal/domain/parking"
	"github.com/rpggio/spacelease/internal/domain/space"
	"github.com/rpggio/spacelease/internal/domain/user"
	"github.com/rpggio/spacelease/internal/failure"
	"github.com/rpggio/spacelease/internal/leasing"
	"github.com/rpggio/spacelease/internal/notify"
	"github.com/stretchr/testify/require"
)

type userStub struct {
	registerFn func(context.Context, user.RegisterRequest) (*user.User, error)
}

func (u userStub) Register(ctx context.Context, req user.RegisterRequest) (*user.User, error) {
	return u.registerFn(ctx, req)
}

type spaceStub struct {
	createFn    func(context.Context, space.CreateRequest) (*space.Space, error)
	getFn       func(context.Context, string) (*space.Space, error)
	buildingFn  func(context.Context, string, string, string) (*space.Building, error)
	occupancyFn func(context.Context, string) (space.Occupancy, error)
}

func (s spaceStub) Create(ctx context.Context, req space.CreateRequest) (*space.Space, error) {
	return s.createFn(ctx, req)
}
func (s spaceStub) Get(ctx context.Context, id string) (*space.Space, error) {
	return s.getFn(ctx, id)
}
func (s spaceStub) CreateBuilding(ctx context.Context, name, address, ownerID string) (*space.Building, error) {
	return s.buildingFn(ctx, name, address, ownerID)
}
func (s spaceStub) BuildingOccupancy(ctx context.Context, buildingID string) (space.Occupancy, error) {
	return s.occupancyFn(ctx, buildingID)
}

type leasingStub struct {
	createFn     func(context.Context, contract.CreateRequest) (*leasing.Outcome, error)
	transitionFn func(context.Context, string, string) (*leasing.Outcome, error)
	expireAllFn  func(context.Context) ([]*leasing.Outcome, error)
	renewFn      func(context.Context, string, contract.RenewalTerms) (*leasing.Outcome, error)
	getFn        func(context.Context, string) (*contract.Contract, error)
	listFn       func(context.Context, contract.ListOptions) ([]contract.Contract, error)
	parkingFn    func(context.Context, string, int) (parking.Capacity, error)
}

func (l leasingStub) CreateContract(ctx context.Context, req contract.CreateRequest) (*leasing.Outcome, error) {
	return l.createFn(ctx, req)
}
func (l leasingStub) ActivateContract(ctx context.Context, id string) (*leasing.Outcome, error) {
	return l.transitionFn(ctx, "activate", id)
}
func (l leasingStub) TerminateContract(ctx context.Context, id, reason string) (*leasing.Outcome, error) {
	return l.transitionFn(ctx, "terminate:"+reason, id)
}
func (l leasingStub) CancelContract(ctx context.Context, id, reason string) (*leasing.Outcome, error) {
	return l.transitionFn(ctx, "cancel:"+reason, id)
}
func (l leasingStub) ExpireContract(ctx context.Context, id string) (*leasing.Outcome, error) {
	return l.transitionFn(ctx, "expire", id)
}
func (l leasingStub) ExpireOverdue(ctx context.Context) ([]*leasing.Outcome, error) {
	return l.expireAllFn(ctx)
}
func (l leasingStub) RenewContract(ctx context.Context, id string, terms contract.RenewalTerms) (*leasing.Outcome, error) {
	return l.renewFn(ctx, id, terms)
}
func (l leasingStub) GetContract(ctx context.Context, id string) (*contract.Contract, error) {
	return l.getFn(ctx, id)
}
func (l leasingStub) ListContracts(ctx context.Context, opts contract.ListOptions) ([]contract.Contract, error) {
	return l.listFn(ctx, opts)
}
func (l leasingStub) GetParking(ctx context.Context, facilityID string) (parking.Capacity, error) {
	return l.parkingFn(ctx, facilityID, 0)
}
func (l leasingStub) ReserveParking(ctx context.Context, facilityID string, n int) (parking.Capacity, error) {
	return l.parkingFn(ctx, facilityID, n)
}
func (l leasingStub) ReleaseParking(ctx context.Context, facilityID string, n int) (parking.Capacity, error) {
	return l.parkingFn(ctx, facilityID, -n)
}

type activityStub struct {
	listFn func(context.Context, activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

func (a activityStub) GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	return a.listFn(ctx, opts)
}

var testToday = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func sampleContract(status contract.Status) *contract.Contract {
	return &contract.Contract{
		ID:          "c1",
		Number:      "CTR-1",
		TenantID:    "tenant",
		SpaceID:     "s1",
		StartDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		MonthlyRent: 1000,
		Status:      status,
	}
}

func sampleOutcome(status contract.Status, available bool) *leasing.Outcome {
	return &leasing.Outcome{
		Contract: sampleContract(status),
		Space:    &space.Space{ID: "s1", Available: available},
		Events: []notify.Event{
			notify.ForUser(notify.TypeContractUpdate, "owner", "updated", nil),
			notify.New(notify.TypeSpaceStatusChange, notify.TopicSpaces, "changed", nil),
		},
	}
}

func newTestHandler(services Services) *Handler {
	h := NewHandler(services, func() time.Time { return testToday })
	return h
}

func TestHandler_InventoryCommands(t *testing.T) {
	ctx := context.Background()
	parkingID := "f1"
	var created space.CreateRequest

	handler := newTestHandler(Services{
		Users: userStub{registerFn: func(_ context.Context, req user.RegisterRequest) (*user.User, error) {
			require.Equal(t, user.RoleOwner, req.Role)
			return &user.User{ID: "owner", Email: req.Email, Role: req.Role}, nil
		}},
		Spaces: spaceStub{
			createFn: func(_ context.Context, req space.CreateRequest) (*space.Space, error) {
				created = req
				return &space.Space{ID: "s1", Area: req.Area, PricePerMonth: req.PricePerMonth, Available: true, ParkingID: &parkingID}, nil
			},
			getFn: func(_ context.Context, id string) (*space.Space, error) {
				return &space.Space{ID: id, Area: 100, PricePerMonth: 2500, Available: true}, nil
			},
			buildingFn: func(_ context.Context, name, _ string, ownerID string) (*space.Building, error) {
				return &space.Building{ID: "b1", Name: name, OwnerID: ownerID}, nil
			},
			occupancyFn: func(_ context.Context, buildingID string) (space.Occupancy, error) {
				return space.NewOccupancy(buildingID, 4, 1), nil
			},
		},
		Leasing: leasingStub{parkingFn: func(_ context.Context, id string, n int) (parking.Capacity, error) {
			reserved := 0
			if n > 0 {
				reserved = n
			}
			return parking.Capacity{FacilityID: id, NumberOfSpots: 10, ReservedSpots: reserved, AvailableSpots: 10 - reserved}, nil
		}},
	})

	_, err := handler.Handle(ctx, "register_user", mustJSON(t, RegisterUserParams{Name: "O", Email: "o@example.com", Role: "owner"}))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, "create_building", mustJSON(t, CreateBuildingParams{Name: "Tower", OwnerID: "owner"}))
	require.NoError(t, err)

	result, err := handler.Handle(ctx, "create_space", mustJSON(t, CreateSpaceParams{
		Name:          "Suite",
		Area:          50,
		PricePerMonth: 1000,
		SpaceType:     "office",
		OwnerID:       "owner",
		Parking:       &ParkingParams{NumberOfSpots: 10, ParkingType: "garage"},
	}))
	require.NoError(t, err)
	require.Equal(t, space.Type("OFFICE"), created.Type)
	require.NotNil(t, created.Parking)
	require.Equal(t, parking.Type("GARAGE"), created.Parking.Type)
	resp := result.(SpaceResponse)
	require.Equal(t, 20.0, resp.PricePerSquareMeter)
	require.NotNil(t, resp.Parking)
	require.Equal(t, 10, resp.Parking.AvailableSpots)

	result, err = handler.Handle(ctx, "get_space", mustJSON(t, IDParams{ID: "s2"}))
	require.NoError(t, err)
	require.Nil(t, result.(SpaceResponse).Parking)
	require.Equal(t, 25.0, result.(SpaceResponse).PricePerSquareMeter)

	result, err = handler.Handle(ctx, "building_occupancy", mustJSON(t, BuildingOccupancyParams{BuildingID: "b1"}))
	require.NoError(t, err)
	require.InDelta(t, 0.75, result.(space.Occupancy).Rate, 0.0001)

	result, err = handler.Handle(ctx, "reserve_parking", mustJSON(t, ParkingCountParams{FacilityID: "f1", Count: 3}))
	require.NoError(t, err)
	require.Equal(t, 3, result.(parking.Capacity).ReservedSpots)

	_, err = handler.Handle(ctx, "release_parking", mustJSON(t, ParkingCountParams{FacilityID: "f1", Count: 3}))
	require.NoError(t, err)
	_, err = handler.Handle(ctx, "get_parking", mustJSON(t, ParkingLookupParams{FacilityID: "f1"}))
	require.NoError(t, err)
}

func TestHandler_ContractCommands(t *testing.T) {
	ctx := context.Background()
	var calls []string
	var gotCreate contract.CreateRequest
	var gotTerms contract.RenewalTerms
	var gotList contract.ListOptions

	handler := newTestHandler(Services{
		Leasing: leasingStub{
			createFn: func(_ context.Context, req contract.CreateRequest) (*leasing.Outcome, error) {
				gotCreate = req
				return sampleOutcome(contract.StatusActive, false), nil
			},
			transitionFn: func(_ context.Context, op, id string) (*leasing.Outcome, error) {
				calls = append(calls, op+"/"+id)
				return sampleOutcome(contract.StatusTerminated, true), nil
			},
			renewFn: func(_ context.Context, _ string, terms contract.RenewalTerms) (*leasing.Outcome, error) {
				gotTerms = terms
				out := sampleOutcome(contract.StatusActive, false)
				out.Previous = sampleContract(contract.StatusRenewed)
				return out, nil
			},
			getFn: func(_ context.Context, _ string) (*contract.Contract, error) {
				return sampleContract(contract.StatusActive), nil
			},
			listFn: func(_ context.Context, opts contract.ListOptions) ([]contract.Contract, error) {
				gotList = opts
				return []contract.Contract{*sampleContract(contract.StatusActive)}, nil
			},
		},
	})

	result, err := handler.Handle(ctx, "create_contract", mustJSON(t, CreateContractParams{
		SpaceID:       "s1",
		TenantID:      "tenant",
		StartDate:     "2025-01-01",
		EndDate:       "2025-12-31",
		MonthlyRent:   1000,
		PaymentMethod: "bank_transfer",
		ParkingSpots:  2,
		Status:        "pending",
	}))
	require.NoError(t, err)
	require.Equal(t, contract.StatusPending, gotCreate.Status)
	require.Equal(t, contract.PaymentBankTransfer, gotCreate.PaymentMethod)
	require.Equal(t, 2, gotCreate.ParkingSpots)
	require.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), gotCreate.EndDate)
	out := result.(OutcomeResponse)
	require.False(t, out.SpaceAvailable)
	require.Len(t, out.Notifications, 2)
	require.True(t, out.Contract.Derived.IsActive)
	require.Equal(t, 11, out.Contract.Derived.DurationInMonths)

	result, err = handler.Handle(ctx, "get_contract", mustJSON(t, IDParams{ID: "c1"}))
	require.NoError(t, err)
	require.Equal(t, "CTR-1", result.(ContractResponse).Number)

	result, err = handler.Handle(ctx, "list_contracts", mustJSON(t, ListContractsParams{SpaceID: "s1", Status: "active", Limit: 5}))
	require.NoError(t, err)
	require.Len(t, result.([]ContractResponse), 1)
	require.NotNil(t, gotList.Status)
	require.Equal(t, contract.StatusActive, *gotList.Status)
	require.Equal(t, 5, gotList.Limit)

	_, err = handler.Handle(ctx, "list_contracts", mustJSON(t, ListContractsParams{OwnerID: "owner-1"}))
	require.NoError(t, err)
	require.Equal(t, "owner-1", gotList.OwnerID)
	require.Nil(t, gotList.Status)

	_, err = handler.Handle(ctx, "activate_contract", mustJSON(t, IDParams{ID: "c1"}))
	require.NoError(t, err)
	_, err = handler.Handle(ctx, "terminate_contract", mustJSON(t, EndContractParams{ID: "c1", Reason: "moving"}))
	require.NoError(t, err)
	_, err = handler.Handle(ctx, "cancel_contract", mustJSON(t, EndContractParams{ID: "c1"}))
	require.NoError(t, err)
	_, err = handler.Handle(ctx, "expire_contract", mustJSON(t, IDParams{ID: "c1"}))
	require.NoError(t, err)
	require.Equal(t, []string{"activate/c1", "terminate:moving/c1", "cancel:/c1", "expire/c1"}, calls)

	rent := 1200.0
	start := "2026-01-01"
	result, err = handler.Handle(ctx, "renew_contract", mustJSON(t, RenewContractParams{ID: "c1", NewEndDate: "2026-12-31", NewStartDate: &start, MonthlyRent: &rent}))
	require.NoError(t, err)
	require.NotNil(t, gotTerms.NewStartDate)
	require.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *gotTerms.NewStartDate)
	require.Equal(t, &rent, gotTerms.MonthlyRent)
	require.NotNil(t, result.(OutcomeResponse).Previous)
}

func TestHandler_ExpireOverdueReportsPartialFailure(t *testing.T) {
	handler := newTestHandler(Services{
		Leasing: leasingStub{expireAllFn: func(context.Context) ([]*leasing.Outcome, error) {
			return []*leasing.Outcome{sampleOutcome(contract.StatusExpired, true)}, fmt.Errorf("expire c2: %w", failure.ErrConflict)
		}},
	})

	result, err := handler.Handle(context.Background(), "expire_overdue", nil)
	require.NoError(t, err)
	resp := result.(ExpireOverdueResponse)
	require.Len(t, resp.Expired, 1)
	require.Len(t, resp.Errors, 1)
	require.Contains(t, resp.Errors[0], "expire c2")
}

func TestHandler_RecentActivity(t *testing.T) {
	spaceID := "s1"
	var got activity.ListActivityOptions
	handler := newTestHandler(Services{
		Activity: activityStub{listFn: func(_ context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
			got = opts
			return []activity.ActivityEntry{{ID: 7, SpaceID: &spaceID, ActivityType: activity.TypeSpaceOccupied, Summary: "occupied"}}, nil
		}},
	})

	typ := string(activity.TypeSpaceOccupied)
	result, err := handler.Handle(context.Background(), "get_recent_activity", mustJSON(t, GetRecentActivityParams{SpaceID: &spaceID, Type: &typ, Limit: 10}))
	require.NoError(t, err)
	entries := result.([]ActivityEntryResponse)
	require.Len(t, entries, 1)
	require.Equal(t, "s1", entries[0].SpaceID)
	require.Empty(t, entries[0].ContractID)
	require.NotNil(t, got.ActivityType)
	require.Equal(t, activity.TypeSpaceOccupied, *got.ActivityType)
	require.Equal(t, 10, got.Limit)
}

func TestHandler_BadInput(t *testing.T) {
	ctx := context.Background()
	handler := newTestHandler(Services{})

	_, err := handler.Handle(ctx, "create_contract", json.RawMessage(`{"space_id": 5}`))
	require.ErrorIs(t, err, failure.ErrBadRequest)

	_, err = handler.Handle(ctx, "create_contract", mustJSON(t, CreateContractParams{StartDate: "01/02/2025", EndDate: "2025-12-31"}))
	require.ErrorIs(t, err, failure.ErrBadRequest)

	_, err = handler.Handle(ctx, "list_contracts", mustJSON(t, ListContractsParams{Status: "unknown"}))
	require.ErrorIs(t, err, failure.ErrBadRequest)

	_, err = handler.Handle(ctx, "no_such_tool", nil)
	require.ErrorIs(t, err, failure.ErrBadRequest)
}

func TestMapError(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{fmt.Errorf("get: %w", failure.ErrNotFound), "NOT_FOUND"},
		{fmt.Errorf("insert: %w", failure.ErrDuplicate), "DUPLICATE_RESOURCE"},
		{fmt.Errorf("occupied: %w", failure.ErrConflict), "CONFLICT"},
		{fmt.Errorf("dates: %w", failure.ErrBadRequest), "BAD_REQUEST"},
		{failure.Business("create contract", fmt.Errorf("disk full")), "BUSINESS_ERROR"},
		{fmt.Errorf("boom"), "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.code, MapError(tc.err).Code, tc.err.Error())
	}
	require.Nil(t, MapError(nil))
}

func TestCatalogMatchesHandler(t *testing.T) {
	handler := newTestHandler(Services{})
	seen := map[string]bool{}
	for _, def := range buildToolCatalog() {
		require.False(t, seen[def.Name], "duplicate tool %s", def.Name)
		seen[def.Name] = true
		require.Equal(t, "object", def.InputSchema["type"])

		if def.Name == "expire_overdue" {
			continue
		}
		// Known tools fail on decoding before any service is touched.
		_, err := handler.Handle(context.Background(), def.Name, json.RawMessage(`[]`))
		require.ErrorIs(t, err, failure.ErrBadRequest, def.Name)
		require.NotContains(t, err.Error(), "unknown method", def.Name)
	}
	require.Len(t, seen, 18)
}

func TestServer_ToolCallOverInMemoryTransport(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	server := NewServer(Config{
		TransportMode: "stdio",
		Services: Services{
			Leasing: leasingStub{getFn: func(_ context.Context, id string) (*contract.Contract, error) {
				if id == "missing" {
					return nil, fmt.Errorf("contract %s: %w", id, failure.ErrNotFound)
				}
				return sampleContract(contract.StatusActive), nil
			}},
		},
	})

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, 18)

	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "get_contract", Arguments: map[string]any{"id": "c1"}})
	require.NoError(t, err)
	require.False(t, result.IsError)
	var got ContractResponse
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].(*sdkmcp.TextContent).Text), &got))
	require.Equal(t, "c1", got.ID)

	result, err = session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "get_contract", Arguments: map[string]any{"id": "missing"}})
	require.NoError(t, err)
	require.True(t, result.IsError)
	var apiErr APIError
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].(*sdkmcp.TextContent).Text), &apiErr))
	require.Equal(t, "NOT_FOUND", apiErr.Code)

	read, err := session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "spacelease://docs/lifecycle"})
	require.NoError(t, err)
	require.Contains(t, read.Contents[0].Text, "RENEWED")
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestFormatPayload(t *testing.T) {
	require.Equal(t, "<nil>", formatPayload(nil))
	require.Equal(t, `{"id":"c1"}`, formatPayload(map[string]string{"id": "c1"}))

	long := formatPayload(map[string]string{"notes": strings.Repeat("a", 3*maxLoggedPayload)})
	require.True(t, strings.HasPrefix(long, `{"notes":"aaa`))
	require.Contains(t, long, "bytes)")
	require.Less(t, len(long), maxLoggedPayload+64)
}
