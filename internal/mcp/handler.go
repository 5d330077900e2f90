package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/spacelease/internal/domain/activity"
	"github.com/rpggio/spacelease/internal/domain/contract"
	"github.com/rpggio/spacelease/internal/domain/parking"
	"github.com/rpggio/spacelease/internal/domain/space"
	"github.com/rpggio/spacelease/internal/domain/user"
	"github.com/rpggio/spacelease/internal/failure"
	"github.com/rpggio/spacelease/internal/leasing"
)

// UserService defines user operations needed by MCP.
type UserService interface {
	Register(ctx context.Context, req user.RegisterRequest) (*user.User, error)
}

// SpaceService defines space operations needed by MCP.
type SpaceService interface {
	Create(ctx context.Context, req space.CreateRequest) (*space.Space, error)
	Get(ctx context.Context, id string) (*space.Space, error)
	CreateBuilding(ctx context.Context, name, address, ownerID string) (*space.Building, error)
	BuildingOccupancy(ctx context.Context, buildingID string) (space.Occupancy, error)
}

// LeasingService defines lifecycle operations needed by MCP.
type LeasingService interface {
	CreateContract(ctx context.Context, req contract.CreateRequest) (*leasing.Outcome, error)
	ActivateContract(ctx context.Context, id string) (*leasing.Outcome, error)
	TerminateContract(ctx context.Context, id, reason string) (*leasing.Outcome, error)
	CancelContract(ctx context.Context, id, reason string) (*leasing.Outcome, error)
	ExpireContract(ctx context.Context, id string) (*leasing.Outcome, error)
	ExpireOverdue(ctx context.Context) ([]*leasing.Outcome, error)
	RenewContract(ctx context.Context, id string, terms contract.RenewalTerms) (*leasing.Outcome, error)
	GetContract(ctx context.Context, id string) (*contract.Contract, error)
	ListContracts(ctx context.Context, opts contract.ListOptions) ([]contract.Contract, error)
	GetParking(ctx context.Context, facilityID string) (parking.Capacity, error)
	ReserveParking(ctx context.Context, facilityID string, n int) (parking.Capacity, error)
	ReleaseParking(ctx context.Context, facilityID string, n int) (parking.Capacity, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Handler dispatches MCP tool calls.
type Handler struct {
	users    UserService
	spaces   SpaceService
	leasing  LeasingService
	activity ActivityService
	now      func() time.Time
}

// NewHandler creates a new MCP handler. Derived contract values are computed
// against now, which defaults to time.Now.
func NewHandler(services Services, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		users:    services.Users,
		spaces:   services.Spaces,
		leasing:  services.Leasing,
		activity: services.Activity,
		now:      now,
	}
}

// Handle dispatches a tool call to domain services.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "register_user":
		var req RegisterUserParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.users.Register(ctx, user.RegisterRequest{
			ID:          req.ID,
			Name:        req.Name,
			Email:       req.Email,
			Role:        user.Role(strings.ToUpper(req.Role)),
			CompanyName: req.CompanyName,
		})
	case "create_building":
		var req CreateBuildingParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.spaces.CreateBuilding(ctx, req.Name, req.Address, req.OwnerID)
	case "create_space":
		var req CreateSpaceParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sp, err := h.spaces.Create(ctx, req.toRequest())
		if err != nil {
			return nil, err
		}
		return h.spaceResponse(ctx, sp)
	case "get_space":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sp, err := h.spaces.Get(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		return h.spaceResponse(ctx, sp)
	case "building_occupancy":
		var req BuildingOccupancyParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.spaces.BuildingOccupancy(ctx, req.BuildingID)
	case "get_parking":
		var req ParkingLookupParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.leasing.GetParking(ctx, req.FacilityID)
	case "reserve_parking":
		var req ParkingCountParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.leasing.ReserveParking(ctx, req.FacilityID, req.Count)
	case "release_parking":
		var req ParkingCountParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.leasing.ReleaseParking(ctx, req.FacilityID, req.Count)
	case "create_contract":
		var req CreateContractParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		createReq, err := req.toRequest()
		if err != nil {
			return nil, err
		}
		return h.outcome(h.leasing.CreateContract(ctx, createReq))
	case "get_contract":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		c, err := h.leasing.GetContract(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		return h.contractResponse(c), nil
	case "list_contracts":
		var req ListContractsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := contract.ListOptions{SpaceID: req.SpaceID, TenantID: req.TenantID, OwnerID: req.OwnerID, Limit: req.Limit}
		if req.Status != "" {
			status, err := contract.ParseStatus(strings.ToUpper(req.Status))
			if err != nil {
				return nil, err
			}
			opts.Status = &status
		}
		contracts, err := h.leasing.ListContracts(ctx, opts)
		if err != nil {
			return nil, err
		}
		resp := make([]ContractResponse, 0, len(contracts))
		for i := range contracts {
			resp = append(resp, h.contractResponse(&contracts[i]))
		}
		return resp, nil
	case "activate_contract":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.outcome(h.leasing.ActivateContract(ctx, req.ID))
	case "terminate_contract":
		var req EndContractParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.outcome(h.leasing.TerminateContract(ctx, req.ID, req.Reason))
	case "cancel_contract":
		var req EndContractParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.outcome(h.leasing.CancelContract(ctx, req.ID, req.Reason))
	case "expire_contract":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.outcome(h.leasing.ExpireContract(ctx, req.ID))
	case "expire_overdue":
		outcomes, err := h.leasing.ExpireOverdue(ctx)
		resp := ExpireOverdueResponse{Expired: make([]OutcomeResponse, 0, len(outcomes))}
		for _, out := range outcomes {
			resp.Expired = append(resp.Expired, h.outcomeResponse(out))
		}
		if err != nil {
			resp.Errors = strings.Split(err.Error(), "\n")
		}
		return resp, nil
	case "renew_contract":
		var req RenewContractParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		terms, err := req.toTerms()
		if err != nil {
			return nil, err
		}
		return h.outcome(h.leasing.RenewContract(ctx, req.ID, terms))
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := activity.ListActivityOptions{
			SpaceID:    req.SpaceID,
			ContractID: req.ContractID,
			Limit:      req.Limit,
			Offset:     req.Offset,
		}
		if req.Type != nil {
			typ := activity.ActivityType(*req.Type)
			opts.ActivityType = &typ
		}
		entries, err := h.activity.GetRecentActivity(ctx, opts)
		if err != nil {
			return nil, err
		}
		resp := make([]ActivityEntryResponse, 0, len(entries))
		for _, entry := range entries {
			resp = append(resp, ActivityEntryResponse{
				ID:         entry.ID,
				Timestamp:  entry.CreatedAt,
				Type:       entry.ActivityType,
				SpaceID:    stringValue(entry.SpaceID),
				ContractID: stringValue(entry.ContractID),
				Summary:    entry.Summary,
				Details:    entry.Details,
			})
		}
		return resp, nil
	default:
		return nil, fmt.Errorf("%w: unknown method: %s", failure.ErrBadRequest, method)
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: %v", failure.ErrBadRequest, err)
	}
	return nil
}

func (h *Handler) spaceResponse(ctx context.Context, sp *space.Space) (SpaceResponse, error) {
	resp := SpaceResponse{Space: *sp, PricePerSquareMeter: sp.PricePerSquareMeter()}
	if sp.ParkingID != nil {
		capacity, err := h.leasing.GetParking(ctx, *sp.ParkingID)
		if err != nil {
			return SpaceResponse{}, err
		}
		resp.Parking = &capacity
	}
	return resp, nil
}

func (h *Handler) contractResponse(c *contract.Contract) ContractResponse {
	return ContractResponse{Contract: *c, Derived: c.Summarize(h.now())}
}

func (h *Handler) outcome(out *leasing.Outcome, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return h.outcomeResponse(out), nil
}

func (h *Handler) outcomeResponse(out *leasing.Outcome) OutcomeResponse {
	resp := OutcomeResponse{
		Contract:       h.contractResponse(out.Contract),
		Previous:       out.Previous,
		SpaceID:        out.Space.ID,
		SpaceAvailable: out.Space.Available,
		Notifications:  make([]NotificationRef, 0, len(out.Events)),
	}
	for _, ev := range out.Events {
		resp.Notifications = append(resp.Notifications, NotificationRef{Type: ev.Type, Topic: ev.Topic})
	}
	return resp
}

func (p CreateSpaceParams) toRequest() space.CreateRequest {
	req := space.CreateRequest{
		Name:          p.Name,
		Description:   p.Description,
		Area:          p.Area,
		PricePerMonth: p.PricePerMonth,
		Address:       p.Address,
		Latitude:      p.Latitude,
		Longitude:     p.Longitude,
		Type:          space.Type(strings.ToUpper(p.SpaceType)),
		OwnerID:       p.OwnerID,
		BuildingID:    p.BuildingID,
	}
	if p.Parking != nil {
		req.Parking = &parking.Facility{
			NumberOfSpots:         p.Parking.NumberOfSpots,
			PricePerSpot:          p.Parking.PricePerSpot,
			Covered:               p.Parking.Covered,
			Type:                  parking.Type(strings.ToUpper(p.Parking.ParkingType)),
			DisabledAccessSpots:   p.Parking.DisabledAccessSpots,
			ElectricChargingSpots: p.Parking.ElectricChargingSpots,
			SecurityCameras:       p.Parking.SecurityCameras,
			SecurityGuard:         p.Parking.SecurityGuard,
			AccessCardRequired:    p.Parking.AccessCardRequired,
			HeightRestriction:     p.Parking.HeightRestriction,
			OperatingHours:        p.Parking.OperatingHours,
		}
	}
	return req
}

func (p CreateContractParams) toRequest() (contract.CreateRequest, error) {
	start, err := contract.ParseDate(p.StartDate)
	if err != nil {
		return contract.CreateRequest{}, err
	}
	end, err := contract.ParseDate(p.EndDate)
	if err != nil {
		return contract.CreateRequest{}, err
	}
	return contract.CreateRequest{
		SpaceID:                 p.SpaceID,
		TenantID:                p.TenantID,
		StartDate:               start,
		EndDate:                 end,
		MonthlyRent:             p.MonthlyRent,
		SecurityDeposit:         p.SecurityDeposit,
		PaymentMethod:           contract.PaymentMethod(strings.ToUpper(p.PaymentMethod)),
		Notes:                   p.Notes,
		Signature:               p.Signature,
		AutoRenewal:             p.AutoRenewal,
		EarlyTerminationAllowed: p.EarlyTerminationAllowed,
		EarlyTerminationFee:     p.EarlyTerminationFee,
		LatePaymentFee:          p.LatePaymentFee,
		ParkingSpots:            p.ParkingSpots,
		Status:                  contract.Status(strings.ToUpper(p.Status)),
	}, nil
}

func (p RenewContractParams) toTerms() (contract.RenewalTerms, error) {
	end, err := contract.ParseDate(p.NewEndDate)
	if err != nil {
		return contract.RenewalTerms{}, err
	}
	terms := contract.RenewalTerms{
		NewEndDate:      end,
		MonthlyRent:     p.MonthlyRent,
		SecurityDeposit: p.SecurityDeposit,
		Notes:           p.Notes,
		AutoRenewal:     p.AutoRenewal,
	}
	if p.NewStartDate != nil {
		start, err := contract.ParseDate(*p.NewStartDate)
		if err != nil {
			return contract.RenewalTerms{}, err
		}
		terms.NewStartDate = &start
	}
	if p.PaymentMethod != nil {
		method := contract.PaymentMethod(strings.ToUpper(*p.PaymentMethod))
		terms.PaymentMethod = &method
	}
	return terms, nil
}

func stringValue(val *string) string {
	if val == nil {
		return ""
	}
	return *val
}
