package mcp

import (
	"time"

	"github.com/rpggio/spacelease/internal/domain/activity"
	"github.com/rpggio/spacelease/internal/domain/contract"
	"github.com/rpggio/spacelease/internal/domain/parking"
	"github.com/rpggio/spacelease/internal/domain/space"
	"github.com/rpggio/spacelease/internal/notify"
)

type RegisterUserParams struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	CompanyName string `json:"company_name,omitempty"`
}

type CreateBuildingParams struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	OwnerID string `json:"owner_id"`
}

type ParkingParams struct {
	NumberOfSpots         int      `json:"number_of_spots"`
	PricePerSpot          float64  `json:"price_per_spot,omitempty"`
	Covered               bool     `json:"covered,omitempty"`
	ParkingType           string   `json:"parking_type"`
	DisabledAccessSpots   int      `json:"disabled_access_spots,omitempty"`
	ElectricChargingSpots int      `json:"electric_charging_spots,omitempty"`
	SecurityCameras       bool     `json:"security_cameras,omitempty"`
	SecurityGuard         bool     `json:"security_guard,omitempty"`
	AccessCardRequired    bool     `json:"access_card_required,omitempty"`
	HeightRestriction     *float64 `json:"height_restriction,omitempty"`
	OperatingHours        string   `json:"operating_hours,omitempty"`
}

type CreateSpaceParams struct {
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Area          float64        `json:"area"`
	PricePerMonth float64        `json:"price_per_month"`
	Address       string         `json:"address,omitempty"`
	Latitude      *float64       `json:"latitude,omitempty"`
	Longitude     *float64       `json:"longitude,omitempty"`
	SpaceType     string         `json:"space_type"`
	OwnerID       string         `json:"owner_id"`
	BuildingID    *string        `json:"building_id,omitempty"`
	Parking       *ParkingParams `json:"parking,omitempty"`
}

type IDParams struct {
	ID string `json:"id"`
}

type BuildingOccupancyParams struct {
	BuildingID string `json:"building_id"`
}

type ParkingLookupParams struct {
	FacilityID string `json:"facility_id"`
}

type ParkingCountParams struct {
	FacilityID string `json:"facility_id"`
	Count      int    `json:"count"`
}

type CreateContractParams struct {
	SpaceID                 string  `json:"space_id"`
	TenantID                string  `json:"tenant_id"`
	StartDate               string  `json:"start_date"`
	EndDate                 string  `json:"end_date"`
	MonthlyRent             float64 `json:"monthly_rent"`
	SecurityDeposit         float64 `json:"security_deposit,omitempty"`
	PaymentMethod           string  `json:"payment_method,omitempty"`
	Notes                   string  `json:"notes,omitempty"`
	Signature               string  `json:"signature,omitempty"`
	AutoRenewal             bool    `json:"auto_renewal,omitempty"`
	EarlyTerminationAllowed bool    `json:"early_termination_allowed,omitempty"`
	EarlyTerminationFee     float64 `json:"early_termination_fee,omitempty"`
	LatePaymentFee          float64 `json:"late_payment_fee,omitempty"`
	ParkingSpots            int     `json:"parking_spots,omitempty"`
	Status                  string  `json:"status,omitempty"`
}

type ListContractsParams struct {
	SpaceID  string `json:"space_id,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
	OwnerID  string `json:"owner_id,omitempty"`
	Status   string `json:"status,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type EndContractParams struct {
	ID     string `json:"id"`
	Reason string `json:"reason,omitempty"`
}

type RenewContractParams struct {
	ID              string   `json:"id"`
	NewEndDate      string   `json:"new_end_date"`
	NewStartDate    *string  `json:"new_start_date,omitempty"`
	MonthlyRent     *float64 `json:"monthly_rent,omitempty"`
	SecurityDeposit *float64 `json:"security_deposit,omitempty"`
	PaymentMethod   *string  `json:"payment_method,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
	AutoRenewal     *bool    `json:"auto_renewal,omitempty"`
}

type GetRecentActivityParams struct {
	SpaceID    *string `json:"space_id,omitempty"`
	ContractID *string `json:"contract_id,omitempty"`
	Type       *string `json:"type,omitempty"`
	Limit      int     `json:"limit,omitempty"`
	Offset     int     `json:"offset,omitempty"`
}

// Responses

type SpaceResponse struct {
	space.Space
	PricePerSquareMeter float64           `json:"price_per_square_meter"`
	Parking             *parking.Capacity `json:"parking,omitempty"`
}

type ContractResponse struct {
	contract.Contract
	Derived contract.Summary `json:"derived"`
}

type OutcomeResponse struct {
	Contract       ContractResponse   `json:"contract"`
	Previous       *contract.Contract `json:"previous,omitempty"`
	SpaceID        string             `json:"space_id"`
	SpaceAvailable bool               `json:"space_available"`
	Notifications  []NotificationRef  `json:"notifications"`
}

type NotificationRef struct {
	Type  notify.Type `json:"type"`
	Topic string      `json:"topic"`
}

type ExpireOverdueResponse struct {
	Expired []OutcomeResponse `json:"expired"`
	Errors  []string          `json:"errors,omitempty"`
}

type ActivityEntryResponse struct {
	ID         int64                 `json:"id"`
	Timestamp  time.Time             `json:"timestamp"`
	Type       activity.ActivityType `json:"type"`
	SpaceID    string                `json:"space_id,omitempty"`
	ContractID string                `json:"contract_id,omitempty"`
	Summary    string                `json:"summary"`
	Details    string                `json:"details,omitempty"`
}
