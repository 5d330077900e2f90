package space

import "time"

// Type classifies the commercial use of a space.
type Type string

const (
	TypeOffice       Type = "OFFICE"
	TypeRetail       Type = "RETAIL"
	TypeWarehouse    Type = "WAREHOUSE"
	TypeRestaurant   Type = "RESTAURANT"
	TypeIndustrial   Type = "INDUSTRIAL"
	TypeMedical      Type = "MEDICAL"
	TypeEducational  Type = "EDUCATIONAL"
	TypeRecreational Type = "RECREATIONAL"
)

// Valid reports whether t is a known space type.
func (t Type) Valid() bool {
	switch t {
	case TypeOffice, TypeRetail, TypeWarehouse, TypeRestaurant,
		TypeIndustrial, TypeMedical, TypeEducational, TypeRecreational:
		return true
	default:
		return false
	}
}

// Space is a leasable commercial unit. Available is a cached projection of
// "no ACTIVE contract exists" and is only written through Registry.
type Space struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Area          float64   `json:"area"`
	PricePerMonth float64   `json:"price_per_month"`
	Address       string    `json:"address,omitempty"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	Type          Type      `json:"space_type"`
	Available     bool      `json:"available"`
	OwnerID       string    `json:"owner_id"`
	BuildingID    *string   `json:"building_id,omitempty"`
	ParkingID     *string   `json:"parking_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Version       int64     `json:"version"`
}

// PricePerSquareMeter is zero when the area is unknown.
func (s *Space) PricePerSquareMeter() float64 {
	if s.Area <= 0 {
		return 0
	}
	return s.PricePerMonth / s.Area
}

// Building groups spaces at one address.
type Building struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Occupancy aggregates the availability of a building's spaces.
type Occupancy struct {
	BuildingID      string  `json:"building_id"`
	TotalSpaces     int     `json:"total_spaces"`
	AvailableSpaces int     `json:"available_spaces"`
	Rate            float64 `json:"occupancy_rate"`
}

// NewOccupancy computes the occupied fraction; an empty building has rate 0.
func NewOccupancy(buildingID string, total, available int) Occupancy {
	o := Occupancy{BuildingID: buildingID, TotalSpaces: total, AvailableSpaces: available}
	if total > 0 {
		o.Rate = float64(total-available) / float64(total)
	}
	return o
}
