package parking

import "time"

// Type is the physical kind of a parking facility.
type Type string

const (
	TypeSurface     Type = "SURFACE"
	TypeUnderground Type = "UNDERGROUND"
	TypeMultiLevel  Type = "MULTI_LEVEL"
	TypeGarage      Type = "GARAGE"
	TypeStreet      Type = "STREET"
)

// Valid reports whether t is a known facility type.
func (t Type) Valid() bool {
	switch t {
	case TypeSurface, TypeUnderground, TypeMultiLevel, TypeGarage, TypeStreet:
		return true
	default:
		return false
	}
}

// Facility is a pool of reservable spots attached to at most one space.
type Facility struct {
	ID                    string    `json:"id"`
	NumberOfSpots         int       `json:"number_of_spots"`
	ReservedSpots         int       `json:"reserved_spots"`
	PricePerSpot          float64   `json:"price_per_spot"`
	Covered               bool      `json:"covered"`
	Type                  Type      `json:"parking_type"`
	DisabledAccessSpots   int       `json:"disabled_access_spots"`
	ElectricChargingSpots int       `json:"electric_charging_spots"`
	SecurityCameras       bool      `json:"security_cameras"`
	SecurityGuard         bool      `json:"security_guard"`
	AccessCardRequired    bool      `json:"access_card_required"`
	HeightRestriction     *float64  `json:"height_restriction,omitempty"`
	OperatingHours        string    `json:"operating_hours,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
	Version               int64     `json:"version"`
}

// AvailableSpots is the number of unreserved spots, never negative.
func (f *Facility) AvailableSpots() int {
	if n := f.NumberOfSpots - f.ReservedSpots; n > 0 {
		return n
	}
	return 0
}

// TotalPrice is the monthly price of every spot in the facility.
func (f *Facility) TotalPrice() float64 {
	return f.PricePerSpot * float64(f.NumberOfSpots)
}

func (f *Facility) HasDisabledAccess() bool   { return f.DisabledAccessSpots > 0 }
func (f *Facility) HasElectricCharging() bool { return f.ElectricChargingSpots > 0 }
func (f *Facility) IsSecured() bool           { return f.SecurityCameras || f.SecurityGuard }

// QualityScore ranks facilities for display on a 0 to 100 scale.
func (f *Facility) QualityScore() int {
	score := 50
	if f.Covered {
		score += 15
	}
	if f.IsSecured() {
		score += 20
	}
	if f.HasDisabledAccess() {
		score += 10
	}
	if f.HasElectricCharging() {
		score += 15
	}
	if f.Type == TypeUnderground || f.Type == TypeGarage {
		score += 10
	}
	if score > 100 {
		return 100
	}
	return score
}

// Reserve claims n spots. The facility is unchanged on error.
func (f *Facility) Reserve(n int) error {
	if n <= 0 {
		return ErrInvalidSpotCount
	}
	if n > f.AvailableSpots() {
		return ErrCapacityExceeded
	}
	f.ReservedSpots += n
	return nil
}

// Release returns n reserved spots. The facility is unchanged on error.
func (f *Facility) Release(n int) error {
	if n <= 0 {
		return ErrInvalidSpotCount
	}
	if n > f.ReservedSpots {
		return ErrReleaseExceedsReserved
	}
	f.ReservedSpots -= n
	return nil
}

// Validate checks the counter invariant and descriptive fields.
func (f *Facility) Validate() error {
	if f.NumberOfSpots <= 0 {
		return ErrInvalidInput
	}
	if f.ReservedSpots < 0 || f.ReservedSpots > f.NumberOfSpots {
		return ErrInvalidInput
	}
	if f.PricePerSpot < 0 || f.DisabledAccessSpots < 0 || f.ElectricChargingSpots < 0 {
		return ErrInvalidInput
	}
	if !f.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

// Capacity is the counter view returned by tracker operations.
type Capacity struct {
	FacilityID     string `json:"facility_id"`
	NumberOfSpots  int    `json:"number_of_spots"`
	ReservedSpots  int    `json:"reserved_spots"`
	AvailableSpots int    `json:"available_spots"`
	QualityScore   int    `json:"quality_score"`
}

// CapacityOf summarizes f.
func CapacityOf(f *Facility) Capacity {
	return Capacity{
		FacilityID:     f.ID,
		NumberOfSpots:  f.NumberOfSpots,
		ReservedSpots:  f.ReservedSpots,
		AvailableSpots: f.AvailableSpots(),
		QualityScore:   f.QualityScore(),
	}
}
