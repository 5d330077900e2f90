package space

import "strings"

// ValidateCreateRequest validates fields required to list a space.
func ValidateCreateRequest(req CreateRequest) error {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.OwnerID) == "" {
		return ErrInvalidInput
	}
	if req.Area <= 0 || req.PricePerMonth <= 0 {
		return ErrInvalidInput
	}
	if !req.Type.Valid() {
		return ErrInvalidType
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return ErrInvalidInput
	}
	if req.Latitude != nil && (*req.Latitude < -90 || *req.Latitude > 90 || *req.Longitude < -180 || *req.Longitude > 180) {
		return ErrInvalidInput
	}
	if req.Parking != nil {
		return req.Parking.Validate()
	}
	return nil
}
