package activity

import "time"

// ActivityType represents the type of lifecycle event
type ActivityType string

const (
	TypeSpaceRegistered    ActivityType = "space_registered"
	TypeSpaceOccupied      ActivityType = "space_occupied"
	TypeSpaceReleased      ActivityType = "space_released"
	TypeContractCreated    ActivityType = "contract_created"
	TypeContractActivated  ActivityType = "contract_activated"
	TypeContractTerminated ActivityType = "contract_terminated"
	TypeContractExpired    ActivityType = "contract_expired"
	TypeContractRenewed    ActivityType = "contract_renewed"
	TypeContractCancelled  ActivityType = "contract_cancelled"
	TypeParkingReserved    ActivityType = "parking_reserved"
	TypeParkingReleased    ActivityType = "parking_released"
)

// ActivityEntry represents an event in the lifecycle audit log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	SpaceID      *string      `json:"space_id,omitempty"`
	ContractID   *string      `json:"contract_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
