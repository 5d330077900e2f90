package activity

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	SpaceID      *string
	ContractID   *string
	ActivityType *ActivityType
	Limit        int
	Offset       int
}
