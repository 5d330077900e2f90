package user

import "time"

// Role distinguishes owners, who list spaces, from tenants, who sign contracts.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleTenant Role = "TENANT"
)

// User is an owner or a tenant.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	CompanyName string    `json:"company_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
