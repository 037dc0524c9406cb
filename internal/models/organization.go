package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant: a venue, act, or production company.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Organization member roles.
const (
	OrgRoleOwner   = "owner"
	OrgRoleManager = "manager"
	OrgRoleMember  = "member"
)

// OrganizationMember links a user to an organization with a role.
type OrganizationMember struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	UserID         uuid.UUID `json:"user_id"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StaffRole is a catalog entry for role-based staffing (e.g. Sound, Lighting).
// A nil OrganizationID marks a global default role.
type StaffRole struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
	Name           string     `json:"name"`
	CreatedAt      time.Time  `json:"created_at"`
}
