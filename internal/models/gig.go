package models

import (
	"time"

	"github.com/google/uuid"
)

// GigStatus is the booking state of a gig. Plain enum, no transition validation.
type GigStatus string

const (
	GigDateHold  GigStatus = "date_hold"
	GigProposed  GigStatus = "proposed"
	GigBooked    GigStatus = "booked"
	GigCompleted GigStatus = "completed"
	GigCancelled GigStatus = "cancelled"
	GigSettled   GigStatus = "settled"
)

// ValidGigStatus reports whether s is a known gig status.
func ValidGigStatus(s GigStatus) bool {
	switch s {
	case GigDateHold, GigProposed, GigBooked, GigCompleted, GigCancelled, GigSettled:
		return true
	}
	return false
}

// Gig is a bookable event owned by an organization.
type Gig struct {
	ID              uuid.UUID  `json:"id"`
	OrganizationID  uuid.UUID  `json:"organization_id"`
	Title           string     `json:"title"`
	StartsAt        time.Time  `json:"starts_at"`
	EndsAt          *time.Time `json:"ends_at,omitempty"`
	Status          GigStatus  `json:"status"`
	Tags            []string   `json:"tags"`
	Notes           string     `json:"notes"`
	AmountPaidCents *int64     `json:"amount_paid_cents,omitempty"`
	CreatedBy       uuid.UUID  `json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Participant attaches an organization to a gig under a role (e.g. Venue, Act).
type Participant struct {
	ID               uuid.UUID `json:"id"`
	GigID            uuid.UUID `json:"gig_id"`
	OrganizationID   uuid.UUID `json:"organization_id"`
	OrganizationName string    `json:"organization_name,omitempty"`
	Role             string    `json:"role"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// StaffSlot is a role-based seat group on a gig requiring N people.
type StaffSlot struct {
	ID            uuid.UUID         `json:"id"`
	GigID         uuid.UUID         `json:"gig_id"`
	Role          string            `json:"role"`
	RequiredCount int               `json:"required_count"`
	Notes         string            `json:"notes"`
	Position      int               `json:"position"`
	Assignments   []StaffAssignment `json:"assignments"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// AssignmentStatus is the staffing response state for one seat.
type AssignmentStatus string

const (
	AssignmentRequested AssignmentStatus = "requested"
	AssignmentConfirmed AssignmentStatus = "confirmed"
	AssignmentDeclined  AssignmentStatus = "declined"
)

// StaffAssignment is one seat within a slot, bound to a user.
// Exactly one of RateCents/FeeCents is set when compensation is recorded.
type StaffAssignment struct {
	ID           uuid.UUID        `json:"id"`
	SlotID       uuid.UUID        `json:"slot_id"`
	UserID       uuid.UUID        `json:"user_id"`
	UserName     string           `json:"user_name,omitempty"`
	Status       AssignmentStatus `json:"status"`
	RateCents    *int64           `json:"rate_cents,omitempty"`
	FeeCents     *int64           `json:"fee_cents,omitempty"`
	Notes        string           `json:"notes"`
	Position     int              `json:"position"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
