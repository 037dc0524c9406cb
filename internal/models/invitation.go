package models

import (
	"time"

	"github.com/google/uuid"
)

// Invitation statuses.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationExpired  = "expired"
)

// Invitation invites an email address into an organization. A pending user row
// is created alongside so staff slots can reference the invitee before signup.
type Invitation struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	Token          string     `json:"-"`
	Status         string     `json:"status"`
	InvitedBy      uuid.UUID  `json:"invited_by"`
	ExpiresAt      time.Time  `json:"expires_at"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// InvitationSend records one email delivery attempt for an invitation.
type InvitationSend struct {
	ID           uuid.UUID  `json:"id"`
	InvitationID uuid.UUID  `json:"invitation_id"`
	Status       string     `json:"status"` // queued, sent, failed
	Error        *string    `json:"error,omitempty"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
