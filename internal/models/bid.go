package models

import (
	"time"

	"github.com/google/uuid"
)

// BidResult is the outcome of a bid.
type BidResult string

const (
	BidPending  BidResult = "pending"
	BidAccepted BidResult = "accepted"
	BidRejected BidResult = "rejected"
)

// ValidBidResult reports whether r is a known bid result.
func ValidBidResult(r BidResult) bool {
	return r == BidPending || r == BidAccepted || r == BidRejected
}

// Bid is an organization-scoped price quote on a gig. Never shared cross-tenant.
type Bid struct {
	ID             uuid.UUID  `json:"id"`
	GigID          uuid.UUID  `json:"gig_id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	GivenOn        *time.Time `json:"given_on,omitempty"`
	AmountCents    *int64     `json:"amount_cents,omitempty"`
	Result         BidResult  `json:"result"`
	Notes          string     `json:"notes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
