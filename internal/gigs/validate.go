package gigs

import (
	"time"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/gigs/reconcile"
	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/models"
)

// GigForm is the nested gig payload for create and composite save. Sub-entity
// rows carry client-side ids that the reconcilers classify.
type GigForm struct {
	OrganizationID string                     `json:"organization_id"`
	Title          string                     `json:"title"`
	StartsAt       time.Time                  `json:"starts_at"`
	EndsAt         *time.Time                 `json:"ends_at"`
	Status         string                     `json:"status"`
	Tags           []string                   `json:"tags"`
	Notes          string                     `json:"notes"`
	AmountPaid     string                     `json:"amount_paid"`
	Participants   []reconcile.ParticipantRow `json:"participants"`
	StaffSlots     []reconcile.SlotRow        `json:"staff_slots"`
	Bids           []reconcile.BidRow         `json:"bids"`
	KitAssignments []reconcile.KitRow         `json:"kit_assignments"`
}

// GigCore is the validated scalar part of the form.
type GigCore struct {
	Title           string
	StartsAt        time.Time
	EndsAt          *time.Time
	Status          models.GigStatus
	Tags            []string
	Notes           string
	AmountPaidCents *int64
}

// ValidateCore checks the gig's own fields. The ends/starts ordering is a
// cross-field rule: it holds no matter which of the two fields was edited.
func ValidateCore(form *GigForm) (*GigCore, error) {
	if form.Title == "" {
		return nil, &reconcile.ValidationError{Field: "title", Message: "title is required"}
	}
	if form.StartsAt.IsZero() {
		return nil, &reconcile.ValidationError{Field: "starts_at", Message: "start time is required"}
	}
	if form.EndsAt != nil && !form.EndsAt.After(form.StartsAt) {
		return nil, &reconcile.ValidationError{Field: "ends_at", Message: "end time must be after start time"}
	}

	status := models.GigStatus(form.Status)
	if status == "" {
		status = models.GigDateHold
	}
	if !models.ValidGigStatus(status) {
		return nil, &reconcile.ValidationError{Field: "status", Message: "unknown gig status"}
	}

	core := &GigCore{
		Title:    form.Title,
		StartsAt: form.StartsAt,
		EndsAt:   form.EndsAt,
		Status:   status,
		Tags:     form.Tags,
		Notes:    form.Notes,
	}
	if form.AmountPaid != "" {
		cents, ok := reconcile.ParseCents(form.AmountPaid)
		if !ok || cents < 0 {
			return nil, &reconcile.ValidationError{Field: "amount_paid", Message: "must be a positive number"}
		}
		core.AmountPaidCents = &cents
	}
	return core, nil
}
