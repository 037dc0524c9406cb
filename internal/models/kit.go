package models

import (
	"time"

	"github.com/google/uuid"
)

// Kit is a named bundle of equipment owned by an organization.
type Kit struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// KitAssignment links an equipment kit to a gig.
type KitAssignment struct {
	ID             uuid.UUID `json:"id"`
	GigID          uuid.UUID `json:"gig_id"`
	KitID          uuid.UUID `json:"kit_id"`
	KitName        string    `json:"kit_name,omitempty"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Notes          string    `json:"notes"`
	AssignedAt     time.Time `json:"assigned_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// KitAttachment is an S3-backed file attached to a kit (photo, manifest).
type KitAttachment struct {
	ID          uuid.UUID  `json:"id"`
	KitID       uuid.UUID  `json:"kit_id"`
	Filename    string     `json:"filename"`
	S3Key       string     `json:"-"`
	ContentType string     `json:"content_type"`
	SizeBytes   *int64     `json:"size_bytes,omitempty"`
	UploadedBy  *uuid.UUID `json:"uploaded_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
