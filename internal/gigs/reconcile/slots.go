package reconcile

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/models"
)

// AssignmentRow is one seat of a staff slot as submitted.
type AssignmentRow struct {
	ID               string                  `json:"id"`
	UserID           string                  `json:"user_id"`
	Status           models.AssignmentStatus `json:"status"`
	CompensationType CompensationType        `json:"compensation_type"`
	Amount           string                  `json:"amount"`
	Notes            string                  `json:"notes"`
}

// SlotRow is one staff slot with its nested seat rows as submitted.
type SlotRow struct {
	ID            string          `json:"id"`
	Role          string          `json:"role"`
	RequiredCount int             `json:"required_count"`
	Notes         string          `json:"notes"`
	Assignments   []AssignmentRow `json:"assignments"`
}

// AssignmentWrite is one reconciled seat.
type AssignmentWrite struct {
	Identity  Identity
	ID        uuid.UUID // set when Identity == Persisted
	UserID    uuid.UUID
	Status    models.AssignmentStatus
	RateCents *int64
	FeeCents  *int64
	Notes     string
	Position  int
}

// SlotWrite is one reconciled slot with its surviving seats and the persisted
// seats to delete.
type SlotWrite struct {
	Identity          Identity
	ID                uuid.UUID // set when Identity == Persisted
	Role              string
	RequiredCount     int
	Notes             string
	Position          int
	Assignments       []AssignmentWrite
	AssignmentDeletes []uuid.UUID
}

// SlotSet is the nested write-set plus the persisted slots to delete.
type SlotSet struct {
	Writes      []SlotWrite
	SlotDeletes []uuid.UUID
}

// SyncAssignmentCount grows or shrinks the slot's assignment rows to match its
// required count. Growing appends blank placeholders (requested, rate, empty
// amount); shrinking truncates from the tail. Shrinking below the number of
// already-staffed persisted seats silently drops those seats on the next save.
func SyncAssignmentCount(slot *SlotRow) {
	if slot.RequiredCount < 0 {
		slot.RequiredCount = 0
	}
	for len(slot.Assignments) < slot.RequiredCount {
		slot.Assignments = append(slot.Assignments, AssignmentRow{
			Status:           models.AssignmentRequested,
			CompensationType: CompRate,
			Amount:           "",
		})
	}
	if len(slot.Assignments) > slot.RequiredCount {
		slot.Assignments = slot.Assignments[:slot.RequiredCount]
	}
}

// Slots reconciles the submitted slot tree against the persisted slots.
//
//   - A slot with an empty role is an abandoned row: nothing is emitted for it
//     or its seats, and if it was persisted it lands in the delete set.
//   - A seat without an assigned user is not persisted.
//   - Statuses default to requested; unknown statuses are a form error.
//   - Persisted slots/seats absent from the submitted tree are deleted.
func Slots(rows []SlotRow, existing []models.StaffSlot) (SlotSet, error) {
	var set SlotSet

	existingBySlot := make(map[uuid.UUID][]models.StaffAssignment, len(existing))
	for _, s := range existing {
		existingBySlot[s.ID] = s.Assignments
	}

	keptSlots := make(map[uuid.UUID]struct{})
	for i, row := range rows {
		if row.Role == "" {
			continue
		}
		sw := SlotWrite{
			Identity:      Classify(row.ID),
			Role:          row.Role,
			RequiredCount: row.RequiredCount,
			Notes:         row.Notes,
			Position:      i,
		}
		if sw.Identity == Persisted {
			sw.ID = mustID(row.ID)
			keptSlots[sw.ID] = struct{}{}
		}

		keptSeats := make(map[uuid.UUID]struct{})
		for j, ar := range row.Assignments {
			if ar.UserID == "" {
				continue
			}
			userID, err := uuid.Parse(ar.UserID)
			if err != nil {
				return SlotSet{}, &ValidationError{
					Field:   fmt.Sprintf("staff_slots[%d].assignments[%d].user_id", i, j),
					Message: "invalid user",
				}
			}
			status := ar.Status
			if status == "" {
				status = models.AssignmentRequested
			}
			switch status {
			case models.AssignmentRequested, models.AssignmentConfirmed, models.AssignmentDeclined:
			default:
				return SlotSet{}, &ValidationError{
					Field:   fmt.Sprintf("staff_slots[%d].assignments[%d].status", i, j),
					Message: "unknown assignment status",
				}
			}
			rate, fee := NormalizeCompensation(ar.CompensationType, ar.Amount)
			aw := AssignmentWrite{
				Identity:  Classify(ar.ID),
				UserID:    userID,
				Status:    status,
				RateCents: rate,
				FeeCents:  fee,
				Notes:     ar.Notes,
				Position:  j,
			}
			if aw.Identity == Persisted {
				aw.ID = mustID(ar.ID)
				keptSeats[aw.ID] = struct{}{}
			}
			sw.Assignments = append(sw.Assignments, aw)
		}

		if sw.Identity == Persisted {
			for _, a := range existingBySlot[sw.ID] {
				if _, ok := keptSeats[a.ID]; !ok {
					sw.AssignmentDeletes = append(sw.AssignmentDeletes, a.ID)
				}
			}
		}
		set.Writes = append(set.Writes, sw)
	}

	for _, s := range existing {
		if _, ok := keptSlots[s.ID]; !ok {
			set.SlotDeletes = append(set.SlotDeletes, s.ID)
		}
	}
	return set, nil
}
