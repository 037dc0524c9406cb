package reconcile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/models"
)

func TestSyncAssignmentCount_GrowAppendsBlankPlaceholders(t *testing.T) {
	slot := SlotRow{
		Role:          "Sound",
		RequiredCount: 3,
		Assignments: []AssignmentRow{
			{ID: uuid.New().String(), UserID: uuid.New().String(), Status: models.AssignmentConfirmed},
		},
	}
	SyncAssignmentCount(&slot)
	require.Len(t, slot.Assignments, 3)
	for _, blank := range slot.Assignments[1:] {
		assert.Equal(t, models.AssignmentRequested, blank.Status)
		assert.Equal(t, CompRate, blank.CompensationType)
		assert.Equal(t, "", blank.Amount)
		assert.Equal(t, "", blank.UserID)
	}
}

func TestSyncAssignmentCount_ShrinkTruncatesTail(t *testing.T) {
	first := AssignmentRow{ID: uuid.New().String(), UserID: uuid.New().String()}
	slot := SlotRow{
		Role:          "Stage",
		RequiredCount: 1,
		Assignments: []AssignmentRow{
			first,
			{ID: uuid.New().String(), UserID: uuid.New().String()},
			{ID: uuid.New().String(), UserID: uuid.New().String()},
		},
	}
	SyncAssignmentCount(&slot)
	require.Len(t, slot.Assignments, 1)
	assert.Equal(t, first.ID, slot.Assignments[0].ID)
}

func TestSlots_EmptyRoleEmitsNothing(t *testing.T) {
	rows := []SlotRow{
		{
			ID:            "abc123",
			Role:          "",
			RequiredCount: 2,
			Assignments: []AssignmentRow{
				{ID: "x1", UserID: uuid.New().String()},
			},
		},
	}
	set, err := Slots(rows, nil)
	require.NoError(t, err)
	assert.Empty(t, set.Writes)
}

func TestSlots_SeatWithoutUserNotPersisted(t *testing.T) {
	rows := []SlotRow{
		{
			ID:            "abc123",
			Role:          "Sound",
			RequiredCount: 2,
			Assignments: []AssignmentRow{
				{ID: "x1", UserID: uuid.New().String(), Status: models.AssignmentRequested},
				{ID: "x2", UserID: ""},
			},
		},
	}
	set, err := Slots(rows, nil)
	require.NoError(t, err)
	require.Len(t, set.Writes, 1)
	assert.Len(t, set.Writes[0].Assignments, 1)
}

func TestSlots_NestedLinkagePreserved(t *testing.T) {
	slotID := uuid.New()
	seatID := uuid.New()
	userID := uuid.New()
	rows := []SlotRow{
		{
			ID:            slotID.String(),
			Role:          "Lighting",
			RequiredCount: 2,
			Assignments: []AssignmentRow{
				{ID: seatID.String(), UserID: userID.String(), Status: models.AssignmentConfirmed, CompensationType: CompFee, Amount: "250"},
				{ID: "loc42", UserID: uuid.New().String()},
			},
		},
	}
	set, err := Slots(rows, nil)
	require.NoError(t, err)
	require.Len(t, set.Writes, 1)

	sw := set.Writes[0]
	assert.Equal(t, Persisted, sw.Identity)
	assert.Equal(t, slotID, sw.ID)
	require.Len(t, sw.Assignments, 2)

	assert.Equal(t, Persisted, sw.Assignments[0].Identity)
	assert.Equal(t, seatID, sw.Assignments[0].ID)
	assert.Equal(t, userID, sw.Assignments[0].UserID)
	require.NotNil(t, sw.Assignments[0].FeeCents)
	assert.Equal(t, int64(25000), *sw.Assignments[0].FeeCents)
	assert.Nil(t, sw.Assignments[0].RateCents)

	assert.Equal(t, Local, sw.Assignments[1].Identity)
}

func TestSlots_ShrinkBelowStaffedSeatsDeletesThem(t *testing.T) {
	// Slot had 3 persisted, staffed seats; count reduced to 1. The current
	// behavior drops the tail two on save. Pending product decision.
	slotID := uuid.New()
	seats := []models.StaffAssignment{
		{ID: uuid.New(), SlotID: slotID, UserID: uuid.New()},
		{ID: uuid.New(), SlotID: slotID, UserID: uuid.New()},
		{ID: uuid.New(), SlotID: slotID, UserID: uuid.New()},
	}
	existing := []models.StaffSlot{
		{ID: slotID, Role: "Security", RequiredCount: 3, Assignments: seats},
	}

	row := SlotRow{
		ID:            slotID.String(),
		Role:          "Security",
		RequiredCount: 1,
		Assignments: []AssignmentRow{
			{ID: seats[0].ID.String(), UserID: seats[0].UserID.String()},
			{ID: seats[1].ID.String(), UserID: seats[1].UserID.String()},
			{ID: seats[2].ID.String(), UserID: seats[2].UserID.String()},
		},
	}
	SyncAssignmentCount(&row)

	set, err := Slots([]SlotRow{row}, existing)
	require.NoError(t, err)
	require.Len(t, set.Writes, 1)
	assert.Len(t, set.Writes[0].Assignments, 1)
	assert.ElementsMatch(t, []uuid.UUID{seats[1].ID, seats[2].ID}, set.Writes[0].AssignmentDeletes)
}

func TestSlots_GrowToRequiredCount(t *testing.T) {
	// 1 existing seat, count raised to 3: exactly 3 rows, 2 blank placeholders.
	row := SlotRow{
		ID:            uuid.New().String(),
		Role:          "Sound",
		RequiredCount: 3,
		Assignments: []AssignmentRow{
			{ID: uuid.New().String(), UserID: uuid.New().String(), Status: models.AssignmentConfirmed},
		},
	}
	SyncAssignmentCount(&row)
	require.Len(t, row.Assignments, 3)

	// Blank placeholders carry no user, so only the staffed seat is written.
	set, err := Slots([]SlotRow{row}, nil)
	require.NoError(t, err)
	require.Len(t, set.Writes, 1)
	assert.Len(t, set.Writes[0].Assignments, 1)
}

func TestSlots_RemovedSlotDeleted(t *testing.T) {
	removed := uuid.New()
	existing := []models.StaffSlot{{ID: removed, Role: "Stage"}}
	set, err := Slots(nil, existing)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{removed}, set.SlotDeletes)
}

func TestSlots_UnknownStatusIsValidationError(t *testing.T) {
	rows := []SlotRow{
		{
			ID:            "s1",
			Role:          "Sound",
			RequiredCount: 1,
			Assignments: []AssignmentRow{
				{ID: "a1", UserID: uuid.New().String(), Status: "maybe"},
			},
		},
	}
	_, err := Slots(rows, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "staff_slots[0].assignments[0].status", verr.Field)
}
