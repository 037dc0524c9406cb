package reconcile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/models"
)

func TestParticipants_NoPartialRowsSurvive(t *testing.T) {
	orgA := uuid.New()
	rows := []ParticipantRow{
		{ID: "tok1", OrganizationID: orgA.String(), Role: "Venue"},
		{ID: "tok2"}, // empty row, dropped silently
	}
	set, err := Participants(rows, nil, uuid.New(), false)
	require.NoError(t, err)
	require.Len(t, set.Writes, 1)
	for _, w := range set.Writes {
		assert.NotEqual(t, uuid.Nil, w.OrganizationID)
		assert.NotEmpty(t, w.Role)
	}
}

func TestParticipants_PartialRowIsValidationError(t *testing.T) {
	rows := []ParticipantRow{
		{ID: "tok1", Role: "Venue"}, // role without organization
	}
	_, err := Participants(rows, nil, uuid.New(), false)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "participants[0]", verr.Field)
}

func TestParticipants_OrgWithoutRoleIsValidationError(t *testing.T) {
	rows := []ParticipantRow{
		{ID: "tok1", OrganizationID: uuid.New().String()},
	}
	_, err := Participants(rows, nil, uuid.New(), false)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestParticipants_DedupeFirstWins(t *testing.T) {
	orgA := uuid.New()
	rows := []ParticipantRow{
		{ID: "tok1", OrganizationID: orgA.String(), Role: "Act", Notes: "first"},
		{ID: "tok2", OrganizationID: orgA.String(), Role: "Act", Notes: "second"},
		{ID: "tok3", OrganizationID: orgA.String(), Role: "Venue"},
	}
	set, err := Participants(rows, nil, uuid.New(), true)
	require.NoError(t, err)

	var actRows []ParticipantWrite
	for _, w := range set.Writes {
		if w.OrganizationID == orgA && w.Role == "Act" {
			actRows = append(actRows, w)
		}
	}
	require.Len(t, actRows, 1)
	assert.Equal(t, "first", actRows[0].Notes)
}

func TestParticipants_CreationIncludesOwnOrgImplicitly(t *testing.T) {
	ownOrg := uuid.New()
	set, err := Participants(nil, nil, ownOrg, true)
	require.NoError(t, err)
	require.Len(t, set.Writes, 1)
	assert.Equal(t, ownOrg, set.Writes[0].OrganizationID)
	assert.Equal(t, "Owner", set.Writes[0].Role)
	assert.Equal(t, Local, set.Writes[0].Identity)
}

func TestParticipants_SentinelRowDroppedButRoleAdopted(t *testing.T) {
	ownOrg := uuid.New()
	rows := []ParticipantRow{
		{ID: OwnOrgSentinel, Role: "Venue"},
	}
	set, err := Participants(rows, nil, ownOrg, true)
	require.NoError(t, err)
	require.Len(t, set.Writes, 1)
	assert.Equal(t, ownOrg, set.Writes[0].OrganizationID)
	assert.Equal(t, "Venue", set.Writes[0].Role)
}

func TestParticipants_SentinelDroppedOnEdit(t *testing.T) {
	rows := []ParticipantRow{
		{ID: OwnOrgSentinel, Role: "Venue"},
	}
	set, err := Participants(rows, nil, uuid.New(), false)
	require.NoError(t, err)
	assert.Empty(t, set.Writes)
}

func TestParticipants_PersistedRowsTaggedForUpdate(t *testing.T) {
	existingID := uuid.New()
	orgA := uuid.New()
	rows := []ParticipantRow{
		{ID: existingID.String(), OrganizationID: orgA.String(), Role: "Venue", Notes: "updated"},
		{ID: "f9h2k1", OrganizationID: uuid.New().String(), Role: "Act"},
	}
	set, err := Participants(rows, nil, uuid.New(), false)
	require.NoError(t, err)
	require.Len(t, set.Writes, 2)
	assert.Equal(t, Persisted, set.Writes[0].Identity)
	assert.Equal(t, existingID, set.Writes[0].ID)
	assert.Equal(t, Local, set.Writes[1].Identity)
}

func TestParticipants_AbsentPersistedRowsDeleted(t *testing.T) {
	keptID, droppedID := uuid.New(), uuid.New()
	orgA := uuid.New()
	existing := []models.Participant{
		{ID: keptID, OrganizationID: orgA, Role: "Venue"},
		{ID: droppedID, OrganizationID: uuid.New(), Role: "Act"},
	}
	rows := []ParticipantRow{
		{ID: keptID.String(), OrganizationID: orgA.String(), Role: "Venue"},
	}
	set, err := Participants(rows, existing, uuid.New(), false)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{droppedID}, set.Deletes)
}
