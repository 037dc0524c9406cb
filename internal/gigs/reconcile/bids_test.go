package reconcile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/models"
)

func TestBids_EmptyRowDropped(t *testing.T) {
	writes, err := Bids([]BidRow{{ID: "tmp-1"}})
	require.NoError(t, err)
	assert.Empty(t, writes)
}

func TestBids_DefaultsAndParsing(t *testing.T) {
	id := uuid.New()
	writes, err := Bids([]BidRow{
		{ID: id.String(), GivenOn: "2026-03-14", Amount: "1250.50", Notes: "verbal"},
		{ID: "local-2", Result: "accepted"},
	})
	require.NoError(t, err)
	require.Len(t, writes, 2)

	assert.Equal(t, Persisted, writes[0].Identity)
	assert.Equal(t, id, writes[0].ID)
	assert.Equal(t, models.BidPending, writes[0].Result)
	require.NotNil(t, writes[0].GivenOn)
	assert.Equal(t, "2026-03-14", writes[0].GivenOn.Format("2006-01-02"))
	require.NotNil(t, writes[0].AmountCents)
	assert.Equal(t, int64(125050), *writes[0].AmountCents)

	assert.Equal(t, Local, writes[1].Identity)
	assert.Equal(t, models.BidAccepted, writes[1].Result)
	assert.Nil(t, writes[1].AmountCents)
}

func TestBids_NegativeAmountRejected(t *testing.T) {
	_, err := Bids([]BidRow{{ID: "b1", Amount: "-10"}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "bids[0].amount", verr.Field)
}

func TestBids_BadDateRejected(t *testing.T) {
	_, err := Bids([]BidRow{{ID: "b1", GivenOn: "14/03/2026"}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "bids[0].given_on", verr.Field)
}

func TestBids_UnknownResultRejected(t *testing.T) {
	_, err := Bids([]BidRow{{ID: "b1", Result: "maybe"}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "bids[0].result", verr.Field)
}

func TestKits_EmptyKitDropped(t *testing.T) {
	writes, err := Kits([]KitRow{{ID: "tmp-1", KitID: "", Notes: "placeholder"}})
	require.NoError(t, err)
	assert.Empty(t, writes)
}

func TestKits_PersistedAndLocalRouting(t *testing.T) {
	kitID := uuid.New()
	rowID := uuid.New()
	writes, err := Kits([]KitRow{
		{ID: rowID.String(), KitID: kitID.String(), Notes: "bring spare cables"},
		{ID: "tmp-2", KitID: kitID.String()},
	})
	require.NoError(t, err)
	require.Len(t, writes, 2)
	assert.Equal(t, Persisted, writes[0].Identity)
	assert.Equal(t, rowID, writes[0].ID)
	assert.Equal(t, kitID, writes[0].KitID)
	assert.Equal(t, Local, writes[1].Identity)
}

func TestKits_InvalidKitIDRejected(t *testing.T) {
	_, err := Kits([]KitRow{{ID: "tmp-1", KitID: "not-a-uuid"}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "kit_assignments[0].kit_id", verr.Field)
}
