package reconcile

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/models"
)

// BidRow is one bid of the gig form as submitted.
type BidRow struct {
	ID      string `json:"id"`
	GivenOn string `json:"given_on"` // YYYY-MM-DD, optional
	Amount  string `json:"amount"`
	Result  string `json:"result"`
	Notes   string `json:"notes"`
}

// BidWrite is one reconciled bid, routed to insert or update-in-place. Bids
// are never deleted by absence; removal is an explicit endpoint.
type BidWrite struct {
	Identity    Identity
	ID          uuid.UUID // set when Identity == Persisted
	GivenOn     *time.Time
	AmountCents *int64
	Result      models.BidResult
	Notes       string
}

// Bids reconciles the submitted bid rows. Rows with no content at all are
// abandoned editor rows and dropped.
func Bids(rows []BidRow) ([]BidWrite, error) {
	var writes []BidWrite
	for i, row := range rows {
		if row.GivenOn == "" && row.Amount == "" && row.Result == "" && row.Notes == "" && Classify(row.ID) == Local {
			continue
		}
		result := models.BidResult(row.Result)
		if result == "" {
			result = models.BidPending
		}
		if !models.ValidBidResult(result) {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("bids[%d].result", i),
				Message: "unknown bid result",
			}
		}
		w := BidWrite{
			Identity: Classify(row.ID),
			Result:   result,
			Notes:    row.Notes,
		}
		if w.Identity == Persisted {
			w.ID = mustID(row.ID)
		}
		if row.GivenOn != "" {
			t, err := time.Parse("2006-01-02", row.GivenOn)
			if err != nil {
				return nil, &ValidationError{
					Field:   fmt.Sprintf("bids[%d].given_on", i),
					Message: "invalid date, expected YYYY-MM-DD",
				}
			}
			w.GivenOn = &t
		}
		if cents, ok := ParseCents(row.Amount); ok {
			if cents < 0 {
				return nil, &ValidationError{
					Field:   fmt.Sprintf("bids[%d].amount", i),
					Message: "must be a positive number",
				}
			}
			w.AmountCents = &cents
		}
		writes = append(writes, w)
	}
	return writes, nil
}

// KitRow is one kit assignment of the gig form as submitted.
type KitRow struct {
	ID    string `json:"id"`
	KitID string `json:"kit_id"`
	Notes string `json:"notes"`
}

// KitWrite is one reconciled kit assignment.
type KitWrite struct {
	Identity Identity
	ID       uuid.UUID // set when Identity == Persisted
	KitID    uuid.UUID
	Notes    string
}

// Kits reconciles the submitted kit assignment rows. Rows naming no kit are
// dropped; removal of persisted assignments is an explicit endpoint.
func Kits(rows []KitRow) ([]KitWrite, error) {
	var writes []KitWrite
	for i, row := range rows {
		if row.KitID == "" {
			continue
		}
		kitID, err := uuid.Parse(row.KitID)
		if err != nil {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("kit_assignments[%d].kit_id", i),
				Message: "invalid kit",
			}
		}
		w := KitWrite{
			Identity: Classify(row.ID),
			KitID:    kitID,
			Notes:    row.Notes,
		}
		if w.Identity == Persisted {
			w.ID = mustID(row.ID)
		}
		writes = append(writes, w)
	}
	return writes, nil
}
