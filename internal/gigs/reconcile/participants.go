package reconcile

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/models"
)

// ParticipantRow is one row of the participant editor as submitted.
type ParticipantRow struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role"`
	Notes          string `json:"notes"`
}

// ParticipantWrite is one reconciled participant, routed to insert (Local) or
// update-in-place (Persisted).
type ParticipantWrite struct {
	Identity       Identity
	ID             uuid.UUID // set when Identity == Persisted
	OrganizationID uuid.UUID
	Role           string
	Notes          string
}

// ParticipantSet is the write-set plus the persisted rows to delete.
type ParticipantSet struct {
	Writes  []ParticipantWrite
	Deletes []uuid.UUID
}

// Participants reconciles the submitted participant rows against the persisted
// rows of the gig.
//
//   - The own-org sentinel row is dropped from the editable set; when creating
//     a new gig the owning organization is always included as an implicit
//     participant (taking the sentinel row's role if one was submitted).
//   - A row with exactly one of organization/role set is a form error.
//   - Rows with neither set are abandoned editor rows and dropped.
//   - Surviving rows are deduplicated by (organization, role), first wins.
//   - Persisted rows absent from the submitted set are deleted.
func Participants(rows []ParticipantRow, existing []models.Participant, ownOrg uuid.UUID, creating bool) (ParticipantSet, error) {
	var set ParticipantSet
	seen := make(map[string]struct{})

	if creating {
		role := "Owner"
		for _, row := range rows {
			if row.ID == OwnOrgSentinel && row.Role != "" {
				role = row.Role
			}
		}
		set.Writes = append(set.Writes, ParticipantWrite{
			Identity:       Local,
			OrganizationID: ownOrg,
			Role:           role,
		})
		seen[ownOrg.String()+"\x00"+role] = struct{}{}
	}

	for i, row := range rows {
		if row.ID == OwnOrgSentinel {
			continue
		}
		hasOrg := row.OrganizationID != ""
		hasRole := row.Role != ""
		if !hasOrg && !hasRole {
			continue
		}
		if hasOrg != hasRole {
			return ParticipantSet{}, &ValidationError{
				Field:   fmt.Sprintf("participants[%d]", i),
				Message: "participant needs both organization and role",
			}
		}
		orgID, err := uuid.Parse(row.OrganizationID)
		if err != nil {
			return ParticipantSet{}, &ValidationError{
				Field:   fmt.Sprintf("participants[%d].organization_id", i),
				Message: "invalid organization",
			}
		}
		key := orgID.String() + "\x00" + row.Role
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		w := ParticipantWrite{
			Identity:       Classify(row.ID),
			OrganizationID: orgID,
			Role:           row.Role,
			Notes:          row.Notes,
		}
		if w.Identity == Persisted {
			w.ID = mustID(row.ID)
		}
		set.Writes = append(set.Writes, w)
	}

	kept := make(map[uuid.UUID]struct{})
	for _, w := range set.Writes {
		if w.Identity == Persisted {
			kept[w.ID] = struct{}{}
		}
	}
	for _, p := range existing {
		if _, ok := kept[p.ID]; !ok {
			set.Deletes = append(set.Deletes, p.ID)
		}
	}
	return set, nil
}
