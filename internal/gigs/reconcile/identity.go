// Package reconcile turns the nested gig form tree submitted by the client
// into explicit insert/update/delete sets against the persisted rows. It is
// pure: no I/O, no store access.
package reconcile

import (
	"github.com/google/uuid"
)

// OwnOrgSentinel is the reserved identifier the client uses for the caller's
// own organization row in the participant editor.
const OwnOrgSentinel = "own-org"

// Identity classifies a record identifier submitted by the client.
type Identity int

const (
	// Local marks a client-generated placeholder: a short random token, the
	// own-org sentinel, or anything else that is not a store primary key.
	Local Identity = iota
	// Persisted marks an identifier in the store's canonical primary-key format.
	Persisted
)

// canonical UUID string length, e.g. 123e4567-e89b-12d3-a456-426614174000
const uuidLen = 36

// Classify reports whether id denotes a persisted row or a client-side
// placeholder. Only the canonical hyphenated form counts as persisted;
// uuid.Parse alone is too lenient (it also accepts braced and unhyphenated
// forms the store never emits).
func Classify(id string) Identity {
	if len(id) != uuidLen {
		return Local
	}
	if _, err := uuid.Parse(id); err != nil {
		return Local
	}
	return Persisted
}

// mustID parses a classified-Persisted identifier. Callers classify first.
func mustID(id string) uuid.UUID {
	u, _ := uuid.Parse(id)
	return u
}
