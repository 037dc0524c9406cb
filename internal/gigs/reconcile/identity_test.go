package reconcile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestClassify_CanonicalUUIDIsPersisted(t *testing.T) {
	assert.Equal(t, Persisted, Classify("123e4567-e89b-12d3-a456-426614174000"))
	assert.Equal(t, Persisted, Classify(uuid.New().String()))
}

func TestClassify_NonCanonicalShapesAreLocal(t *testing.T) {
	assert.Equal(t, Local, Classify(""))
	assert.Equal(t, Local, Classify("a1b2c3"))
	assert.Equal(t, Local, Classify(OwnOrgSentinel))
	assert.Equal(t, Local, Classify("not-a-uuid-at-all-but-36-chars-long!"))
	// unhyphenated and braced forms are parseable but never emitted by the store
	assert.Equal(t, Local, Classify("123e4567e89b12d3a456426614174000"))
	assert.Equal(t, Local, Classify("{123e4567-e89b-12d3-a456-426614174000}"))
}

func TestParseCents(t *testing.T) {
	for _, tc := range []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"120", 12000, true},
		{"120.5", 12050, true},
		{"120.50", 12050, true},
		{"0.05", 5, true},
		{"-5", -500, true},
		{"", 0, false},
		{"abc", 0, false},
		{"12.345", 0, false},
		{".", 0, false},
		{".5", 50, true},
		// beyond int64 cents: must be rejected, not wrapped
		{"184467440737095517", 0, false},
		{"999999999999999999.99", 0, false},
		{"92233720368547757", 9223372036854775700, true},
	} {
		cents, ok := ParseCents(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.Equal(t, tc.cents, cents, "input %q", tc.in)
		}
	}
}
