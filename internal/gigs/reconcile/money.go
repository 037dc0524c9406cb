package reconcile

import (
	"math"
	"strconv"
	"strings"
)

// maxWholeUnits bounds the integer part so whole*100+frac cannot overflow int64.
const maxWholeUnits = (math.MaxInt64 - 99) / 100

// ParseCents parses a decimal money string ("120", "120.5", "120.50") into
// integer cents. Returns ok=false for empty or non-numeric input, or for more
// than two fraction digits. Amounts are fixed-point throughout; float parsing
// is deliberately avoided for money.
func ParseCents(s string) (cents int64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return 0, false
	}
	if intPart == "" {
		intPart = "0"
	}
	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, false
	}
	if whole > maxWholeUnits {
		return 0, false
	}
	var frac int64
	if hasFrac {
		if fracPart == "" || len(fracPart) > 2 {
			return 0, false
		}
		frac, err = strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, false
		}
		if len(fracPart) == 1 {
			frac *= 10
		}
	}
	cents = whole*100 + frac
	if neg {
		cents = -cents
	}
	return cents, true
}
