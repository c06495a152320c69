package counter

import (
	"math"
	"strconv"
	"strings"
)

const DefaultAmountText = "2"

// ParseAmount reads the amount text as a number, falling back to 0 for anything
// that is not one. Fractions truncate toward zero.
func ParseAmount(text string) int {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0
	}

	if v, ok := parseRadix(s); ok {
		return v
	}

	if strings.ContainsAny(s, "_") || strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return 0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	f = math.Trunc(f)
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0
	}

	return int(int64(f))
}

func parseRadix(s string) (int, bool) {
	if len(s) < 3 || s[0] != '0' || s[2] == '+' || s[2] == '-' {
		return 0, false
	}

	var base int
	switch s[1] {
	case 'x', 'X':
		base = 16
	case 'o', 'O':
		base = 8
	case 'b', 'B':
		base = 2
	default:
		return 0, false
	}

	v, err := strconv.ParseInt(s[2:], base, 0)
	if err != nil {
		return 0, false
	}

	return int(v), true
}
