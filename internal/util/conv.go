package util

import (
	"strconv"
)

// MustParseUint converts a string to an unsigned integer, returning 0 on
// parse failure.
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// ParseFloatDefault converts a string to a float64, returning def when the
// string is empty or malformed.
func ParseFloatDefault(s string, def float64) float64 {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}
