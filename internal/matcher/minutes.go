package matcher

import (
	"regexp"
	"strconv"
)

// DefaultMinutes is assumed when a timing text carries no number at all.
const DefaultMinutes = 5

var firstNumber = regexp.MustCompile(`\d+`)

// ParseMinutes extracts the minute estimate from free text like
// "arriving in 10 minutes" or "leaving in ~5 min". The first integer in the
// text wins; text without any integer falls back to DefaultMinutes.
// Malformed input never fails, it only degrades to the fallback.
func ParseMinutes(text string) int {
	match := firstNumber.FindString(text)
	if match == "" {
		return DefaultMinutes
	}

	minutes, err := strconv.Atoi(match)
	if err != nil {
		// Only reachable when the digit run overflows int
		return DefaultMinutes
	}
	return minutes
}
