package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"plain phrase", "arriving in 10 minutes", 10},
		{"leaving phrase", "leaving in 9 minutes", 9},
		{"short form", "in 2", 2},
		{"tilde prefix", "leaving in ~5 min", 5},
		{"first number wins", "15 min, maybe 20", 15},
		{"number embedded in street name", "leaving from 24th street in a bit", 24},
		{"no number falls back", "soon", DefaultMinutes},
		{"empty falls back", "", DefaultMinutes},
		{"zero is honored", "leaving in 0 minutes", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMinutes(tt.text))
		})
	}
}

func TestParseMinutesOverflowFallsBack(t *testing.T) {
	assert.Equal(t, DefaultMinutes, ParseMinutes("in 99999999999999999999999999 minutes"))
}
