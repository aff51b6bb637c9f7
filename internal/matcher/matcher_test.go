package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaelmaranon/Availo/internal/models"
)

func seekerWith(destination, arrival string) models.SeekingRequest {
	return models.SeekingRequest{
		ID:                  "seeker-1",
		DriverName:          "Dana",
		Destination:         destination,
		ArrivalTimeEstimate: arrival,
		Status:              models.SeekingStatusSeeking,
	}
}

func offererWith(location, leave string) models.OfferingRequest {
	return models.OfferingRequest{
		ID:                  "offerer-1",
		DriverName:          "Alex",
		LocationDescription: location,
		EstimatedLeaveTime:  leave,
		Status:              models.OfferingStatusReady,
	}
}

func TestLocationCompatible(t *testing.T) {
	tests := []struct {
		name        string
		destination string
		location    string
		want        bool
	}{
		{"destination contains location token", "Mission district near 16th", "Mission & 16th", true},
		{"location contains destination token", "Dolores", "Dolores Park entrance", true},
		{"case insensitive", "MISSION street", "mission & 16th", true},
		{"unrelated", "Marina", "Dolores Park", false},
		{"empty destination", "", "Dolores Park", false},
		{"empty location", "Mission", "", false},
		{"both empty", "", "", false},
		{"whitespace only", "   ", "Mission", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LocationCompatible(tt.destination, tt.location))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name           string
		seekerMinutes  int
		offererMinutes int
		wantVerdict    Verdict
		wantGap        int
	}{
		{"exact", 10, 10, VerdictGoodMatch, 0},
		{"within window high", 12, 10, VerdictGoodMatch, 2},
		{"within window low", 8, 10, VerdictGoodMatch, 2},
		{"seeker early", 2, 20, VerdictSeekerEarly, 18},
		{"seeker barely early", 7, 10, VerdictSeekerEarly, 3},
		{"offerer early", 20, 2, VerdictOffererEarly, 18},
		{"offerer barely early", 10, 7, VerdictOffererEarly, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, gap := Classify(tt.seekerMinutes, tt.offererMinutes)
			assert.Equal(t, tt.wantVerdict, verdict)
			assert.Equal(t, tt.wantGap, gap)
		})
	}
}

func TestEvaluateGoodMatch(t *testing.T) {
	seeker := seekerWith("Mission district", "arriving in 10 minutes")
	offerer := offererWith("Mission & 16th", "leaving in 9 minutes")

	m := Evaluate(seeker, offerer)

	assert.Equal(t, VerdictGoodMatch, m.Verdict)
	assert.Equal(t, 10, m.SeekerMinutes)
	assert.Equal(t, 9, m.OffererMinutes)
	assert.Equal(t, 1, m.GapMinutes)
	assert.Equal(t, "Dana arrives in 10 min, Alex leaves in 9 min", m.Summary)
	assert.NotEmpty(t, m.Advice)
}

func TestEvaluateSeekerEarly(t *testing.T) {
	seeker := seekerWith("Mission", "in 2")
	offerer := offererWith("Mission & 16th", "in 20")

	m := Evaluate(seeker, offerer)

	assert.Equal(t, VerdictSeekerEarly, m.Verdict)
	assert.Equal(t, 18, m.GapMinutes)
	assert.Contains(t, m.Advice, "18 min")
}

func TestEvaluateDefaultsWhenNoNumbers(t *testing.T) {
	seeker := seekerWith("Mission", "soon")
	offerer := offererWith("Mission & 16th", "shortly")

	m := Evaluate(seeker, offerer)

	assert.Equal(t, VerdictGoodMatch, m.Verdict)
	assert.Equal(t, DefaultMinutes, m.SeekerMinutes)
	assert.Equal(t, DefaultMinutes, m.OffererMinutes)
}

func TestFindMatchesFiltersIncompatibleLocations(t *testing.T) {
	seekers := []models.SeekingRequest{
		seekerWith("Mission district", "arriving in 10 minutes"),
	}
	offerers := []models.OfferingRequest{
		offererWith("Mission & 16th", "leaving in 9 minutes"),
		{ID: "offerer-2", DriverName: "Maria", LocationDescription: "Marina Green", EstimatedLeaveTime: "in 10"},
	}

	matches := FindMatches(seekers, offerers)

	require.Len(t, matches, 1)
	assert.Equal(t, "offerer-1", matches[0].Offerer.ID)
}

func TestFindMatchesEmptySnapshot(t *testing.T) {
	assert.Empty(t, FindMatches(nil, nil))
}

func TestFindMatchesDeterministic(t *testing.T) {
	seekers := []models.SeekingRequest{
		seekerWith("Mission", "in 10"),
		{ID: "seeker-2", DriverName: "Luis", Destination: "Dolores Park", ArrivalTimeEstimate: "in 20"},
	}
	offerers := []models.OfferingRequest{
		offererWith("Mission & 16th", "in 9"),
		{ID: "offerer-2", DriverName: "Maria", LocationDescription: "Dolores Park entrance", EstimatedLeaveTime: "in 15"},
	}

	first := FindMatches(seekers, offerers)
	second := FindMatches(seekers, offerers)

	assert.Equal(t, first, second)
}
