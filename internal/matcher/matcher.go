package matcher

import (
	"fmt"
	"strings"

	"github.com/rafaelmaranon/Availo/internal/models"
)

type Verdict string

const (
	VerdictGoodMatch    Verdict = "good_match"
	VerdictSeekerEarly  Verdict = "seeker_early"
	VerdictOffererEarly Verdict = "offerer_early"
)

// GoodMatchWindow is the timing tolerance in minutes: pairs whose estimates
// differ by no more than this are a good match.
const GoodMatchWindow = 2

// Match is one compatible (seeker, offerer) pair with its timing verdict.
// Summary and Advice are presentation strings; nothing acts on them.
type Match struct {
	Seeker         models.SeekingRequest  `json:"seeker"`
	Offerer        models.OfferingRequest `json:"offerer"`
	Verdict        Verdict                `json:"verdict"`
	SeekerMinutes  int                    `json:"seeker_minutes"`
	OffererMinutes int                    `json:"offerer_minutes"`
	GapMinutes     int                    `json:"gap_minutes"`
	Summary        string                 `json:"summary"`
	Advice         string                 `json:"advice"`
}

// LocationCompatible applies the symmetric token-prefix containment test:
// the lower-cased destination contains the first whitespace token of the
// lower-cased location description, or the other way around. Deliberately
// loose; false positives are acceptable. Empty text on either side never
// matches.
func LocationCompatible(destination, location string) bool {
	dest := strings.ToLower(strings.TrimSpace(destination))
	loc := strings.ToLower(strings.TrimSpace(location))
	if dest == "" || loc == "" {
		return false
	}

	return strings.Contains(dest, firstToken(loc)) || strings.Contains(loc, firstToken(dest))
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return s
	}
	return fields[0]
}

// Classify turns two minute estimates into a verdict and the gap driving it.
func Classify(seekerMinutes, offererMinutes int) (Verdict, int) {
	d := seekerMinutes - offererMinutes
	switch {
	case d >= -GoodMatchWindow && d <= GoodMatchWindow:
		return VerdictGoodMatch, abs(d)
	case d < 0:
		return VerdictSeekerEarly, offererMinutes - seekerMinutes
	default:
		return VerdictOffererEarly, seekerMinutes - offererMinutes
	}
}

// Evaluate produces the full match record for one compatible pair.
func Evaluate(seeker models.SeekingRequest, offerer models.OfferingRequest) Match {
	seekerMinutes := ParseMinutes(seeker.ArrivalTimeEstimate)
	offererMinutes := ParseMinutes(offerer.EstimatedLeaveTime)
	verdict, gap := Classify(seekerMinutes, offererMinutes)

	m := Match{
		Seeker:         seeker,
		Offerer:        offerer,
		Verdict:        verdict,
		SeekerMinutes:  seekerMinutes,
		OffererMinutes: offererMinutes,
		GapMinutes:     gap,
		Summary: fmt.Sprintf("%s arrives in %d min, %s leaves in %d min",
			seeker.DriverName, seekerMinutes, offerer.DriverName, offererMinutes),
	}

	switch verdict {
	case VerdictGoodMatch:
		m.Advice = "Timing lines up, open a negotiation now."
	case VerdictSeekerEarly:
		m.Advice = fmt.Sprintf("Seeker arrives %d min before the spot frees up, suggest circling or waiting nearby.", gap)
	case VerdictOffererEarly:
		m.Advice = fmt.Sprintf("Spot frees up %d min before the seeker arrives, ask the offerer whether they can hold it.", gap)
	}

	return m
}

// FindMatches computes the candidate set for a snapshot of active records.
// Pure and deterministic: output order follows input order, and the same
// snapshot always produces the same result.
func FindMatches(seekers []models.SeekingRequest, offerers []models.OfferingRequest) []Match {
	matches := make([]Match, 0)
	for _, seeker := range seekers {
		for _, offerer := range offerers {
			if !LocationCompatible(seeker.Destination, offerer.LocationDescription) {
				continue
			}
			matches = append(matches, Evaluate(seeker, offerer))
		}
	}
	return matches
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
