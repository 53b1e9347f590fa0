package matching

import (
	"strings"
	"time"

	"github.com/wandermate/wandermate/pkg/geodist"
)

// Neutral fallback scores returned when profile data is missing. Partial
// profiles are common, so scorers degrade to mid-range values instead of
// failing the whole match.
const (
	neutralDestinationScore = 0.3
	neutralInterestScore    = 0.3
	neutralCategoricalScore = 0.5
)

// dateLayouts are the accepted formats for session start/end dates.
// Anything else is treated as "no overlap" rather than an error.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// religionNeutral holds values that match any religion at half strength.
var religionNeutral = map[string]struct{}{
	"agnostic":          {},
	"prefer_not_to_say": {},
	"none":              {},
}

// personalityTable is the fixed symmetric compatibility table.
var personalityTable = map[string]map[string]float64{
	PersonalityIntrovert: {PersonalityIntrovert: 1.0, PersonalityAmbivert: 0.7, PersonalityExtrovert: 0.4},
	PersonalityAmbivert:  {PersonalityIntrovert: 0.7, PersonalityAmbivert: 1.0, PersonalityExtrovert: 0.7},
	PersonalityExtrovert: {PersonalityIntrovert: 0.4, PersonalityAmbivert: 0.7, PersonalityExtrovert: 1.0},
}

// DestinationScore scores how close two trip destinations are. Banded by
// distance so that "close enough" destinations score in stable, explainable
// tiers instead of decaying continuously.
func DestinationScore(d1, d2 *Destination) float64 {
	if d1 == nil || d2 == nil {
		return neutralDestinationScore
	}

	km := geodist.HaversineKm(d1.Lat, d1.Lon, d2.Lat, d2.Lon)

	switch {
	case km == 0:
		return 1.0
	case km <= 25:
		return 1.0
	case km <= 50:
		return 0.95
	case km <= 100:
		return 0.85
	case km <= 150:
		return 0.75
	case km <= 200:
		return 0.6
	default:
		return 0.0
	}
}

// DateOverlapScore scores the overlap between two date ranges relative to
// the requesting user's own trip length. The score is intentionally
// asymmetric: a 3-day overlap is most of a 4-day trip but little of a
// 3-week one. Unparseable dates and overlaps shorter than one day score 0.
func DateOverlapScore(selfStart, selfEnd, otherStart, otherEnd string) float64 {
	s1, ok1 := parseDate(selfStart)
	e1, ok2 := parseDate(selfEnd)
	s2, ok3 := parseDate(otherStart)
	e2, ok4 := parseDate(otherEnd)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0
	}

	overlapStart := maxTime(s1, s2)
	overlapEnd := minTime(e1, e2)

	overlapDays := overlapEnd.Sub(overlapStart).Hours() / 24
	if overlapDays < 1 {
		return 0
	}

	tripDays := e1.Sub(s1).Hours() / 24
	if tripDays <= 0 {
		return 0
	}

	ratio := overlapDays / tripDays

	switch {
	case ratio >= 0.8:
		return 1.0
	case ratio >= 0.5:
		return 0.9
	case ratio >= 0.3:
		return 0.8
	case ratio >= 0.2:
		return 0.6
	case ratio >= 0.1:
		return 0.3
	default:
		return 0.1
	}
}

// BudgetScore scores budget similarity as the relative gap between the two
// budgets. Two zero budgets count as a perfect match.
func BudgetScore(b1, b2 float64) float64 {
	maxBudget := b1
	if b2 > maxBudget {
		maxBudget = b2
	}
	if maxBudget == 0 {
		return 1
	}

	diff := b1 - b2
	if diff < 0 {
		diff = -diff
	}
	ratio := diff / maxBudget

	switch {
	case ratio <= 0.1:
		return 1.0
	case ratio <= 0.25:
		return 0.8
	case ratio <= 0.5:
		return 0.6
	case ratio <= 1.0:
		return 0.4
	case ratio <= 2.0:
		return 0.2
	default:
		return 0.1
	}
}

// AgeScore scores age proximity. Two unset ages (both zero) count as a
// perfect match since there is nothing to compare.
func AgeScore(a1, a2 int) float64 {
	if a1 == 0 && a2 == 0 {
		return 1
	}

	diff := a1 - a2
	if diff < 0 {
		diff = -diff
	}

	switch {
	case diff <= 2:
		return 1.0
	case diff <= 5:
		return 0.9
	case diff <= 10:
		return 0.7
	case diff <= 15:
		return 0.5
	case diff <= 25:
		return 0.3
	case diff <= 40:
		return 0.1
	default:
		return 0.05
	}
}

// PersonalityScore looks up the pair in the fixed compatibility table.
// A missing value on either side is neutral; an unrecognized value scores 0.
func PersonalityScore(p1, p2 string) float64 {
	if p1 == "" || p2 == "" {
		return neutralCategoricalScore
	}
	row, ok := personalityTable[p1]
	if !ok {
		return 0
	}
	return row[p2]
}

// InterestScore computes Jaccard similarity over two tag sets, with a flat
// +0.2 bonus (capped at 1.0) whenever any overlap exists, rewarding partial
// overlap more than pure Jaccard would. Either set empty is neutral.
func InterestScore(tags1, tags2 []string) float64 {
	if len(tags1) == 0 || len(tags2) == 0 {
		return neutralInterestScore
	}

	set1 := make(map[string]struct{}, len(tags1))
	for _, t := range tags1 {
		set1[t] = struct{}{}
	}
	set2 := make(map[string]struct{}, len(tags2))
	for _, t := range tags2 {
		set2[t] = struct{}{}
	}

	intersection := 0
	for t := range set2 {
		if _, ok := set1[t]; ok {
			intersection++
		}
	}
	unionSize := len(set1) + len(set2) - intersection

	jaccard := float64(intersection) / float64(unionSize)
	if intersection > 0 {
		jaccard += 0.2
		if jaccard > 1.0 {
			jaccard = 1.0
		}
	}
	return jaccard
}

// ReligionScore scores religion compatibility: exact match is full, a
// neutral value on either side is half, anything else is zero.
func ReligionScore(r1, r2 string) float64 {
	if r1 == "" || r2 == "" {
		return neutralCategoricalScore
	}

	l1 := strings.ToLower(r1)
	l2 := strings.ToLower(r2)

	if l1 == l2 {
		return 1.0
	}
	if _, ok := religionNeutral[l1]; ok {
		return 0.5
	}
	if _, ok := religionNeutral[l2]; ok {
		return 0.5
	}
	return 0
}

// LocationOriginScore scores how close the two travelers' home locations
// are, using coarser bands than the destination scorer.
func LocationOriginScore(l1, l2 *Coordinate) float64 {
	if l1 == nil || l2 == nil {
		return neutralCategoricalScore
	}

	km := geodist.HaversineKm(l1.Lat, l1.Lon, l2.Lat, l2.Lon)

	switch {
	case km <= 25:
		return 1.0
	case km <= 100:
		return 0.8
	case km <= 200:
		return 0.6
	case km <= 500:
		return 0.4
	case km <= 1000:
		return 0.2
	default:
		return 0.1
	}
}

// LifestyleScore averages two binary indicators: smoking preference match
// and drinking preference match.
func LifestyleScore(a1, a2 StaticAttributes) float64 {
	score := 0.0
	if a1.Smoking == a2.Smoking {
		score++
	}
	if a1.Drinking == a2.Drinking {
		score++
	}
	return score / 2
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
