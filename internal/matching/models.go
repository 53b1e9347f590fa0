// Package matching implements the compatibility scoring engine for
// solo-traveler matching: per-factor scorers, the weight table with
// preference-driven boosting, and candidate ranking.
package matching

import (
	"fmt"
	"math"
)

// Personality values recognized by the compatibility table.
const (
	PersonalityIntrovert = "introvert"
	PersonalityAmbivert  = "ambivert"
	PersonalityExtrovert = "extrovert"
)

// ModeSolo is the only matching mode handled by this engine.
const ModeSolo = "solo"

// Coordinate represents a geographic point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Destination is a named, geocoded place a traveler wants to visit.
type Destination struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// StaticAttributes is a snapshot of slow-changing profile data taken at
// session-creation time. Fields may be empty; scorers fall back to neutral
// values rather than failing on incomplete profiles.
type StaticAttributes struct {
	Age         int         `json:"age"`
	Gender      string      `json:"gender"`
	Personality string      `json:"personality"`
	Location    *Coordinate `json:"location"`
	Smoking     string      `json:"smoking"`
	Drinking    string      `json:"drinking"`
	Religion    string      `json:"religion"`
	Nationality string      `json:"nationality"`
	Languages   []string    `json:"languages"`
	Profession  string      `json:"profession"`
}

// TravelSession is one user's current trip-search intent. Sessions are
// ephemeral records living in the session store with a TTL; they are
// overwritten on every new search.
type TravelSession struct {
	UserID           string           `json:"userId"`
	Destination      *Destination     `json:"destination"`
	Budget           float64          `json:"budget"`
	StartDate        string           `json:"startDate"`
	EndDate          string           `json:"endDate"`
	Mode             string           `json:"mode"`
	Interests        []string         `json:"interests"`
	StaticAttributes StaticAttributes `json:"staticAttributes"`
}

// RangeFilter constrains a numeric attribute to [Min, Max].
type RangeFilter struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ValueFilter constrains a categorical attribute to a single value.
type ValueFilter struct {
	Value string `json:"value"`
}

// ValuesFilter constrains a set attribute to the given values.
type ValuesFilter struct {
	Values []string `json:"value"`
}

// FilterSelection is the optional set of attributes a user asked to
// emphasize. It is constructed per query and never persisted. A nil or empty
// selection leaves the base weights untouched.
type FilterSelection struct {
	Age         *RangeFilter  `json:"age,omitempty"`
	Gender      *ValueFilter  `json:"gender,omitempty"`
	Personality *ValueFilter  `json:"personality,omitempty"`
	Interests   *ValuesFilter `json:"interests,omitempty"`
	Religion    *ValueFilter  `json:"religion,omitempty"`
	Smoking     *ValueFilter  `json:"smoking,omitempty"`
	Drinking    *ValueFilter  `json:"drinking,omitempty"`
}

// Empty reports whether no filter is set.
func (f *FilterSelection) Empty() bool {
	if f == nil {
		return true
	}
	return f.Age == nil && f.Gender == nil && f.Personality == nil &&
		f.Interests == nil && f.Religion == nil && f.Smoking == nil && f.Drinking == nil
}

// ScoreBreakdown holds the normalized sub-score for each factor.
type ScoreBreakdown struct {
	DestinationScore    float64 `json:"destinationScore"`
	DateOverlapScore    float64 `json:"dateOverlapScore"`
	BudgetScore         float64 `json:"budgetScore"`
	InterestScore       float64 `json:"interestScore"`
	AgeScore            float64 `json:"ageScore"`
	PersonalityScore    float64 `json:"personalityScore"`
	LocationOriginScore float64 `json:"locationOriginScore"`
	LifestyleScore      float64 `json:"lifestyleScore"`
	ReligionScore       float64 `json:"religionScore"`
}

// ScoreResult is the output of a pairwise compatibility computation: the
// final weighted score plus the breakdown and the weights actually applied,
// so callers can explain "why this match".
type ScoreResult struct {
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Weights   Weights        `json:"weights"`
}

// FormatBudgetDifference renders the signed budget gap between a candidate
// and the requesting user in compact form, e.g. "+5k", "-2.5k" or "+300".
func FormatBudgetDifference(difference float64) string {
	if difference == 0 {
		return "Same budget"
	}

	abs := math.Abs(difference)
	sign := "+"
	if difference < 0 {
		sign = "-"
	}

	if abs >= 1000 {
		k := abs / 1000
		if k == math.Trunc(k) {
			return fmt.Sprintf("%s%.0fk", sign, k)
		}
		return fmt.Sprintf("%s%.1fk", sign, k)
	}
	return fmt.Sprintf("%s%.0f", sign, abs)
}
