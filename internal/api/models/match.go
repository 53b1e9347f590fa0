package models

import "github.com/wandermate/wandermate/internal/matching"

// Match is one ranked companion suggestion.
type Match struct {
	UserID      string   `json:"userId"`
	Destination string   `json:"destination"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Interests   []string `json:"interests,omitempty"`

	// Score is the blended compatibility score in [0,1].
	Score float64 `json:"score"`

	// RuleScore is the weighted rule-based score; MLScore is present only
	// when the model server contributed to the blend.
	RuleScore float64  `json:"ruleScore"`
	MLScore   *float64 `json:"mlScore,omitempty"`

	// BudgetDifference is the display string for the budget gap ("+5k").
	BudgetDifference string `json:"budgetDifference"`

	Breakdown matching.ScoreBreakdown `json:"breakdown"`
	Weights   matching.Weights        `json:"weights"`
}

// MatchList is the response for GET /v1/matches/solo.
type MatchList struct {
	Matches []Match `json:"matches"`
	Count   int     `json:"count"`
}

// NewMatch converts a ranked match into its API representation, relative to
// the requesting user's session.
func NewMatch(self *matching.TravelSession, m matching.RankedMatch) Match {
	s := m.Session
	match := Match{
		UserID:           s.UserID,
		StartDate:        s.StartDate,
		EndDate:          s.EndDate,
		Interests:        s.Interests,
		Score:            m.Score,
		RuleScore:        m.RuleScore,
		MLScore:          m.MLScore,
		BudgetDifference: matching.FormatBudgetDifference(s.Budget - self.Budget),
		Breakdown:        m.Breakdown,
		Weights:          m.Weights,
	}
	if s.Destination != nil {
		match.Destination = s.Destination.Name
	}
	return match
}
