package matching

// Score computes the pairwise compatibility between the requesting session
// and a candidate session. The result is deterministic for identical inputs,
// has no side effects, and is safe to call concurrently.
//
// The date-overlap sub-score is relative to the requesting session's trip
// length, so Score(a, b, f) and Score(b, a, f) can legitimately differ in
// that factor. All other sub-scores are symmetric.
func Score(self, candidate *TravelSession, filters *FilterSelection) ScoreResult {
	selfAttrs := self.StaticAttributes
	candAttrs := candidate.StaticAttributes

	breakdown := ScoreBreakdown{
		DestinationScore:    DestinationScore(self.Destination, candidate.Destination),
		DateOverlapScore:    DateOverlapScore(self.StartDate, self.EndDate, candidate.StartDate, candidate.EndDate),
		BudgetScore:         BudgetScore(self.Budget, candidate.Budget),
		InterestScore:       InterestScore(self.Interests, candidate.Interests),
		AgeScore:            AgeScore(selfAttrs.Age, candAttrs.Age),
		PersonalityScore:    PersonalityScore(selfAttrs.Personality, candAttrs.Personality),
		LocationOriginScore: LocationOriginScore(selfAttrs.Location, candAttrs.Location),
		LifestyleScore:      LifestyleScore(selfAttrs, candAttrs),
		ReligionScore:       ReligionScore(selfAttrs.Religion, candAttrs.Religion),
	}

	weights := ComputeWeights(BaseWeights(), filters)

	score := breakdown.DestinationScore*weights.Destination +
		breakdown.DateOverlapScore*weights.DateOverlap +
		breakdown.BudgetScore*weights.Budget +
		breakdown.InterestScore*weights.Interests +
		breakdown.AgeScore*weights.Age +
		breakdown.PersonalityScore*weights.Personality +
		breakdown.LocationOriginScore*weights.LocationOrigin +
		breakdown.LifestyleScore*weights.Lifestyle +
		breakdown.ReligionScore*weights.Religion

	// Boost redistribution can push the weight sum past 1.0; keep the final
	// score inside the documented range.
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}

	return ScoreResult{
		Score:     score,
		Breakdown: breakdown,
		Weights:   weights,
	}
}

// Features is the flat numeric vector handed to an external pair scorer.
// It mirrors the rule-based breakdown plus two interaction terms.
type Features struct {
	MatchType           string  `json:"matchType"`
	DistanceScore       float64 `json:"distanceScore"`
	DateOverlapScore    float64 `json:"dateOverlapScore"`
	BudgetScore         float64 `json:"budgetScore"`
	InterestScore       float64 `json:"interestScore"`
	AgeScore            float64 `json:"ageScore"`
	PersonalityScore    float64 `json:"personalityScore"`
	DestinationInterest float64 `json:"destination_interest"`
	DateBudget          float64 `json:"date_budget"`
}

// Features derives the external-scorer feature vector from a rule-based
// score result.
func (r ScoreResult) Features() Features {
	b := r.Breakdown
	return Features{
		MatchType:           ModeSolo,
		DistanceScore:       b.DestinationScore,
		DateOverlapScore:    b.DateOverlapScore,
		BudgetScore:         b.BudgetScore,
		InterestScore:       b.InterestScore,
		AgeScore:            b.AgeScore,
		PersonalityScore:    b.PersonalityScore,
		DestinationInterest: b.DestinationScore * b.InterestScore,
		DateBudget:          b.DateOverlapScore * b.BudgetScore,
	}
}
