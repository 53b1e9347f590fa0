package matching

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/wandermate/wandermate/pkg/geodist"
)

// ownCityRadiusKm is the distance under which a traveler's home and
// destination count as the same place.
const ownCityRadiusKm = 25

// Blend proportions when an external pair scorer is available.
const (
	mlBlendWeight   = 0.7
	ruleBlendWeight = 0.3
)

// DefaultMatchLimit is the number of matches returned when no limit is set.
const DefaultMatchLimit = 10

// PairScorer is an optional external scorer (e.g. a trained model served
// over HTTP) whose output is blended with the rule-based score. Any error is
// treated as "scorer unavailable" and the rule-based score stands alone.
type PairScorer interface {
	Score(ctx context.Context, features Features) (float64, error)
}

// RankedMatch is one candidate with its scores and explanation attached.
type RankedMatch struct {
	Session *TravelSession
	// Score is the value candidates are ranked by: the blended score when an
	// external scorer contributed, otherwise the rule-based score.
	Score float64
	// RuleScore is the raw rule-based compatibility score, always present.
	RuleScore float64
	// MLScore is the external scorer's output, nil when unavailable.
	MLScore   *float64
	Breakdown ScoreBreakdown
	Weights   Weights
}

// RankerConfig holds configuration for the candidate ranker.
type RankerConfig struct {
	// Scorer is the optional external pair scorer. Nil disables blending.
	Scorer PairScorer

	// Logger for degraded-path visibility.
	Logger zerolog.Logger

	// Limit caps the number of returned matches (default: DefaultMatchLimit).
	Limit int
}

// Ranker scores a candidate pool against a requesting session and returns
// the top matches. It holds no mutable state beyond its configuration.
type Ranker struct {
	scorer PairScorer
	logger zerolog.Logger
	limit  int
}

// NewRanker creates a new Ranker.
func NewRanker(cfg RankerConfig) *Ranker {
	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultMatchLimit
	}
	return &Ranker{
		scorer: cfg.Scorer,
		logger: cfg.Logger,
		limit:  limit,
	}
}

// Rank scores every candidate against the requesting session and returns
// the top matches in descending score order. Candidates with no date
// overlap or a missing destination are excluded regardless of how strong
// their other factors are, as are pairs where either traveler is heading to
// their own city.
func (r *Ranker) Rank(ctx context.Context, self *TravelSession, candidates []*TravelSession, filters *FilterSelection) []RankedMatch {
	matches := make([]RankedMatch, 0, len(candidates))

	for _, candidate := range candidates {
		if candidate == nil || candidate.UserID == self.UserID {
			continue
		}
		if candidate.Destination == nil {
			continue
		}
		if travelingToOwnCity(self) || travelingToOwnCity(candidate) {
			continue
		}

		result := Score(self, candidate, filters)
		if result.Breakdown.DateOverlapScore == 0 {
			continue
		}

		match := RankedMatch{
			Session:   candidate,
			Score:     result.Score,
			RuleScore: result.Score,
			Breakdown: result.Breakdown,
			Weights:   result.Weights,
		}

		if r.scorer != nil {
			if mlScore, err := r.scorer.Score(ctx, result.Features()); err != nil {
				// Degraded path, not an error: fall back to the rule-based score.
				r.logger.Debug().Err(err).
					Str("candidate_user_id", candidate.UserID).
					Msg("external scorer unavailable, using rule-based score")
			} else {
				match.MLScore = &mlScore
				match.Score = mlScore*mlBlendWeight + result.Score*ruleBlendWeight
			}
		}

		matches = append(matches, match)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Session.UserID < matches[j].Session.UserID
	})

	if len(matches) > r.limit {
		matches = matches[:r.limit]
	}
	return matches
}

// travelingToOwnCity reports whether a session's destination is within
// ownCityRadiusKm of the traveler's home location.
func travelingToOwnCity(s *TravelSession) bool {
	home := s.StaticAttributes.Location
	if home == nil || s.Destination == nil {
		return false
	}
	km := geodist.HaversineKm(home.Lat, home.Lon, s.Destination.Lat, s.Destination.Lon)
	return km <= ownCityRadiusKm
}
