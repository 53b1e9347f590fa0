package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wandermate/wandermate/internal/api/models"
	"github.com/wandermate/wandermate/internal/api/response"
	"github.com/wandermate/wandermate/internal/matching"
	"github.com/wandermate/wandermate/internal/session"
)

// maxMatchLimit caps the requested result size.
const maxMatchLimit = 50

// MatchHandler handles companion matching endpoints.
type MatchHandler struct {
	sessions *session.Service
	scorer   matching.PairScorer
	logger   zerolog.Logger
}

// NewMatchHandler creates a new MatchHandler. The scorer is optional; when
// nil, matches are ranked by the rule-based score alone.
func NewMatchHandler(sessions *session.Service, scorer matching.PairScorer, logger zerolog.Logger) *MatchHandler {
	return &MatchHandler{sessions: sessions, scorer: scorer, logger: logger}
}

// SoloMatches handles GET /v1/matches/solo - ranked companions for the
// requesting user's active search.
func (h *MatchHandler) SoloMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		response.BadRequest(w, r, "validation failed", []models.FieldError{
			{Field: "userId", Message: "must not be empty"},
		})
		return
	}

	limit, fieldErr := parseLimit(r.URL.Query().Get("limit"))
	if fieldErr != nil {
		response.BadRequest(w, r, "validation failed", []models.FieldError{*fieldErr})
		return
	}

	filters := parseFilters(r)

	ctx := r.Context()

	self, err := h.sessions.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			response.NotFound(w, r, "travel session")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	candidates, err := h.sessions.ListCandidates(ctx, userID)
	if err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}

	ranker := matching.NewRanker(matching.RankerConfig{
		Scorer: h.scorer,
		Logger: h.logger,
		Limit:  limit,
	})
	ranked := ranker.Rank(ctx, self, candidates, filters)

	matches := make([]models.Match, 0, len(ranked))
	for _, m := range ranked {
		matches = append(matches, models.NewMatch(self, m))
	}

	response.JSON(w, r, http.StatusOK, models.MatchList{
		Matches: matches,
		Count:   len(matches),
	})
}

func parseLimit(raw string) (int, *models.FieldError) {
	if raw == "" {
		return matching.DefaultMatchLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, &models.FieldError{Field: "limit", Message: "must be a positive integer"}
	}
	if limit > maxMatchLimit {
		limit = maxMatchLimit
	}
	return limit, nil
}

// parseFilters builds the filter selection from query parameters. Absent
// parameters leave the base weights untouched.
func parseFilters(r *http.Request) *matching.FilterSelection {
	q := r.URL.Query()
	filters := &matching.FilterSelection{}

	if minRaw, maxRaw := q.Get("ageMin"), q.Get("ageMax"); minRaw != "" || maxRaw != "" {
		min, _ := strconv.Atoi(minRaw)
		max, _ := strconv.Atoi(maxRaw)
		filters.Age = &matching.RangeFilter{Min: min, Max: max}
	}
	if v := q.Get("gender"); v != "" {
		filters.Gender = &matching.ValueFilter{Value: v}
	}
	if v := q.Get("personality"); v != "" {
		filters.Personality = &matching.ValueFilter{Value: v}
	}
	if v := q.Get("interests"); v != "" {
		filters.Interests = &matching.ValuesFilter{Values: strings.Split(v, ",")}
	}
	if v := q.Get("religion"); v != "" {
		filters.Religion = &matching.ValueFilter{Value: v}
	}
	if v := q.Get("smoking"); v != "" {
		filters.Smoking = &matching.ValueFilter{Value: v}
	}
	if v := q.Get("drinking"); v != "" {
		filters.Drinking = &matching.ValueFilter{Value: v}
	}

	if filters.Empty() {
		return nil
	}
	return filters
}
