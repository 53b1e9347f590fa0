package models

import "github.com/wandermate/wandermate/internal/matching"

// SessionInput is the payload for POST /v1/sessions.
type SessionInput struct {
	UserID      string  `json:"userId"`
	Destination string  `json:"destination"`
	Budget      float64 `json:"budget"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
}

// Session is the API representation of an active travel search.
type Session struct {
	*matching.TravelSession

	// ExpiresInSeconds is the configured session lifetime.
	ExpiresInSeconds int64 `json:"expiresInSeconds"`
}
