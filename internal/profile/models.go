// Package profile manages the durable user profiles whose attributes are
// snapshotted into travel sessions at creation time.
package profile

import (
	"time"

	"github.com/wandermate/wandermate/internal/matching"
)

// Profile is a user's durable matching profile.
type Profile struct {
	UserID string `json:"userId"`

	// Email receives match alerts when email delivery is enabled.
	Email string `json:"email,omitempty"`

	Age         int    `json:"age,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Personality string `json:"personality,omitempty"`

	// HomeCity is the user's home base; HomeLat/HomeLon are its coordinates
	// when known. Used for the own-city exclusion and origin proximity.
	HomeCity string   `json:"homeCity,omitempty"`
	HomeLat  *float64 `json:"homeLat,omitempty"`
	HomeLon  *float64 `json:"homeLon,omitempty"`

	Smoking     string   `json:"smoking,omitempty"`
	Drinking    string   `json:"drinking,omitempty"`
	Religion    string   `json:"religion,omitempty"`
	Nationality string   `json:"nationality,omitempty"`
	Languages   []string `json:"languages,omitempty"`
	Profession  string   `json:"profession,omitempty"`

	Interests []string `json:"interests,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StaticAttributes converts the profile into the attribute snapshot stored
// on a travel session.
func (p *Profile) StaticAttributes() matching.StaticAttributes {
	attrs := matching.StaticAttributes{
		Age:         p.Age,
		Gender:      p.Gender,
		Personality: p.Personality,
		Smoking:     p.Smoking,
		Drinking:    p.Drinking,
		Religion:    p.Religion,
		Nationality: p.Nationality,
		Languages:   append([]string(nil), p.Languages...),
		Profession:  p.Profession,
	}
	if p.HomeLat != nil && p.HomeLon != nil {
		attrs.Location = &matching.Coordinate{Lat: *p.HomeLat, Lon: *p.HomeLon}
	}
	return attrs
}

// copyProfile returns a deep copy to prevent mutation through shared slices.
func copyProfile(p *Profile) *Profile {
	copied := *p
	copied.Languages = append([]string(nil), p.Languages...)
	copied.Interests = append([]string(nil), p.Interests...)
	if p.HomeLat != nil {
		lat := *p.HomeLat
		copied.HomeLat = &lat
	}
	if p.HomeLon != nil {
		lon := *p.HomeLon
		copied.HomeLon = &lon
	}
	return &copied
}
