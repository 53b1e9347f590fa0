// Package geocoding resolves destination names to coordinates, with a Redis
// cache in front of the upstream provider.
package geocoding

import "context"

// Place is one geocoding result.
type Place struct {
	// Name is the formatted place name.
	Name string

	// City, State and Country break the place down, when known.
	City    string
	State   string
	Country string

	Lat float64
	Lon float64
}

// Provider looks up places by free-text query. Implementations return an
// empty slice when nothing matches.
type Provider interface {
	Search(ctx context.Context, query string) ([]Place, error)
}
