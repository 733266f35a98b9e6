package providers

import (
	"context"
)

// GeolocationProvider defines the interface for geolocation services. The
// string -> coordinates contract is deliberately narrow so the static
// keyword table can be replaced by a real geocoding API without touching
// the scoring logic that consumes it.
type GeolocationProvider interface {
	// Geocode converts a free-text address to coordinates
	Geocode(ctx context.Context, address string) (*Coordinates, error)

	// DistanceMiles calculates the great-circle distance between two
	// points in miles
	DistanceMiles(ctx context.Context, from, to Coordinates) (float64, error)
}

// Coordinates represents geographical coordinates
type Coordinates struct {
	Latitude  float64
	Longitude float64
}
