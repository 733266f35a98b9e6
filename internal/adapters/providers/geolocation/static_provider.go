package geolocation

import (
	"context"
	"math"
	"strings"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/providers"
)

// EarthRadiusMiles is the mean Earth radius used for haversine distances
const EarthRadiusMiles = 3959.0

// StaticProvider implements GeolocationProvider with a fixed keyword table
// of Boston-area neighborhoods. It stands in for a real geocoding API; the
// narrow string -> coordinates contract lets one substitute for the other
// without touching match scoring.
type StaticProvider struct{}

// NewStaticProvider creates a new static geolocation provider
func NewStaticProvider() providers.GeolocationProvider {
	return &StaticProvider{}
}

// defaultCoordinates is downtown Boston, returned for unmatched addresses
var defaultCoordinates = providers.Coordinates{Latitude: 42.3601, Longitude: -71.0589}

// neighborhoodCoordinates maps lowercase neighborhood keywords to
// coordinates. An ordered table rather than a map: specific neighborhood
// names come before city names, and first match wins, so an address
// mentioning both resolves the same way every time.
var neighborhoodCoordinates = []struct {
	keyword string
	coords  providers.Coordinates
}{
	{"jamaica plain", providers.Coordinates{Latitude: 42.3098, Longitude: -71.1203}},
	{"beacon hill", providers.Coordinates{Latitude: 42.3588, Longitude: -71.0707}},
	{"back bay", providers.Coordinates{Latitude: 42.3503, Longitude: -71.0810}},
	{"longwood", providers.Coordinates{Latitude: 42.3389, Longitude: -71.1073}},
	{"charlestown", providers.Coordinates{Latitude: 42.3782, Longitude: -71.0602}},
	{"dorchester", providers.Coordinates{Latitude: 42.3016, Longitude: -71.0676}},
	{"roxbury", providers.Coordinates{Latitude: 42.3152, Longitude: -71.0914}},
	{"allston", providers.Coordinates{Latitude: 42.3539, Longitude: -71.1337}},
	{"brighton", providers.Coordinates{Latitude: 42.3464, Longitude: -71.1627}},
	{"cambridge", providers.Coordinates{Latitude: 42.3736, Longitude: -71.1097}},
	{"somerville", providers.Coordinates{Latitude: 42.3876, Longitude: -71.0995}},
	{"brookline", providers.Coordinates{Latitude: 42.3318, Longitude: -71.1212}},
	{"newton", providers.Coordinates{Latitude: 42.3370, Longitude: -71.2092}},
	{"quincy", providers.Coordinates{Latitude: 42.2529, Longitude: -71.0023}},
	{"medford", providers.Coordinates{Latitude: 42.4184, Longitude: -71.1062}},
	{"malden", providers.Coordinates{Latitude: 42.4251, Longitude: -71.0662}},
	{"waltham", providers.Coordinates{Latitude: 42.3765, Longitude: -71.2356}},
	{"framingham", providers.Coordinates{Latitude: 42.2793, Longitude: -71.4162}},
	{"lowell", providers.Coordinates{Latitude: 42.6334, Longitude: -71.3162}},
	{"brockton", providers.Coordinates{Latitude: 42.0834, Longitude: -71.0184}},
	{"worcester", providers.Coordinates{Latitude: 42.2626, Longitude: -71.8023}},
	{"boston", providers.Coordinates{Latitude: 42.3601, Longitude: -71.0589}},
}

// Geocode converts an address to coordinates by case-insensitive keyword
// match, falling back to the city-center default
func (p *StaticProvider) Geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	lowered := strings.ToLower(address)
	for _, entry := range neighborhoodCoordinates {
		if strings.Contains(lowered, entry.keyword) {
			c := entry.coords
			return &c, nil
		}
	}

	c := defaultCoordinates
	return &c, nil
}

// DistanceMiles calculates the great-circle distance between two points
// using the haversine formula
func (p *StaticProvider) DistanceMiles(ctx context.Context, from, to providers.Coordinates) (float64, error) {
	return Haversine(from, to), nil
}

// Haversine returns the great-circle distance between two points in miles.
// Symmetric, and zero for identical points.
func Haversine(from, to providers.Coordinates) float64 {
	lat1Rad := toRadians(from.Latitude)
	lat2Rad := toRadians(to.Latitude)
	deltaLat := toRadians(to.Latitude - from.Latitude)
	deltaLon := toRadians(to.Longitude - from.Longitude)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMiles * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
