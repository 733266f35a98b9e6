package services

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/entities"
	"github.com/zatekoja/Caretransitiondesign/internal/domain/providers"
)

// fakeGeoProvider returns canned coordinates per address and approximates
// distance from the coordinate delta, so tests control geography exactly
type fakeGeoProvider struct {
	coords  map[string]providers.Coordinates
	failFor map[string]bool
}

func (f *fakeGeoProvider) Geocode(_ context.Context, address string) (*providers.Coordinates, error) {
	if f.failFor[address] {
		return nil, fmt.Errorf("geocoding unavailable for %q", address)
	}
	if c, ok := f.coords[address]; ok {
		return &c, nil
	}
	return &providers.Coordinates{Latitude: 42.3601, Longitude: -71.0589}, nil
}

func (f *fakeGeoProvider) DistanceMiles(_ context.Context, from, to providers.Coordinates) (float64, error) {
	dLat := from.Latitude - to.Latitude
	dLon := from.Longitude - to.Longitude
	return math.Sqrt(dLat*dLat+dLon*dLon) * 69, nil
}

func newTestMatchService(geo providers.GeolocationProvider) *MatchService {
	svc := NewMatchService(geo, 3)
	svc.now = fixedNow
	return svc
}

func testPatient() *entities.Patient {
	return &entities.Patient{
		ID:               "p1",
		Name:             "Margaret Thompson",
		Insurance:        "Medicare",
		Address:          "45 Beacon St, Boston, MA",
		RequiredFollowup: "Physical Therapy",
	}
}

func ptProvider(id string, lat, lon float64) *entities.Provider {
	return &entities.Provider{
		ID:                id,
		Name:              "Provider " + id,
		ProviderType:      "Physical Therapy",
		Specialties:       []string{"Physical Therapy"},
		InNetworkPlans:    []string{"Medicare"},
		AcceptedInsurance: []string{"Medicare", "Aetna"},
		Rating:            4.0,
		Location:          &entities.Location{Latitude: lat, Longitude: lon},
		AvailabilityNext:  "this week",
		IsActive:          true,
	}
}

func TestFindMatches_RanksByDescendingScore(t *testing.T) {
	geo := &fakeGeoProvider{coords: map[string]providers.Coordinates{
		"45 Beacon St, Boston, MA": {Latitude: 42.3601, Longitude: -71.0589},
	}}
	svc := newTestMatchService(geo)

	near := ptProvider("near", 42.3601, -71.0589)
	far := ptProvider("far", 42.6334, -71.3162)
	outOfNetwork := ptProvider("oon", 42.3601, -71.0589)
	outOfNetwork.InNetworkPlans = nil
	outOfNetwork.AcceptedInsurance = []string{"Cigna"}

	matches := svc.FindMatches(context.Background(), []*entities.Provider{far, outOfNetwork, near}, testPatient(), 3)

	require.Len(t, matches, 3)
	assert.Equal(t, "near", matches[0].Provider.ID)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].MatchScore, matches[i].MatchScore)
	}
}

func TestFindMatches_TruncatesToLimit(t *testing.T) {
	geo := &fakeGeoProvider{}
	svc := newTestMatchService(geo)

	list := []*entities.Provider{
		ptProvider("a", 42.36, -71.05),
		ptProvider("b", 42.37, -71.06),
		ptProvider("c", 42.38, -71.07),
		ptProvider("d", 42.39, -71.08),
	}

	matches := svc.FindMatches(context.Background(), list, testPatient(), 2)
	assert.Len(t, matches, 2)

	// limit larger than the batch returns everything
	matches = svc.FindMatches(context.Background(), list, testPatient(), 10)
	assert.Len(t, matches, 4)
}

func TestFindMatches_DefaultLimitWhenZero(t *testing.T) {
	geo := &fakeGeoProvider{}
	svc := newTestMatchService(geo)

	list := []*entities.Provider{
		ptProvider("a", 42.36, -71.05),
		ptProvider("b", 42.37, -71.06),
		ptProvider("c", 42.38, -71.07),
		ptProvider("d", 42.39, -71.08),
	}

	matches := svc.FindMatches(context.Background(), list, testPatient(), 0)
	assert.Len(t, matches, 3)
}

func TestFindMatches_InvalidBatchReturnsEmpty(t *testing.T) {
	geo := &fakeGeoProvider{}
	svc := newTestMatchService(geo)
	ctx := context.Background()
	list := []*entities.Provider{ptProvider("a", 42.36, -71.05)}

	assert.Empty(t, svc.FindMatches(ctx, nil, testPatient(), 3))
	assert.Empty(t, svc.FindMatches(ctx, list, nil, 3))

	noAddress := testPatient()
	noAddress.Address = "  "
	assert.Empty(t, svc.FindMatches(ctx, list, noAddress, 3))

	noInsurance := testPatient()
	noInsurance.Insurance = ""
	assert.Empty(t, svc.FindMatches(ctx, list, noInsurance, 3))

	noFollowup := testPatient()
	noFollowup.RequiredFollowup = ""
	assert.Empty(t, svc.FindMatches(ctx, list, noFollowup, 3))
}

func TestFindMatches_SentinelForUnscorableProvider(t *testing.T) {
	geo := &fakeGeoProvider{failFor: map[string]bool{"unknown address": true}}
	svc := newTestMatchService(geo)

	good := ptProvider("good", 42.3601, -71.0589)
	broken := ptProvider("broken", 0, 0)
	broken.Location = nil
	broken.Address = "unknown address"

	matches := svc.FindMatches(context.Background(), []*entities.Provider{broken, good}, testPatient(), 3)

	require.Len(t, matches, 2)
	assert.Equal(t, "good", matches[0].Provider.ID)

	sentinel := matches[1]
	assert.Equal(t, "broken", sentinel.Provider.ID)
	assert.Equal(t, sentinelMatchScore, sentinel.MatchScore)
	assert.Equal(t, sentinelDistanceMiles, sentinel.DistanceMiles)
	assert.False(t, sentinel.InNetwork)
	assert.Equal(t, []string{"Error calculating match score"}, sentinel.Explanation.Reasons)
}

func TestFindMatches_PatientGeocodeFailureFallsBackToDefault(t *testing.T) {
	geo := &fakeGeoProvider{failFor: map[string]bool{"45 Beacon St, Boston, MA": true}}
	svc := newTestMatchService(geo)

	near := ptProvider("near", 42.3601, -71.0589)
	matches := svc.FindMatches(context.Background(), []*entities.Provider{near}, testPatient(), 3)

	require.Len(t, matches, 1)
	// default city-center coordinates put this provider at zero distance
	assert.Less(t, matches[0].DistanceMiles, 1.0)
}

func TestScoreProvider_ExplanationHasFiveReasons(t *testing.T) {
	geo := &fakeGeoProvider{}
	svc := newTestMatchService(geo)

	provider := ptProvider("a", 42.3601, -71.0589)
	match, err := svc.scoreProvider(context.Background(), provider, testPatient(), providers.Coordinates{Latitude: 42.3601, Longitude: -71.0589})

	require.NoError(t, err)
	require.Len(t, match.Explanation.Reasons, 5)
	assert.Equal(t, "In-network with Medicare", match.Explanation.Reasons[0])
	assert.Equal(t, "Specializes in physical therapy", match.Explanation.Reasons[1])
	assert.Equal(t, "Less than a mile away", match.Explanation.Reasons[2])
	assert.True(t, match.InNetwork)
}

func TestIsInNetwork_FuzzyMatchBothDirections(t *testing.T) {
	provider := &entities.Provider{
		InNetworkPlans: []string{"Blue Cross Blue Shield MA"},
	}

	// patient plan is a substring of the provider plan
	assert.True(t, isInNetwork(provider, "Blue Cross Blue Shield"))
	// provider plan is a substring of the patient plan
	provider.InNetworkPlans = []string{"Medicare"}
	assert.True(t, isInNetwork(provider, "Medicare Advantage"))

	assert.False(t, isInNetwork(provider, "Cigna"))
	assert.False(t, isInNetwork(provider, ""))
}

func TestIsInNetwork_FallsBackToAcceptedInsurance(t *testing.T) {
	provider := &entities.Provider{
		InNetworkPlans:    []string{"Cigna"},
		AcceptedInsurance: []string{"Aetna"},
	}

	assert.True(t, isInNetwork(provider, "Aetna PPO"))
}

func TestSpecialtyMatches_SynonymDomains(t *testing.T) {
	provider := &entities.Provider{
		ProviderType: "Rehabilitation Center",
		Specialties:  []string{"Sports Medicine"},
	}

	// "rehab" and "physical therapy" share a synonym domain
	assert.True(t, specialtyMatches(provider, "Physical Therapy"))

	cardiology := &entities.Provider{ProviderType: "Cardiology"}
	assert.True(t, specialtyMatches(cardiology, "cardiac rehab follow-up"))
	assert.False(t, specialtyMatches(cardiology, "Dermatology"))
	assert.False(t, specialtyMatches(cardiology, ""))
}

func TestProximityScore_Bands(t *testing.T) {
	tests := []struct {
		miles float64
		want  int
	}{
		{0.5, 100},
		{2, 90},
		{4, 80},
		{9, 70},
		{12, 60},
		{18, 50},
		{25, 40},
		{45, 30},
		{55, 25},
		{120, 18},
		{400, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, proximityScore(tt.miles), "%.1f miles", tt.miles)
	}
}

func TestProximityScore_NonIncreasing(t *testing.T) {
	prev := proximityScore(0)
	for d := 0.5; d < 300; d += 0.5 {
		cur := proximityScore(d)
		assert.LessOrEqual(t, cur, prev, "at %.1f miles", d)
		prev = cur
	}
}

func TestRatingScore_LinearMapping(t *testing.T) {
	assert.Equal(t, 100, ratingScore(5))
	assert.Equal(t, 80, ratingScore(4))
	assert.Equal(t, 50, ratingScore(2.5))
	assert.Equal(t, 0, ratingScore(0))
	// out-of-range ratings clamp
	assert.Equal(t, 100, ratingScore(9))
	assert.Equal(t, 0, ratingScore(-1))
}
