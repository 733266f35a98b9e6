package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/entities"
	"github.com/zatekoja/Caretransitiondesign/internal/domain/providers"
	"github.com/zatekoja/Caretransitiondesign/internal/infrastructure/observability"
)

// Distance recorded on a sentinel match when a provider could not be
// scored
const sentinelDistanceMiles = 999.0

// Score assigned to a provider whose match computation failed, keeping it
// rankable at the bottom of the list instead of aborting the batch
const sentinelMatchScore = 10

// MatchService ranks candidate providers against a patient's referral
// need. Stateless and synchronous; it runs purely over the in-memory
// provider list.
type MatchService struct {
	geo providers.GeolocationProvider

	wDistance     float64
	wInsurance    float64
	wAvailability float64
	wSpecialty    float64
	wRating       float64

	defaultLimit int
	now          func() time.Time
	logger       zerolog.Logger
}

// NewMatchService creates a new match service
func NewMatchService(geo providers.GeolocationProvider, defaultLimit int) *MatchService {
	if defaultLimit <= 0 {
		defaultLimit = 3
	}
	return &MatchService{
		geo:           geo,
		wDistance:     0.25,
		wInsurance:    0.30,
		wAvailability: 0.15,
		wSpecialty:    0.20,
		wRating:       0.10,
		defaultLimit:  defaultLimit,
		now:           time.Now,
		logger:        observability.ComponentLogger("match_engine"),
	}
}

// specialtySynonyms groups equivalent follow-up care terms. Two terms
// match when both fall into the same domain, so "rehab" finds a provider
// listed under "physical therapy".
var specialtySynonyms = map[string][]string{
	"physical therapy":  {"pt", "physical therapy", "physiotherapy", "rehab", "rehabilitation", "sports medicine"},
	"cardiology":        {"cardiology", "cardiac", "heart", "cardiovascular"},
	"orthopedics":       {"orthopedics", "orthopedic", "ortho", "bone", "joint"},
	"neurology":         {"neurology", "neuro", "neurological"},
	"primary care":      {"primary care", "family medicine", "internal medicine", "general practice", "pcp"},
	"home health":       {"home health", "home care", "visiting nurse", "vna"},
	"wound care":        {"wound care", "wound"},
	"oncology":          {"oncology", "cancer"},
	"behavioral health": {"behavioral health", "mental health", "psychiatry", "counseling"},
	"endocrinology":     {"endocrinology", "diabetes"},
}

// matchOutcome is the tagged per-provider result: exactly one of match or
// err is set. Failures are isolated here instead of aborting the batch.
type matchOutcome struct {
	provider *entities.Provider
	match    *entities.ProviderMatch
	err      error
}

// FindMatches scores every provider against the patient's referral need
// and returns the top matches, sorted by descending match score. Invalid
// batch input short-circuits to an empty result with a logged warning; it
// never errors back to the caller.
func (s *MatchService) FindMatches(ctx context.Context, providerList []*entities.Provider, patient *entities.Patient, limit int) []*entities.ProviderMatch {
	if limit <= 0 {
		limit = s.defaultLimit
	}

	if reason := s.validateBatch(providerList, patient); reason != "" {
		s.logger.Warn().Str("reason", reason).Msg("provider matching skipped")
		return []*entities.ProviderMatch{}
	}

	patientCoords, err := s.geo.Geocode(ctx, patient.Address)
	if err != nil {
		s.logger.Warn().Err(err).Msg("patient geocoding failed, using city-center default")
		patientCoords = &providers.Coordinates{Latitude: 42.3601, Longitude: -71.0589}
	}

	outcomes := make([]matchOutcome, 0, len(providerList))
	for _, provider := range providerList {
		match, err := s.scoreProvider(ctx, provider, patient, *patientCoords)
		outcomes = append(outcomes, matchOutcome{provider: provider, match: match, err: err})
	}

	matches := make([]*entities.ProviderMatch, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.err != nil {
			s.logger.Warn().Err(outcome.err).Msg("match computation failed for provider, using sentinel score")
			matches = append(matches, sentinelMatch(outcome.provider))
			continue
		}
		matches = append(matches, outcome.match)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches
}

// validateBatch returns a non-empty reason when the whole batch is
// unservable
func (s *MatchService) validateBatch(providerList []*entities.Provider, patient *entities.Patient) string {
	switch {
	case len(providerList) == 0:
		return "empty provider list"
	case patient == nil:
		return "missing patient"
	case strings.TrimSpace(patient.Address) == "":
		return "patient has no address"
	case strings.TrimSpace(patient.Insurance) == "":
		return "patient has no insurance"
	case strings.TrimSpace(patient.RequiredFollowup) == "":
		return "patient has no required follow-up"
	}
	return ""
}

// scoreProvider computes one tagged match result
func (s *MatchService) scoreProvider(ctx context.Context, provider *entities.Provider, patient *entities.Patient, patientCoords providers.Coordinates) (*entities.ProviderMatch, error) {
	if provider == nil {
		return nil, fmt.Errorf("nil provider record")
	}

	providerCoords, err := s.providerCoordinates(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("geocoding provider %s: %w", provider.ID, err)
	}

	distance, err := s.geo.DistanceMiles(ctx, patientCoords, providerCoords)
	if err != nil {
		return nil, fmt.Errorf("distance for provider %s: %w", provider.ID, err)
	}

	inNetwork := isInNetwork(provider, patient.Insurance)
	specialtyOK := specialtyMatches(provider, patient.RequiredFollowup)

	distanceScore := proximityScore(distance)
	insuranceScore := 30
	if inNetwork {
		insuranceScore = 100
	}
	specialtyScore := 20
	if specialtyOK {
		specialtyScore = 100
	}
	availScore := availabilityScore(provider.AvailabilityNext, s.now())
	ratingScore := ratingScore(provider.Rating)

	weighted := s.wDistance*float64(distanceScore) +
		s.wInsurance*float64(insuranceScore) +
		s.wAvailability*float64(availScore) +
		s.wSpecialty*float64(specialtyScore) +
		s.wRating*float64(ratingScore)

	matchScore := int(math.Round(clamp(weighted, 0, 100)))

	explanation := entities.MatchExplanation{
		DistanceScore:     distanceScore,
		InsuranceScore:    insuranceScore,
		AvailabilityScore: availScore,
		SpecialtyScore:    specialtyScore,
		RatingScore:       ratingScore,
		Reasons: buildReasons(
			patient, provider, inNetwork, specialtyOK, distance, availScore,
		),
	}

	return &entities.ProviderMatch{
		Provider:      provider,
		MatchScore:    matchScore,
		DistanceMiles: distance,
		InNetwork:     inNetwork,
		Explanation:   explanation,
	}, nil
}

func (s *MatchService) providerCoordinates(ctx context.Context, provider *entities.Provider) (providers.Coordinates, error) {
	if provider.Location != nil {
		return providers.Coordinates{
			Latitude:  provider.Location.Latitude,
			Longitude: provider.Location.Longitude,
		}, nil
	}

	coords, err := s.geo.Geocode(ctx, provider.Address)
	if err != nil {
		return providers.Coordinates{}, err
	}
	return *coords, nil
}

// proximityScore maps distance in miles to a monotonically non-increasing
// 0-100 step score
func proximityScore(distanceMiles float64) int {
	switch {
	case distanceMiles < 1:
		return 100
	case distanceMiles < 3:
		return 90
	case distanceMiles < 5:
		return 80
	case distanceMiles < 10:
		return 70
	case distanceMiles < 15:
		return 60
	case distanceMiles < 20:
		return 50
	case distanceMiles < 30:
		return 40
	case distanceMiles < 50:
		return 30
	default:
		score := 25 - int((distanceMiles-50)/10)
		if score < 0 {
			score = 0
		}
		return score
	}
}

// isInNetwork checks the patient's insurance against the provider's
// in-network plans first, then accepted insurance, by exact or substring
// match in either direction, case-insensitive
func isInNetwork(provider *entities.Provider, insurance string) bool {
	if strings.TrimSpace(insurance) == "" {
		return false
	}
	if anyPlanMatches(provider.InNetworkPlans, insurance) {
		return true
	}
	return anyPlanMatches(provider.AcceptedInsurance, insurance)
}

func anyPlanMatches(plans []string, insurance string) bool {
	for _, plan := range plans {
		if fuzzyTermMatch(plan, insurance) {
			return true
		}
	}
	return false
}

// specialtyMatches checks provider type and specialties against the
// required follow-up, directly or through the synonym table
func specialtyMatches(provider *entities.Provider, requiredFollowup string) bool {
	if strings.TrimSpace(requiredFollowup) == "" {
		return false
	}

	terms := append([]string{provider.ProviderType}, provider.Specialties...)
	for _, term := range terms {
		if fuzzyTermMatch(term, requiredFollowup) {
			return true
		}
		if sameSpecialtyDomain(term, requiredFollowup) {
			return true
		}
	}
	return false
}

// sameSpecialtyDomain reports whether both terms map into the same entry
// of the synonym table
func sameSpecialtyDomain(a, b string) bool {
	for _, synonyms := range specialtySynonyms {
		if termInList(a, synonyms) && termInList(b, synonyms) {
			return true
		}
	}
	return false
}

func termInList(term string, synonyms []string) bool {
	for _, synonym := range synonyms {
		if fuzzyTermMatch(term, synonym) {
			return true
		}
	}
	return false
}

// fuzzyTermMatch is the shared matching rule: exact or substring in either
// direction, case-insensitive
func fuzzyTermMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// ratingScore maps the 0-5 star rating linearly onto 0-100
func ratingScore(rating float64) int {
	return int(math.Round(clamp(rating, 0, 5) / 5 * 100))
}

// buildReasons produces the ordered human-readable explanation. One reason
// per sub-score band; never empty for a scored provider.
func buildReasons(patient *entities.Patient, provider *entities.Provider, inNetwork, specialtyOK bool, distance float64, availScore int) []string {
	reasons := make([]string, 0, 5)

	if inNetwork {
		reasons = append(reasons, fmt.Sprintf("In-network with %s", patient.Insurance))
	} else {
		reasons = append(reasons, "Out-of-network - verify coverage before referring")
	}

	if specialtyOK {
		reasons = append(reasons, fmt.Sprintf("Specializes in %s", strings.ToLower(patient.RequiredFollowup)))
	} else {
		reasons = append(reasons, "No direct specialty match for the required follow-up")
	}

	switch {
	case distance < 1:
		reasons = append(reasons, "Less than a mile away")
	case distance < 5:
		reasons = append(reasons, fmt.Sprintf("Nearby - %.1f miles away", distance))
	case distance < 15:
		reasons = append(reasons, fmt.Sprintf("%.1f miles away", distance))
	case distance < 30:
		reasons = append(reasons, fmt.Sprintf("Farther out - %.1f miles away", distance))
	default:
		reasons = append(reasons, fmt.Sprintf("Long travel distance - %.1f miles", distance))
	}

	switch {
	case availScore >= 95:
		reasons = append(reasons, "Can see the patient immediately")
	case availScore >= 80:
		reasons = append(reasons, "Available this week")
	case availScore >= 50:
		reasons = append(reasons, "Available within two weeks")
	case availScore >= 25:
		reasons = append(reasons, "Available within a month or two")
	case availScore > 0:
		reasons = append(reasons, "Limited near-term availability")
	default:
		reasons = append(reasons, "No availability information on file")
	}

	switch {
	case provider.Rating >= 4.5:
		reasons = append(reasons, fmt.Sprintf("Excellent patient rating (%.1f/5)", provider.Rating))
	case provider.Rating >= 3.5:
		reasons = append(reasons, fmt.Sprintf("Good patient rating (%.1f/5)", provider.Rating))
	case provider.Rating > 0:
		reasons = append(reasons, fmt.Sprintf("Patient rating %.1f/5", provider.Rating))
	default:
		reasons = append(reasons, "Not yet rated")
	}

	return reasons
}

// sentinelMatch is the low-score placeholder for a provider whose match
// computation failed
func sentinelMatch(provider *entities.Provider) *entities.ProviderMatch {
	return &entities.ProviderMatch{
		Provider:      provider,
		MatchScore:    sentinelMatchScore,
		DistanceMiles: sentinelDistanceMiles,
		InNetwork:     false,
		Explanation: entities.MatchExplanation{
			Reasons: []string{"Error calculating match score"},
		},
	}
}
