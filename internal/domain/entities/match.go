package entities

// MatchExplanation carries the sub-scores behind a provider match plus the
// human-readable reasons shown to coordinators. Reasons are ordered, never
// empty for a successfully scored provider, and never duplicated.
type MatchExplanation struct {
	DistanceScore     int      `json:"distance_score"`
	InsuranceScore    int      `json:"insurance_score"`
	AvailabilityScore int      `json:"availability_score"`
	SpecialtyScore    int      `json:"specialty_score"`
	RatingScore       int      `json:"rating_score"`
	Reasons           []string `json:"reasons"`
}

// ProviderMatch is one ranked candidate provider for a patient's referral
// need
type ProviderMatch struct {
	Provider      *Provider        `json:"provider"`
	MatchScore    int              `json:"match_score"`
	DistanceMiles float64          `json:"distance_miles"`
	InNetwork     bool             `json:"in_network"`
	Explanation   MatchExplanation `json:"explanation"`
}
