package entities

// RiskLevel is the categorical leakage risk derived from the numeric score
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// Risk level thresholds on the 0-100 score scale
const (
	HighRiskThreshold   = 70
	MediumRiskThreshold = 40
)

// RiskLevelForScore derives the categorical level from a 0-100 score
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score >= HighRiskThreshold:
		return RiskLevelHigh
	case score >= MediumRiskThreshold:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// RiskFactors holds the per-factor sub-scores, each normalized to 0-100
type RiskFactors struct {
	Age                     int `json:"age"`
	DiagnosisComplexity     int `json:"diagnosis_complexity"`
	TimeSinceDischarge      int `json:"time_since_discharge"`
	InsuranceType           int `json:"insurance_type"`
	GeographicFactors       int `json:"geographic_factors"`
	PreviousReferralHistory int `json:"previous_referral_history"`
}

// RiskResult is the outcome of a leakage risk assessment. Computed on
// demand; never persisted by the engine itself.
type RiskResult struct {
	Score   int         `json:"score"`
	Level   RiskLevel   `json:"level"`
	Factors RiskFactors `json:"factors"`
}
