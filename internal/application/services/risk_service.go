package services

import (
	"math"
	"strings"
	"time"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/entities"
)

// Default sub-score when an input field is missing or unmatched. Partial
// patient records degrade to moderate risk instead of erroring.
const defaultFactorScore = 50

// RiskService computes leakage risk: the likelihood a discharged patient
// fails to complete required follow-up care. Stateless and synchronous;
// identical inputs always produce identical results.
type RiskService struct {
	wAge       float64
	wDiagnosis float64
	wTime      float64
	wInsurance float64
	wGeography float64
	wHistory   float64

	now func() time.Time
}

// NewRiskService creates a new risk service
func NewRiskService() *RiskService {
	return &RiskService{
		wAge:       0.25,
		wDiagnosis: 0.25,
		wTime:      0.15,
		wInsurance: 0.15,
		wGeography: 0.10,
		wHistory:   0.10,
		now:        time.Now,
	}
}

// Diagnosis complexity keyword tiers. Enumerated constant lists rather
// than anything dynamic, so the clinical scoring rule stays auditable.
var (
	highComplexityDiagnoses = []string{
		"heart surgery", "cardiac surgery", "bypass", "spine surgery",
		"spinal fusion", "transplant", "stroke", "aneurysm",
	}
	moderateComplexityDiagnoses = []string{
		"hip replacement", "knee replacement", "joint replacement",
		"fracture", "copd", "heart failure", "pneumonia",
	}
	lowComplexityDiagnoses = []string{
		"cataract surgery", "hernia repair", "appendectomy",
		"gallbladder", "carpal tunnel",
	}
)

// Insurance keyword risk scores. Public coverage correlates with higher
// follow-up leakage in the source population.
var insuranceRiskScores = []struct {
	keyword string
	score   int
}{
	{"medicaid", 85},
	{"medicare", 75},
	{"hmo", 60},
	{"kaiser", 60},
	{"blue cross", 25},
	{"united", 25},
	{"aetna", 25},
	{"cigna", 25},
}

// Geographic access tiers keyed by neighborhood keywords. Core-city
// patients sit closest to the follow-up network; risk grows with distance
// from it.
var (
	coreCityKeywords = []string{
		"boston", "cambridge", "longwood", "beacon hill", "back bay",
	}
	nearSuburbKeywords = []string{
		"somerville", "brookline", "medford", "malden", "quincy",
		"newton", "dorchester", "roxbury", "jamaica plain", "charlestown",
	}
	outerSuburbKeywords = []string{
		"waltham", "framingham", "lowell", "brockton", "worcester",
	}
)

// Calculate converts a patient record and optional referral history into a
// scored, levelled, explained risk result. Total over any partial patient:
// missing fields fall back to moderate defaults, they never error.
func (s *RiskService) Calculate(patient *entities.Patient, referrals []*entities.Referral) entities.RiskResult {
	now := s.now()

	factors := entities.RiskFactors{
		Age:                     s.ageRisk(patient, now),
		DiagnosisComplexity:     s.diagnosisRisk(patient.Diagnosis),
		TimeSinceDischarge:      s.timeRisk(patient, now),
		InsuranceType:           s.insuranceRisk(patient.Insurance),
		GeographicFactors:       s.geographicRisk(patient.Address),
		PreviousReferralHistory: s.referralHistoryRisk(referrals, now),
	}

	weighted := s.wAge*float64(factors.Age) +
		s.wDiagnosis*float64(factors.DiagnosisComplexity) +
		s.wTime*float64(factors.TimeSinceDischarge) +
		s.wInsurance*float64(factors.InsuranceType) +
		s.wGeography*float64(factors.GeographicFactors) +
		s.wHistory*float64(factors.PreviousReferralHistory)

	score := int(math.Round(clamp(weighted, 0, 100)))

	return entities.RiskResult{
		Score:   score,
		Level:   entities.RiskLevelForScore(score),
		Factors: factors,
	}
}

// ageRisk bands patient age into six fixed tiers normalized to 0-100
func (s *RiskService) ageRisk(patient *entities.Patient, now time.Time) int {
	age := patient.Age(now)
	if age < 0 {
		return defaultFactorScore
	}

	switch {
	case age >= 80:
		return 100
	case age >= 70:
		return 83
	case age >= 60:
		return 67
	case age >= 50:
		return 50
	case age >= 40:
		return 33
	default:
		return 17
	}
}

// diagnosisRisk scores diagnosis complexity by keyword membership
func (s *RiskService) diagnosisRisk(diagnosis string) int {
	if strings.TrimSpace(diagnosis) == "" {
		return defaultFactorScore
	}

	lowered := strings.ToLower(diagnosis)
	if containsAny(lowered, highComplexityDiagnoses) {
		return 85
	}
	if containsAny(lowered, moderateComplexityDiagnoses) {
		return 65
	}
	if containsAny(lowered, lowComplexityDiagnoses) {
		return 25
	}

	return defaultFactorScore
}

// timeRisk bands days since discharge into six fixed tiers normalized to
// 0-100. Risk compounds the longer follow-up goes unscheduled.
func (s *RiskService) timeRisk(patient *entities.Patient, now time.Time) int {
	days := patient.DaysSinceDischarge(now)
	if days < 0 {
		return defaultFactorScore
	}

	switch {
	case days >= 14:
		return 100
	case days >= 10:
		return 80
	case days >= 7:
		return 60
	case days >= 5:
		return 40
	case days >= 3:
		return 20
	default:
		return 5
	}
}

// insuranceRisk scores insurance by keyword lookup
func (s *RiskService) insuranceRisk(insurance string) int {
	if strings.TrimSpace(insurance) == "" {
		return defaultFactorScore
	}

	lowered := strings.ToLower(insurance)
	for _, entry := range insuranceRiskScores {
		if strings.Contains(lowered, entry.keyword) {
			return entry.score
		}
	}

	return defaultFactorScore
}

// geographicRisk scores follow-up access by neighborhood keyword. An
// address that matches no known neighborhood scores high; a missing
// address degrades to the moderate default instead.
func (s *RiskService) geographicRisk(address string) int {
	if strings.TrimSpace(address) == "" {
		return defaultFactorScore
	}

	lowered := strings.ToLower(address)
	if containsAny(lowered, coreCityKeywords) {
		return 20
	}
	if containsAny(lowered, nearSuburbKeywords) {
		return 35
	}
	if containsAny(lowered, outerSuburbKeywords) {
		return 55
	}

	return 80
}

// referralHistoryRisk accumulates risk points from past referral outcomes.
// No history at all (or an unavailable history fetch upstream) defaults to
// the moderate score.
func (s *RiskService) referralHistoryRisk(referrals []*entities.Referral, now time.Time) int {
	if len(referrals) == 0 {
		return defaultFactorScore
	}

	var cancelled, completed, pending int
	var lastActivity time.Time
	for _, r := range referrals {
		switch r.Status {
		case entities.ReferralStatusCancelled:
			cancelled++
		case entities.ReferralStatusCompleted:
			completed++
		case entities.ReferralStatusPending:
			pending++
		}
		if r.UpdatedAt.After(lastActivity) {
			lastActivity = r.UpdatedAt
		}
		if r.CreatedAt.After(lastActivity) {
			lastActivity = r.CreatedAt
		}
	}

	total := float64(len(referrals))
	cancellationRate := float64(cancelled) / total
	completionRate := float64(completed) / total

	score := 0

	switch {
	case cancellationRate >= 0.5:
		score += 40
	case cancellationRate >= 0.3:
		score += 25
	case cancellationRate >= 0.1:
		score += 10
	}

	switch {
	case completionRate < 0.3:
		score += 20
	case completionRate < 0.5:
		score += 10
	}

	switch {
	case pending >= 3:
		score += 15
	case pending >= 2:
		score += 8
	}

	if now.Sub(lastActivity) > 30*24*time.Hour {
		score += 15
	}

	return int(clamp(float64(score), 0, 100))
}

func containsAny(haystack string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
