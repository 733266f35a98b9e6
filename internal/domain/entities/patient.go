package entities

import (
	"time"
)

// ReferralStatus represents the lifecycle state of a referral
type ReferralStatus string

const (
	ReferralStatusPending   ReferralStatus = "pending"
	ReferralStatusSent      ReferralStatus = "sent"
	ReferralStatusScheduled ReferralStatus = "scheduled"
	ReferralStatusCompleted ReferralStatus = "completed"
	ReferralStatusCancelled ReferralStatus = "cancelled"
)

// IsValid reports whether the status is one of the known referral states
func (s ReferralStatus) IsValid() bool {
	switch s {
	case ReferralStatusPending, ReferralStatusSent, ReferralStatusScheduled,
		ReferralStatusCompleted, ReferralStatusCancelled:
		return true
	}
	return false
}

// Patient represents a discharged patient tracked by the coordination team.
// Records may be partial; the risk and match engines degrade to defaults
// rather than rejecting incomplete rows.
type Patient struct {
	ID               string     `json:"id" db:"id"`
	Name             string     `json:"name" db:"name"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Diagnosis        string     `json:"diagnosis" db:"diagnosis"`
	DischargeDate    *time.Time `json:"discharge_date,omitempty" db:"discharge_date"`
	RequiredFollowup string     `json:"required_followup" db:"required_followup"`
	Insurance        string     `json:"insurance" db:"insurance"`
	Address          string     `json:"address" db:"address"`

	// LeakageRiskScore and LeakageRiskLevel hold the most recently stored
	// risk assessment. They are prior values that a re-enhancement may
	// overwrite, never engine-owned state.
	LeakageRiskScore *int       `json:"leakage_risk_score,omitempty" db:"leakage_risk_score"`
	LeakageRiskLevel *RiskLevel `json:"leakage_risk_level,omitempty" db:"leakage_risk_level"`

	ReferralStatus ReferralStatus `json:"referral_status,omitempty" db:"referral_status"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// Age returns the patient's age in whole years at the given time, or -1 when
// the date of birth is unknown.
func (p *Patient) Age(now time.Time) int {
	if p.DateOfBirth == nil {
		return -1
	}
	years := now.Year() - p.DateOfBirth.Year()
	anniversary := p.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}

// DaysSinceDischarge returns whole days elapsed since discharge, or -1 when
// the discharge date is unknown.
func (p *Patient) DaysSinceDischarge(now time.Time) int {
	if p.DischargeDate == nil {
		return -1
	}
	days := int(now.Sub(*p.DischargeDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
