package entities

import (
	"time"
)

// Referral represents one past or in-flight referral of a patient to a
// provider. The risk engine only consumes status and the two timestamps;
// the remaining fields exist for the coordination workflow around it.
type Referral struct {
	ID         string         `json:"id" db:"id"`
	PatientID  string         `json:"patient_id" db:"patient_id"`
	ProviderID string         `json:"provider_id,omitempty" db:"provider_id"`
	Status     ReferralStatus `json:"status" db:"status"`
	Notes      string         `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}
