package entities

import (
	"time"
)

// Provider represents a follow-up care provider that patients can be
// referred to after discharge
type Provider struct {
	ID                string    `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	ProviderType      string    `json:"provider_type" db:"provider_type"`
	Address           string    `json:"address" db:"address"`
	PhoneNumber       string    `json:"phone_number" db:"phone_number"`
	Specialties       []string  `json:"specialties" db:"-"`
	AcceptedInsurance []string  `json:"accepted_insurance" db:"-"`
	InNetworkPlans    []string  `json:"in_network_plans" db:"-"`
	Rating            float64   `json:"rating" db:"rating"`
	Location          *Location `json:"location,omitempty" db:"-"`

	// AvailabilityNext is free text from the provider's intake desk, e.g.
	// "tomorrow" or "next Tuesday". Parsed into urgency bands by the match
	// engine; the parsing contract is swappable for a real scheduling feed.
	AvailabilityNext string `json:"availability_next,omitempty" db:"availability_next"`

	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}
