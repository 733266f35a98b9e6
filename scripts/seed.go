package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/zatekoja/Caretransitiondesign/internal/adapters/database"
	"github.com/zatekoja/Caretransitiondesign/internal/domain/entities"
	"github.com/zatekoja/Caretransitiondesign/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/Caretransitiondesign/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	patientRepo := database.NewPatientAdapter(pgClient)
	providerRepo := database.NewProviderAdapter(pgClient)
	referralRepo := database.NewReferralAdapter(pgClient)

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				referrals,
				patients,
				providers
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	now := time.Now()
	date := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}
	daysAgo := func(n int) *time.Time {
		t := now.AddDate(0, 0, -n)
		return &t
	}

	// 1. Seed patients
	patients := []entities.Patient{
		{
			ID:               uuid.New().String(),
			Name:             "Margaret Thompson",
			DateOfBirth:      date(1942, time.March, 15),
			Diagnosis:        "Total Hip Replacement",
			DischargeDate:    daysAgo(4),
			RequiredFollowup: "Physical Therapy",
			Insurance:        "Medicare",
			Address:          "45 Beacon St, Boston, MA",
			ReferralStatus:   entities.ReferralStatusPending,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
		{
			ID:               uuid.New().String(),
			Name:             "James Okafor",
			DateOfBirth:      date(1958, time.July, 2),
			Diagnosis:        "CABG Bypass Surgery",
			DischargeDate:    daysAgo(12),
			RequiredFollowup: "Cardiology",
			Insurance:        "Blue Cross Blue Shield",
			Address:          "120 Main St, Worcester, MA",
			ReferralStatus:   entities.ReferralStatusSent,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
		{
			ID:               uuid.New().String(),
			Name:             "Elena Vasquez",
			DateOfBirth:      date(1985, time.November, 20),
			Diagnosis:        "Appendectomy",
			DischargeDate:    daysAgo(2),
			RequiredFollowup: "Primary Care",
			Insurance:        "Aetna",
			Address:          "8 Highland Ave, Somerville, MA",
			ReferralStatus:   entities.ReferralStatusPending,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
		{
			ID:               uuid.New().String(),
			Name:             "Robert Chen",
			DateOfBirth:      date(1950, time.January, 9),
			Diagnosis:        "COPD Exacerbation",
			DischargeDate:    daysAgo(8),
			RequiredFollowup: "Home Health",
			Insurance:        "Medicaid",
			Address:          "310 River Rd, Lowell, MA",
			ReferralStatus:   entities.ReferralStatusPending,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
	}

	for i := range patients {
		if err := patientRepo.Create(ctx, &patients[i]); err != nil {
			log.Printf("Failed to create patient %s: %v", patients[i].Name, err)
		}
	}
	log.Printf("Seeded %d patients", len(patients))

	// 2. Seed providers
	providers := []entities.Provider{
		{
			ID:                uuid.New().String(),
			Name:              "Boston Rehabilitation Associates",
			ProviderType:      "Physical Therapy",
			Address:           "350 Longwood Ave, Boston, MA",
			PhoneNumber:       "617-555-0142",
			Specialties:       []string{"Physical Therapy", "Orthopedic Rehab", "Sports Medicine"},
			AcceptedInsurance: []string{"Medicare", "Blue Cross Blue Shield", "Aetna"},
			InNetworkPlans:    []string{"Medicare", "Blue Cross Blue Shield MA"},
			Rating:            4.7,
			Location:          &entities.Location{Latitude: 42.3378, Longitude: -71.1022},
			AvailabilityNext:  "tomorrow",
			IsActive:          true,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			ID:                uuid.New().String(),
			Name:              "Cambridge Cardiology Group",
			ProviderType:      "Cardiology",
			Address:           "1493 Cambridge St, Cambridge, MA",
			PhoneNumber:       "617-555-0177",
			Specialties:       []string{"Cardiology", "Cardiac Rehab"},
			AcceptedInsurance: []string{"Medicare", "Medicaid", "Blue Cross Blue Shield", "United Healthcare"},
			InNetworkPlans:    []string{"Blue Cross Blue Shield"},
			Rating:            4.3,
			Location:          &entities.Location{Latitude: 42.3736, Longitude: -71.1097},
			AvailabilityNext:  "next week",
			IsActive:          true,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			ID:                uuid.New().String(),
			Name:              "Somerville Family Medicine",
			ProviderType:      "Primary Care",
			Address:           "25 Elm St, Somerville, MA",
			PhoneNumber:       "617-555-0103",
			Specialties:       []string{"Primary Care", "Internal Medicine"},
			AcceptedInsurance: []string{"Aetna", "Cigna", "United Healthcare"},
			Rating:            4.1,
			AvailabilityNext:  "this week",
			IsActive:          true,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			ID:                uuid.New().String(),
			Name:              "Merrimack Valley Home Health",
			ProviderType:      "Home Health",
			Address:           "77 Central St, Lowell, MA",
			PhoneNumber:       "978-555-0189",
			Specialties:       []string{"Home Health", "Visiting Nurse", "Wound Care"},
			AcceptedInsurance: []string{"Medicare", "Medicaid"},
			InNetworkPlans:    []string{"Medicaid"},
			Rating:            3.9,
			Location:          &entities.Location{Latitude: 42.6334, Longitude: -71.3162},
			AvailabilityNext:  "within 2 weeks",
			IsActive:          true,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			ID:                uuid.New().String(),
			Name:              "Worcester Orthopedic Center",
			ProviderType:      "Orthopedics",
			Address:           "123 Belmont St, Worcester, MA",
			PhoneNumber:       "508-555-0122",
			Specialties:       []string{"Orthopedics", "Physical Therapy"},
			AcceptedInsurance: []string{"Blue Cross Blue Shield", "Aetna", "Medicare"},
			Rating:            4.5,
			Location:          &entities.Location{Latitude: 42.2626, Longitude: -71.8023},
			AvailabilityNext:  "next month",
			IsActive:          true,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
	}

	for i := range providers {
		if err := providerRepo.Create(ctx, &providers[i]); err != nil {
			log.Printf("Failed to create provider %s: %v", providers[i].Name, err)
		}
	}
	log.Printf("Seeded %d providers", len(providers))

	// 3. Seed referral history for the first two patients
	referrals := []entities.Referral{
		{
			ID:         uuid.New().String(),
			PatientID:  patients[0].ID,
			ProviderID: providers[0].ID,
			Status:     entities.ReferralStatusCompleted,
			Notes:      "Initial PT evaluation completed",
			CreatedAt:  now.AddDate(0, 0, -45),
			UpdatedAt:  now.AddDate(0, 0, -40),
		},
		{
			ID:         uuid.New().String(),
			PatientID:  patients[1].ID,
			ProviderID: providers[1].ID,
			Status:     entities.ReferralStatusCancelled,
			Notes:      "Patient cancelled, transportation issue",
			CreatedAt:  now.AddDate(0, 0, -20),
			UpdatedAt:  now.AddDate(0, 0, -18),
		},
		{
			ID:         uuid.New().String(),
			PatientID:  patients[1].ID,
			ProviderID: providers[1].ID,
			Status:     entities.ReferralStatusPending,
			Notes:      "Rebooked cardiac follow-up",
			CreatedAt:  now.AddDate(0, 0, -5),
			UpdatedAt:  now.AddDate(0, 0, -5),
		},
	}

	for i := range referrals {
		if err := referralRepo.Create(ctx, &referrals[i]); err != nil {
			log.Printf("Failed to create referral for patient %s: %v", referrals[i].PatientID, err)
		}
	}
	log.Printf("Seeded %d referrals", len(referrals))

	log.Println("Seeding complete")
}
