package repositories

import (
	"context"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/entities"
)

// PatientFilter defines filtering options for listing patients
type PatientFilter struct {
	ReferralStatus string
	RiskLevel      string
	Limit          int
	Offset         int
}

// PatientRepository defines the interface for patient data access
type PatientRepository interface {
	Create(ctx context.Context, patient *entities.Patient) error
	GetByID(ctx context.Context, id string) (*entities.Patient, error)
	List(ctx context.Context, filter PatientFilter) ([]*entities.Patient, error)
	Update(ctx context.Context, patient *entities.Patient) error

	// UpdateRiskAssessment stores the latest computed leakage risk on the
	// patient row as a prior value for dashboards. Derived scores remain
	// recomputable; this never feeds back into the engine.
	UpdateRiskAssessment(ctx context.Context, id string, score int, level entities.RiskLevel) error

	Delete(ctx context.Context, id string) error
}
