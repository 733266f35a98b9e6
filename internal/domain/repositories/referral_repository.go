package repositories

import (
	"context"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/entities"
)

// ReferralRepository defines the interface for referral data access
type ReferralRepository interface {
	Create(ctx context.Context, referral *entities.Referral) error
	GetByID(ctx context.Context, id string) (*entities.Referral, error)
	ListByPatient(ctx context.Context, patientID string) ([]*entities.Referral, error)
	UpdateStatus(ctx context.Context, id string, status entities.ReferralStatus) error
}
