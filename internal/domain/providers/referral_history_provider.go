package providers

import (
	"context"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/entities"
)

// ReferralHistoryProvider supplies past referral outcomes for a patient.
// Backed either by the service's own referrals table or by the external
// data-access collaborator; retry and timeout policy belong to the
// implementation, not to the risk engine consuming it.
type ReferralHistoryProvider interface {
	History(ctx context.Context, patientID string) ([]*entities.Referral, error)
}
