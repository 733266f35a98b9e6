package referralhistory

import (
	"context"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/entities"
	"github.com/zatekoja/Caretransitiondesign/internal/domain/providers"
	"github.com/zatekoja/Caretransitiondesign/internal/infrastructure/clients/referralapi"
	apperrors "github.com/zatekoja/Caretransitiondesign/pkg/errors"
)

// APIProvider adapts the external referral API client to the domain
// ReferralHistoryProvider contract
type APIProvider struct {
	client referralapi.Client
}

// NewAPIProvider creates a new API-backed referral history provider
func NewAPIProvider(client referralapi.Client) providers.ReferralHistoryProvider {
	return &APIProvider{client: client}
}

// History fetches past referral outcomes from the collaborator
func (p *APIProvider) History(ctx context.Context, patientID string) ([]*entities.Referral, error) {
	referrals, err := p.client.ListReferrals(ctx, patientID)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to fetch referral history", err)
	}
	return referrals, nil
}
