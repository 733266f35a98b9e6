package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/entities"
	"github.com/zatekoja/Caretransitiondesign/internal/domain/repositories"
	"github.com/zatekoja/Caretransitiondesign/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/Caretransitiondesign/pkg/errors"
)

// ReferralAdapter implements ReferralRepository. It also satisfies the
// domain ReferralHistoryProvider contract, so deployments without the
// external collaborator can serve history from their own referrals table.
type ReferralAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReferralAdapter creates a new referral adapter
func NewReferralAdapter(client *postgres.Client) *ReferralAdapter {
	return &ReferralAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var _ repositories.ReferralRepository = (*ReferralAdapter)(nil)

var referralColumns = []interface{}{
	"id", "patient_id", "provider_id", "status", "notes",
	"created_at", "updated_at",
}

// Create creates a new referral
func (a *ReferralAdapter) Create(ctx context.Context, referral *entities.Referral) error {
	if !referral.Status.IsValid() {
		return apperrors.NewValidationError(fmt.Sprintf("invalid referral status %q", referral.Status))
	}

	record := goqu.Record{
		"id":          referral.ID,
		"patient_id":  referral.PatientID,
		"provider_id": sql.NullString{String: referral.ProviderID, Valid: referral.ProviderID != ""},
		"status":      string(referral.Status),
		"notes":       sql.NullString{String: referral.Notes, Valid: referral.Notes != ""},
		"created_at":  referral.CreatedAt,
		"updated_at":  referral.UpdatedAt,
	}

	query, args, err := a.db.Insert("referrals").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create referral", err)
	}

	return nil
}

// GetByID retrieves a referral by ID
func (a *ReferralAdapter) GetByID(ctx context.Context, id string) (*entities.Referral, error) {
	query, args, err := a.db.Select(referralColumns...).
		From("referrals").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	referral, err := scanReferral(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("referral with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get referral", err)
	}

	return referral, nil
}

// ListByPatient retrieves all referrals for a patient, newest first
func (a *ReferralAdapter) ListByPatient(ctx context.Context, patientID string) ([]*entities.Referral, error) {
	query, args, err := a.db.Select(referralColumns...).
		From("referrals").
		Where(goqu.Ex{"patient_id": patientID}).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list referrals", err)
	}
	defer rows.Close()

	var referrals []*entities.Referral
	for rows.Next() {
		referral, err := scanReferral(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan referral", err)
		}
		referrals = append(referrals, referral)
	}

	return referrals, nil
}

// History implements the ReferralHistoryProvider contract
func (a *ReferralAdapter) History(ctx context.Context, patientID string) ([]*entities.Referral, error) {
	return a.ListByPatient(ctx, patientID)
}

// UpdateStatus transitions a referral to a new status
func (a *ReferralAdapter) UpdateStatus(ctx context.Context, id string, status entities.ReferralStatus) error {
	if !status.IsValid() {
		return apperrors.NewValidationError(fmt.Sprintf("invalid referral status %q", status))
	}

	query, args, err := a.db.Update("referrals").
		Set(goqu.Record{
			"status":     string(status),
			"updated_at": time.Now(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update referral status", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("referral with id %s not found", id))
}

func scanReferral(row rowScanner) (*entities.Referral, error) {
	referral := &entities.Referral{}
	var (
		providerID sql.NullString
		notes      sql.NullString
		status     string
	)

	err := row.Scan(
		&referral.ID,
		&referral.PatientID,
		&providerID,
		&status,
		&notes,
		&referral.CreatedAt,
		&referral.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	referral.ProviderID = providerID.String
	referral.Notes = notes.String
	referral.Status = entities.ReferralStatus(status)

	return referral, nil
}
