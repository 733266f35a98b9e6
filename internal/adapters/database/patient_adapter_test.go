package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/entities"
	"github.com/zatekoja/Caretransitiondesign/internal/domain/repositories"
	"github.com/zatekoja/Caretransitiondesign/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/Caretransitiondesign/pkg/errors"
)

func newMockAdapter(t *testing.T) (repositories.PatientRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPatientAdapter(postgres.NewClientFromDB(db)), mock
}

func patientRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "date_of_birth", "diagnosis", "discharge_date",
		"required_followup", "insurance", "address",
		"leakage_risk_score", "leakage_risk_level", "referral_status",
		"created_at", "updated_at",
	})
}

func TestPatientAdapter_GetByID(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	now := time.Now()
	dob := time.Date(1942, time.March, 15, 0, 0, 0, 0, time.UTC)
	rows := patientRows().AddRow(
		"p1", "Margaret Thompson", dob, "Total Hip Replacement", now.AddDate(0, 0, -4),
		"Physical Therapy", "Medicare", "45 Beacon St, Boston, MA",
		nil, nil, "pending", now, now,
	)

	mock.ExpectQuery(`SELECT .+ FROM "patients" WHERE \("id" = .+\)`).WillReturnRows(rows)

	patient, err := adapter.GetByID(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, "p1", patient.ID)
	assert.Equal(t, "Margaret Thompson", patient.Name)
	require.NotNil(t, patient.DateOfBirth)
	assert.Equal(t, dob, *patient.DateOfBirth)
	assert.Nil(t, patient.LeakageRiskScore)
	assert.Nil(t, patient.LeakageRiskLevel)
	assert.Equal(t, entities.ReferralStatusPending, patient.ReferralStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientAdapter_GetByID_NotFound(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT .+ FROM "patients"`).WillReturnRows(patientRows())

	patient, err := adapter.GetByID(context.Background(), "missing")

	assert.Nil(t, patient)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestPatientAdapter_GetByID_PartialRecord(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	now := time.Now()
	rows := patientRows().AddRow(
		"p2", "John Doe", nil, "", nil,
		"", "", "",
		nil, nil, nil, now, now,
	)
	mock.ExpectQuery(`SELECT .+ FROM "patients"`).WillReturnRows(rows)

	patient, err := adapter.GetByID(context.Background(), "p2")

	require.NoError(t, err)
	assert.Nil(t, patient.DateOfBirth)
	assert.Nil(t, patient.DischargeDate)
	assert.Empty(t, patient.Diagnosis)
	assert.Empty(t, string(patient.ReferralStatus))
}

func TestPatientAdapter_List_FiltersApplied(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	now := time.Now()
	rows := patientRows().AddRow(
		"p1", "Margaret Thompson", nil, "Total Hip Replacement", nil,
		"Physical Therapy", "Medicare", "Boston, MA",
		85, "high", "pending", now, now,
	)

	mock.ExpectQuery(`SELECT .+ FROM "patients" WHERE .+"referral_status".+"leakage_risk_level".+ ORDER BY "discharge_date" DESC NULLS LAST LIMIT .+`).
		WillReturnRows(rows)

	patients, err := adapter.List(context.Background(), repositories.PatientFilter{
		ReferralStatus: "pending",
		RiskLevel:      "high",
		Limit:          10,
	})

	require.NoError(t, err)
	require.Len(t, patients, 1)
	require.NotNil(t, patients[0].LeakageRiskScore)
	assert.Equal(t, 85, *patients[0].LeakageRiskScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientAdapter_Create(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectExec(`INSERT INTO "patients"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now()
	err := adapter.Create(context.Background(), &entities.Patient{
		ID:             "p1",
		Name:           "Margaret Thompson",
		Diagnosis:      "Total Hip Replacement",
		Insurance:      "Medicare",
		Address:        "Boston, MA",
		ReferralStatus: entities.ReferralStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientAdapter_UpdateRiskAssessment(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectExec(`UPDATE "patients" SET .*"leakage_risk_level".+"leakage_risk_score".+ WHERE \("id" = .+\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.UpdateRiskAssessment(context.Background(), "p1", 63, entities.RiskLevelMedium)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientAdapter_UpdateRiskAssessment_NotFound(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectExec(`UPDATE "patients"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.UpdateRiskAssessment(context.Background(), "missing", 63, entities.RiskLevelMedium)

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestPatientAdapter_Delete(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectExec(`DELETE FROM "patients" WHERE \("id" = .+\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.Delete(context.Background(), "p1")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
