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
	"github.com/zatekoja/Caretransitiondesign/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/Caretransitiondesign/pkg/errors"
)

func newMockReferralAdapter(t *testing.T) (*ReferralAdapter, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewReferralAdapter(postgres.NewClientFromDB(db)), mock
}

func referralRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "patient_id", "provider_id", "status", "notes",
		"created_at", "updated_at",
	})
}

func TestReferralAdapter_ListByPatient(t *testing.T) {
	adapter, mock := newMockReferralAdapter(t)

	now := time.Now()
	rows := referralRows().
		AddRow("r2", "p1", "prov1", "pending", nil, now, now).
		AddRow("r1", "p1", nil, "completed", "initial eval done", now.AddDate(0, 0, -30), now.AddDate(0, 0, -28))

	mock.ExpectQuery(`SELECT .+ FROM "referrals" WHERE \("patient_id" = .+\) ORDER BY "created_at" DESC`).
		WillReturnRows(rows)

	referrals, err := adapter.ListByPatient(context.Background(), "p1")

	require.NoError(t, err)
	require.Len(t, referrals, 2)
	assert.Equal(t, "r2", referrals[0].ID)
	assert.Equal(t, entities.ReferralStatusPending, referrals[0].Status)
	assert.Empty(t, referrals[1].ProviderID)
	assert.Equal(t, "initial eval done", referrals[1].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralAdapter_History_DelegatesToListByPatient(t *testing.T) {
	adapter, mock := newMockReferralAdapter(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM "referrals" WHERE \("patient_id" = .+\)`).
		WillReturnRows(referralRows().AddRow("r1", "p1", nil, "completed", nil, now, now))

	referrals, err := adapter.History(context.Background(), "p1")

	require.NoError(t, err)
	assert.Len(t, referrals, 1)
}

func TestReferralAdapter_Create_RejectsInvalidStatus(t *testing.T) {
	adapter, _ := newMockReferralAdapter(t)

	err := adapter.Create(context.Background(), &entities.Referral{
		ID:        "r1",
		PatientID: "p1",
		Status:    entities.ReferralStatus("bogus"),
	})

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestReferralAdapter_Create(t *testing.T) {
	adapter, mock := newMockReferralAdapter(t)

	mock.ExpectExec(`INSERT INTO "referrals"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now()
	err := adapter.Create(context.Background(), &entities.Referral{
		ID:        "r1",
		PatientID: "p1",
		Status:    entities.ReferralStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralAdapter_UpdateStatus(t *testing.T) {
	adapter, mock := newMockReferralAdapter(t)

	mock.ExpectExec(`UPDATE "referrals" SET .*"status".+ WHERE \("id" = .+\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.UpdateStatus(context.Background(), "r1", entities.ReferralStatusScheduled)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralAdapter_UpdateStatus_InvalidStatus(t *testing.T) {
	adapter, _ := newMockReferralAdapter(t)

	err := adapter.UpdateStatus(context.Background(), "r1", entities.ReferralStatus("done"))

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}
