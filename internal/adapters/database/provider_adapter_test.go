package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/repositories"
	"github.com/zatekoja/Caretransitiondesign/internal/infrastructure/clients/postgres"
)

func newMockProviderAdapter(t *testing.T) (repositories.ProviderRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewProviderAdapter(postgres.NewClientFromDB(db)), mock
}

func providerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "provider_type", "address", "phone_number",
		"specialties", "accepted_insurance", "in_network_plans",
		"rating", "latitude", "longitude", "availability_next",
		"is_active", "created_at", "updated_at",
	})
}

func TestProviderAdapter_GetByID_ScansArrayColumns(t *testing.T) {
	adapter, mock := newMockProviderAdapter(t)

	now := time.Now()
	rows := providerRows().AddRow(
		"prov1", "Boston Rehabilitation Associates", "Physical Therapy",
		"350 Longwood Ave, Boston, MA", "617-555-0142",
		[]byte(`{"Physical Therapy","Orthopedic Rehab"}`),
		[]byte(`{Medicare,Aetna}`),
		[]byte(`{Medicare}`),
		4.7, 42.3378, -71.1022, "tomorrow",
		true, now, now,
	)
	mock.ExpectQuery(`SELECT .+ FROM "providers" WHERE \("id" = .+\)`).WillReturnRows(rows)

	provider, err := adapter.GetByID(context.Background(), "prov1")

	require.NoError(t, err)
	assert.Equal(t, []string{"Physical Therapy", "Orthopedic Rehab"}, provider.Specialties)
	assert.Equal(t, []string{"Medicare", "Aetna"}, provider.AcceptedInsurance)
	assert.Equal(t, []string{"Medicare"}, provider.InNetworkPlans)
	require.NotNil(t, provider.Location)
	assert.InDelta(t, 42.3378, provider.Location.Latitude, 0.0001)
	assert.Equal(t, "tomorrow", provider.AvailabilityNext)
}

func TestProviderAdapter_GetByID_NullLocation(t *testing.T) {
	adapter, mock := newMockProviderAdapter(t)

	now := time.Now()
	rows := providerRows().AddRow(
		"prov2", "Somerville Family Medicine", "Primary Care",
		"25 Elm St, Somerville, MA", "617-555-0103",
		[]byte(`{"Primary Care"}`), []byte(`{Aetna}`), []byte(`{}`),
		4.1, nil, nil, nil,
		true, now, now,
	)
	mock.ExpectQuery(`SELECT .+ FROM "providers"`).WillReturnRows(rows)

	provider, err := adapter.GetByID(context.Background(), "prov2")

	require.NoError(t, err)
	assert.Nil(t, provider.Location)
	assert.Empty(t, provider.AvailabilityNext)
	assert.Empty(t, provider.InNetworkPlans)
}

func TestProviderAdapter_List_ActiveFilter(t *testing.T) {
	adapter, mock := newMockProviderAdapter(t)

	now := time.Now()
	rows := providerRows().AddRow(
		"prov1", "Boston Rehabilitation Associates", "Physical Therapy",
		"350 Longwood Ave, Boston, MA", "617-555-0142",
		[]byte(`{"Physical Therapy"}`), []byte(`{Medicare}`), []byte(`{Medicare}`),
		4.7, 42.3378, -71.1022, "tomorrow",
		true, now, now,
	)
	mock.ExpectQuery(`SELECT .+ FROM "providers" WHERE .+"is_active".+ ORDER BY "name" ASC`).
		WillReturnRows(rows)

	active := true
	providers, err := adapter.List(context.Background(), repositories.ProviderFilter{IsActive: &active})

	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.True(t, providers[0].IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProviderAdapter_Delete_SoftDeletes(t *testing.T) {
	adapter, mock := newMockProviderAdapter(t)

	mock.ExpectExec(`UPDATE "providers" SET .*"is_active".+ WHERE \("id" = .+\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.Delete(context.Background(), "prov1")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
