package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/entities"
	"github.com/zatekoja/Caretransitiondesign/internal/domain/repositories"
	apperrors "github.com/zatekoja/Caretransitiondesign/pkg/errors"
)

type mockPatientReader struct {
	mock.Mock
}

func (m *mockPatientReader) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

func (m *mockPatientReader) List(ctx context.Context, filter repositories.PatientFilter) ([]*entities.Patient, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Patient), args.Error(1)
}

func (m *mockPatientReader) AssessRisk(ctx context.Context, patientID string, persist bool) (*entities.RiskResult, error) {
	args := m.Called(ctx, patientID, persist)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RiskResult), args.Error(1)
}

func (m *mockPatientReader) PreviewRisk(ctx context.Context, patient *entities.Patient, referrals []*entities.Referral) *entities.RiskResult {
	args := m.Called(ctx, patient, referrals)
	return args.Get(0).(*entities.RiskResult)
}

func TestListPatients_AppliesQueryFilters(t *testing.T) {
	service := new(mockPatientReader)
	handler := NewPatientHandler(service)

	expectedFilter := repositories.PatientFilter{
		ReferralStatus: "pending",
		RiskLevel:      "high",
		Limit:          10,
		Offset:         0,
	}
	service.On("List", mock.Anything, expectedFilter).Return([]*entities.Patient{{ID: "p1"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/patients?referral_status=pending&risk_level=high&limit=10", nil)
	rec := httptest.NewRecorder()

	handler.ListPatients(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.JSONEq(t, `1`, string(body["count"]))
	service.AssertExpectations(t)
}

func TestGetPatient_Found(t *testing.T) {
	service := new(mockPatientReader)
	handler := NewPatientHandler(service)

	service.On("GetByID", mock.Anything, "p1").Return(&entities.Patient{ID: "p1", Name: "Margaret Thompson"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/patients/p1", nil)
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()

	handler.GetPatient(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var patient entities.Patient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patient))
	assert.Equal(t, "Margaret Thompson", patient.Name)
}

func TestGetPatient_NotFoundMapsTo404(t *testing.T) {
	service := new(mockPatientReader)
	handler := NewPatientHandler(service)

	service.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("patient not found"))

	req := httptest.NewRequest(http.MethodGet, "/api/patients/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()

	handler.GetPatient(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssessRisk_PersistsByDefault(t *testing.T) {
	service := new(mockPatientReader)
	handler := NewPatientHandler(service)

	result := &entities.RiskResult{Score: 63, Level: entities.RiskLevelMedium}
	service.On("AssessRisk", mock.Anything, "p1", true).Return(result, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/patients/p1/risk", nil)
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()

	handler.AssessRisk(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got entities.RiskResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 63, got.Score)
	assert.Equal(t, entities.RiskLevelMedium, got.Level)
	service.AssertExpectations(t)
}

func TestAssessRisk_PersistFalseQuery(t *testing.T) {
	service := new(mockPatientReader)
	handler := NewPatientHandler(service)

	result := &entities.RiskResult{Score: 63, Level: entities.RiskLevelMedium}
	service.On("AssessRisk", mock.Anything, "p1", false).Return(result, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/patients/p1/risk?persist=false", nil)
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()

	handler.AssessRisk(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}

func TestPreviewRisk_InlinePayload(t *testing.T) {
	service := new(mockPatientReader)
	handler := NewPatientHandler(service)

	result := &entities.RiskResult{Score: 50, Level: entities.RiskLevelMedium}
	service.On("PreviewRisk", mock.Anything, mock.Anything, mock.Anything).Return(result)

	payload, _ := json.Marshal(map[string]interface{}{
		"patient": map[string]interface{}{"name": "Jane Doe", "insurance": "Aetna"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/risk/preview", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	handler.PreviewRisk(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPreviewRisk_MissingPatient(t *testing.T) {
	service := new(mockPatientReader)
	handler := NewPatientHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/risk/preview", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	handler.PreviewRisk(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreviewRisk_MalformedBody(t *testing.T) {
	service := new(mockPatientReader)
	handler := NewPatientHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/risk/preview", bytes.NewReader([]byte(`not json`)))
	rec := httptest.NewRecorder()

	handler.PreviewRisk(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
