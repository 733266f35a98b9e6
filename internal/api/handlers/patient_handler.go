package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/entities"
	"github.com/zatekoja/Caretransitiondesign/internal/domain/repositories"
)

// PatientReader is the slice of PatientService the handler consumes
type PatientReader interface {
	GetByID(ctx context.Context, id string) (*entities.Patient, error)
	List(ctx context.Context, filter repositories.PatientFilter) ([]*entities.Patient, error)
	AssessRisk(ctx context.Context, patientID string, persist bool) (*entities.RiskResult, error)
	PreviewRisk(ctx context.Context, patient *entities.Patient, referrals []*entities.Referral) *entities.RiskResult
}

// PatientHandler handles patient-related requests
type PatientHandler struct {
	service PatientReader
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(service PatientReader) *PatientHandler {
	return &PatientHandler{service: service}
}

// ListPatients handles GET /api/patients
func (h *PatientHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	filter := repositories.PatientFilter{
		ReferralStatus: r.URL.Query().Get("referral_status"),
		RiskLevel:      r.URL.Query().Get("risk_level"),
		Limit:          queryInt(r, "limit", 50),
		Offset:         queryInt(r, "offset", 0),
	}

	patients, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"patients": patients,
		"count":    len(patients),
	})
}

// GetPatient handles GET /api/patients/{id}
func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "patient ID is required")
		return
	}

	patient, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, patient)
}

// AssessRisk handles POST /api/patients/{id}/risk
func (h *PatientHandler) AssessRisk(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "patient ID is required")
		return
	}

	persist := r.URL.Query().Get("persist") != "false"

	result, err := h.service.AssessRisk(r.Context(), id, persist)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

type riskPreviewRequest struct {
	Patient   *entities.Patient    `json:"patient"`
	Referrals []*entities.Referral `json:"referrals,omitempty"`
}

// PreviewRisk handles POST /api/risk/preview. Computes risk for an inline
// patient payload; nothing is persisted.
func (h *PatientHandler) PreviewRisk(w http.ResponseWriter, r *http.Request) {
	var req riskPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Patient == nil {
		respondWithError(w, http.StatusBadRequest, "patient is required")
		return
	}

	result := h.service.PreviewRisk(r.Context(), req.Patient, req.Referrals)
	respondWithJSON(w, http.StatusOK, result)
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if value := r.URL.Query().Get(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
