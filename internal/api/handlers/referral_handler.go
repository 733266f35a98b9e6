package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/entities"
	"github.com/zatekoja/Caretransitiondesign/internal/domain/repositories"
)

// ReferralHandler handles referral-related requests
type ReferralHandler struct {
	repo repositories.ReferralRepository
}

// NewReferralHandler creates a new referral handler
func NewReferralHandler(repo repositories.ReferralRepository) *ReferralHandler {
	return &ReferralHandler{repo: repo}
}

// ListReferrals handles GET /api/referrals?patient_id=
func (h *ReferralHandler) ListReferrals(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get("patient_id")
	if patientID == "" {
		respondWithError(w, http.StatusBadRequest, "patient_id query parameter is required")
		return
	}

	referrals, err := h.repo.ListByPatient(r.Context(), patientID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"referrals": referrals,
		"count":     len(referrals),
	})
}

type createReferralRequest struct {
	PatientID  string `json:"patient_id"`
	ProviderID string `json:"provider_id,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// CreateReferral handles POST /api/referrals
func (h *ReferralHandler) CreateReferral(w http.ResponseWriter, r *http.Request) {
	var req createReferralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.PatientID == "" {
		respondWithError(w, http.StatusBadRequest, "patient_id is required")
		return
	}

	now := time.Now()
	referral := &entities.Referral{
		ID:         uuid.New().String(),
		PatientID:  req.PatientID,
		ProviderID: req.ProviderID,
		Status:     entities.ReferralStatusPending,
		Notes:      req.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.repo.Create(r.Context(), referral); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, referral)
}

type updateReferralStatusRequest struct {
	Status entities.ReferralStatus `json:"status"`
}

// UpdateReferralStatus handles PATCH /api/referrals/{id}/status
func (h *ReferralHandler) UpdateReferralStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "referral ID is required")
		return
	}

	var req updateReferralStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if !req.Status.IsValid() {
		respondWithError(w, http.StatusBadRequest, "invalid referral status")
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
