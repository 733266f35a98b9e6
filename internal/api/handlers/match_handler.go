package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/zatekoja/Caretransitiondesign/internal/application/services"
	"github.com/zatekoja/Caretransitiondesign/internal/domain/entities"
	"github.com/zatekoja/Caretransitiondesign/internal/domain/repositories"
	"github.com/zatekoja/Caretransitiondesign/internal/infrastructure/observability"
)

// MatchHandler handles provider matching requests
type MatchHandler struct {
	matcher      *services.MatchService
	patientRepo  repositories.PatientRepository
	providerRepo repositories.ProviderRepository
	metrics      *observability.Metrics
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(
	matcher *services.MatchService,
	patientRepo repositories.PatientRepository,
	providerRepo repositories.ProviderRepository,
	metrics *observability.Metrics,
) *MatchHandler {
	return &MatchHandler{
		matcher:      matcher,
		patientRepo:  patientRepo,
		providerRepo: providerRepo,
		metrics:      metrics,
	}
}

// FindMatches handles POST /api/patients/{id}/matches. Ranks the stored
// active providers against the patient's referral need.
func (h *MatchHandler) FindMatches(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "patient ID is required")
		return
	}

	patient, err := h.patientRepo.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	active := true
	providers, err := h.providerRepo.List(r.Context(), repositories.ProviderFilter{IsActive: &active})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	limit := queryInt(r, "limit", 0)
	matches := h.matcher.FindMatches(r.Context(), providers, patient, limit)

	if h.metrics != nil {
		h.metrics.MatchComputed.Add(r.Context(), 1)
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	})
}

type matchPreviewRequest struct {
	Patient   *entities.Patient    `json:"patient"`
	Providers []*entities.Provider `json:"providers"`
	Limit     int                  `json:"limit,omitempty"`
}

// PreviewMatches handles POST /api/matches/preview. Ranks an inline
// provider list against an inline patient; nothing is read from storage.
func (h *MatchHandler) PreviewMatches(w http.ResponseWriter, r *http.Request) {
	var req matchPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Patient == nil {
		respondWithError(w, http.StatusBadRequest, "patient is required")
		return
	}

	matches := h.matcher.FindMatches(r.Context(), req.Providers, req.Patient, req.Limit)

	if h.metrics != nil {
		h.metrics.MatchComputed.Add(r.Context(), 1)
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	})
}
