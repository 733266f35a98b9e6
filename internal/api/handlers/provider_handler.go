package handlers

import (
	"net/http"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/repositories"
)

// ProviderHandler handles provider-related requests
type ProviderHandler struct {
	repo repositories.ProviderRepository
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(repo repositories.ProviderRepository) *ProviderHandler {
	return &ProviderHandler{repo: repo}
}

// ListProviders handles GET /api/providers
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	active := true
	filter := repositories.ProviderFilter{
		ProviderType: r.URL.Query().Get("type"),
		Specialty:    r.URL.Query().Get("specialty"),
		IsActive:     &active,
		Limit:        queryInt(r, "limit", 100),
		Offset:       queryInt(r, "offset", 0),
	}

	providers, err := h.repo.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"providers": providers,
		"count":     len(providers),
	})
}

// GetProvider handles GET /api/providers/{id}
func (h *ProviderHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	provider, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, provider)
}
