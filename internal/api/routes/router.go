package routes

import (
	"net/http"

	"github.com/zatekoja/Caretransitiondesign/internal/api/handlers"
	"github.com/zatekoja/Caretransitiondesign/internal/api/middleware"
	"github.com/zatekoja/Caretransitiondesign/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	patientHandler  *handlers.PatientHandler
	providerHandler *handlers.ProviderHandler
	matchHandler    *handlers.MatchHandler
	referralHandler *handlers.ReferralHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	patientHandler *handlers.PatientHandler,
	providerHandler *handlers.ProviderHandler,
	matchHandler *handlers.MatchHandler,
	referralHandler *handlers.ReferralHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		patientHandler:  patientHandler,
		providerHandler: providerHandler,
		matchHandler:    matchHandler,
		referralHandler: referralHandler,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {

	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Patient endpoints
	r.mux.HandleFunc("GET /api/patients", r.patientHandler.ListPatients)
	r.mux.HandleFunc("GET /api/patients/{id}", r.patientHandler.GetPatient)

	// Risk engine endpoints
	r.mux.HandleFunc("POST /api/patients/{id}/risk", r.patientHandler.AssessRisk)
	r.mux.HandleFunc("POST /api/risk/preview", r.patientHandler.PreviewRisk)

	// Provider endpoints
	r.mux.HandleFunc("GET /api/providers", r.providerHandler.ListProviders)
	r.mux.HandleFunc("GET /api/providers/{id}", r.providerHandler.GetProvider)

	// Match engine endpoints
	r.mux.HandleFunc("POST /api/patients/{id}/matches", r.matchHandler.FindMatches)
	r.mux.HandleFunc("POST /api/matches/preview", r.matchHandler.PreviewMatches)

	// Referral endpoints
	r.mux.HandleFunc("GET /api/referrals", r.referralHandler.ListReferrals)
	r.mux.HandleFunc("POST /api/referrals", r.referralHandler.CreateReferral)
	r.mux.HandleFunc("PATCH /api/referrals/{id}/status", r.referralHandler.UpdateReferralStatus)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so error responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
