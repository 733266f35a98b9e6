package services

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/entities"
	"github.com/zatekoja/Caretransitiondesign/internal/domain/providers"
	"github.com/zatekoja/Caretransitiondesign/internal/domain/repositories"
	"github.com/zatekoja/Caretransitiondesign/internal/infrastructure/observability"
)

// PatientService handles patient reads and risk assessment orchestration.
// The risk engine itself stays pure; this service owns the one suspension
// point (the referral history fetch) and the optional write-back of the
// computed score as a prior on the patient row.
type PatientService struct {
	repo       repositories.PatientRepository
	history    providers.ReferralHistoryProvider
	riskEngine *RiskService
	metrics    *observability.Metrics
}

// NewPatientService creates a new patient service
func NewPatientService(
	repo repositories.PatientRepository,
	history providers.ReferralHistoryProvider,
	riskEngine *RiskService,
	metrics *observability.Metrics,
) *PatientService {
	return &PatientService{
		repo:       repo,
		history:    history,
		riskEngine: riskEngine,
		metrics:    metrics,
	}
}

// GetByID retrieves a patient by ID
func (s *PatientService) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves patients matching the filter
func (s *PatientService) List(ctx context.Context, filter repositories.PatientFilter) ([]*entities.Patient, error) {
	return s.repo.List(ctx, filter)
}

// AssessRisk computes leakage risk for a stored patient, consulting the
// referral history collaborator. History fetch failures degrade to the
// engine's default history factor; they never fail the assessment.
// When persist is set, the result is written back onto the patient row as
// a prior value for dashboards.
func (s *PatientService) AssessRisk(ctx context.Context, patientID string, persist bool) (*entities.RiskResult, error) {
	ctx, span := observability.StartSpan(ctx, "PatientService.AssessRisk")
	defer span.End()
	observability.SetSpanAttributes(span, attribute.String("patient.id", patientID))

	patient, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	referrals := s.fetchHistory(ctx, patientID)
	result := s.riskEngine.Calculate(patient, referrals)

	if s.metrics != nil {
		s.metrics.RiskComputed.Add(ctx, 1)
	}
	observability.SetSpanAttributes(span,
		attribute.Int("risk.score", result.Score),
		attribute.String("risk.level", string(result.Level)),
	)

	if persist {
		if err := s.repo.UpdateRiskAssessment(ctx, patientID, result.Score, result.Level); err != nil {
			observability.RecordError(span, err)
			return nil, err
		}
	}

	return &result, nil
}

// PreviewRisk computes leakage risk for an inline patient payload without
// touching storage. Used by verification tooling and the intake form.
func (s *PatientService) PreviewRisk(ctx context.Context, patient *entities.Patient, referrals []*entities.Referral) *entities.RiskResult {
	if patient.ID != "" && referrals == nil {
		referrals = s.fetchHistory(ctx, patient.ID)
	}

	result := s.riskEngine.Calculate(patient, referrals)
	if s.metrics != nil {
		s.metrics.RiskComputed.Add(ctx, 1)
	}
	return &result
}

// fetchHistory returns the patient's referral history, or nil when the
// collaborator is unavailable so the engine falls back to its default
func (s *PatientService) fetchHistory(ctx context.Context, patientID string) []*entities.Referral {
	if s.history == nil {
		return nil
	}

	referrals, err := s.history.History(ctx, patientID)
	if err != nil {
		logger := observability.LoggerFromContext(ctx)
		logger.Warn().Err(err).Str("patient_id", patientID).
			Msg("referral history unavailable, using default history factor")
		return nil
	}
	return referrals
}
