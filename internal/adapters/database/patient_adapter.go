package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/entities"
	"github.com/zatekoja/Caretransitiondesign/internal/domain/repositories"
	"github.com/zatekoja/Caretransitiondesign/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/Caretransitiondesign/pkg/errors"
)

// PatientAdapter implements PatientRepository
type PatientAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPatientAdapter creates a new patient adapter
func NewPatientAdapter(client *postgres.Client) repositories.PatientRepository {
	return &PatientAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var patientColumns = []interface{}{
	"id", "name", "date_of_birth", "diagnosis", "discharge_date",
	"required_followup", "insurance", "address",
	"leakage_risk_score", "leakage_risk_level", "referral_status",
	"created_at", "updated_at",
}

// Create creates a new patient
func (a *PatientAdapter) Create(ctx context.Context, patient *entities.Patient) error {
	record := goqu.Record{
		"id":                 patient.ID,
		"name":               patient.Name,
		"date_of_birth":      nullTime(patient.DateOfBirth),
		"diagnosis":          patient.Diagnosis,
		"discharge_date":     nullTime(patient.DischargeDate),
		"required_followup":  patient.RequiredFollowup,
		"insurance":          patient.Insurance,
		"address":            patient.Address,
		"leakage_risk_score": nullInt(patient.LeakageRiskScore),
		"leakage_risk_level": nullRiskLevel(patient.LeakageRiskLevel),
		"referral_status":    string(patient.ReferralStatus),
		"created_at":         patient.CreatedAt,
		"updated_at":         patient.UpdatedAt,
	}

	query, args, err := a.db.Insert("patients").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create patient", err)
	}

	return nil
}

// GetByID retrieves a patient by ID
func (a *PatientAdapter) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	query, args, err := a.db.Select(patientColumns...).
		From("patients").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	patient, err := scanPatient(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("patient with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get patient", err)
	}

	return patient, nil
}

// List retrieves patients matching the filter
func (a *PatientAdapter) List(ctx context.Context, filter repositories.PatientFilter) ([]*entities.Patient, error) {
	ds := a.db.Select(patientColumns...).From("patients")

	if filter.ReferralStatus != "" {
		ds = ds.Where(goqu.Ex{"referral_status": filter.ReferralStatus})
	}
	if filter.RiskLevel != "" {
		ds = ds.Where(goqu.Ex{"leakage_risk_level": filter.RiskLevel})
	}

	ds = ds.Order(goqu.I("discharge_date").Desc().NullsLast())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list patients", err)
	}
	defer rows.Close()

	var patients []*entities.Patient
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan patient", err)
		}
		patients = append(patients, patient)
	}

	return patients, nil
}

// Update updates a patient
func (a *PatientAdapter) Update(ctx context.Context, patient *entities.Patient) error {
	patient.UpdatedAt = time.Now()

	record := goqu.Record{
		"name":              patient.Name,
		"date_of_birth":     nullTime(patient.DateOfBirth),
		"diagnosis":         patient.Diagnosis,
		"discharge_date":    nullTime(patient.DischargeDate),
		"required_followup": patient.RequiredFollowup,
		"insurance":         patient.Insurance,
		"address":           patient.Address,
		"referral_status":   string(patient.ReferralStatus),
		"updated_at":        patient.UpdatedAt,
	}

	query, args, err := a.db.Update("patients").
		Set(record).
		Where(goqu.Ex{"id": patient.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update patient", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("patient with id %s not found", patient.ID))
}

// UpdateRiskAssessment stores the latest computed leakage risk on the
// patient row
func (a *PatientAdapter) UpdateRiskAssessment(ctx context.Context, id string, score int, level entities.RiskLevel) error {
	query, args, err := a.db.Update("patients").
		Set(goqu.Record{
			"leakage_risk_score": score,
			"leakage_risk_level": string(level),
			"updated_at":         time.Now(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build risk update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update risk assessment", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("patient with id %s not found", id))
}

// Delete deletes a patient
func (a *PatientAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("patients").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete patient", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("patient with id %s not found", id))
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPatient(row rowScanner) (*entities.Patient, error) {
	patient := &entities.Patient{}
	var (
		dob       sql.NullTime
		discharge sql.NullTime
		score     sql.NullInt64
		level     sql.NullString
		status    sql.NullString
	)

	err := row.Scan(
		&patient.ID,
		&patient.Name,
		&dob,
		&patient.Diagnosis,
		&discharge,
		&patient.RequiredFollowup,
		&patient.Insurance,
		&patient.Address,
		&score,
		&level,
		&status,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dob.Valid {
		t := dob.Time
		patient.DateOfBirth = &t
	}
	if discharge.Valid {
		t := discharge.Time
		patient.DischargeDate = &t
	}
	if score.Valid {
		v := int(score.Int64)
		patient.LeakageRiskScore = &v
	}
	if level.Valid {
		l := entities.RiskLevel(level.String)
		patient.LeakageRiskLevel = &l
	}
	if status.Valid {
		patient.ReferralStatus = entities.ReferralStatus(status.String)
	}

	return patient, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullRiskLevel(l *entities.RiskLevel) sql.NullString {
	if l == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*l), Valid: true}
}

func requireRowsAffected(result sql.Result, notFoundMsg string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(notFoundMsg)
	}
	return nil
}
