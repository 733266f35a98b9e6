package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/entities"
	"github.com/zatekoja/Caretransitiondesign/internal/domain/repositories"
	"github.com/zatekoja/Caretransitiondesign/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/Caretransitiondesign/pkg/errors"
)

// ProviderAdapter implements ProviderRepository. Specialties, accepted
// insurance and in-network plans are text[] columns scanned via pq.Array.
type ProviderAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProviderAdapter creates a new provider adapter
func NewProviderAdapter(client *postgres.Client) repositories.ProviderRepository {
	return &ProviderAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var providerColumns = []interface{}{
	"id", "name", "provider_type", "address", "phone_number",
	"specialties", "accepted_insurance", "in_network_plans",
	"rating", "latitude", "longitude", "availability_next",
	"is_active", "created_at", "updated_at",
}

// Create creates a new provider
func (a *ProviderAdapter) Create(ctx context.Context, provider *entities.Provider) error {
	record := goqu.Record{
		"id":                 provider.ID,
		"name":               provider.Name,
		"provider_type":      provider.ProviderType,
		"address":            provider.Address,
		"phone_number":       provider.PhoneNumber,
		"specialties":        pq.Array(provider.Specialties),
		"accepted_insurance": pq.Array(provider.AcceptedInsurance),
		"in_network_plans":   pq.Array(provider.InNetworkPlans),
		"rating":             provider.Rating,
		"latitude":           nullLatitude(provider.Location),
		"longitude":          nullLongitude(provider.Location),
		"availability_next":  sql.NullString{String: provider.AvailabilityNext, Valid: provider.AvailabilityNext != ""},
		"is_active":          provider.IsActive,
		"created_at":         provider.CreatedAt,
		"updated_at":         provider.UpdatedAt,
	}

	query, args, err := a.db.Insert("providers").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create provider", err)
	}

	return nil
}

// GetByID retrieves a provider by ID
func (a *ProviderAdapter) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	query, args, err := a.db.Select(providerColumns...).
		From("providers").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	provider, err := scanProvider(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("provider with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get provider", err)
	}

	return provider, nil
}

// List retrieves providers matching the filter
func (a *ProviderAdapter) List(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.Provider, error) {
	ds := a.db.Select(providerColumns...).From("providers")

	if filter.ProviderType != "" {
		ds = ds.Where(goqu.Ex{"provider_type": filter.ProviderType})
	}
	if filter.Specialty != "" {
		ds = ds.Where(goqu.L("? = ANY(specialties)", filter.Specialty))
	}
	if filter.IsActive != nil {
		ds = ds.Where(goqu.Ex{"is_active": *filter.IsActive})
	}

	ds = ds.Order(goqu.I("name").Asc())

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
		return nil, apperrors.NewInternalError("failed to list providers", err)
	}
	defer rows.Close()

	var providers []*entities.Provider
	for rows.Next() {
		provider, err := scanProvider(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan provider", err)
		}
		providers = append(providers, provider)
	}

	return providers, nil
}

// Update updates a provider
func (a *ProviderAdapter) Update(ctx context.Context, provider *entities.Provider) error {
	provider.UpdatedAt = time.Now()

	record := goqu.Record{
		"name":               provider.Name,
		"provider_type":      provider.ProviderType,
		"address":            provider.Address,
		"phone_number":       provider.PhoneNumber,
		"specialties":        pq.Array(provider.Specialties),
		"accepted_insurance": pq.Array(provider.AcceptedInsurance),
		"in_network_plans":   pq.Array(provider.InNetworkPlans),
		"rating":             provider.Rating,
		"latitude":           nullLatitude(provider.Location),
		"longitude":          nullLongitude(provider.Location),
		"availability_next":  sql.NullString{String: provider.AvailabilityNext, Valid: provider.AvailabilityNext != ""},
		"is_active":          provider.IsActive,
		"updated_at":         provider.UpdatedAt,
	}

	query, args, err := a.db.Update("providers").
		Set(record).
		Where(goqu.Ex{"id": provider.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update provider", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("provider with id %s not found", provider.ID))
}

// Delete soft-deletes a provider
func (a *ProviderAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Update("providers").
		Set(goqu.Record{
			"is_active":  false,
			"updated_at": time.Now(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete provider", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("provider with id %s not found", id))
}

func scanProvider(row rowScanner) (*entities.Provider, error) {
	provider := &entities.Provider{}
	var (
		specialties  pq.StringArray
		insurance    pq.StringArray
		networkPlans pq.StringArray
		latitude     sql.NullFloat64
		longitude    sql.NullFloat64
		availability sql.NullString
	)

	err := row.Scan(
		&provider.ID,
		&provider.Name,
		&provider.ProviderType,
		&provider.Address,
		&provider.PhoneNumber,
		&specialties,
		&insurance,
		&networkPlans,
		&provider.Rating,
		&latitude,
		&longitude,
		&availability,
		&provider.IsActive,
		&provider.CreatedAt,
		&provider.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	provider.Specialties = specialties
	provider.AcceptedInsurance = insurance
	provider.InNetworkPlans = networkPlans
	provider.AvailabilityNext = availability.String
	if latitude.Valid && longitude.Valid {
		provider.Location = &entities.Location{
			Latitude:  latitude.Float64,
			Longitude: longitude.Float64,
		}
	}

	return provider, nil
}

func nullLatitude(loc *entities.Location) sql.NullFloat64 {
	if loc == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: loc.Latitude, Valid: true}
}

func nullLongitude(loc *entities.Location) sql.NullFloat64 {
	if loc == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: loc.Longitude, Valid: true}
}
