package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/entities"
	"github.com/zatekoja/Caretransitiondesign/internal/domain/providers"
	"github.com/zatekoja/Caretransitiondesign/internal/domain/repositories"
	"github.com/zatekoja/Caretransitiondesign/internal/infrastructure/observability"
)

// CachedProviderAdapter wraps ProviderAdapter with read caching. The match
// engine ranks the full active provider list on every request, so the list
// read is the hot path worth caching.
type CachedProviderAdapter struct {
	adapter repositories.ProviderRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedProviderAdapter creates a new cached provider adapter. Metrics
// may be nil; hit/miss counters are then skipped.
func NewCachedProviderAdapter(adapter repositories.ProviderRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.ProviderRepository {
	return &CachedProviderAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

// Cache TTLs (in seconds)
const (
	providerByIDTTL  = 300 // 5 minutes for single provider
	providersListTTL = 180 // 3 minutes for lists
)

func providerCacheKey(id string) string {
	return fmt.Sprintf("provider:%s", id)
}

func providersListCacheKey(filter repositories.ProviderFilter) string {
	active := "any"
	if filter.IsActive != nil {
		active = fmt.Sprintf("%t", *filter.IsActive)
	}
	return fmt.Sprintf("providers:list:%s:%s:%s:%d:%d",
		filter.ProviderType, filter.Specialty, active, filter.Limit, filter.Offset)
}

// GetByID retrieves a provider by ID with caching
func (a *CachedProviderAdapter) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	cacheKey := providerCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var provider entities.Provider
		if err := json.Unmarshal(cached, &provider); err == nil {
			a.recordHit(ctx)
			return &provider, nil
		}
	}
	a.recordMiss(ctx)

	provider, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(provider); err == nil {
		if err := a.cache.Set(ctx, cacheKey, data, providerByIDTTL); err != nil {
			log.Warn().Err(err).Str("provider_id", id).Msg("failed to cache provider")
		}
	}

	return provider, nil
}

// List retrieves providers with caching
func (a *CachedProviderAdapter) List(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.Provider, error) {
	cacheKey := providersListCacheKey(filter)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var providerList []*entities.Provider
		if err := json.Unmarshal(cached, &providerList); err == nil {
			a.recordHit(ctx)
			return providerList, nil
		}
	}
	a.recordMiss(ctx)

	providerList, err := a.adapter.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(providerList); err == nil {
		if err := a.cache.Set(ctx, cacheKey, data, providersListTTL); err != nil {
			log.Warn().Err(err).Msg("failed to cache provider list")
		}
	}

	return providerList, nil
}

// Create creates a provider and invalidates the single-provider key
func (a *CachedProviderAdapter) Create(ctx context.Context, provider *entities.Provider) error {
	if err := a.adapter.Create(ctx, provider); err != nil {
		return err
	}
	a.invalidate(ctx, provider.ID)
	return nil
}

// Update updates a provider and invalidates the single-provider key
func (a *CachedProviderAdapter) Update(ctx context.Context, provider *entities.Provider) error {
	if err := a.adapter.Update(ctx, provider); err != nil {
		return err
	}
	a.invalidate(ctx, provider.ID)
	return nil
}

// Delete deletes a provider and invalidates the single-provider key
func (a *CachedProviderAdapter) Delete(ctx context.Context, id string) error {
	if err := a.adapter.Delete(ctx, id); err != nil {
		return err
	}
	a.invalidate(ctx, id)
	return nil
}

// invalidate drops the single-provider key. List keys age out on their
// short TTL rather than being tracked per filter combination.
func (a *CachedProviderAdapter) invalidate(ctx context.Context, id string) {
	if err := a.cache.Delete(ctx, providerCacheKey(id)); err != nil {
		log.Warn().Err(err).Str("provider_id", id).Msg("failed to invalidate provider cache")
	}
}

func (a *CachedProviderAdapter) recordHit(ctx context.Context) {
	if a.metrics != nil {
		observability.RecordCacheHit(ctx, a.metrics, "provider")
	}
}

func (a *CachedProviderAdapter) recordMiss(ctx context.Context) {
	if a.metrics != nil {
		observability.RecordCacheMiss(ctx, a.metrics, "provider")
	}
}
