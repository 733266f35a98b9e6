package repositories

import (
	"context"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/entities"
)

// ProviderFilter defines filtering options for listing providers
type ProviderFilter struct {
	ProviderType string
	Specialty    string
	IsActive     *bool
	Limit        int
	Offset       int
}

// ProviderRepository defines the interface for provider data access
type ProviderRepository interface {
	Create(ctx context.Context, provider *entities.Provider) error
	GetByID(ctx context.Context, id string) (*entities.Provider, error)
	List(ctx context.Context, filter ProviderFilter) ([]*entities.Provider, error)
	Update(ctx context.Context, provider *entities.Provider) error
	Delete(ctx context.Context, id string) error
}
