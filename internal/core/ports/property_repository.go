package ports

import (
	"context"

	"github.com/akeray/property-system/internal/core/domain"
)

// ListPropertiesFilter carries the query parameters for listing properties.
type ListPropertiesFilter struct {
	OwnerID string // empty = no owner filter
	City    string // optional: exact match
	Page    int    // 1-based
	Limit   int    // capped by the service
}

// PropertyRepository defines persistence operations for property listings.
type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) (*domain.Property, error)
	FindByID(ctx context.Context, id string) (*domain.Property, error)
	List(ctx context.Context, filter ListPropertiesFilter) ([]*domain.Property, int64, error)
	Update(ctx context.Context, p *domain.Property) error
	Delete(ctx context.Context, id string) error
}

// UnitRepository defines persistence operations for units.
type UnitRepository interface {
	Create(ctx context.Context, u *domain.Unit) (*domain.Unit, error)
	FindByID(ctx context.Context, id string) (*domain.Unit, error)
	ListByProperty(ctx context.Context, propertyID string) ([]*domain.Unit, error)
	Update(ctx context.Context, u *domain.Unit) error
	Delete(ctx context.Context, id string) error
	// DeleteByProperty removes every unit under a property when the
	// property itself is deleted.
	DeleteByProperty(ctx context.Context, propertyID string) error
}
