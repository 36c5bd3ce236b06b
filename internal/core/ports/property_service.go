package ports

import (
	"context"

	"github.com/akeray/property-system/internal/core/domain"
)

// Actor is the caller identity reconstructed from a decoded access token.
type Actor struct {
	ID    string
	Email string
	Role  domain.Role
}

// CreatePropertyInput carries the fields a caller may set at creation.
type CreatePropertyInput struct {
	Name        string
	Address     string
	City        string
	Description string
}

// PropertyPatch is an explicit allow-list of mutable property fields. Nil
// means "leave unchanged". OwnerID is deliberately absent: ownership cannot
// be reassigned through a patch.
type PropertyPatch struct {
	Name        *string
	Address     *string
	City        *string
	Description *string
}

// CreateUnitInput carries the fields for a new unit under a property.
type CreateUnitInput struct {
	UnitNumber  string
	Bedrooms    int
	MonthlyRent float64
}

// UnitPatch is the allow-listed partial update for a unit. PropertyID is
// absent: a unit cannot be moved between properties through a patch.
type UnitPatch struct {
	UnitNumber  *string
	Bedrooms    *int
	MonthlyRent *float64
	Occupied    *bool
}

// ListPropertiesResult is one page of listings.
type ListPropertiesResult struct {
	Items      []*domain.Property
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// PropertyService defines the listing use cases. Reads are public; every
// mutation enforces the ownership gate (owner may touch only properties
// whose OwnerID equals their id, admin bypasses) and creation additionally
// enforces owner eligibility (approved + verified).
type PropertyService interface {
	Create(ctx context.Context, actor Actor, in CreatePropertyInput) (*domain.Property, error)
	Get(ctx context.Context, id string) (*domain.Property, error)
	List(ctx context.Context, filter ListPropertiesFilter) (*ListPropertiesResult, error)
	Patch(ctx context.Context, actor Actor, id string, patch PropertyPatch) (*domain.Property, error)
	Delete(ctx context.Context, actor Actor, id string) error

	AddUnit(ctx context.Context, actor Actor, propertyID string, in CreateUnitInput) (*domain.Unit, error)
	ListUnits(ctx context.Context, propertyID string) ([]*domain.Unit, error)
	PatchUnit(ctx context.Context, actor Actor, unitID string, patch UnitPatch) (*domain.Unit, error)
	RemoveUnit(ctx context.Context, actor Actor, unitID string) error
}
