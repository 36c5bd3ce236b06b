package ports

import (
	"context"

	"github.com/akeray/property-system/internal/core/domain"
)

// PrincipalRepository is the persistence contract for one role store.
// Implementations must apply domain.NormalizeEmail to lookups exactly as
// writes do, and must surface a unique-email violation as ErrDuplicateEmail.
type PrincipalRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Principal, error)
	FindByID(ctx context.Context, id string) (*domain.Principal, error)
	Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
	Save(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
	List(ctx context.Context, page, limit int) ([]*domain.Principal, int64, error)
}

// PrincipalStores bundles the three role stores. Email uniqueness is scoped
// per store: the same address may exist as both a tenant and an owner.
type PrincipalStores struct {
	Admins  PrincipalRepository
	Owners  PrincipalRepository
	Tenants PrincipalRepository
}

// ByRole selects the store backing a role. The role switch happens here,
// once, instead of being re-dispatched on strings throughout the services.
func (s PrincipalStores) ByRole(role domain.Role) (PrincipalRepository, error) {
	switch role {
	case domain.RoleAdmin:
		return s.Admins, nil
	case domain.RoleOwner:
		return s.Owners, nil
	case domain.RoleTenant:
		return s.Tenants, nil
	}
	return nil, domain.ErrUnknownRole
}
