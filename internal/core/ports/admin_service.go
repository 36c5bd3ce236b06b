package ports

import (
	"context"

	"github.com/akeray/property-system/internal/core/domain"
)

// ListPrincipalsResult is one page of an admin directory listing.
type ListPrincipalsResult struct {
	Items      []*domain.Principal
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AdminService exposes the owner/tenant directory and the owner approval
// lifecycle to admin-only routes.
type AdminService interface {
	ListOwners(ctx context.Context, page, limit int) (*ListPrincipalsResult, error)
	ListTenants(ctx context.Context, page, limit int) (*ListPrincipalsResult, error)
	// SetOwnerStatus drives pending -> approved/rejected. Approval also marks
	// the owner verified, which is what the listing-creation gate checks.
	SetOwnerStatus(ctx context.Context, ownerID string, status domain.AccountStatus) (*domain.Principal, error)
}
