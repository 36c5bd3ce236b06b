package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/akeray/property-system/internal/core/domain"
	"github.com/akeray/property-system/internal/core/ports"
)

// AdminService backs the admin-only directory and approval routes.
type AdminService struct {
	stores ports.PrincipalStores
	log    zerolog.Logger
	now    func() time.Time
}

func NewAdminService(stores ports.PrincipalStores, log zerolog.Logger) *AdminService {
	return &AdminService{stores: stores, log: log, now: time.Now}
}

// ListOwners returns one page of the owner directory.
func (s *AdminService) ListOwners(ctx context.Context, page, limit int) (*ports.ListPrincipalsResult, error) {
	return s.list(ctx, s.stores.Owners, page, limit)
}

// ListTenants returns one page of the tenant directory.
func (s *AdminService) ListTenants(ctx context.Context, page, limit int) (*ports.ListPrincipalsResult, error) {
	return s.list(ctx, s.stores.Tenants, page, limit)
}

// SetOwnerStatus drives the pending -> approved/rejected transition.
// Approval also marks the owner verified; both conditions feed the
// listing-creation gate.
func (s *AdminService) SetOwnerStatus(ctx context.Context, ownerID string, status domain.AccountStatus) (*domain.Principal, error) {
	if status != domain.StatusApproved && status != domain.StatusRejected {
		return nil, domain.ErrInvalidStatus
	}

	owner, err := s.stores.Owners.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	owner.Status = status
	owner.Verified = status == domain.StatusApproved
	owner.UpdatedAt = s.now().UTC()

	saved, err := s.stores.Owners.Save(ctx, owner)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("owner_id", ownerID).
		Str("status", string(status)).
		Msg("owner status updated")
	return saved, nil
}

func (s *AdminService) list(ctx context.Context, store ports.PrincipalRepository, page, limit int) (*ports.ListPrincipalsResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxListLimit {
		limit = maxListLimit
	}

	items, total, err := store.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return &ports.ListPrincipalsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}
