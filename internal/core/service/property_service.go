package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/akeray/property-system/internal/core/domain"
	"github.com/akeray/property-system/internal/core/ports"
)

const maxListLimit = 100

// PropertyService implements listing CRUD with the two authorization gates:
// owner eligibility on creation, resource ownership on every mutation.
type PropertyService struct {
	properties ports.PropertyRepository
	units      ports.UnitRepository
	owners     ports.PrincipalRepository
	log        zerolog.Logger
	now        func() time.Time
}

func NewPropertyService(
	properties ports.PropertyRepository,
	units ports.UnitRepository,
	owners ports.PrincipalRepository,
	log zerolog.Logger,
) *PropertyService {
	return &PropertyService{
		properties: properties,
		units:      units,
		owners:     owners,
		log:        log,
		now:        time.Now,
	}
}

// Create persists a new listing. An owner must be approved and verified;
// holding a valid access token is not enough. Admin-created listings carry
// no owner link.
func (s *PropertyService) Create(ctx context.Context, actor ports.Actor, in ports.CreatePropertyInput) (*domain.Property, error) {
	ownerID := ""
	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleOwner:
		owner, err := s.owners.FindByID(ctx, actor.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrForbidden
			}
			return nil, err
		}
		if !owner.EligibleForListings() {
			return nil, domain.ErrOwnerNotEligible
		}
		ownerID = actor.ID
	default:
		return nil, domain.ErrForbidden
	}

	now := s.now().UTC()
	created, err := s.properties.Create(ctx, &domain.Property{
		OwnerID:     ownerID,
		Name:        in.Name,
		Address:     in.Address,
		City:        in.City,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create property")
		return nil, err
	}

	s.log.Info().Str("property_id", created.ID).Str("owner_id", ownerID).Msg("property created")
	return created, nil
}

// Get returns a single listing. Reads are public.
func (s *PropertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	return s.properties.FindByID(ctx, id)
}

// List returns one page of listings.
func (s *PropertyService) List(ctx context.Context, filter ports.ListPropertiesFilter) (*ports.ListPropertiesResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	items, total, err := s.properties.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.ListPropertiesResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// Patch applies an allow-listed partial update after the ownership gate.
func (s *PropertyService) Patch(ctx context.Context, actor ports.Actor, id string, patch ports.PropertyPatch) (*domain.Property, error) {
	p, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMutation(actor, p); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	if patch.City != nil {
		p.City = *patch.City
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	p.UpdatedAt = s.now().UTC()

	if err := s.properties.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a listing and its units after the ownership gate.
func (s *PropertyService) Delete(ctx context.Context, actor ports.Actor, id string) error {
	p, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeMutation(actor, p); err != nil {
		return err
	}
	if err := s.units.DeleteByProperty(ctx, id); err != nil {
		return err
	}
	return s.properties.Delete(ctx, id)
}

// AddUnit creates a unit under a property the actor may mutate.
func (s *PropertyService) AddUnit(ctx context.Context, actor ports.Actor, propertyID string, in ports.CreateUnitInput) (*domain.Unit, error) {
	p, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMutation(actor, p); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	return s.units.Create(ctx, &domain.Unit{
		PropertyID:  propertyID,
		UnitNumber:  in.UnitNumber,
		Bedrooms:    in.Bedrooms,
		MonthlyRent: in.MonthlyRent,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// ListUnits returns every unit under a property. Reads are public.
func (s *PropertyService) ListUnits(ctx context.Context, propertyID string) ([]*domain.Unit, error) {
	if _, err := s.properties.FindByID(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.units.ListByProperty(ctx, propertyID)
}

// PatchUnit applies an allow-listed partial update. Authorization walks
// Unit -> Property -> OwnerID.
func (s *PropertyService) PatchUnit(ctx context.Context, actor ports.Actor, unitID string, patch ports.UnitPatch) (*domain.Unit, error) {
	u, p, err := s.loadUnitWithProperty(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMutation(actor, p); err != nil {
		return nil, err
	}

	if patch.UnitNumber != nil {
		u.UnitNumber = *patch.UnitNumber
	}
	if patch.Bedrooms != nil {
		u.Bedrooms = *patch.Bedrooms
	}
	if patch.MonthlyRent != nil {
		u.MonthlyRent = *patch.MonthlyRent
	}
	if patch.Occupied != nil {
		u.Occupied = *patch.Occupied
	}
	u.UpdatedAt = s.now().UTC()

	if err := s.units.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// RemoveUnit deletes a unit after the ownership gate.
func (s *PropertyService) RemoveUnit(ctx context.Context, actor ports.Actor, unitID string) error {
	u, p, err := s.loadUnitWithProperty(ctx, unitID)
	if err != nil {
		return err
	}
	if err := s.authorizeMutation(actor, p); err != nil {
		return err
	}
	return s.units.Delete(ctx, u.ID)
}

func (s *PropertyService) loadUnitWithProperty(ctx context.Context, unitID string) (*domain.Unit, *domain.Property, error) {
	u, err := s.units.FindByID(ctx, unitID)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.properties.FindByID(ctx, u.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	return u, p, nil
}

// authorizeMutation is the ownership gate: an owner may mutate only
// properties whose OwnerID equals their own id; admin bypasses.
func (s *PropertyService) authorizeMutation(actor ports.Actor, p *domain.Property) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleOwner:
		if p.OwnerID != actor.ID {
			return domain.ErrForbidden
		}
		return nil
	}
	return domain.ErrForbidden
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
