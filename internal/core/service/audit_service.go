package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/akeray/property-system/internal/core/domain"
	"github.com/akeray/property-system/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns the AuditService that persists authentication
// events delivered by the dispatcher workers.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists one event. Failures are returned so the dispatcher can
// count them; the trail is best-effort and never retried.
func (s *auditService) Process(ctx context.Context, event domain.AuthEvent) error {
	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		return fmt.Errorf("audit event: %w", err)
	}
	s.log.Debug().
		Str("email", event.Email).
		Str("kind", string(event.Kind)).
		Msg("auth event recorded")
	return nil
}
