package ports

import (
	"context"

	"github.com/akeray/property-system/internal/core/domain"
)

// AuthEventRecorder accepts audit events without blocking the request path.
// Implementations may drop events under pressure; authentication must never
// wait on the audit trail.
type AuthEventRecorder interface {
	Record(event domain.AuthEvent)
}

// AuditService processes recorded events off the request path.
type AuditService interface {
	Process(ctx context.Context, event domain.AuthEvent) error
}

// AuditRepository persists the authentication audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}
