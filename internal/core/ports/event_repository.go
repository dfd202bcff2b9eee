package ports

import (
	"context"

	"github.com/vpnservice/access-system/internal/core/domain"
)

// EventRepository persists the lifecycle audit trail.
type EventRepository interface {
	InsertEvent(ctx context.Context, event *domain.LifecycleEvent) error
	// ListByUser returns a user's audit events, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.LifecycleEvent, error)
}
