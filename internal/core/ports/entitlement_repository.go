package ports

import (
	"context"

	"github.com/vpnservice/access-system/internal/core/domain"
)

// EntitlementRepository is a pure time-based ledger. It never rejects writes
// on account state and never rewrites prior rows; overlapping entitlements
// per user are expected.
type EntitlementRepository interface {
	Insert(ctx context.Context, e *domain.Entitlement) error
	// ListByUser returns all entitlements for a user ordered by start time
	// descending. Stored status may be stale; callers derive the real value
	// via domain.Entitlement.StatusAt.
	ListByUser(ctx context.Context, userID string) ([]*domain.Entitlement, error)
}
