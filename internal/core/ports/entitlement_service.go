package ports

import (
	"context"
	"time"

	"github.com/vpnservice/access-system/internal/core/domain"
)

// SubscribeInput carries all data needed to assign an entitlement. Now is
// threaded explicitly so the engine stays a pure function of its arguments.
type SubscribeInput struct {
	UserID string
	PlanID string
	Now    time.Time
	// Actor is the id of the caller (admin) recorded in the audit trail.
	Actor string
}

// SubscribeResult is returned after creating an entitlement.
type SubscribeResult struct {
	Entitlement *domain.Entitlement
	// UserInactive flags that the target account is currently disabled. The
	// entitlement was still created: access resumes automatically if the
	// account is re-enabled.
	UserInactive bool
}

// AccessResult is the outcome of a fresh dual-gate access check.
type AccessResult struct {
	Granted bool
	// Reason is set only when Granted is false.
	Reason domain.DenyReason
}

// EntitlementService orchestrates entitlement creation and access resolution.
type EntitlementService interface {
	Subscribe(ctx context.Context, in SubscribeInput) (*SubscribeResult, error)
	// CurrentAccess evaluates account state AND entitlement state at now.
	// Results are never cached: both inputs change out-of-band.
	CurrentAccess(ctx context.Context, userID string, now time.Time) (*AccessResult, error)
	// ListForUser returns the user's full entitlement history, most recent
	// first, each with status recomputed at now.
	ListForUser(ctx context.Context, userID string, now time.Time) ([]*domain.Entitlement, error)
}
