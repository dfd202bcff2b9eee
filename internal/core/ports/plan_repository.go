package ports

import (
	"context"

	"github.com/vpnservice/access-system/internal/core/domain"
)

// PlanRepository defines persistence operations for subscription plans.
// Plans are never hard-deleted: entitlements keep referencing them after
// deactivation.
type PlanRepository interface {
	Create(ctx context.Context, p *domain.Plan) error
	Update(ctx context.Context, p *domain.Plan) error
	FindByID(ctx context.Context, id string) (*domain.Plan, error)
	// List returns plans ordered by duration ascending. When activeOnly is
	// set, deactivated plans are filtered out.
	List(ctx context.Context, activeOnly bool) ([]*domain.Plan, error)
	// SetActive flips the active flag. Returns domain.ErrPlanNotFound for an
	// unknown id; setting the current value again is a no-op.
	SetActive(ctx context.Context, id string, active bool) error
}
