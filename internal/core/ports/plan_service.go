package ports

import (
	"context"

	"github.com/vpnservice/access-system/internal/core/domain"
)

// CreatePlanInput carries the admin-supplied fields for a new plan.
type CreatePlanInput struct {
	Name         string
	Price        float64
	DurationDays int
}

// UpdatePlanInput carries the editable fields of an existing plan. Edits are
// never retroactive: entitlement end dates are frozen at creation.
type UpdatePlanInput struct {
	ID           string
	Name         string
	Price        float64
	DurationDays int
}

// PlanService defines use-case operations on the plan catalog.
type PlanService interface {
	Create(ctx context.Context, in CreatePlanInput) (*domain.Plan, error)
	Update(ctx context.Context, in UpdatePlanInput) (*domain.Plan, error)
	// Deactivate retires a plan from sale. Idempotent; existing entitlements
	// are untouched.
	Deactivate(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Plan, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Plan, error)
}
