package ports

import (
	"context"

	"github.com/vpnservice/access-system/internal/core/domain"
)

// ServerInput carries the admin-supplied fields for a catalog entry.
type ServerInput struct {
	Name         string
	Country      string
	City         string
	Status       string
	LocationCode string
}

// ServerService defines the catalog operations. Unlike plans, servers are not
// referenced by entitlements and may be hard-deleted.
type ServerService interface {
	Create(ctx context.Context, in ServerInput) (*domain.Server, error)
	Update(ctx context.Context, id string, in ServerInput) (*domain.Server, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, activeOnly bool) ([]*domain.Server, error)
	// ToggleActive flips the active flag and returns the new value.
	ToggleActive(ctx context.Context, id string) (bool, error)
}
