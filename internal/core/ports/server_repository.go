package ports

import (
	"context"

	"github.com/vpnservice/access-system/internal/core/domain"
)

// ServerRepository defines persistence for the VPN node inventory.
type ServerRepository interface {
	Create(ctx context.Context, s *domain.Server) error
	Update(ctx context.Context, s *domain.Server) error
	FindByID(ctx context.Context, id string) (*domain.Server, error)
	// List returns servers ordered by country then city. When activeOnly is
	// set, disabled entries are filtered out.
	List(ctx context.Context, activeOnly bool) ([]*domain.Server, error)
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) error
}
