package ports

import (
	"context"

	"github.com/vpnservice/access-system/internal/core/domain"
)

// UserRepository defines persistence for accounts. It backs both the
// authentication collaborator and the admin user views.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// List returns all accounts ordered by creation time descending.
	List(ctx context.Context) ([]*domain.User, error)
	SetActive(ctx context.Context, id string, active bool) error
}
