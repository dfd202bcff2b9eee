package ports

import (
	"context"

	"github.com/vpnservice/access-system/internal/core/domain"
)

// AuthService is the authentication collaborator boundary. The entitlement
// and credential engine never sees passwords; it only consumes user ids and
// active flags.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	// Login authenticates and returns a signed token. Disabled accounts are
	// rejected with domain.ErrAccountDisabled.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// UserSummary is the admin list view: an account plus its most recent
// entitlement, if any, with status recomputed at read time.
type UserSummary struct {
	User        *domain.User
	Entitlement *domain.Entitlement // nil when the user never subscribed
}

// UserService defines the admin-facing account operations.
type UserService interface {
	List(ctx context.Context) ([]*UserSummary, error)
	// ToggleActive flips the active flag and returns the new value.
	ToggleActive(ctx context.Context, userID, actor string) (bool, error)
}
