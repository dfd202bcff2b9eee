package ports

import (
	"context"

	"github.com/vpnservice/access-system/internal/core/domain"
)

// CredentialRepository persists the one durable credential per user. The
// storage layer is the authority for both uniqueness constraints: Insert is
// an insert-if-absent on user id, and the identifier is globally unique
// across all users.
type CredentialRepository interface {
	// Insert persists a new credential. Returns domain.ErrCredentialExists
	// when the user already holds one, domain.ErrCredentialIDTaken when the
	// identifier collides with another user's.
	Insert(ctx context.Context, c *domain.Credential) error
	FindByUser(ctx context.Context, userID string) (*domain.Credential, error)
	// ReplaceUUID swaps the stored identifier for a rotated one. The old
	// identifier is permanently invalid afterwards. Same error contract as
	// Insert for identifier collisions.
	ReplaceUUID(ctx context.Context, userID, newUUID string) (*domain.Credential, error)
}
