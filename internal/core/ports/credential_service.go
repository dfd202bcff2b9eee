package ports

import (
	"context"
	"time"

	"github.com/vpnservice/access-system/internal/core/domain"
)

// CredentialService issues and rotates per-user access credentials and builds
// exportable descriptors.
type CredentialService interface {
	// Issue returns the user's credential, creating one on first call.
	// Idempotent: repeated calls never rotate the identifier.
	Issue(ctx context.Context, userID string) (*domain.Credential, error)
	// Rotate forcibly replaces the identifier. Explicit admin action, never
	// automatic. Fails with domain.ErrCredentialNotFound if never issued.
	Rotate(ctx context.Context, userID, actor string) (*domain.Credential, error)
	Get(ctx context.Context, userID string) (*domain.Credential, error)
	// AccessDescriptor gates on a fresh access check. On denial it returns
	// *domain.AccessDeniedError and allocates nothing.
	AccessDescriptor(ctx context.Context, userID string, now time.Time) (*domain.AccessDescriptor, error)
}
