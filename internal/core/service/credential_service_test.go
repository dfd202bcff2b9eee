package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vpnservice/access-system/internal/core/domain"
	"github.com/vpnservice/access-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubCredentialRepo struct {
	byUser     map[string]*domain.Credential
	uuids      map[string]string // identifier -> user id
	collideFor int               // number of upcoming inserts/replaces to fail with ErrCredentialIDTaken
}

func newStubCredentialRepo() *stubCredentialRepo {
	return &stubCredentialRepo{
		byUser: make(map[string]*domain.Credential),
		uuids:  make(map[string]string),
	}
}

func cloneCredential(c *domain.Credential) *domain.Credential {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

func (r *stubCredentialRepo) Insert(_ context.Context, c *domain.Credential) error {
	if r.collideFor > 0 {
		r.collideFor--
		return domain.ErrCredentialIDTaken
	}
	if _, exists := r.byUser[c.UserID]; exists {
		return domain.ErrCredentialExists
	}
	if _, taken := r.uuids[c.UUID]; taken {
		return domain.ErrCredentialIDTaken
	}
	r.byUser[c.UserID] = cloneCredential(c)
	r.uuids[c.UUID] = c.UserID
	return nil
}

func (r *stubCredentialRepo) FindByUser(_ context.Context, userID string) (*domain.Credential, error) {
	c, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrCredentialNotFound
	}
	return cloneCredential(c), nil
}

func (r *stubCredentialRepo) ReplaceUUID(_ context.Context, userID, newUUID string) (*domain.Credential, error) {
	if r.collideFor > 0 {
		r.collideFor--
		return nil, domain.ErrCredentialIDTaken
	}
	c, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrCredentialNotFound
	}
	if owner, taken := r.uuids[newUUID]; taken && owner != userID {
		return nil, domain.ErrCredentialIDTaken
	}
	delete(r.uuids, c.UUID)
	c.UUID = newUUID
	c.RotatedAt = time.Now().UTC()
	r.uuids[newUUID] = userID
	return cloneCredential(c), nil
}

type stubLocker struct {
	locks int
}

func (l *stubLocker) Lock(_ context.Context, _ string) (func(), error) {
	l.locks++
	return func() {}, nil
}

// stubAccess returns a canned access decision.
type stubAccess struct {
	result ports.AccessResult
}

func (s *stubAccess) Subscribe(_ context.Context, _ ports.SubscribeInput) (*ports.SubscribeResult, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAccess) CurrentAccess(_ context.Context, _ string, _ time.Time) (*ports.AccessResult, error) {
	res := s.result
	return &res, nil
}

func (s *stubAccess) ListForUser(_ context.Context, _ string, _ time.Time) ([]*domain.Entitlement, error) {
	return nil, nil
}

func granted() *stubAccess {
	return &stubAccess{result: ports.AccessResult{Granted: true}}
}

func denied(reason domain.DenyReason) *stubAccess {
	return &stubAccess{result: ports.AccessResult{Granted: false, Reason: reason}}
}

var testDefaults = DescriptorDefaults{Server: "vpn.example.com", Port: 443, Protocol: "vmess"}

func newTestCredentialService(repo *stubCredentialRepo, access ports.EntitlementService) ports.CredentialService {
	return NewCredentialService(repo, access, &stubLocker{}, &stubAudit{}, testDefaults, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestCredentialService_Issue_Idempotent(t *testing.T) {
	repo := newStubCredentialRepo()
	svc := newTestCredentialService(repo, granted())

	first, err := svc.Issue(context.Background(), "u1")
	if err != nil {
		t.Fatalf("first Issue returned error: %v", err)
	}
	second, err := svc.Issue(context.Background(), "u1")
	if err != nil {
		t.Fatalf("second Issue returned error: %v", err)
	}
	if first.UUID != second.UUID {
		t.Fatalf("repeated issue rotated the identifier: %s != %s", first.UUID, second.UUID)
	}
	if len(repo.byUser) != 1 {
		t.Fatalf("expected exactly one stored credential, got %d", len(repo.byUser))
	}
}

func TestCredentialService_Issue_UniqueAcrossUsers(t *testing.T) {
	repo := newStubCredentialRepo()
	svc := newTestCredentialService(repo, granted())

	c1, err := svc.Issue(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Issue u1: %v", err)
	}
	c2, err := svc.Issue(context.Background(), "u2")
	if err != nil {
		t.Fatalf("Issue u2: %v", err)
	}
	if c1.UUID == c2.UUID {
		t.Fatalf("two users share an identifier")
	}
}

func TestCredentialService_Issue_RetriesCollisionOnce(t *testing.T) {
	repo := newStubCredentialRepo()
	repo.collideFor = 1
	svc := newTestCredentialService(repo, granted())

	cred, err := svc.Issue(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Issue must survive a single collision, got %v", err)
	}
	if cred.UUID == "" {
		t.Fatalf("expected regenerated identifier")
	}
}

func TestCredentialService_Issue_SecondCollisionIsFatal(t *testing.T) {
	repo := newStubCredentialRepo()
	repo.collideFor = 2
	svc := newTestCredentialService(repo, granted())

	if _, err := svc.Issue(context.Background(), "u1"); err == nil {
		t.Fatalf("expected error after two consecutive collisions")
	}
	if len(repo.byUser) != 0 {
		t.Fatalf("no credential must be stored after fatal failure")
	}
}

func TestCredentialService_Rotate_ReplacesIdentifier(t *testing.T) {
	repo := newStubCredentialRepo()
	svc := newTestCredentialService(repo, granted())

	before, err := svc.Issue(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	after, err := svc.Rotate(context.Background(), "u1", "admin-1")
	if err != nil {
		t.Fatalf("Rotate returned error: %v", err)
	}
	if after.UUID == before.UUID {
		t.Fatalf("rotation kept the old identifier")
	}
	// The old identifier must no longer resolve to the user.
	if owner, taken := repo.uuids[before.UUID]; taken {
		t.Fatalf("old identifier still associated with %s", owner)
	}
	if repo.uuids[after.UUID] != "u1" {
		t.Fatalf("new identifier not associated with the user")
	}
}

func TestCredentialService_Rotate_NeverIssued(t *testing.T) {
	svc := newTestCredentialService(newStubCredentialRepo(), granted())

	if _, err := svc.Rotate(context.Background(), "u1", "admin-1"); !errors.Is(err, domain.ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound, got %v", err)
	}
}

func TestCredentialService_AccessDescriptor_Granted(t *testing.T) {
	repo := newStubCredentialRepo()
	svc := newTestCredentialService(repo, granted())

	d, err := svc.AccessDescriptor(context.Background(), "u1", time.Now().UTC())
	if err != nil {
		t.Fatalf("AccessDescriptor returned error: %v", err)
	}
	if d.Server != "vpn.example.com" || d.Port != 443 || d.Protocol != "vmess" {
		t.Fatalf("unexpected descriptor: %+v", d)
	}
	cred, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("credential should have been lazily issued: %v", err)
	}
	if d.ID != cred.UUID {
		t.Fatalf("descriptor id %s does not match stored identifier %s", d.ID, cred.UUID)
	}
}

func TestCredentialService_AccessDescriptor_DeniedAllocatesNothing(t *testing.T) {
	repo := newStubCredentialRepo()
	svc := newTestCredentialService(repo, denied(domain.DenyNoActiveEntitlement))

	_, err := svc.AccessDescriptor(context.Background(), "u1", time.Now().UTC())
	var denied *domain.AccessDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected AccessDeniedError, got %v", err)
	}
	if denied.Reason != domain.DenyNoActiveEntitlement {
		t.Fatalf("unexpected reason: %s", denied.Reason)
	}

	// Denial must not leak a credential into storage.
	if _, err := svc.Get(context.Background(), "u1"); !errors.Is(err, domain.ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound after denial, got %v", err)
	}
}

func TestCredentialService_AccessDescriptor_DisabledReason(t *testing.T) {
	svc := newTestCredentialService(newStubCredentialRepo(), denied(domain.DenyAccountDisabled))

	_, err := svc.AccessDescriptor(context.Background(), "u1", time.Now().UTC())
	var deniedErr *domain.AccessDeniedError
	if !errors.As(err, &deniedErr) {
		t.Fatalf("expected AccessDeniedError, got %v", err)
	}
	if deniedErr.Reason != domain.DenyAccountDisabled {
		t.Fatalf("expected account_disabled, got %s", deniedErr.Reason)
	}
}
