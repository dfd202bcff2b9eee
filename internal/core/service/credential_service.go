package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vpnservice/access-system/internal/api/metrics"
	"github.com/vpnservice/access-system/internal/core/domain"
	"github.com/vpnservice/access-system/internal/core/ports"
)

// UserLocker serializes issue/rotate per user across service instances
// (Redis SET NX). The returned func releases the lock.
type UserLocker interface {
	Lock(ctx context.Context, userID string) (func(), error)
}

// DescriptorDefaults are the deployment parameters baked into every issued
// credential: which node, port and protocol clients connect with.
type DescriptorDefaults struct {
	Server   string
	Port     int
	Protocol string
}

type credentialService struct {
	creds        ports.CredentialRepository
	entitlements ports.EntitlementService
	locker       UserLocker
	audit        AuditPublisher
	defaults     DescriptorDefaults
	log          zerolog.Logger
}

// NewCredentialService returns a CredentialService implementation.
func NewCredentialService(
	creds ports.CredentialRepository,
	entitlements ports.EntitlementService,
	locker UserLocker,
	audit AuditPublisher,
	defaults DescriptorDefaults,
	log zerolog.Logger,
) ports.CredentialService {
	if defaults.Protocol == "" {
		defaults.Protocol = domain.ProtocolVmess
	}
	return &credentialService{
		creds:        creds,
		entitlements: entitlements,
		locker:       locker,
		audit:        audit,
		defaults:     defaults,
		log:          log,
	}
}

// Issue returns the user's credential, creating it on first call. The
// per-user lock plus the storage unique index on user id guarantee at most
// one credential is durably persisted under concurrent issuance.
func (s *credentialService) Issue(ctx context.Context, userID string) (*domain.Credential, error) {
	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("issue credential: acquire lock: %w", err)
	}
	defer unlock()

	existing, err := s.creds.FindByUser(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrCredentialNotFound) {
		return nil, err
	}

	cred := &domain.Credential{
		ID:        uuid.NewString(),
		UserID:    userID,
		UUID:      uuid.NewString(),
		Server:    s.defaults.Server,
		Port:      s.defaults.Port,
		Protocol:  s.defaults.Protocol,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.insertWithRetry(ctx, cred); err != nil {
		if errors.Is(err, domain.ErrCredentialExists) {
			// Lost a concurrent race despite the lock; the stored row wins.
			return s.creds.FindByUser(ctx, userID)
		}
		return nil, err
	}

	s.audit.Publish(ports.LifecycleEventInput{
		UserID:    userID,
		Type:      domain.EventCredentialIssued,
		Timestamp: cred.CreatedAt,
		Actor:     userID,
	})
	metrics.CredentialsIssuedTotal.Inc()
	s.log.Info().Str("user_id", userID).Str("credential_id", cred.ID).Msg("credential issued")
	return cred, nil
}

// insertWithRetry regenerates the identifier exactly once on a global
// uniqueness collision. The storage constraint is the authority; any second
// collision propagates as a storage failure.
func (s *credentialService) insertWithRetry(ctx context.Context, cred *domain.Credential) error {
	err := s.creds.Insert(ctx, cred)
	if !errors.Is(err, domain.ErrCredentialIDTaken) {
		return err
	}

	metrics.CredentialIDRetriesTotal.Inc()
	s.log.Warn().Str("user_id", cred.UserID).Msg("credential identifier collision, regenerating")
	cred.UUID = uuid.NewString()
	if err := s.creds.Insert(ctx, cred); err != nil {
		return fmt.Errorf("insert credential after regeneration: %w", err)
	}
	return nil
}

// Rotate replaces the stored identifier. The old one is invalid immediately.
func (s *credentialService) Rotate(ctx context.Context, userID, actor string) (*domain.Credential, error) {
	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("rotate credential: acquire lock: %w", err)
	}
	defer unlock()

	if _, err := s.creds.FindByUser(ctx, userID); err != nil {
		return nil, err
	}

	cred, err := s.creds.ReplaceUUID(ctx, userID, uuid.NewString())
	if errors.Is(err, domain.ErrCredentialIDTaken) {
		cred, err = s.creds.ReplaceUUID(ctx, userID, uuid.NewString())
	}
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("failed to rotate credential")
		return nil, err
	}

	metrics.CredentialsRotatedTotal.Inc()
	s.audit.Publish(ports.LifecycleEventInput{
		UserID:    userID,
		Type:      domain.EventCredentialRotated,
		Timestamp: time.Now().UTC(),
		Actor:     actor,
	})
	s.log.Info().Str("user_id", userID).Str("actor", actor).Msg("credential rotated")
	return cred, nil
}

func (s *credentialService) Get(ctx context.Context, userID string) (*domain.Credential, error) {
	return s.creds.FindByUser(ctx, userID)
}

// AccessDescriptor gates credential allocation on a fresh access check.
// Denied users get *domain.AccessDeniedError and no credential row — issuing
// to users without access would waste the uniqueness space and leak secrets.
func (s *credentialService) AccessDescriptor(ctx context.Context, userID string, now time.Time) (*domain.AccessDescriptor, error) {
	res, err := s.entitlements.CurrentAccess(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if !res.Granted {
		return nil, &domain.AccessDeniedError{Reason: res.Reason}
	}

	cred, err := s.Issue(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.AccessDescriptor{
		Server:   cred.Server,
		Port:     cred.Port,
		Protocol: cred.Protocol,
		ID:       cred.UUID,
	}, nil
}
