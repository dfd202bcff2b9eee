package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vpnservice/access-system/internal/core/domain"
	"github.com/vpnservice/access-system/internal/core/ports"
)

type userService struct {
	users        ports.UserRepository
	entitlements ports.EntitlementRepository
	audit        AuditPublisher
	log          zerolog.Logger
}

// NewUserService returns the admin-facing UserService implementation.
func NewUserService(
	users ports.UserRepository,
	entitlements ports.EntitlementRepository,
	audit AuditPublisher,
	log zerolog.Logger,
) ports.UserService {
	return &userService{users: users, entitlements: entitlements, audit: audit, log: log}
}

// List returns every account with its most recent entitlement. User counts
// are small (admin view); the per-user lookup is acceptable.
func (s *userService) List(ctx context.Context) ([]*ports.UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	out := make([]*ports.UserSummary, 0, len(users))
	for _, u := range users {
		summary := &ports.UserSummary{User: u}
		list, err := s.entitlements.ListByUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		if len(list) > 0 {
			latest := list[0]
			latest.Status = latest.StatusAt(now)
			summary.Entitlement = latest
		}
		out = append(out, summary)
	}
	return out, nil
}

// ToggleActive flips the account flag. Entitlements and the credential are
// untouched: a re-enabled account regains whatever access its entitlements
// still grant.
func (s *userService) ToggleActive(ctx context.Context, userID, actor string) (bool, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}

	active := !user.Active
	if err := s.users.SetActive(ctx, userID, active); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("failed to toggle user")
		return false, err
	}

	eventType := domain.EventUserDisabled
	if active {
		eventType = domain.EventUserEnabled
	}
	s.audit.Publish(ports.LifecycleEventInput{
		UserID:    userID,
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Actor:     actor,
	})

	s.log.Info().Str("user_id", userID).Bool("active", active).Str("actor", actor).Msg("user status toggled")
	return active, nil
}
