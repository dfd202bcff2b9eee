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

// AuditPublisher abstracts the async audit pipeline (queue.Dispatcher).
type AuditPublisher interface {
	Publish(event ports.LifecycleEventInput)
}

type entitlementService struct {
	plans        ports.PlanRepository
	entitlements ports.EntitlementRepository
	users        ports.UserRepository
	audit        AuditPublisher
	log          zerolog.Logger
}

// NewEntitlementService returns an EntitlementService implementation.
func NewEntitlementService(
	plans ports.PlanRepository,
	entitlements ports.EntitlementRepository,
	users ports.UserRepository,
	audit AuditPublisher,
	log zerolog.Logger,
) ports.EntitlementService {
	return &entitlementService{
		plans:        plans,
		entitlements: entitlements,
		users:        users,
		audit:        audit,
		log:          log,
	}
}

// Subscribe creates a new entitlement from the plan's current duration. The
// end date is computed here once and never changes afterwards. Prior
// entitlements are left untouched — overlapping grants stack, access is the
// OR across them.
func (s *entitlementService) Subscribe(ctx context.Context, in ports.SubscribeInput) (*ports.SubscribeResult, error) {
	plan, err := s.plans.FindByID(ctx, in.PlanID)
	if err != nil {
		if errors.Is(err, domain.ErrPlanNotFound) {
			return nil, domain.ErrPlanUnavailable
		}
		return nil, err
	}
	if !plan.Active {
		return nil, domain.ErrPlanUnavailable
	}

	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	now := in.Now.UTC()
	entitlement := &domain.Entitlement{
		ID:       uuid.NewString(),
		UserID:   in.UserID,
		PlanID:   plan.ID,
		PlanName: plan.Name,
		StartAt:  now,
		EndAt:    now.Add(time.Duration(plan.DurationDays) * 24 * time.Hour),
	}
	entitlement.Status = entitlement.StatusAt(now)

	if err := s.entitlements.Insert(ctx, entitlement); err != nil {
		s.log.Error().Err(err).Str("user_id", in.UserID).Str("plan_id", plan.ID).Msg("failed to create entitlement")
		return nil, err
	}

	metrics.EntitlementsCreatedTotal.WithLabelValues(plan.Name).Inc()
	s.audit.Publish(ports.LifecycleEventInput{
		UserID:    in.UserID,
		Type:      domain.EventEntitlementCreated,
		Timestamp: now,
		Actor:     in.Actor,
		Detail:    fmt.Sprintf("plan %s until %s", plan.Name, entitlement.EndAt.Format(time.RFC3339)),
	})

	s.log.Info().
		Str("entitlement_id", entitlement.ID).
		Str("user_id", in.UserID).
		Str("plan", plan.Name).
		Time("end_at", entitlement.EndAt).
		Bool("user_inactive", !user.Active).
		Msg("entitlement created")

	return &ports.SubscribeResult{
		Entitlement:  entitlement,
		UserInactive: !user.Active,
	}, nil
}

// CurrentAccess applies the dual gate: the account must be active AND at
// least one entitlement must be unexpired at now. Evaluated fresh on every
// call; nothing here may be cached.
func (s *entitlementService) CurrentAccess(ctx context.Context, userID string, now time.Time) (*ports.AccessResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		metrics.AccessChecksTotal.WithLabelValues("denied", string(domain.DenyAccountDisabled)).Inc()
		return &ports.AccessResult{Granted: false, Reason: domain.DenyAccountDisabled}, nil
	}

	list, err := s.entitlements.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, e := range list {
		if e.StatusAt(now) == domain.EntitlementActive {
			metrics.AccessChecksTotal.WithLabelValues("granted", "").Inc()
			return &ports.AccessResult{Granted: true}, nil
		}
	}
	metrics.AccessChecksTotal.WithLabelValues("denied", string(domain.DenyNoActiveEntitlement)).Inc()
	return &ports.AccessResult{Granted: false, Reason: domain.DenyNoActiveEntitlement}, nil
}

// ListForUser returns the user's history, most recent first, with the stored
// status refreshed through the pure derivation.
func (s *entitlementService) ListForUser(ctx context.Context, userID string, now time.Time) ([]*domain.Entitlement, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	list, err := s.entitlements.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, e := range list {
		e.Status = e.StatusAt(now)
	}
	return list, nil
}
