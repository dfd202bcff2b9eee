package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vpnservice/access-system/internal/core/domain"
	"github.com/vpnservice/access-system/internal/core/ports"
)

type planService struct {
	repo ports.PlanRepository
	log  zerolog.Logger
}

// NewPlanService returns a PlanService implementation.
func NewPlanService(repo ports.PlanRepository, log zerolog.Logger) ports.PlanService {
	return &planService{repo: repo, log: log}
}

// Create validates and stores a new plan, active by default.
func (s *planService) Create(ctx context.Context, in ports.CreatePlanInput) (*domain.Plan, error) {
	now := time.Now().UTC()
	plan := &domain.Plan{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Price:        in.Price,
		DurationDays: in.DurationDays,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		s.log.Error().Err(err).Str("name", in.Name).Msg("failed to create plan")
		return nil, err
	}

	s.log.Info().Str("plan_id", plan.ID).Str("name", plan.Name).Int("duration_days", plan.DurationDays).Msg("plan created")
	return plan, nil
}

// Update edits a plan in place. Entitlements created before the edit keep
// their original end dates: duration is read only at subscribe time.
func (s *planService) Update(ctx context.Context, in ports.UpdatePlanInput) (*domain.Plan, error) {
	plan, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	plan.Name = in.Name
	plan.Price = in.Price
	plan.DurationDays = in.DurationDays
	plan.UpdatedAt = time.Now().UTC()
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, plan); err != nil {
		s.log.Error().Err(err).Str("plan_id", plan.ID).Msg("failed to update plan")
		return nil, err
	}

	s.log.Info().Str("plan_id", plan.ID).Msg("plan updated")
	return plan, nil
}

// Deactivate retires a plan from sale. Idempotent.
func (s *planService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.log.Info().Str("plan_id", id).Msg("plan deactivated")
	return nil
}

func (s *planService) Get(ctx context.Context, id string) (*domain.Plan, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *planService) List(ctx context.Context, activeOnly bool) ([]*domain.Plan, error) {
	return s.repo.List(ctx, activeOnly)
}
