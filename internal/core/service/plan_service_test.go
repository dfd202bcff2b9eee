package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vpnservice/access-system/internal/core/domain"
	"github.com/vpnservice/access-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubPlanRepo struct {
	plans     map[string]*domain.Plan
	createErr error // if set, Create returns this error
}

func newStubPlanRepo() *stubPlanRepo {
	return &stubPlanRepo{plans: make(map[string]*domain.Plan)}
}

func clonePlan(p *domain.Plan) *domain.Plan {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubPlanRepo) Create(_ context.Context, p *domain.Plan) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.plans[p.ID] = clonePlan(p)
	return nil
}

func (r *stubPlanRepo) Update(_ context.Context, p *domain.Plan) error {
	if _, ok := r.plans[p.ID]; !ok {
		return domain.ErrPlanNotFound
	}
	r.plans[p.ID] = clonePlan(p)
	return nil
}

func (r *stubPlanRepo) FindByID(_ context.Context, id string) (*domain.Plan, error) {
	p, ok := r.plans[id]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	return clonePlan(p), nil
}

func (r *stubPlanRepo) List(_ context.Context, activeOnly bool) ([]*domain.Plan, error) {
	var out []*domain.Plan
	for _, p := range r.plans {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, clonePlan(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DurationDays < out[j].DurationDays })
	return out, nil
}

func (r *stubPlanRepo) SetActive(_ context.Context, id string, active bool) error {
	p, ok := r.plans[id]
	if !ok {
		return domain.ErrPlanNotFound
	}
	p.Active = active
	return nil
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestPlanService_Create_Success(t *testing.T) {
	repo := newStubPlanRepo()
	svc := NewPlanService(repo, zerolog.Nop())

	plan, err := svc.Create(context.Background(), ports.CreatePlanInput{
		Name: "30 Days Plan", Price: 19.99, DurationDays: 30,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if plan.ID == "" {
		t.Fatalf("expected generated plan id")
	}
	if !plan.Active {
		t.Fatalf("new plan must be active")
	}
	if plan.DurationDays != 30 {
		t.Fatalf("unexpected duration: %d", plan.DurationDays)
	}
}

func TestPlanService_Create_Validation(t *testing.T) {
	repo := newStubPlanRepo()
	svc := NewPlanService(repo, zerolog.Nop())

	cases := []ports.CreatePlanInput{
		{Name: "", Price: 5, DurationDays: 7},
		{Name: "Weekly", Price: -1, DurationDays: 7},
		{Name: "Weekly", Price: 5, DurationDays: 0},
		{Name: "Weekly", Price: 5, DurationDays: -3},
	}
	for _, in := range cases {
		_, err := svc.Create(context.Background(), in)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("input %+v: expected ValidationError, got %v", in, err)
		}
	}
	if len(repo.plans) != 0 {
		t.Fatalf("invalid plans must not be persisted")
	}
}

func TestPlanService_Update_NotFound(t *testing.T) {
	svc := NewPlanService(newStubPlanRepo(), zerolog.Nop())

	_, err := svc.Update(context.Background(), ports.UpdatePlanInput{
		ID: "missing", Name: "X", Price: 1, DurationDays: 1,
	})
	if !errors.Is(err, domain.ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestPlanService_Deactivate_Idempotent(t *testing.T) {
	repo := newStubPlanRepo()
	svc := NewPlanService(repo, zerolog.Nop())

	plan, err := svc.Create(context.Background(), ports.CreatePlanInput{Name: "Weekly", Price: 5.99, DurationDays: 7})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Deactivate(context.Background(), plan.ID); err != nil {
		t.Fatalf("first Deactivate returned error: %v", err)
	}
	if err := svc.Deactivate(context.Background(), plan.ID); err != nil {
		t.Fatalf("second Deactivate must be a no-op, got %v", err)
	}

	got, err := svc.Get(context.Background(), plan.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Active {
		t.Fatalf("plan still active after deactivation")
	}
}

func TestPlanService_Deactivate_NotFound(t *testing.T) {
	svc := NewPlanService(newStubPlanRepo(), zerolog.Nop())

	if err := svc.Deactivate(context.Background(), "missing"); !errors.Is(err, domain.ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestPlanService_List_ActiveOnly(t *testing.T) {
	repo := newStubPlanRepo()
	svc := NewPlanService(repo, zerolog.Nop())

	weekly, _ := svc.Create(context.Background(), ports.CreatePlanInput{Name: "Weekly", Price: 5.99, DurationDays: 7})
	_, _ = svc.Create(context.Background(), ports.CreatePlanInput{Name: "Monthly", Price: 19.99, DurationDays: 30})
	_ = svc.Deactivate(context.Background(), weekly.ID)

	active, err := svc.List(context.Background(), true)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(active) != 1 || active[0].Name != "Monthly" {
		t.Fatalf("expected only the Monthly plan, got %d entries", len(active))
	}

	all, err := svc.List(context.Background(), false)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(all))
	}
}
