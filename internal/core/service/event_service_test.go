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

type stubEventRepo struct {
	insertErr error
	inserted  []*domain.LifecycleEvent
}

func (r *stubEventRepo) InsertEvent(_ context.Context, e *domain.LifecycleEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}

func (r *stubEventRepo) ListByUser(_ context.Context, userID string) ([]*domain.LifecycleEvent, error) {
	out := make([]*domain.LifecycleEvent, 0)
	for i := len(r.inserted) - 1; i >= 0; i-- {
		if r.inserted[i].UserID == userID {
			out = append(out, r.inserted[i])
		}
	}
	return out, nil
}

type stubDedup struct {
	dupResult bool
	dupErr    error
	markErr   error
	marked    []string
}

func (d *stubDedup) IsDuplicate(_ context.Context, userID, eventType string, _ time.Time) (bool, error) {
	return d.dupResult, d.dupErr
}

func (d *stubDedup) Mark(_ context.Context, userID, eventType string, _ time.Time) error {
	if d.markErr != nil {
		return d.markErr
	}
	d.marked = append(d.marked, userID+":"+eventType)
	return nil
}

func sampleEvent() ports.LifecycleEventInput {
	return ports.LifecycleEventInput{
		UserID:    "u1",
		Type:      domain.EventCredentialIssued,
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Actor:     "u1",
	}
}

func TestEventService_Process_Persists(t *testing.T) {
	repo := &stubEventRepo{}
	dedup := &stubDedup{}
	svc := NewEventService(repo, dedup, zerolog.Nop())

	if err := svc.Process(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 inserted event, got %d", len(repo.inserted))
	}
	if repo.inserted[0].Type != domain.EventCredentialIssued {
		t.Fatalf("unexpected event type: %s", repo.inserted[0].Type)
	}
	if len(dedup.marked) != 1 {
		t.Fatalf("expected dedup mark, got %v", dedup.marked)
	}
}

func TestEventService_Process_SkipsDuplicate(t *testing.T) {
	repo := &stubEventRepo{}
	dedup := &stubDedup{dupResult: true}
	svc := NewEventService(repo, dedup, zerolog.Nop())

	if err := svc.Process(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("duplicate must not be persisted, got %d inserts", len(repo.inserted))
	}
}

func TestEventService_Process_DedupFailureIsNotFatal(t *testing.T) {
	repo := &stubEventRepo{}
	dedup := &stubDedup{dupErr: errors.New("redis down")}
	svc := NewEventService(repo, dedup, zerolog.Nop())

	if err := svc.Process(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("event must still be persisted when dedup is unavailable")
	}
}

func TestEventService_Process_InsertFailure(t *testing.T) {
	repo := &stubEventRepo{insertErr: errors.New("mongo down")}
	dedup := &stubDedup{}
	svc := NewEventService(repo, dedup, zerolog.Nop())

	if err := svc.Process(context.Background(), sampleEvent()); err == nil {
		t.Fatalf("expected error when persistence fails")
	}
}
