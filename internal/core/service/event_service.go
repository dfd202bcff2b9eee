package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vpnservice/access-system/internal/core/domain"
	"github.com/vpnservice/access-system/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis). Dispatcher retries
// may redeliver an event; duplicates must not produce duplicate audit rows.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, userID, eventType string, ts time.Time) (bool, error)
	Mark(ctx context.Context, userID, eventType string, ts time.Time) error
}

type eventService struct {
	repo  ports.EventRepository
	dedup DedupChecker
	log   zerolog.Logger
}

// NewEventService returns an EventService implementation.
func NewEventService(repo ports.EventRepository, dedup DedupChecker, log zerolog.Logger) ports.EventService {
	return &eventService{repo: repo, dedup: dedup, log: log}
}

// Process deduplicates and persists a single lifecycle audit event.
func (s *eventService) Process(ctx context.Context, in ports.LifecycleEventInput) error {
	isDup, err := s.dedup.IsDuplicate(ctx, in.UserID, in.Type, in.Timestamp)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", in.UserID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("user_id", in.UserID).Str("type", in.Type).Msg("duplicate audit event skipped")
		return nil
	}

	// Mark before writing so a redelivery during the insert is still caught.
	if markErr := s.dedup.Mark(ctx, in.UserID, in.Type, in.Timestamp); markErr != nil {
		s.log.Warn().Err(markErr).Str("user_id", in.UserID).Msg("failed to set dedup key")
	}

	event := &domain.LifecycleEvent{
		UserID:    in.UserID,
		Type:      in.Type,
		Timestamp: in.Timestamp,
		Actor:     in.Actor,
		Detail:    in.Detail,
	}
	if err := s.repo.InsertEvent(ctx, event); err != nil {
		return fmt.Errorf("process audit event: %w", err)
	}

	s.log.Info().
		Str("user_id", in.UserID).
		Str("type", in.Type).
		Str("actor", in.Actor).
		Msg("audit event recorded")

	return nil
}
