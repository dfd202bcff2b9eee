package ports

import (
	"context"
	"time"
)

// LifecycleEventInput is the DTO handed from the emitting service to the
// audit pipeline.
type LifecycleEventInput struct {
	UserID    string
	Type      string
	Timestamp time.Time
	Actor     string
	Detail    string
}

// EventService processes lifecycle audit events.
type EventService interface {
	Process(ctx context.Context, event LifecycleEventInput) error
}
