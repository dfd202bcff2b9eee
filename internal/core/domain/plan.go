package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrPlanNotFound = errors.New("plan not found")

// ErrPlanUnavailable is returned when subscribing against a plan that does not
// exist or has been deactivated. Deactivation is intentional, so callers must
// not retry.
var ErrPlanUnavailable = errors.New("plan unavailable")

// ValidationError reports a malformed admin input. It is deterministic and
// never retried; the message is safe to surface verbatim.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Plan is a purchasable subscription tier. DurationDays is read once when an
// entitlement is created; later edits never touch existing entitlements.
type Plan struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	DurationDays int       `json:"duration_days"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate checks the invariants shared by create and update.
func (p *Plan) Validate() error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if p.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if p.DurationDays <= 0 {
		return &ValidationError{Field: "duration_days", Reason: "must be positive"}
	}
	return nil
}
