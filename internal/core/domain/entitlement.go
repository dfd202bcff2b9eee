package domain

import (
	"errors"
	"fmt"
	"time"
)

// EntitlementStatus is derived from time, never authoritative when stored.
type EntitlementStatus string

const (
	EntitlementActive  EntitlementStatus = "active"
	EntitlementExpired EntitlementStatus = "expired"
)

var ErrEntitlementNotFound = errors.New("entitlement not found")

// DenyReason explains a negative access decision.
type DenyReason string

const (
	DenyNoActiveEntitlement DenyReason = "no_active_entitlement"
	DenyAccountDisabled     DenyReason = "account_disabled"
)

// AccessDeniedError is the expected negative outcome of a descriptor request.
// The reason code lets the caller message the user correctly.
type AccessDeniedError struct {
	Reason DenyReason
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied: %s", e.Reason)
}

// Entitlement is one time-bound grant of access. A user accumulates many;
// history is never merged or rewritten. EndAt is computed once at creation
// from the plan duration and is immutable afterwards.
type Entitlement struct {
	ID       string            `json:"id"`
	UserID   string            `json:"user_id"`
	PlanID   string            `json:"plan_id"`
	PlanName string            `json:"plan_name"`
	StartAt  time.Time         `json:"start_at"`
	EndAt    time.Time         `json:"end_at"`
	Status   EntitlementStatus `json:"status"`
}

// StatusAt derives the status at the given instant: active strictly before
// EndAt, expired from EndAt onwards. Monotone in t — once expired, an
// entitlement never flips back. Stored status fields must be refreshed
// through this function before being trusted.
func (e *Entitlement) StatusAt(now time.Time) EntitlementStatus {
	if now.Before(e.EndAt) {
		return EntitlementActive
	}
	return EntitlementExpired
}

// RemainingDays reports whole days left until expiry, never negative.
func (e *Entitlement) RemainingDays(now time.Time) int {
	if !now.Before(e.EndAt) {
		return 0
	}
	return int(e.EndAt.Sub(now).Hours() / 24)
}
