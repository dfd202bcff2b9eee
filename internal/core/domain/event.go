package domain

import "time"

// Lifecycle event types recorded in the audit trail.
const (
	EventEntitlementCreated = "entitlement_created"
	EventCredentialIssued   = "credential_issued"
	EventCredentialRotated  = "credential_rotated"
	EventUserEnabled        = "user_enabled"
	EventUserDisabled       = "user_disabled"
)

// LifecycleEvent records an entitlement/credential state change for auditing.
type LifecycleEvent struct {
	UserID    string
	Type      string
	Timestamp time.Time
	Actor     string // user id of the caller that triggered the change
	Detail    string
}
