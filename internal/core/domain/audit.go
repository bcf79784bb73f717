package domain

import "time"

// AuditAction names a change recorded in the account audit trail.
type AuditAction string

const (
	AuditRegistered     AuditAction = "registered"
	AuditLoggedIn       AuditAction = "logged_in"
	AuditProfileUpdated AuditAction = "profile_updated"
	AuditUserUpdated    AuditAction = "user_updated"
	AuditUserDeleted    AuditAction = "user_deleted"
)

// AuditEvent records who did what to which account.
type AuditEvent struct {
	UserID  string      `json:"user_id" bson:"user_id"`
	ActorID string      `json:"actor_id" bson:"actor_id"`
	Action  AuditAction `json:"action" bson:"action"`
	At      time.Time   `json:"at" bson:"at"`
}
