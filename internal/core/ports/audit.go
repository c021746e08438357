package ports

import (
	"context"
	"time"
)

// Audit actions recorded by the authentication layer.
const (
	AuditLoginSuccess   = "login_success"
	AuditLoginFailure   = "login_failure"
	AuditAccountLockout = "account_lockout"
	AuditLogout         = "logout"
	AuditTokenRevoked   = "token_revoked_rejection"
	AuditGateDenied     = "gate_denied"
)

// AuditEvent is a single append-only entry in the security audit trail.
type AuditEvent struct {
	Subject    string    // username the event concerns
	Action     string    // one of the Audit* constants
	Reason     string    // short machine-readable detail, e.g. "bad_password"
	SchoolID   string    // resolved school scope, when known
	OccurredAt time.Time
}

// AuditRecorder accepts events for asynchronous persistence. Implementations
// must not block the request path beyond a bounded buffer.
type AuditRecorder interface {
	Record(event AuditEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Append(ctx context.Context, event *AuditEvent) error
}
