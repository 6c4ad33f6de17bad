package accounts

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported lifecycle event categories.
type ActivityEventType string

const (
	ActivityEventUserRegistered         ActivityEventType = "user.registered"
	ActivityEventEmailVerified          ActivityEventType = "user.email.verified"
	ActivityEventTokenResend            ActivityEventType = "user.token.resend"
	ActivityEventPasswordResetRequested ActivityEventType = "user.password.reset.requested"
	ActivityEventPasswordChanged        ActivityEventType = "user.password.changed"
	ActivityEventEmailChanged           ActivityEventType = "user.email.changed"
	ActivityEventUserBlocked            ActivityEventType = "user.blocked"
	ActivityEventUserUnblocked          ActivityEventType = "user.unblocked"
	ActivityEventRoleGranted            ActivityEventType = "user.role.granted"
	ActivityEventRoleRevoked            ActivityEventType = "user.role.revoked"
	ActivityEventUserDeleted            ActivityEventType = "user.deleted"
)

// ActivityEvent captures audit-friendly information about an action.
type ActivityEvent struct {
	EventType  ActivityEventType
	UserID     string
	Email      string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry
// purposes. Sinks run best-effort: errors are logged, never propagated,
// so auditing cannot roll back a committed account mutation.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}
