package ports

import (
	"context"

	"github.com/strumline/catalog-api/internal/core/domain"
)

// AuditSink accepts authentication audit events for asynchronous recording.
// Implementations must not block the caller beyond a bounded enqueue.
type AuditSink interface {
	Record(event domain.AuditEvent)
}

// AuditRepository persists audit events to durable storage.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// LoginLimiter throttles repeated failed logins per subject key. It is
// advisory: implementations fail open when the backing store is unreachable,
// so an outage never locks every user out.
type LoginLimiter interface {
	// TooManyFailures reports whether key has exceeded the failure budget
	// within the current window.
	TooManyFailures(ctx context.Context, key string) bool
	// RecordFailure counts one failed attempt against key.
	RecordFailure(ctx context.Context, key string)
	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, key string)
}
