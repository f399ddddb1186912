package mongo

import (
	"context"
	"time"
)

// WithTimeout bounds a single repository call. Inside a transaction the
// SessionContext is returned untouched: wrapping it would detach the session.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if InTransaction(ctx) {
		return ctx, func() {}
	}

	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}
	return context.WithTimeout(ctx, timeout)
}

// Now is the timestamp format stored in every document: UTC, millisecond precision (BSON dates).
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
