// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets these values; services read them. Keeping the package free of
// net/http lets services depend on it without pulling in transport code.
//
// Usage in services:
//
//	capability := requestcontext.Capability(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	"edureward/internal/identity"
)

type (
	capabilityKey  struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Capability retrieves the verified caller capability from the context.
// Returns the zero Capability when the request was not authenticated.
func Capability(ctx context.Context) identity.Capability {
	if c, ok := ctx.Value(capabilityKey{}).(identity.Capability); ok {
		return c
	}
	return identity.Capability{}
}

// WithCapability injects a verified capability into the context.
func WithCapability(ctx context.Context, c identity.Capability) context.Context {
	return context.WithValue(ctx, capabilityKey{}, c)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
