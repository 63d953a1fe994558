package nodes

import (
	"context"

	"github.com/portfolio-assistant/server/internal/assistant/ratelimit"
)

type limiterKey struct{}

// WithLimiter attaches the session's limiter to ctx for the RemoteGeneration node.
func WithLimiter(ctx context.Context, l ratelimit.Limiter) context.Context {
	return context.WithValue(ctx, limiterKey{}, l)
}

// LimiterFrom returns the limiter attached to ctx, if any.
func LimiterFrom(ctx context.Context) (ratelimit.Limiter, bool) {
	l, ok := ctx.Value(limiterKey{}).(ratelimit.Limiter)
	return l, ok && l != nil
}
