// Package ratelimit gates remote generation calls with a fixed, non-sliding
// request window.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/portfolio-assistant/server/internal/assistant/model"
)

const (
	DefaultMaxRequests = 10
	DefaultWindow      = time.Minute
)

// Limiter decides whether a remote call may be attempted. A denial is never
// fatal: the caller routes to the fallback responder instead.
type Limiter interface {
	TryAcquire(ctx context.Context) bool
}

// State is a snapshot of a window.
type State struct {
	WindowStart time.Time
	Count       int
}

// Window is an in-memory fixed-window limiter owned by a single session.
type Window struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	now         func() time.Time

	start time.Time
	count int
}

type Option func(*Window)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(w *Window) { w.now = now }
}

// NewWindow creates a limiter allowing maxRequests per window. Non-positive
// values fall back to the defaults.
func NewWindow(maxRequests int, window time.Duration, opts ...Option) *Window {
	w := &Window{
		maxRequests: normalizeMax(maxRequests),
		window:      normalizeWindow(window),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.start = w.now()
	return w
}

// NewWindowFromConfig builds a Window from the bound configuration.
func NewWindowFromConfig(cfg model.RateLimitConfig, opts ...Option) *Window {
	return NewWindow(cfg.MaxRequests, cfg.Window, opts...)
}

// TryAcquire resets the window when it has fully elapsed, then admits the
// request unless the window is already at capacity. Denied requests are not
// counted.
func (w *Window) TryAcquire(_ context.Context) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	if now.Sub(w.start) > w.window {
		w.start = now
		w.count = 0
	}
	if w.count >= w.maxRequests {
		return false
	}
	w.count++
	return true
}

// Snapshot returns the current window state.
func (w *Window) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return State{WindowStart: w.start, Count: w.count}
}

func normalizeMax(n int) int {
	if n <= 0 {
		return DefaultMaxRequests
	}
	return n
}

func normalizeWindow(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultWindow
	}
	return d
}

var _ Limiter = (*Window)(nil)
