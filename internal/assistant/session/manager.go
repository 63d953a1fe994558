package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/portfolio-assistant/server/internal/assistant/graph"
	"github.com/portfolio-assistant/server/internal/assistant/model"
	"github.com/portfolio-assistant/server/internal/assistant/ratelimit"
	logx "github.com/portfolio-assistant/server/pkg/logger"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrCapacity = errors.New("too many active sessions")
)

// Manager hosts independent sessions keyed by UUID. Each session gets its own
// limiter from the factory.
type Manager struct {
	runner   graph.Runner
	limiters ratelimit.Factory
	kb       *model.KnowledgeBase
	cfg      model.SessionConfig
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

type ManagerOption func(*Manager)

// WithManagerClock replaces time.Now for the manager and its sessions.
func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

func NewManager(runner graph.Runner, limiters ratelimit.Factory, kb *model.KnowledgeBase, cfg model.SessionConfig, opts ...ManagerOption) *Manager {
	m := &Manager{
		runner:   runner,
		limiters: limiters,
		kb:       kb,
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new session. Expired sessions are swept first when the
// manager is at capacity.
func (m *Manager) Create() (*Session, error) {
	id := uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cfg.MaxSessions > 0 && len(m.sessions) >= m.cfg.MaxSessions {
		m.sweepLocked()
		if len(m.sessions) >= m.cfg.MaxSessions {
			return nil, ErrCapacity
		}
	}

	s := New(id, m.runner, m.limiters(id), m.kb, WithClock(m.now))
	m.sessions[id] = s
	logx.Debug().Str("session_id", id).Int("active", len(m.sessions)).Msg("Session created")
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if m.expired(s) {
		m.Delete(id)
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes idle sessions older than the TTL and returns how many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked()
}

func (m *Manager) sweepLocked() int {
	expired := lo.PickBy(m.sessions, func(_ string, s *Session) bool {
		return m.expired(s)
	})
	for id := range expired {
		delete(m.sessions, id)
	}
	if len(expired) > 0 {
		logx.Debug().Int("evicted", len(expired)).Int("active", len(m.sessions)).Msg("Expired sessions swept")
	}
	return len(expired)
}

func (m *Manager) expired(s *Session) bool {
	if m.cfg.TTL <= 0 || s.State() == StateAwaiting {
		return false
	}
	return m.now().Sub(s.LastSeen()) > m.cfg.TTL
}

// Run sweeps expired sessions every SweepInterval until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	interval := m.cfg.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
