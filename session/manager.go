// Package session owns the lifecycle of editor sessions. Each session
// holds one schema graph; all graph operations and exports are
// serialized through the session's lock, and a background sweeper
// evicts sessions that idled past the timeout.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	serr "github.com/I14Y-ch/structure-generator/errors"
	"github.com/I14Y-ch/structure-generator/metric"
	"github.com/I14Y-ch/structure-generator/schema"
)

// Config holds the session manager settings.
type Config struct {
	// IdleTimeout is how long a session may go untouched before the
	// sweeper evicts it.
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	// SweepInterval is how often the sweeper scans for idle sessions.
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

func (c Config) withDefaults() Config {
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 30 * time.Minute
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	return c
}

// Session is one editor session. Access the graph only through Do so
// mutation and emission stay serialized.
type Session struct {
	id string

	mu         sync.Mutex
	graph      *schema.Graph
	lastActive time.Time
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Do runs fn with exclusive access to the session's graph and marks
// the session active.
func (s *Session) Do(fn func(*schema.Graph) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
	return fn(s.graph)
}

// Replace swaps the session's graph, used by snapshot import.
func (s *Session) Replace(g *schema.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
	s.graph = g
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive.Before(cutoff)
}

// Manager indexes live sessions under a coarse lock. The lock covers
// only the index; per-graph work runs under the session's own mutex.
type Manager struct {
	cfg     Config
	logger  *slog.Logger
	metrics *metric.Metrics

	mu       sync.RWMutex
	sessions map[string]*Session
	closed   bool
}

// NewManager creates a session manager. Logger may be nil; metrics may
// be nil to disable instrumentation.
func NewManager(cfg Config, logger *slog.Logger, metrics *metric.Metrics) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cfg:      cfg.withDefaults(),
		logger:   logger,
		metrics:  metrics,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with a fresh graph. Fails once the
// manager has shut down.
func (m *Manager) Create(title, description string) (*Session, error) {
	s := &Session{
		id:         uuid.NewString(),
		graph:      schema.New(title, description),
		lastActive: time.Now(),
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, fmt.Errorf("create session: %w", serr.ErrSessionClosed)
	}
	m.sessions[s.id] = s
	count := len(m.sessions)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SessionsCreated.Inc()
		m.metrics.SessionsActive.Set(float64(count))
	}
	m.logger.Info("session created", "session_id", s.id, "active", count)
	return s, nil
}

// Get returns a live session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	closed := m.closed
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if closed {
		return nil, fmt.Errorf("session %s: %w", id, serr.ErrSessionClosed)
	}
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, serr.ErrSessionNotFound)
	}
	return s, nil
}

// Delete removes a session from the index.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	count := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("session %s: %w", id, serr.ErrSessionNotFound)
	}
	if m.metrics != nil {
		m.metrics.SessionsActive.Set(float64(count))
	}
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Run sweeps idle sessions until the context is cancelled, then shuts
// the manager down: live sessions are dropped and further Create and
// Get calls fail with ErrSessionClosed.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.shutdown()
			return
		case <-ticker.C:
			if evicted := m.sweep(time.Now()); evicted > 0 {
				m.logger.Info("evicted idle sessions", "count", evicted)
			}
		}
	}
}

func (m *Manager) shutdown() {
	m.mu.Lock()
	m.closed = true
	dropped := len(m.sessions)
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SessionsActive.Set(0)
	}
	m.logger.Info("session manager shut down", "dropped", dropped)
}

// sweep evicts every session idle past the timeout, returning how many
// were removed. Idleness is checked outside the index lock; removal
// re-checks membership under it.
func (m *Manager) sweep(now time.Time) int {
	cutoff := now.Add(-m.cfg.IdleTimeout)

	m.mu.RLock()
	candidates := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		candidates = append(candidates, s)
	}
	m.mu.RUnlock()

	var idle []string
	for _, s := range candidates {
		if s.idleSince(cutoff) {
			idle = append(idle, s.id)
		}
	}
	if len(idle) == 0 {
		return 0
	}

	m.mu.Lock()
	evicted := 0
	for _, id := range idle {
		if _, ok := m.sessions[id]; ok {
			delete(m.sessions, id)
			evicted++
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SessionEvictions.Add(float64(evicted))
		m.metrics.SessionsActive.Set(float64(count))
	}
	return evicted
}
