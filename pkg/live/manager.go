package live

import (
	"errors"
	"sync"
	"time"
)

// ErrTooManySessions is returned by Add when the session cap is reached.
var ErrTooManySessions = errors.New("live: session limit reached")

// ManagerStats is a point-in-time view of the session registry.
type ManagerStats struct {
	Active       int
	TotalCreated int
	TotalClosed  int
	Peak         int
}

// Manager is a thread-safe session registry with an optional cap and an
// idle sweeper.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	max      int

	totalCreated int
	totalClosed  int
	peak         int
}

// NewManager creates a registry. max <= 0 means unlimited.
func NewManager(max int) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		max:      max,
	}
}

// Add registers a session, enforcing the cap.
func (m *Manager) Add(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.max > 0 && len(m.sessions) >= m.max {
		return ErrTooManySessions
	}

	m.sessions[s.ID()] = s
	m.totalCreated++
	if len(m.sessions) > m.peak {
		m.peak = len(m.sessions)
	}
	return nil
}

// Remove unregisters a session. Unknown IDs are ignored.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; ok {
		delete(m.sessions, id)
		m.totalClosed++
	}
}

// Get looks up a session by ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Each calls fn for every registered session. The snapshot is taken under
// the lock; fn runs without it.
func (m *Manager) Each(fn func(*Session)) {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	for _, s := range sessions {
		fn(s)
	}
}

// Stats returns registry counters.
func (m *Manager) Stats() ManagerStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return ManagerStats{
		Active:       len(m.sessions),
		TotalCreated: m.totalCreated,
		TotalClosed:  m.totalClosed,
		Peak:         m.peak,
	}
}

// CloseIdle closes every session whose last activity is older than
// maxIdle and returns how many were closed. Closed sessions remove
// themselves from the registry through their read loop teardown.
func (m *Manager) CloseIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	var closed int
	m.Each(func(s *Session) {
		if s.LastActive().Before(cutoff) {
			s.Close()
			closed++
		}
	})
	return closed
}

// CloseAll closes every session, for shutdown.
func (m *Manager) CloseAll() {
	m.Each(func(s *Session) { s.Close() })
}
