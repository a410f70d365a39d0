package visualizer

import (
	"sort"
	"sync"

	"github.com/richard-senior/edutune/internal/config"
	"github.com/richard-senior/edutune/pkg/history"
)

// DefaultSession is used when a client does not name one
const DefaultSession = "default"

// Manager hands out named sessions sharing one history store
type Manager struct {
	mu       sync.Mutex
	cfg      *config.AppConfig
	store    *history.Store
	sessions map[string]*Session
}

func NewManager(cfg *config.AppConfig, store *history.Store) *Manager {
	return &Manager{cfg: cfg, store: store, sessions: map[string]*Session{}}
}

// Get returns the named session, creating it on first use
func (m *Manager) Get(name string) *Session {
	if name == "" {
		name = DefaultSession
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[name]
	if !ok {
		s = NewSession(m.cfg, m.store)
		m.sessions[name] = s
	}
	return s
}

// Drop forgets a session and reports whether it existed
func (m *Manager) Drop(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[name]
	delete(m.sessions, name)
	return ok
}

func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.sessions))
	for n := range m.sessions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (m *Manager) History() *history.Store {
	return m.store
}
