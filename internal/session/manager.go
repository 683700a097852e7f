package session

import (
	"sync"
	"time"

	"unitrader/pkg/domain"
	"unitrader/pkg/platform/sentinel"
)

// DefaultIdleTTL bounds how long an untouched session survives. Anonymous
// visitors mint sessions freely, so idle eviction is what keeps the map from
// growing without bound.
const DefaultIdleTTL = 24 * time.Hour

// Manager owns the live session stores, one per session ID. It exists so
// each session gets an explicitly constructed store with a defined lifecycle
// instead of a hidden global, which keeps concurrent sessions (or server-side
// rendering) safe. Sessions idle past the TTL are evicted lazily on the next
// Begin and rejected on Get.
type Manager struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[domain.SessionID]*entry
}

type entry struct {
	store      *Store
	lastAccess time.Time
}

func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Manager{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[domain.SessionID]*entry),
	}
}

// Begin mints a new session and returns its store. Idle sessions are swept
// here, on the only path that grows the map.
func (m *Manager) Begin() *Store {
	st := New(domain.NewSessionID())
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweep(now)
	m.entries[st.ID()] = &entry{store: st, lastAccess: now}
	return st
}

// Get returns the store for an existing session and refreshes its idle
// clock. An expired session reads as absent.
func (m *Manager) Get(id domain.SessionID) (*Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	now := m.now()
	if now.Sub(e.lastAccess) > m.ttl {
		delete(m.entries, id)
		e.store.Reset()
		return nil, sentinel.ErrExpired
	}
	e.lastAccess = now
	return e.store, nil
}

// End discards a session. The store is reset first so any caller still
// holding it observes an empty, anonymous session rather than stale state.
func (m *Manager) End(id domain.SessionID) {
	m.mu.Lock()
	e, ok := m.entries[id]
	delete(m.entries, id)
	m.mu.Unlock()
	if ok {
		e.store.Reset()
	}
}

// Len reports the number of live sessions. Used by metrics.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// sweep drops every entry idle past the TTL. Callers hold the lock.
func (m *Manager) sweep(now time.Time) {
	for id, e := range m.entries {
		if now.Sub(e.lastAccess) > m.ttl {
			delete(m.entries, id)
			e.store.Reset()
		}
	}
}
