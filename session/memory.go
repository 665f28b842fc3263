package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is the idle timeout applied when a manager is configured
// with a zero timeout.
const DefaultTimeout = 5 * time.Minute

// MemoryManager defines a public type used by gateAuth APIs.
//
// MemoryManager keeps sessions in a server-held table keyed by a random
// opaque identifier carried in a cookie. The table mutex guards only
// structural changes (insert, remove); each session guards its own fields,
// so requests touching different sessions never contend.
type MemoryManager struct {
	cookie  CookieConfig
	timeout time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewMemoryManager creates a table-backed manager. A zero timeout defaults
// to [DefaultTimeout].
func NewMemoryManager(cookie CookieConfig, timeout time.Duration) *MemoryManager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &MemoryManager{
		cookie:   cookie,
		timeout:  timeout,
		sessions: make(map[string]*Session),
	}
}

// Get describes the get operation and its observable behavior.
//
// Get returns the session referenced by the caller's cookie, touching its
// last-use timestamp, or nil when the cookie is absent or unknown.
func (m *MemoryManager) Get(r *http.Request) *Session {
	id := cookieValue(r, m.cookie.name())
	if id == "" {
		return nil
	}

	m.mu.Lock()
	s := m.sessions[id]
	m.mu.Unlock()

	if s != nil {
		s.Touch()
	}
	return s
}

// Create describes the create operation and its observable behavior.
//
// Create allocates a level-0 session under a fresh random identifier and
// sets the session cookie on the response.
func (m *MemoryManager) Create(w http.ResponseWriter, r *http.Request) *Session {
	id := uuid.NewString()
	s := NewSession()
	s.setID(id)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	http.SetCookie(w, m.cookie.cookie(r, id, 0))
	return s
}

// Remove describes the remove operation and its observable behavior.
//
// Remove clears the session, drops it from the table and expires the
// caller's cookie.
func (m *MemoryManager) Remove(w http.ResponseWriter, r *http.Request, s *Session) {
	id := ""
	if s != nil {
		id = s.getID()
	}
	if id == "" {
		id = cookieValue(r, m.cookie.name())
	}
	if id != "" {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
	}

	if s != nil {
		s.Clear()
	}
	http.SetCookie(w, m.cookie.cookie(r, "", -1))
}

// Commit is a no-op: table entries are mutated in place.
func (m *MemoryManager) Commit(http.ResponseWriter, *http.Request, *Session) error {
	return nil
}

// Cleanup describes the cleanup operation and its observable behavior.
//
// Cleanup evicts every session whose last use is older than the configured
// idle timeout. It is idempotent and safe to call from the sweeper at any
// time.
func (m *MemoryManager) Cleanup() {
	death := time.Now().Add(-m.timeout)

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.LastUse().Before(death) {
			delete(m.sessions, id)
		}
	}
}

// Len returns the number of tracked sessions.
func (m *MemoryManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
