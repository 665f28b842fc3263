package session

import (
	"sync"
	"time"
)

// Authorization levels of a [Session]. The level only increases through
// explicit transitions and is reset by [Session.Clear].
const (
	LevelNone          = 0
	LevelPreAuthorized = 1
	LevelAuthorized    = 2
)

// Session defines a public type used by gateAuth APIs.
//
// A Session is owned by the [Manager] that created it; callers borrow a
// reference for the duration of one request. All accessors are safe for
// concurrent use; the attribute map is copied on the way in and out.
type Session struct {
	mu       sync.Mutex
	id       string
	userName string
	level    int
	attrs    map[string]string
	lastUse  time.Time
}

// NewSession returns an empty, level-0 session.
func NewSession() *Session {
	return &Session{
		attrs:   map[string]string{},
		lastUse: time.Now(),
	}
}

// UserName returns the name set by the last [Session.PreAuthorize] call, or
// the empty string for an anonymous session.
func (s *Session) UserName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userName
}

// Level returns the current authorization level.
func (s *Session) Level() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// IsPreAuthorized reports whether the credential check succeeded and the
// second factor is still pending.
func (s *Session) IsPreAuthorized() bool {
	return s.Level() == LevelPreAuthorized
}

// IsAuthorized reports whether the session has completed both login steps.
// Requests are only forwarded for authorized sessions.
func (s *Session) IsAuthorized() bool {
	return s.Level() == LevelAuthorized
}

// Attributes returns a copy of the session's user attribute map.
func (s *Session) Attributes() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.attrs))
	for k, v := range s.attrs {
		out[k] = v
	}
	return out
}

// Attribute returns a single user attribute, or the empty string.
func (s *Session) Attribute(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attrs[key]
}

// SetAttribute stores a single user attribute.
func (s *Session) SetAttribute(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs[key] = value
}

// MergeAttributes copies every entry of attrs into the session, overwriting
// existing keys.
func (s *Session) MergeAttributes(attrs map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range attrs {
		s.attrs[k] = v
	}
}

// PreAuthorize records a successful credential check: it sets the user name,
// merges the verified attributes and raises the level to 1.
func (s *Session) PreAuthorize(userName string, attrs map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userName = userName
	for k, v := range attrs {
		s.attrs[k] = v
	}
	s.level = LevelPreAuthorized
}

// Authorize records a successful second-factor check and raises the level
// to 2.
func (s *Session) Authorize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = LevelAuthorized
}

// Clear resets the level to 0 and discards all user attributes. The user
// name is kept so a cleared session can still be attributed in audit
// records.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = LevelNone
	s.attrs = map[string]string{}
}

// ClearCredentials removes well-known credential attributes that a user
// data provider may have copied into the session.
func (s *Session) ClearCredentials() {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attrs, "password")
	delete(s.attrs, "client_secret")
}

// Touch updates the last-use timestamp consulted by [MemoryManager.Cleanup].
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUse = time.Now()
}

// LastUse returns the time of the most recent [Session.Touch].
func (s *Session) LastUse() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUse
}

// setID records the manager-assigned identifier so a freshly created
// session can be committed within the same request, before the caller's
// cookie exists.
func (s *Session) setID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
}

func (s *Session) getID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) setLevel(level int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = level
}

func (s *Session) setUserName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userName = name
}

func (s *Session) replaceAttributes(attrs map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = attrs
}
