package session

import "net/http"

// DefaultCookieName is used when a manager is configured with an empty
// cookie name.
const DefaultCookieName = "SESSIONID"

// Manager defines a public type used by gateAuth APIs.
//
// A Manager creates, retrieves and destroys sessions for HTTP callers. The
// Gate depends only on this contract; whether the session lives in a
// server-held table, in Redis, or inside a signed cookie is an
// implementation detail of the chosen manager.
type Manager interface {
	// Get returns the caller's session or nil. It must not mutate state
	// when no valid session cookie is present.
	Get(r *http.Request) *Session

	// Create allocates a new level-0 session and arranges for the caller to
	// receive a reference to it on the next request.
	Create(w http.ResponseWriter, r *http.Request) *Session

	// Remove destroys the session and clears its authorization level.
	Remove(w http.ResponseWriter, r *http.Request, s *Session)

	// Commit persists session mutations made during the current request.
	// Table-backed managers need no persistence step and return nil.
	Commit(w http.ResponseWriter, r *http.Request, s *Session) error

	// Cleanup evicts sessions idle for longer than the configured timeout.
	// It is idempotent and a no-op for managers without server-held state.
	Cleanup()
}

// CookieConfig holds the cookie attributes shared by all managers.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

func (c CookieConfig) name() string {
	if c.Name == "" {
		return DefaultCookieName
	}
	return c.Name
}

func (c CookieConfig) cookie(r *http.Request, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.name(),
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure || (r != nil && r.TLS != nil),
		SameSite: http.SameSiteLaxMode,
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil || c == nil {
		return ""
	}
	return c.Value
}
