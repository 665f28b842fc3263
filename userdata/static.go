package userdata

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"sync"
)

// Hash scheme prefixes accepted in a stored password. A password without a
// scheme prefix is compared as plaintext.
const (
	schemeSHA256 = "{SHA256}"
)

// User defines a public type used by gateAuth APIs.
//
// User instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type User struct {
	Username string
	// Password is either the plaintext password or "{SHA256}" followed by
	// the lowercase hex SHA-256 digest of the password.
	Password string
	// Attributes is opaque pass-through data handed to the session on a
	// successful login (for example "email", "sms", "secret", or
	// "headerX-Role" entries consumed by the header injection convention).
	Attributes map[string]string
}

// StaticProvider defines a public type used by gateAuth APIs.
//
// StaticProvider verifies credentials against an in-memory user table.
// Replacing the table through [StaticProvider.SetUsers] rebuilds it from
// scratch; entries never accumulate across reconfiguration.
type StaticProvider struct {
	mu          sync.RWMutex
	usersByName map[string]User
}

// NewStaticProvider creates a static table backend from the given users.
func NewStaticProvider(users ...User) *StaticProvider {
	p := &StaticProvider{}
	p.SetUsers(users)
	return p
}

// SetUsers describes the setusers operation and its observable behavior.
//
// SetUsers clears and rebuilds the user table.
func (p *StaticProvider) SetUsers(users []User) {
	byName := make(map[string]User, len(users))
	for _, u := range users {
		if u.Username == "" {
			continue
		}
		byName[u.Username] = u
	}

	p.mu.Lock()
	p.usersByName = byName
	p.mu.Unlock()
}

// Verify describes the verify operation and its observable behavior.
//
// Verify checks the submitted username and password against the table. It
// returns a copy of the user's attributes with the username included, or
// [ErrNotFound]. Unknown username and wrong password are indistinguishable.
func (p *StaticProvider) Verify(fields map[string]string) (map[string]string, error) {
	username := fields[FieldUsername]
	if username == "" {
		return nil, ErrNotFound
	}

	p.mu.RLock()
	user, ok := p.usersByName[username]
	p.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	if !passwordMatches(user.Password, fields[FieldPassword]) {
		return nil, ErrNotFound
	}

	attrs := copyAttributes(user.Attributes)
	attrs[FieldUsername] = user.Username
	return attrs, nil
}

// passwordMatches compares in constant time regardless of scheme, so the
// comparison itself leaks nothing about how far it got.
func passwordMatches(stored, submitted string) bool {
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, schemeSHA256) {
		digest := sha256.Sum256([]byte(submitted))
		want := strings.ToLower(strings.TrimPrefix(stored, schemeSHA256))
		return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(digest[:])), []byte(want)) == 1
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}

// HashPassword returns the "{SHA256}" form of a plaintext password for use
// in static tables and user files.
func HashPassword(plaintext string) string {
	digest := sha256.Sum256([]byte(plaintext))
	return schemeSHA256 + hex.EncodeToString(digest[:])
}
