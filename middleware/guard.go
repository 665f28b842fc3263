// Package middleware provides helpers for handlers running behind a
// [gateAuth.Gate]. The gate guarantees every forwarded request carries an
// authorized session; these helpers read it back out and let upstream
// handlers gate individual routes on user attributes.
package middleware

import (
	"net/http"

	"github.com/MrEthical07/gateAuth"
)

// Username returns the login name of the session behind r, or the empty
// string when r did not pass through a gate.
func Username(r *http.Request) string {
	s := gateAuth.SessionFromContext(r.Context())
	if s == nil {
		return ""
	}
	return s.UserName()
}

// Attribute returns one user attribute of the session behind r.
func Attribute(r *http.Request, key string) string {
	s := gateAuth.SessionFromContext(r.Context())
	if s == nil {
		return ""
	}
	return s.Attribute(key)
}

// RequireAttribute wraps next and responds 403 unless the session behind
// the request carries the given attribute value. Use it to gate individual
// routes on backend-supplied roles after the gate has authorized the user.
func RequireAttribute(next http.Handler, key, value string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Attribute(r, key) != value {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
