package userdata

import "errors"

// Form field names every backend understands.
const (
	FieldUsername = "username"
	FieldPassword = "password"
)

// ErrNotFound signals a rejected credential check: the username is unknown
// or the password does not match. It is an expected, user-facing outcome,
// not a fault; backends must return it unwrapped or wrapped so that
// errors.Is still matches.
var ErrNotFound = errors.New("userdata: not found")

// Provider defines a public type used by gateAuth APIs.
//
// Provider is the single contract every credential backend implements.
// Verify checks the submitted form fields and returns the user's attribute
// map on success. It returns [ErrNotFound] for a rejected submission; any
// other error is an internal backend fault.
type Provider interface {
	Verify(fields map[string]string) (map[string]string, error)
}

func copyAttributes(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
