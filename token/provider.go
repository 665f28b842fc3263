package token

import "errors"

// Attribute is the reserved user-attribute key under which
// [NumericProvider] stores the expected code. The leading underscore keeps
// it out of the way of backend-supplied attributes.
const Attribute = "_token"

// ErrInvalidToken signals a rejected code. Like userdata.ErrNotFound it is
// an expected, user-facing outcome; any other error from a provider is an
// internal fault (for example an unreachable delivery gateway).
var ErrInvalidToken = errors.New("token: invalid token")

// Provider defines a public type used by gateAuth APIs.
//
// Provider is the second-factor contract. RequestToken runs after a
// successful credential check and may generate, store and deliver a code;
// VerifyToken checks the user's submission on the second form.
type Provider interface {
	RequestToken(userAttributes map[string]string) error
	VerifyToken(userAttributes map[string]string, code string) error
}
