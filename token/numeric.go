package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"
	"sort"
)

// NumericConfig defines a public type used by gateAuth APIs.
//
// NumericConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type NumericConfig struct {
	// Sender delivers the generated code out of band. Nil disables
	// delivery; the code is still stored and verified, which is useful for
	// single-channel deployments and tests.
	Sender Sender

	// RecipientAttribute names the user attribute holding the delivery
	// address ("email", "sms", ...). A login attempt for a user without
	// this attribute fails with an internal error. Defaults to "email".
	RecipientAttribute string

	// Subject and Body template the delivered message. ${name} placeholders
	// are replaced by user attributes; ${token} is the generated code.
	Subject string
	Body    string
}

// NumericProvider defines a public type used by gateAuth APIs.
//
// NumericProvider generates a fresh 6-digit code per login attempt without
// any pre-shared secret: the seed combines a digest of the current user
// attributes with output from the process-wide cryptographically secure
// random source. The code is stored under [Attribute] and compared verbatim
// on verification.
//
// A verified code is NOT invalidated; it stays valid until the session's
// attributes are cleared.
type NumericProvider struct {
	cfg NumericConfig
}

// NewNumericProvider creates a shared-secret-free numeric codec.
func NewNumericProvider(cfg NumericConfig) *NumericProvider {
	if cfg.RecipientAttribute == "" {
		cfg.RecipientAttribute = "email"
	}
	if cfg.Subject == "" {
		cfg.Subject = "Your login token"
	}
	if cfg.Body == "" {
		cfg.Body = "Your login token is ${token}."
	}
	return &NumericProvider{cfg: cfg}
}

// RequestToken describes the requesttoken operation and its observable behavior.
//
// RequestToken generates a code, stores it into userAttributes under
// [Attribute] and, when a sender is configured, delivers the templated
// message to the user's recipient attribute. Delivery faults are internal
// errors.
func (p *NumericProvider) RequestToken(userAttributes map[string]string) error {
	code, err := generateCode(userAttributes)
	if err != nil {
		return fmt.Errorf("token: generate: %w", err)
	}
	userAttributes[Attribute] = code

	if p.cfg.Sender == nil {
		return nil
	}

	to := expand(userAttributes, code, "${"+p.cfg.RecipientAttribute+"}")
	if to == "" {
		return fmt.Errorf("token: user has no %q attribute for token delivery", p.cfg.RecipientAttribute)
	}
	subject := expand(userAttributes, code, p.cfg.Subject)
	body := expand(userAttributes, code, p.cfg.Body)

	if err := p.cfg.Sender.Send(to, subject, body); err != nil {
		return fmt.Errorf("token: deliver: %w", err)
	}
	return nil
}

// VerifyToken compares the submission against the stored code.
func (p *NumericProvider) VerifyToken(userAttributes map[string]string, code string) error {
	expected := userAttributes[Attribute]
	if expected == "" || code == "" {
		return ErrInvalidToken
	}
	if !hmac.Equal([]byte(expected), []byte(code)) {
		return ErrInvalidToken
	}
	return nil
}

// generateCode folds a digest of the attribute map into eight bytes of
// secure randomness and reduces the result modulo one million.
func generateCode(attrs map[string]string) (string, error) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(attrs[k]))
		h.Write([]byte{0})
	}
	digest := h.Sum(nil)

	var random [8]byte
	if _, err := rand.Read(random[:]); err != nil {
		return "", err
	}

	seed := binary.BigEndian.Uint64(digest[:8]) ^ binary.BigEndian.Uint64(random[:])
	return fmt.Sprintf("%06d", seed%1_000_000), nil
}

// expand substitutes ${name} placeholders with user attributes; ${token}
// resolves to the generated code. Unknown placeholders become empty.
func expand(attrs map[string]string, code, template string) string {
	return os.Expand(template, func(name string) string {
		if name == "token" {
			return code
		}
		return attrs[name]
	})
}
