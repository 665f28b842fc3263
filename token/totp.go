package token

import (
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// SecretAttribute is the user attribute holding the base32-encoded
// pre-shared TOTP secret.
const SecretAttribute = "secret"

// TOTPProvider defines a public type used by gateAuth APIs.
//
// TOTPProvider verifies RFC 6238 time-based one-time codes: 6 digits,
// SHA-1, 30-second steps, accepting the immediately preceding and following
// step to tolerate clock drift. Verification is a pure function of the
// user's secret, the current time and the submitted code; nothing is stored
// in the attribute map.
type TOTPProvider struct {
	now func() time.Time
}

// NewTOTPProvider creates a TOTP verifier.
func NewTOTPProvider() *TOTPProvider {
	return &TOTPProvider{now: time.Now}
}

// RequestToken is a no-op: the code is computed on the user's device.
func (p *TOTPProvider) RequestToken(map[string]string) error {
	return nil
}

// VerifyToken describes the verifytoken operation and its observable behavior.
//
// VerifyToken checks the submission against the user's "secret" attribute
// with a skew of ±1 step. A user without a secret is a configuration fault
// of the user data, reported as an internal error rather than an invalid
// code.
func (p *TOTPProvider) VerifyToken(userAttributes map[string]string, code string) error {
	secret := userAttributes[SecretAttribute]
	if secret == "" {
		return fmt.Errorf("token: user has no %q attribute for totp verification", SecretAttribute)
	}

	valid, err := totp.ValidateCustom(code, secret, p.now(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return ErrInvalidToken
	}
	if !valid {
		return ErrInvalidToken
	}
	return nil
}
