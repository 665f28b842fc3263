package token

// NoopProvider defines a public type used by gateAuth APIs.
//
// NoopProvider disables the second factor for deployments that only want
// the credential step. The token form is still shown and an empty
// submission is still rejected, so the step cannot be skipped by posting
// nothing.
type NoopProvider struct{}

// NewNoopProvider creates a second-factor provider that accepts any
// non-empty code.
func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

// RequestToken is a no-op.
func (*NoopProvider) RequestToken(map[string]string) error {
	return nil
}

// VerifyToken accepts any non-empty submission.
func (*NoopProvider) VerifyToken(_ map[string]string, code string) error {
	if code == "" {
		return ErrInvalidToken
	}
	return nil
}
