// Package userdata verifies username/password submissions against pluggable
// credential backends.
//
// Every backend implements the one-method [Provider] contract: verify the
// submitted form fields and return the user's attributes, or report
// [ErrNotFound]. Unknown username and wrong password are indistinguishable,
// so callers cannot be used for username enumeration.
//
// Anything other than ErrNotFound is an internal backend fault (broken
// connectivity, malformed configuration) and must never be presented to the
// caller as a simple login failure; the [UnifyingProvider] chain stops on
// such faults instead of falling through to the next backend.
//
// # What this package must NOT do
//
//   - Import gateAuth or any sibling package (no upward imports).
//   - Define password storage policy; each backend owns its own format.
//   - Cache failures: the [CachingProvider] memoizes successes only.
package userdata
