// Package token generates and verifies the short numeric codes used as the
// second login factor.
//
// Two independent strategies share the [Provider] contract:
//
//   - [NumericProvider] draws a fresh 6-digit code per login attempt,
//     stores it in the session's attribute map and optionally delivers it
//     through a [Sender] (email, SMS gateway, log).
//   - [TOTPProvider] verifies RFC 6238 time-based codes against the user's
//     pre-shared "secret" attribute; nothing is generated or stored.
//
// [NoopProvider] disables the second factor while still requiring the user
// to submit a non-empty code, so the step cannot be skipped silently.
//
// # What this package must NOT do
//
//   - Import gateAuth or any sibling package (no upward imports).
//   - Own session state — providers only read and write the attribute map
//     handed to them.
package token
