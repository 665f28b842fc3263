// Package blocker tracks failed login attempts per username and blocks
// further attempts after too many failures inside a rolling window.
//
// Each tracked username owns a fixed-size ring buffer of recent failure
// timestamps. A failure triggers a block exactly when the buffer slot it
// overwrites was itself written less than the configured window ago, that
// is, when the configured number of failures occurred within the window.
//
// A global cap bounds the number of tracked usernames; once reached, every
// account is treated as blocked. This is a fail-safe against unbounded
// memory growth under a distributed guessing attack, not a rate limit.
//
// # What this package must NOT do
//
//   - Import gateAuth or any sibling package (no upward imports).
//   - Decide what a "failure" is; the Gate reports credential and token
//     rejections; this package only counts them.
package blocker
