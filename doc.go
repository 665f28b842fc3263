// Package gateAuth provides a reverse-proxy login gate that enforces
// interactive two-factor, session-backed authentication in front of an
// arbitrary backend.
//
// An unauthenticated caller is redirected to a login form; after a correct
// username/password check a numeric second-factor code must be confirmed
// before the session is authorized and requests are forwarded, with
// selected session attributes injected as backend headers.
//
// The package is designed for concurrent server workloads: Gate methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// gateAuth is the public surface. It exposes [Gate], [Builder], [Config]
// and the collaborator contracts (userdata.Provider, token.Provider,
// session.Manager). The login state machine lives here; sessions, failure
// tracking, credential backends, token codecs and sweeping live in their
// own subpackages.
//
// # What this package must NOT do
//
//   - Own HTTP transport or connection handling — the consumer mounts
//     [Gate.Middleware] into its own server.
//   - Ship login page assets; rendering is a [FormRenderer] collaborator
//     with a minimal built-in default.
//   - Distinguish "unknown username" from "wrong password" anywhere a
//     caller can observe it.
package gateAuth
