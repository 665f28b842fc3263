// Package session tracks a caller's progress through the two-step login
// protocol across HTTP requests.
//
// # Session model
//
// A [Session] carries the user name, an authorization level (0 = none,
// 1 = pre-authorized, 2 = authorized) and an opaque string attribute map
// supplied by the user data provider. The level only moves upward through
// [Session.PreAuthorize] and [Session.Authorize]; [Session.Clear] resets it.
//
// # Manager variants
//
// Three [Manager] implementations exist behind one contract:
//
//   - [MemoryManager]: a server-held table keyed by a random opaque
//     identifier carried in a cookie.
//   - [JWTManager]: a stateless variant embedding the whole session into an
//     asymmetrically signed token carried in a cookie.
//   - [RedisManager]: the server-held table moved into Redis, with the idle
//     timeout expressed as a sliding key TTL.
//
// # What this package must NOT do
//
//   - Import gateAuth or any sibling package (no upward imports).
//   - Decide whether a request is allowed — that is the Gate's job.
//   - Render login pages or write response bodies.
package session
