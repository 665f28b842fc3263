// Package audit owns the security event model and asynchronous event
// dispatch for the login gate. Internal faults are recorded here with full
// detail; the caller only ever sees a generic form state.
//
// # What this package must NOT do
//
//   - Import gateAuth or any sibling package.
//   - Block the login request path: dispatch is buffered and, when
//     configured, lossy under pressure.
package audit
