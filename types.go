package gateAuth

import (
	"io"

	internalaudit "github.com/MrEthical07/gateAuth/internal/audit"
)

// FormError is a symbolic error code rendered into the login form model.
//
//	Docs: docs/login-dialog.md
type FormError string

const (
	// FormErrorNone is an exported constant or variable used by the login gate.
	FormErrorNone FormError = ""
	// FormErrorInvalidPassword is an exported constant or variable used by the login gate.
	FormErrorInvalidPassword FormError = "INVALID_PASSWORD"
	// FormErrorAccountBlocked is an exported constant or variable used by the login gate.
	FormErrorAccountBlocked FormError = "ACCOUNT_BLOCKED"
	// FormErrorInvalidToken is an exported constant or variable used by the login gate.
	FormErrorInvalidToken FormError = "INVALID_TOKEN"
	// FormErrorInternal is an exported constant or variable used by the login gate.
	FormErrorInternal FormError = "INTERNAL_SERVER_ERROR"
)

// HeaderAttributePrefix marks user attributes that are injected into the
// forwarded request as headers: an attribute "headerX-Role" sets header
// "X-Role", overwriting any caller-supplied value.
const HeaderAttributePrefix = "header"

// Form field names of the login dialog.
const (
	FieldUsername = "username"
	FieldPassword = "password"
	FieldToken    = "token"
	FieldTarget   = "target"
)

// AuditEvent is a structured security event emitted by the gate.
//
//	Docs: docs/audit.md
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the gate's audit dispatcher.
//
//	Docs: docs/audit.md
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
//
//	Docs: docs/audit.md
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
//
//	Docs: docs/audit.md
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// Audit event types emitted by the gate.
const (
	// AuditLoginSuccess is an exported constant or variable used by the login gate.
	AuditLoginSuccess = "login_success"
	// AuditLoginFailure is an exported constant or variable used by the login gate.
	AuditLoginFailure = "login_failure"
	// AuditLoginBlocked is an exported constant or variable used by the login gate.
	AuditLoginBlocked = "login_blocked"
	// AuditTokenRequested is an exported constant or variable used by the login gate.
	AuditTokenRequested = "token_requested"
	// AuditTokenSuccess is an exported constant or variable used by the login gate.
	AuditTokenSuccess = "token_success"
	// AuditTokenFailure is an exported constant or variable used by the login gate.
	AuditTokenFailure = "token_failure"
	// AuditLogout is an exported constant or variable used by the login gate.
	AuditLogout = "logout"
	// AuditInternalError is an exported constant or variable used by the login gate.
	AuditInternalError = "internal_error"
)
