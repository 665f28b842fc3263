package gateAuth

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	internalaudit "github.com/MrEthical07/gateAuth/internal/audit"

	"github.com/MrEthical07/gateAuth/blocker"
	"github.com/MrEthical07/gateAuth/session"
	"github.com/MrEthical07/gateAuth/sweep"
	"github.com/MrEthical07/gateAuth/token"
	"github.com/MrEthical07/gateAuth/userdata"
)

// Gate defines a public type used by gateAuth APIs.
//
// A Gate guards an http.Handler behind a two-step login dialog. Requests
// under the configured login path run the dialog; every other request is
// forwarded only when the caller holds an authorized session, and is
// redirected into the dialog otherwise. Build one with [Builder.Build]
// and release its background resources with [Gate.Close].
type Gate struct {
	config   Config
	userData userdata.Provider
	tokens   token.Provider
	sessions session.Manager
	blocker  *blocker.AccountBlocker
	renderer FormRenderer
	static   http.Handler
	metrics  *Metrics
	audit    *internalaudit.Dispatcher
	sweeper  *sweep.Sweeper

	closed atomic.Bool
}

// Close describes the close operation and its observable behavior.
//
// Close stops the sweeper and drains the audit dispatcher. The gate keeps
// answering requests after Close, but expired sessions and failure records
// are no longer evicted in the background. Close is idempotent.
func (g *Gate) Close() {
	if g.closed.Swap(true) {
		return
	}
	if g.sweeper != nil {
		g.sweeper.Stop()
	}
	g.audit.Close()
}

// Metrics returns the gate's metric registry for direct reads.
func (g *Gate) Metrics() *Metrics {
	return g.metrics
}

// MetricsSnapshot returns a point-in-time copy of all gate metrics.
func (g *Gate) MetricsSnapshot() MetricsSnapshot {
	return g.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (g *Gate) AuditDropped() uint64 {
	return g.audit.Dropped()
}

func (g *Gate) emitAudit(r *http.Request, eventType, username string, success bool, cause error) {
	if g.audit == nil {
		return
	}
	event := internalaudit.Event{
		Timestamp: time.Now(),
		EventType: eventType,
		Username:  username,
		IP:        clientIP(r),
		Path:      r.URL.Path,
		Success:   success,
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	g.audit.Emit(r.Context(), event)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type sessionContextKey struct{}

// SessionFromContext returns the authorized session attached to a
// forwarded request, or nil when the request did not pass through a gate.
func SessionFromContext(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionContextKey{}).(*session.Session)
	return s
}

func withSession(r *http.Request, s *session.Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionContextKey{}, s))
}
