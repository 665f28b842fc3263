package gateAuth

import (
	"net/http"

	internalaudit "github.com/MrEthical07/gateAuth/internal/audit"

	"github.com/MrEthical07/gateAuth/blocker"
	"github.com/MrEthical07/gateAuth/session"
	"github.com/MrEthical07/gateAuth/sweep"
	"github.com/MrEthical07/gateAuth/token"
	"github.com/MrEthical07/gateAuth/userdata"
)

// Builder defines a public type used by gateAuth APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	userData userdata.Provider
	tokens   token.Provider
	sessions session.Manager
	blocker  *blocker.AccountBlocker
	renderer FormRenderer
	static   http.Handler

	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New returns a builder preloaded with the default configuration.
// Construction is allocation-only; no I/O happens before [Builder.Build].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration tree.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithUserDataProvider injects the credential backend (or chain). The gate
// cannot be built without one.
func (b *Builder) WithUserDataProvider(p userdata.Provider) *Builder {
	b.userData = p
	return b
}

// WithTokenProvider injects the second-factor codec. Nil disables the
// second factor entirely: pre-authorized sessions are authorized on their
// next protected request.
func (b *Builder) WithTokenProvider(p token.Provider) *Builder {
	b.tokens = p
	return b
}

// WithSessionManager injects a session manager. The default is a
// [session.MemoryManager] built from [SessionConfig].
func (b *Builder) WithSessionManager(m session.Manager) *Builder {
	b.sessions = m
	return b
}

// WithAccountBlocker injects a preconfigured account blocker. The default
// is built from [Config].Blocker.
func (b *Builder) WithAccountBlocker(ab *blocker.AccountBlocker) *Builder {
	b.blocker = ab
	return b
}

// WithRenderer injects the login page renderer. The default is the
// built-in minimal template.
func (b *Builder) WithRenderer(r FormRenderer) *Builder {
	b.renderer = r
	return b
}

// WithStaticHandler injects the handler serving login-dialog assets (CSS,
// images) for paths under the prefix that are not part of the protocol.
// The default responds 404.
func (b *Builder) WithStaticHandler(h http.Handler) *Builder {
	b.static = h
	return b
}

// WithAuditSink injects the destination for security events.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles metric collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build validates the configuration, constructs defaults for every
// collaborator not injected, starts the audit dispatcher and the sweeper,
// and returns the ready Gate. Configuration failures abort here, before
// any request is served.
func (b *Builder) Build() (*Gate, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}
	b.built = true

	cfg := b.config
	if cfg.Login.Path == "" {
		cfg.Login.Path = "/login/"
	}
	if !validLoginPath(cfg.Login.Path) {
		return nil, ErrInvalidLoginPath
	}
	if b.userData == nil {
		return nil, ErrNoUserDataProvider
	}

	sessions := b.sessions
	if sessions == nil {
		sessions = session.NewMemoryManager(session.CookieConfig{
			Name:   cfg.Session.CookieName,
			Domain: cfg.Session.Domain,
			Secure: cfg.Session.Secure,
		}, cfg.Session.Timeout)
	}

	accountBlocker := b.blocker
	if accountBlocker == nil {
		accountBlocker = blocker.New(cfg.Blocker)
	}

	renderer := b.renderer
	if renderer == nil {
		renderer = NewTemplateRenderer(nil)
	}

	static := b.static
	if static == nil {
		static = http.NotFoundHandler()
	}

	g := &Gate{
		config:   cfg,
		userData: b.userData,
		tokens:   b.tokens,
		sessions: sessions,
		blocker:  accountBlocker,
		renderer: renderer,
		static:   static,
		metrics:  NewMetrics(cfg.Metrics),
		audit: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink),
	}

	if !cfg.Sweep.Disabled {
		g.sweeper = sweep.New(cfg.Sweep.Interval)
		alive := func() bool { return !g.closed.Load() }
		g.sweeper.Register(sessions, alive)
		g.sweeper.Register(accountBlocker, alive)
		g.sweeper.Start()
	}

	return g, nil
}
