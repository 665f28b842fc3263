package gateAuth

import (
	"strings"
	"time"

	"github.com/MrEthical07/gateAuth/blocker"
	"github.com/MrEthical07/gateAuth/session"
	"github.com/MrEthical07/gateAuth/sweep"
)

// Config defines a public type used by gateAuth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Login   LoginConfig
	Session SessionConfig
	Blocker blocker.Config
	Sweep   SweepConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
LOGIN CONFIG
====================================
*/

// LoginConfig defines a public type used by gateAuth APIs.
//
// LoginConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LoginConfig struct {
	// Path is the login-dialog prefix, e.g. "/login/". Requests under it
	// run the dialog; requests outside it require an authorized session.
	Path string

	// ExposeUserCredentialsToSession copies submitted form fields that the
	// user data provider did not return (password included) into the
	// session's attributes. They stay in memory for the session lifetime;
	// leave this off unless a backend needs them for single sign-on.
	ExposeUserCredentialsToSession bool
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by gateAuth APIs.
//
// SessionConfig configures the default [session.MemoryManager] built when
// no manager is injected, and the cookie attributes shared by all managers.
type SessionConfig struct {
	CookieName string
	Timeout    time.Duration
	Domain     string
	Secure     bool
}

/*
====================================
SWEEP CONFIG
====================================
*/

// SweepConfig defines a public type used by gateAuth APIs.
//
// SweepConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SweepConfig struct {
	Interval time.Duration
	Disabled bool
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by gateAuth APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by gateAuth APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Login: LoginConfig{
			Path: "/login/",
		},
		Session: SessionConfig{
			CookieName: session.DefaultCookieName,
			Timeout:    session.DefaultTimeout,
		},
		Blocker: blocker.Config{
			AfterFailedLogins:     blocker.DefaultAfterFailedLogins,
			BlockFor:              blocker.DefaultBlockFor,
			BlockWholeSystemAfter: blocker.DefaultBlockWholeSystemAfter,
		},
		Sweep: SweepConfig{
			Interval: sweep.DefaultInterval,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; assignment is a deep copy.
	return cfg
}

func validLoginPath(path string) bool {
	return strings.HasPrefix(path, "/") && strings.HasSuffix(path, "/")
}
