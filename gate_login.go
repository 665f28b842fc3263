package gateAuth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MrEthical07/gateAuth/session"
	"github.com/MrEthical07/gateAuth/token"
	"github.com/MrEthical07/gateAuth/userdata"
)

// serveDialog handles every request under the login path: the two-step
// dialog itself, logout, and static dialog assets.
func (g *Gate) serveDialog(w http.ResponseWriter, r *http.Request) {
	sub := strings.TrimPrefix(r.URL.Path, g.config.Login.Path)

	switch {
	case sub == "" || sub == "index.html":
		g.serveDialogPage(w, r)
	case sub == "logout":
		g.serveLogout(w, r)
	default:
		g.static.ServeHTTP(w, r)
	}
}

func (g *Gate) serveDialogPage(w http.ResponseWriter, r *http.Request) {
	noCache(w)

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			g.renderLoginForm(w, r, FormErrorInvalidPassword)
			return
		}
		// A pre-authorized session owns the token step: any POST it makes
		// at the dialog is a token attempt, blank submissions included.
		// Routing on the session level rather than on submitted fields
		// keeps a level-1 caller from re-running the credential step.
		if s := g.sessions.Get(r); s != nil && s.IsPreAuthorized() && g.tokens != nil {
			g.serveTokenStep(w, r, s)
			return
		}
		g.serveCredentialStep(w, r)
		return
	}

	// GET: resume an in-flight dialog or start a fresh one. The block
	// status is re-checked before the token form is shown again; the
	// account may have been blocked since the credential step.
	if s := g.sessions.Get(r); s != nil && s.IsPreAuthorized() && g.tokens != nil {
		if g.blocker.IsBlocked(s.UserName()) {
			g.metrics.Inc(MetricLoginBlocked)
			g.emitAudit(r, AuditLoginBlocked, s.UserName(), false, nil)
			g.renderBlocked(w, r)
			return
		}
		g.renderTokenForm(w, r, FormErrorNone)
		return
	}
	// Without a token provider a pre-authorized session has no pending
	// dialog step; it completes its login on the next protected request,
	// so a fresh credential form is the only page left to show.
	g.renderLoginForm(w, r, FormErrorNone)
}

// serveCredentialStep is the first dialog step: username and password.
func (g *Gate) serveCredentialStep(w http.ResponseWriter, r *http.Request) {
	username := r.PostForm.Get(FieldUsername)
	if username == "" {
		g.metrics.Inc(MetricLoginFailure)
		g.renderLoginForm(w, r, FormErrorInvalidPassword)
		return
	}

	// The blocker is consulted before the backend so a blocked account
	// cannot be used to probe credentials.
	if g.blocker.IsBlocked(username) {
		g.metrics.Inc(MetricLoginBlocked)
		g.emitAudit(r, AuditLoginBlocked, username, false, nil)
		g.renderBlocked(w, r)
		return
	}

	fields := formFields(r)
	attrs, err := g.userData.Verify(fields)
	if err != nil {
		if errors.Is(err, userdata.ErrNotFound) {
			blocked := g.blocker.Fail(username)
			g.metrics.Inc(MetricLoginFailure)
			g.emitAudit(r, AuditLoginFailure, username, false, nil)
			if blocked {
				g.renderBlocked(w, r)
				return
			}
			g.renderLoginForm(w, r, FormErrorInvalidPassword)
			return
		}
		g.metrics.Inc(MetricInternalError)
		g.emitAudit(r, AuditInternalError, username, false, err)
		g.renderLoginForm(w, r, FormErrorInternal)
		return
	}

	if g.config.Login.ExposeUserCredentialsToSession {
		for k, v := range fields {
			if _, ok := attrs[k]; !ok {
				attrs[k] = v
			}
		}
	}

	s := g.sessions.Get(r)
	if s == nil {
		s = g.sessions.Create(w, r)
		g.metrics.Inc(MetricSessionCreated)
	} else {
		s.Clear()
	}
	s.PreAuthorize(username, attrs)

	g.metrics.Inc(MetricLoginSuccess)
	g.emitAudit(r, AuditLoginSuccess, username, true, nil)

	if g.tokens == nil {
		// No second factor configured: the session is authorized on its
		// next protected request. Send the caller straight back.
		if err := g.sessions.Commit(w, r, s); err != nil {
			g.failInternal(w, r, s, err)
			return
		}
		g.redirectToTarget(w, r)
		return
	}

	tokenAttrs := s.Attributes()
	if err := g.tokens.RequestToken(tokenAttrs); err != nil {
		g.metrics.Inc(MetricInternalError)
		g.emitAudit(r, AuditInternalError, username, false, err)
		g.renderLoginForm(w, r, FormErrorInternal)
		return
	}
	s.MergeAttributes(tokenAttrs)

	g.metrics.Inc(MetricTokenRequested)
	g.emitAudit(r, AuditTokenRequested, username, true, nil)

	if err := g.sessions.Commit(w, r, s); err != nil {
		g.failInternal(w, r, s, err)
		return
	}
	g.renderTokenForm(w, r, FormErrorNone)
}

// serveTokenStep is the second dialog step: the one-time code. The caller
// guarantees s is pre-authorized and a token provider is configured.
func (g *Gate) serveTokenStep(w http.ResponseWriter, r *http.Request, s *session.Session) {
	username := s.UserName()

	// The account may have been blocked from another connection while the
	// token form was open.
	if g.blocker.IsBlocked(username) {
		g.metrics.Inc(MetricLoginBlocked)
		g.emitAudit(r, AuditLoginBlocked, username, false, nil)
		g.renderBlocked(w, r)
		return
	}

	code := r.PostForm.Get(FieldToken)
	if err := g.tokens.VerifyToken(s.Attributes(), code); err != nil {
		if errors.Is(err, token.ErrInvalidToken) {
			blocked := g.blocker.Fail(username)
			s.Clear()
			g.metrics.Inc(MetricTokenFailure)
			g.emitAudit(r, AuditTokenFailure, username, false, nil)
			if err := g.sessions.Commit(w, r, s); err != nil {
				g.failInternal(w, r, s, err)
				return
			}
			if blocked {
				g.renderBlocked(w, r)
				return
			}
			g.renderLoginForm(w, r, FormErrorInvalidToken)
			return
		}
		s.Clear()
		g.metrics.Inc(MetricInternalError)
		g.emitAudit(r, AuditInternalError, username, false, err)
		_ = g.sessions.Commit(w, r, s)
		g.renderLoginForm(w, r, FormErrorInternal)
		return
	}

	g.blocker.Unblock(username)
	s.Authorize()
	if !g.config.Login.ExposeUserCredentialsToSession {
		s.ClearCredentials()
	}

	g.metrics.Inc(MetricTokenSuccess)
	g.emitAudit(r, AuditTokenSuccess, username, true, nil)

	if err := g.sessions.Commit(w, r, s); err != nil {
		g.failInternal(w, r, s, err)
		return
	}
	g.redirectToTarget(w, r)
}

func (g *Gate) serveLogout(w http.ResponseWriter, r *http.Request) {
	noCache(w)

	if s := g.sessions.Get(r); s != nil {
		g.emitAudit(r, AuditLogout, s.UserName(), true, nil)
		g.sessions.Remove(w, r, s)
	}
	g.metrics.Inc(MetricLogout)

	http.Redirect(w, r, g.config.Login.Path, http.StatusFound)
}

/*
====================================
DIALOG HELPERS
====================================
*/

func (g *Gate) renderLoginForm(w http.ResponseWriter, r *http.Request, code FormError) {
	g.renderer.Render(w, FormState{
		Action: g.config.Login.Path,
		Target: requestedTarget(r),
		Login:  true,
		Error:  code,
	})
}

func (g *Gate) renderTokenForm(w http.ResponseWriter, r *http.Request, code FormError) {
	g.renderer.Render(w, FormState{
		Action: g.config.Login.Path,
		Target: requestedTarget(r),
		Token:  true,
		Error:  code,
	})
}

func (g *Gate) renderBlocked(w http.ResponseWriter, r *http.Request) {
	g.renderer.Render(w, FormState{
		Action:         g.config.Login.Path,
		Target:         requestedTarget(r),
		Login:          true,
		Error:          FormErrorAccountBlocked,
		AccountBlocked: true,
	})
}

func (g *Gate) failInternal(w http.ResponseWriter, r *http.Request, s *session.Session, err error) {
	g.metrics.Inc(MetricInternalError)
	username := ""
	if s != nil {
		username = s.UserName()
	}
	g.emitAudit(r, AuditInternalError, username, false, err)
	g.renderLoginForm(w, r, FormErrorInternal)
}

func (g *Gate) redirectToTarget(w http.ResponseWriter, r *http.Request) {
	target := requestedTarget(r)
	if target == "" || !safeTarget(target) {
		target = "/"
	}
	g.metrics.Inc(MetricRequestRedirected)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// requestedTarget returns the URI the caller originally asked for, carried
// through the dialog as a form or query parameter.
func requestedTarget(r *http.Request) string {
	if r.PostForm != nil {
		if t := r.PostForm.Get(FieldTarget); t != "" {
			return t
		}
	}
	return r.URL.Query().Get(FieldTarget)
}

// safeTarget rejects redirect targets that leave the current host, keeping
// the dialog free of open-redirect abuse.
func safeTarget(target string) bool {
	return strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//")
}

func formFields(r *http.Request) map[string]string {
	fields := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		fields[k] = r.PostForm.Get(k)
	}
	return fields
}

func noCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
