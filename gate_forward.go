package gateAuth

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Middleware describes the middleware operation and its observable behavior.
//
// Middleware wraps next behind the login gate. Requests under the login
// path run the dialog; all other requests reach next only when the caller
// holds an authorized session, and are redirected into the dialog
// otherwise. Header-prefixed user attributes are injected into the
// forwarded request.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			g.metrics.Observe(MetricGateLatency, time.Since(start))
		}()

		if strings.HasPrefix(r.URL.Path, g.config.Login.Path) {
			g.serveDialog(w, r)
			return
		}
		g.serveProtected(w, r, next)
	})
}

// Handler returns the gate as a standalone http.Handler guarding next.
// It is a convenience alias for [Gate.Middleware].
func (g *Gate) Handler(next http.Handler) http.Handler {
	return g.Middleware(next)
}

func (g *Gate) serveProtected(w http.ResponseWriter, r *http.Request, next http.Handler) {
	s := g.sessions.Get(r)

	// Without a second factor a pre-authorized session completes its login
	// on the first protected request it makes.
	if s != nil && s.IsPreAuthorized() && g.tokens == nil {
		g.blocker.Unblock(s.UserName())
		s.Authorize()
		if !g.config.Login.ExposeUserCredentialsToSession {
			s.ClearCredentials()
		}
		g.emitAudit(r, AuditTokenSuccess, s.UserName(), true, nil)
	}

	if s == nil || !s.IsAuthorized() {
		g.redirectToDialog(w, r)
		return
	}

	s.Touch()
	injectAttributeHeaders(r, s.Attributes())

	if err := g.sessions.Commit(w, r, s); err != nil {
		g.metrics.Inc(MetricInternalError)
		g.emitAudit(r, AuditInternalError, s.UserName(), false, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	g.metrics.Inc(MetricRequestForwarded)
	next.ServeHTTP(w, withSession(r, s))
}

func (g *Gate) redirectToDialog(w http.ResponseWriter, r *http.Request) {
	noCache(w)
	g.metrics.Inc(MetricRequestRedirected)
	location := g.config.Login.Path + "?" + FieldTarget + "=" + url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, location, http.StatusFound)
}

// injectAttributeHeaders sets one request header per attribute carrying the
// [HeaderAttributePrefix], overwriting caller-supplied values so upstream
// handlers can trust them.
func injectAttributeHeaders(r *http.Request, attrs map[string]string) {
	for k, v := range attrs {
		if len(k) > len(HeaderAttributePrefix) && strings.HasPrefix(k, HeaderAttributePrefix) {
			r.Header.Set(k[len(HeaderAttributePrefix):], v)
		}
	}
}
