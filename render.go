package gateAuth

import (
	"html/template"
	"net/http"
)

// FormState is the model handed to the [FormRenderer] for every login
// dialog response.
type FormState struct {
	// Action is the dialog path both forms post to.
	Action string
	// Target is carried through the dialog so the caller can be redirected
	// to the originally requested URI after success.
	Target string
	// Login and Token select which of the two forms to show.
	Login bool
	Token bool
	// Error is the symbolic code for the failure being displayed, if any.
	Error FormError
	// AccountBlocked is set when the failure just tripped the account
	// blocker, so the page can tell the user not to retry.
	AccountBlocked bool
}

// FormRenderer defines a public type used by gateAuth APIs.
//
// FormRenderer turns a [FormState] into the login page. Production
// deployments typically replace the built-in renderer with their own
// template and asset pipeline; the gate only decides WHAT to show.
type FormRenderer interface {
	Render(w http.ResponseWriter, state FormState)
}

var defaultFormTemplate = template.Must(template.New("login").Parse(`<!doctype html>
<html><head><title>Login</title></head><body>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .AccountBlocked}}<p class="error">This account is blocked.</p>{{end}}
{{if .Login}}<form method="post" action="{{.Action}}">
<input type="hidden" name="target" value="{{.Target}}">
<label>Username <input name="username" autofocus></label>
<label>Password <input name="password" type="password"></label>
<button type="submit">Log in</button>
</form>{{end}}
{{if .Token}}<form method="post" action="{{.Action}}">
<input type="hidden" name="target" value="{{.Target}}">
<label>Token <input name="token" autofocus autocomplete="one-time-code"></label>
<button type="submit">Verify</button>
</form>{{end}}
</body></html>
`))

// TemplateRenderer is the built-in minimal [FormRenderer].
type TemplateRenderer struct {
	tmpl *template.Template
}

// NewTemplateRenderer creates the default renderer. A nil tmpl uses the
// built-in page.
func NewTemplateRenderer(tmpl *template.Template) *TemplateRenderer {
	if tmpl == nil {
		tmpl = defaultFormTemplate
	}
	return &TemplateRenderer{tmpl: tmpl}
}

// Render describes the render operation and its observable behavior.
//
// Render writes the login page for the given state. Internal-error states
// get status 500, everything else 200; the symbolic code never leaks
// backend detail.
func (t *TemplateRenderer) Render(w http.ResponseWriter, state FormState) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if state.Error == FormErrorInternal {
		w.WriteHeader(http.StatusInternalServerError)
	}
	_ = t.tmpl.Execute(w, state)
}
