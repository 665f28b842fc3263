package session

import "testing"

func TestSessionLevelTransitions(t *testing.T) {
	s := NewSession()
	if s.Level() != LevelNone {
		t.Fatalf("new session level = %d", s.Level())
	}

	s.PreAuthorize("john", map[string]string{"role": "admin"})
	if !s.IsPreAuthorized() || s.IsAuthorized() {
		t.Fatal("PreAuthorize must set level 1 exactly")
	}
	if s.UserName() != "john" {
		t.Errorf("UserName = %q", s.UserName())
	}

	s.Authorize()
	if !s.IsAuthorized() {
		t.Fatal("Authorize must set level 2")
	}
}

func TestSessionClearKeepsUserName(t *testing.T) {
	s := NewSession()
	s.PreAuthorize("john", map[string]string{"role": "admin"})
	s.Clear()

	if s.Level() != LevelNone {
		t.Errorf("level = %d after Clear", s.Level())
	}
	if len(s.Attributes()) != 0 {
		t.Error("attributes survived Clear")
	}
	if s.UserName() != "john" {
		t.Error("user name must survive Clear for audit attribution")
	}
}

func TestSessionClearCredentials(t *testing.T) {
	s := NewSession()
	s.PreAuthorize("john", map[string]string{
		"password":      "secret",
		"client_secret": "secret2",
		"role":          "admin",
	})
	s.ClearCredentials()

	if s.Attribute("password") != "" || s.Attribute("client_secret") != "" {
		t.Error("credential attributes survived ClearCredentials")
	}
	if s.Attribute("role") != "admin" {
		t.Error("non-credential attribute lost")
	}
}

func TestSessionAttributesAreCopied(t *testing.T) {
	source := map[string]string{"role": "admin"}
	s := NewSession()
	s.PreAuthorize("john", source)

	source["role"] = "tampered"
	if s.Attribute("role") != "admin" {
		t.Error("session aliased the caller's map")
	}

	out := s.Attributes()
	out["role"] = "tampered"
	if s.Attribute("role") != "admin" {
		t.Error("session aliased the returned map")
	}
}
