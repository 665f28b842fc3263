package userdata

import (
	"errors"
	"testing"

	"github.com/go-ldap/ldap/v3"
)

// stubLDAP scripts one directory conversation.
type stubLDAP struct {
	entries      []*ldap.Entry
	searchErr    error
	userBindErr  error
	bindAttempts []string
}

func (s *stubLDAP) Bind(username, password string) error {
	s.bindAttempts = append(s.bindAttempts, username)
	if len(s.bindAttempts) > 1 || username != "cn=search,dc=example" {
		return s.userBindErr
	}
	return nil
}

func (s *stubLDAP) Search(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return &ldap.SearchResult{Entries: s.entries}, nil
}

func (s *stubLDAP) Close() error { return nil }

func newStubLDAPProvider(cfg LDAPConfig, stub *stubLDAP) *LDAPProvider {
	p := NewLDAPProvider(cfg)
	p.dial = func() (ldapConn, error) { return stub, nil }
	return p
}

func johnEntry() *ldap.Entry {
	return &ldap.Entry{
		DN: "uid=john,dc=example",
		Attributes: []*ldap.EntryAttribute{
			{Name: "mail", Values: []string{"john@example.com"}},
			{Name: "mobile", Values: []string{"+491701234567"}},
		},
	}
}

func TestLDAPVerifySuccess(t *testing.T) {
	stub := &stubLDAP{entries: []*ldap.Entry{johnEntry()}}
	p := newStubLDAPProvider(LDAPConfig{
		Base:         "dc=example",
		BindDN:       "cn=search,dc=example",
		AttributeMap: map[string]string{"mobile": "sms"},
	}, stub)

	attrs, err := p.Verify(map[string]string{FieldUsername: "john", FieldPassword: "password"})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if attrs["sms"] != "+491701234567" {
		t.Errorf("mapped attribute sms = %q", attrs["sms"])
	}
	if attrs["mail"] != "john@example.com" {
		t.Errorf("unmapped attribute mail = %q", attrs["mail"])
	}
	if len(stub.bindAttempts) != 2 {
		t.Fatalf("bind attempts = %v, want search bind then user bind", stub.bindAttempts)
	}
	if stub.bindAttempts[1] != "uid=john,dc=example" {
		t.Errorf("user bind as %q, want entry DN", stub.bindAttempts[1])
	}
}

func TestLDAPNoEntryIsNotFound(t *testing.T) {
	p := newStubLDAPProvider(LDAPConfig{Base: "dc=example"}, &stubLDAP{})

	_, err := p.Verify(map[string]string{FieldUsername: "nobody", FieldPassword: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Verify = %v, want ErrNotFound", err)
	}
}

func TestLDAPAmbiguousEntriesAreNotFound(t *testing.T) {
	stub := &stubLDAP{entries: []*ldap.Entry{johnEntry(), johnEntry()}}
	p := newStubLDAPProvider(LDAPConfig{Base: "dc=example"}, stub)

	_, err := p.Verify(map[string]string{FieldUsername: "john", FieldPassword: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Verify = %v, want ErrNotFound", err)
	}
}

func TestLDAPInvalidCredentialsIsNotFound(t *testing.T) {
	stub := &stubLDAP{
		entries:     []*ldap.Entry{johnEntry()},
		userBindErr: ldap.NewError(ldap.LDAPResultInvalidCredentials, errors.New("invalid credentials")),
	}
	p := newStubLDAPProvider(LDAPConfig{Base: "dc=example"}, stub)

	_, err := p.Verify(map[string]string{FieldUsername: "john", FieldPassword: "wrong"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Verify = %v, want ErrNotFound", err)
	}
}

func TestLDAPDirectoryFaultIsInternal(t *testing.T) {
	stub := &stubLDAP{searchErr: errors.New("connection reset")}
	p := newStubLDAPProvider(LDAPConfig{Base: "dc=example"}, stub)

	_, err := p.Verify(map[string]string{FieldUsername: "john", FieldPassword: "x"})
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("Verify = %v, want internal fault", err)
	}
}

func TestLDAPPasswordAttributeComparison(t *testing.T) {
	entry := johnEntry()
	entry.Attributes = append(entry.Attributes, &ldap.EntryAttribute{
		Name: "userPassword", Values: []string{HashPassword("password")},
	})
	stub := &stubLDAP{entries: []*ldap.Entry{entry}}
	p := newStubLDAPProvider(LDAPConfig{
		Base:              "dc=example",
		PasswordAttribute: "userPassword",
	}, stub)

	if _, err := p.Verify(map[string]string{FieldUsername: "john", FieldPassword: "password"}); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(stub.bindAttempts) != 0 {
		t.Error("attribute comparison must not bind as the user")
	}

	if _, err := p.Verify(map[string]string{FieldUsername: "john", FieldPassword: "wrong"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Verify = %v, want ErrNotFound", err)
	}
}
