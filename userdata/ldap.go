package userdata

import (
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// LDAPConfig defines a public type used by gateAuth APIs.
//
// LDAPConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LDAPConfig struct {
	// URL of the directory server, e.g. "ldaps://ldap.example.com:636".
	URL string
	// Base is the subtree searched for the user entry.
	Base string
	// SearchPattern is the filter with a single %s placeholder for the
	// escaped username, e.g. "(uid=%s)". Defaults to "(uid=%s)".
	SearchPattern string
	// BindDN and BindPassword authenticate the search connection. Empty
	// means anonymous search.
	BindDN       string
	BindPassword string
	// AttributeMap renames directory attributes into user attributes, e.g.
	// {"mobile": "sms"}. Attributes not listed are copied under their own
	// name.
	AttributeMap map[string]string
	// PasswordAttribute, when set, is compared against the submission
	// instead of re-binding as the found entry.
	PasswordAttribute string
}

// LDAPProvider defines a public type used by gateAuth APIs.
//
// LDAPProvider verifies credentials against a directory service: it
// searches for the user's entry and then binds as that entry with the
// submitted password. Directory faults (unreachable server, broken
// configuration) are internal errors, never [ErrNotFound].
type LDAPProvider struct {
	cfg  LDAPConfig
	dial func() (ldapConn, error)
}

// ldapConn is the slice of *ldap.Conn the provider uses, kept narrow so
// tests can stub the directory.
type ldapConn interface {
	Bind(username, password string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	Close() error
}

// NewLDAPProvider creates a directory-service backend.
func NewLDAPProvider(cfg LDAPConfig) *LDAPProvider {
	if cfg.SearchPattern == "" {
		cfg.SearchPattern = "(uid=%s)"
	}
	p := &LDAPProvider{cfg: cfg}
	p.dial = func() (ldapConn, error) {
		return ldap.DialURL(cfg.URL)
	}
	return p
}

// Verify describes the verify operation and its observable behavior.
//
// Verify searches the directory for the submitted username and checks the
// password by binding as the found entry (or by comparing the configured
// password attribute). The entry's attributes are returned on success.
func (p *LDAPProvider) Verify(fields map[string]string) (map[string]string, error) {
	username := fields[FieldUsername]
	password := fields[FieldPassword]
	if username == "" || password == "" {
		return nil, ErrNotFound
	}

	conn, err := p.dial()
	if err != nil {
		return nil, fmt.Errorf("userdata: ldap dial: %w", err)
	}
	defer conn.Close()

	if p.cfg.BindDN != "" {
		if err := conn.Bind(p.cfg.BindDN, p.cfg.BindPassword); err != nil {
			return nil, fmt.Errorf("userdata: ldap search bind: %w", err)
		}
	}

	filter := fmt.Sprintf(p.cfg.SearchPattern, ldap.EscapeFilter(username))
	result, err := conn.Search(ldap.NewSearchRequest(
		p.cfg.Base,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 2, 0, false,
		filter, nil, nil,
	))
	if err != nil {
		return nil, fmt.Errorf("userdata: ldap search: %w", err)
	}
	if len(result.Entries) != 1 {
		return nil, ErrNotFound
	}
	entry := result.Entries[0]

	if p.cfg.PasswordAttribute != "" {
		if !passwordMatches(entry.GetAttributeValue(p.cfg.PasswordAttribute), password) {
			return nil, ErrNotFound
		}
	} else {
		if err := conn.Bind(entry.DN, password); err != nil {
			if ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("userdata: ldap user bind: %w", err)
		}
	}

	attrs := map[string]string{FieldUsername: username}
	for _, attr := range entry.Attributes {
		if len(attr.Values) == 0 {
			continue
		}
		name := attr.Name
		if mapped, ok := p.cfg.AttributeMap[name]; ok {
			name = mapped
		}
		if strings.EqualFold(name, FieldPassword) {
			continue
		}
		attrs[name] = attr.Values[0]
	}
	return attrs, nil
}
