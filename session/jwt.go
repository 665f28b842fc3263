package session

import (
	"crypto/ed25519"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// attributePrefix namespaces user attributes inside the token so they can
// never collide with the reserved registered claims.
const attributePrefix = "map."

// clockSkewLeeway tolerates small clock drift between the signer and the
// verifier.
const clockSkewLeeway = 30 * time.Second

// ErrNoPrivateKey is returned by [NewJWTManager] when no signing key is
// configured.
var ErrNoPrivateKey = errors.New("session: jwt manager requires an ed25519 private key")

// JWTConfig defines a public type used by gateAuth APIs.
//
// JWTConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type JWTConfig struct {
	Cookie     CookieConfig
	Timeout    time.Duration
	PrivateKey ed25519.PrivateKey
	PublicKey  ed25519.PublicKey
}

// JWTManager defines a public type used by gateAuth APIs.
//
// JWTManager is the stateless session variant: the whole session is encoded
// into a signed token carried in a cookie, so there is no server-held table
// and nothing for the sweeper to evict. The signing key is read-only after
// construction; no locking is needed on the request path.
type JWTManager struct {
	cookie     CookieConfig
	timeout    time.Duration
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	parser     *jwt.Parser
}

// NewJWTManager creates a signed-cookie manager. The public key is derived
// from the private key when not given. A zero timeout defaults to
// [DefaultTimeout].
func NewJWTManager(cfg JWTConfig) (*JWTManager, error) {
	if len(cfg.PrivateKey) != ed25519.PrivateKeySize {
		return nil, ErrNoPrivateKey
	}
	public := cfg.PublicKey
	if len(public) == 0 {
		public = cfg.PrivateKey.Public().(ed25519.PublicKey)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &JWTManager{
		cookie:     cfg.Cookie,
		timeout:    timeout,
		privateKey: cfg.PrivateKey,
		publicKey:  public,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
			jwt.WithLeeway(clockSkewLeeway),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

// Get describes the get operation and its observable behavior.
//
// Get reconstructs the session from the caller's signed cookie. Any
// verification failure (bad signature, expired, missing subject, malformed
// claims) yields nil: the caller is treated as having no session, never as
// an error.
func (m *JWTManager) Get(r *http.Request) *Session {
	raw := cookieValue(r, m.cookie.name())
	if raw == "" {
		return nil
	}
	return m.verify(raw)
}

// Create allocates a level-0 session. No cookie is written until the
// session carries a user name and [JWTManager.Commit] signs it.
func (m *JWTManager) Create(http.ResponseWriter, *http.Request) *Session {
	return NewSession()
}

// Remove clears the in-flight session value and expires the cookie. There
// is no server-side destruction path; already-issued tokens stay valid
// until their embedded expiry.
func (m *JWTManager) Remove(w http.ResponseWriter, r *http.Request, s *Session) {
	if s != nil {
		s.Clear()
	}
	http.SetCookie(w, m.cookie.cookie(r, "", -1))
}

// Commit describes the commit operation and its observable behavior.
//
// Commit serializes the session into a fresh signed token and sets it as
// the caller's cookie. Anonymous sessions produce no cookie.
func (m *JWTManager) Commit(w http.ResponseWriter, r *http.Request, s *Session) error {
	if s == nil || s.UserName() == "" {
		return nil
	}

	token, err := m.sign(s)
	if err != nil {
		return err
	}
	http.SetCookie(w, m.cookie.cookie(r, token, 0))
	return nil
}

// Cleanup is a no-op: token lifetime is bounded by the embedded expiry.
func (m *JWTManager) Cleanup() {}

// Sign exposes token creation for tests and for consumers that transport
// the session outside a cookie.
func (m *JWTManager) Sign(s *Session) (string, error) {
	return m.sign(s)
}

// Verify exposes token verification for tests. It returns nil on any
// verification failure, mirroring [JWTManager.Get].
func (m *JWTManager) Verify(token string) *Session {
	return m.verify(token)
}

func (m *JWTManager) sign(s *Session) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub":   s.UserName(),
		"level": strconv.Itoa(s.Level()),
		"exp":   jwt.NewNumericDate(now.Add(m.timeout)),
		"iat":   jwt.NewNumericDate(now),
		"nbf":   jwt.NewNumericDate(now.Add(-2 * time.Minute)),
		"jti":   uuid.NewString(),
	}
	for k, v := range s.Attributes() {
		claims[attributePrefix+k] = v
	}

	return jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(m.privateKey)
}

func (m *JWTManager) verify(raw string) *Session {
	claims := jwt.MapClaims{}
	token, err := m.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return m.publicKey, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil
	}

	s := NewSession()
	s.setUserName(sub)

	attrs := map[string]string{}
	for key, value := range claims {
		switch key {
		case "exp", "iat", "jti", "nbf", "sub":
			continue
		case "level":
			text, ok := value.(string)
			if !ok {
				return nil
			}
			level, err := strconv.Atoi(text)
			if err != nil || level < LevelNone || level > LevelAuthorized {
				return nil
			}
			s.setLevel(level)
		default:
			if !strings.HasPrefix(key, attributePrefix) {
				continue
			}
			text, ok := value.(string)
			if !ok {
				return nil
			}
			attrs[strings.TrimPrefix(key, attributePrefix)] = text
		}
	}
	s.replaceAttributes(attrs)
	return s
}
