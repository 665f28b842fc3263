package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is an exported constant or variable used by the login gate.
var ErrRedisUnavailable = fmt.Errorf("session: redis unavailable")

// RedisConfig defines a public type used by gateAuth APIs.
//
// RedisConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RedisConfig struct {
	Cookie    CookieConfig
	Timeout   time.Duration
	KeyPrefix string
}

// RedisManager defines a public type used by gateAuth APIs.
//
// RedisManager keeps the session table in Redis. Each session is a JSON
// blob under a prefixed key whose TTL equals the idle timeout; every lookup
// refreshes the TTL, giving the same sliding-expiration behavior as
// [MemoryManager] without a sweeper.
type RedisManager struct {
	client    redis.UniversalClient
	cookie    CookieConfig
	timeout   time.Duration
	keyPrefix string
}

type redisSessionBlob struct {
	UserName   string            `json:"user_name,omitempty"`
	Level      int               `json:"level"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// NewRedisManager creates a Redis-backed manager. A zero timeout defaults
// to [DefaultTimeout]; an empty prefix defaults to "gateauth:sess:".
func NewRedisManager(client redis.UniversalClient, cfg RedisConfig) *RedisManager {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "gateauth:sess:"
	}
	return &RedisManager{
		client:    client,
		cookie:    cfg.Cookie,
		timeout:   timeout,
		keyPrefix: prefix,
	}
}

func (m *RedisManager) key(id string) string {
	return m.keyPrefix + id
}

// Get describes the get operation and its observable behavior.
//
// Get loads the caller's session blob and slides its TTL forward. A
// missing key, an unreachable Redis or a corrupt blob all yield nil; the
// login protocol then restarts from the credential form.
func (m *RedisManager) Get(r *http.Request) *Session {
	id := cookieValue(r, m.cookie.name())
	if id == "" {
		return nil
	}

	data, err := m.client.GetEx(r.Context(), m.key(id), m.timeout).Bytes()
	if err != nil {
		return nil
	}

	var blob redisSessionBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil
	}

	s := NewSession()
	s.setID(id)
	s.setUserName(blob.UserName)
	s.setLevel(blob.Level)
	if blob.Attributes != nil {
		s.replaceAttributes(blob.Attributes)
	}
	return s
}

// Create describes the create operation and its observable behavior.
//
// Create allocates a level-0 session under a fresh random identifier,
// persists it and sets the session cookie on the response.
func (m *RedisManager) Create(w http.ResponseWriter, r *http.Request) *Session {
	id := uuid.NewString()
	s := NewSession()
	s.setID(id)

	_ = m.persist(r.Context(), id, s)
	http.SetCookie(w, m.cookie.cookie(r, id, 0))
	return s
}

// Remove deletes the session key and expires the caller's cookie.
func (m *RedisManager) Remove(w http.ResponseWriter, r *http.Request, s *Session) {
	id := ""
	if s != nil {
		id = s.getID()
	}
	if id == "" {
		id = cookieValue(r, m.cookie.name())
	}
	if id != "" {
		_ = m.client.Del(r.Context(), m.key(id)).Err()
	}
	if s != nil {
		s.Clear()
	}
	http.SetCookie(w, m.cookie.cookie(r, "", -1))
}

// Commit describes the commit operation and its observable behavior.
//
// Commit writes the session state back to Redis under the caller's
// identifier with a fresh TTL.
func (m *RedisManager) Commit(w http.ResponseWriter, r *http.Request, s *Session) error {
	if s == nil {
		return nil
	}
	id := s.getID()
	if id == "" {
		id = cookieValue(r, m.cookie.name())
	}
	if id == "" {
		return nil
	}
	return m.persist(r.Context(), id, s)
}

// Cleanup is a no-op: key TTLs bound every session's lifetime.
func (m *RedisManager) Cleanup() {}

func (m *RedisManager) persist(ctx context.Context, id string, s *Session) error {
	blob := redisSessionBlob{
		UserName:   s.UserName(),
		Level:      s.Level(),
		Attributes: s.Attributes(),
	}
	data, err := json.Marshal(blob)
	if err != nil {
		return err
	}
	if err := m.client.Set(ctx, m.key(id), data, m.timeout).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
