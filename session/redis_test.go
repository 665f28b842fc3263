package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisManager(t *testing.T, timeout time.Duration) (*RedisManager, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisManager(client, RedisConfig{Timeout: timeout}), srv
}

func TestRedisRoundTrip(t *testing.T) {
	m, _ := newTestRedisManager(t, time.Minute)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login/", nil)
	s := m.Create(w, r)
	s.PreAuthorize("john", map[string]string{"role": "admin"})
	if err := m.Commit(w, r, s); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	r2 := httptest.NewRequest(http.MethodGet, "/app", nil)
	carryCookies(t, w, r2)
	got := m.Get(r2)
	if got == nil {
		t.Fatal("session not found on follow-up request")
	}
	if got.UserName() != "john" || !got.IsPreAuthorized() {
		t.Fatalf("reconstructed session: user=%q level=%d", got.UserName(), got.Level())
	}
	if got.Attribute("role") != "admin" {
		t.Errorf("role = %q", got.Attribute("role"))
	}
}

func TestRedisCommitAfterCreateWithoutRequestCookie(t *testing.T) {
	// During the login request the cookie exists only on the response; the
	// manager must still persist mutations made after Create.
	m, srv := newTestRedisManager(t, time.Minute)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login/", nil)
	s := m.Create(w, r)
	s.PreAuthorize("john", nil)
	if err := m.Commit(w, r, s); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	keys := srv.Keys()
	if len(keys) != 1 {
		t.Fatalf("stored keys = %v, want exactly one", keys)
	}
	blob, err := srv.Get(keys[0])
	if err != nil {
		t.Fatal(err)
	}
	if blob == "" || !srv.Exists(keys[0]) {
		t.Fatal("session blob missing")
	}
}

func TestRedisGetSlidesTTL(t *testing.T) {
	m, srv := newTestRedisManager(t, time.Minute)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login/", nil)
	m.Create(w, r)

	srv.FastForward(40 * time.Second)

	r2 := httptest.NewRequest(http.MethodGet, "/app", nil)
	carryCookies(t, w, r2)
	if m.Get(r2) == nil {
		t.Fatal("session lost before timeout")
	}

	// The lookup above must have refreshed the TTL to the full minute.
	srv.FastForward(40 * time.Second)
	r3 := httptest.NewRequest(http.MethodGet, "/app", nil)
	carryCookies(t, w, r3)
	if m.Get(r3) == nil {
		t.Fatal("lookup did not slide the TTL")
	}

	srv.FastForward(2 * time.Minute)
	r4 := httptest.NewRequest(http.MethodGet, "/app", nil)
	carryCookies(t, w, r4)
	if m.Get(r4) != nil {
		t.Fatal("session survived past its idle timeout")
	}
}

func TestRedisRemove(t *testing.T) {
	m, srv := newTestRedisManager(t, time.Minute)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login/", nil)
	s := m.Create(w, r)

	w2 := httptest.NewRecorder()
	r2 := httptest.NewRequest(http.MethodGet, "/login/logout", nil)
	carryCookies(t, w, r2)
	m.Remove(w2, r2, s)

	if len(srv.Keys()) != 0 {
		t.Fatal("session key survived Remove")
	}
	cookies := w2.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("cookie not expired: %+v", cookies)
	}
}

func TestRedisUnreachableYieldsNoSession(t *testing.T) {
	m, srv := newTestRedisManager(t, time.Minute)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login/", nil)
	m.Create(w, r)

	srv.Close()

	r2 := httptest.NewRequest(http.MethodGet, "/app", nil)
	carryCookies(t, w, r2)
	if m.Get(r2) != nil {
		t.Fatal("unreachable store must yield no session, not a stale one")
	}
}

func TestRedisCorruptBlobYieldsNoSession(t *testing.T) {
	m, srv := newTestRedisManager(t, time.Minute)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login/", nil)
	m.Create(w, r)

	keys := srv.Keys()
	if len(keys) != 1 {
		t.Fatalf("stored keys = %v", keys)
	}
	srv.Set(keys[0], "{not json")

	r2 := httptest.NewRequest(http.MethodGet, "/app", nil)
	carryCookies(t, w, r2)
	if m.Get(r2) != nil {
		t.Fatal("corrupt blob must yield no session")
	}
}
