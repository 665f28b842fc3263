package userdata

import (
	"errors"
	"testing"
	"time"
)

func TestCachingHitSkipsBackend(t *testing.T) {
	backend := &countingProvider{attrs: map[string]string{"role": "admin"}}
	c := NewCachingProvider(backend, CacheConfig{TTL: time.Minute})
	fields := map[string]string{FieldUsername: "john", FieldPassword: "password"}

	if _, err := c.Verify(fields); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if _, err := c.Verify(fields); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if backend.calls != 1 {
		t.Fatalf("backend invoked %d times, want 1", backend.calls)
	}
}

func TestCachingHitReturnsSubmittedFields(t *testing.T) {
	backend := &countingProvider{attrs: map[string]string{"role": "admin"}}
	c := NewCachingProvider(backend, CacheConfig{TTL: time.Minute})
	fields := map[string]string{FieldUsername: "john", FieldPassword: "password"}

	first, err := c.Verify(fields)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if first["role"] != "admin" {
		t.Error("miss must return backend attributes")
	}

	hit, err := c.Verify(fields)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if _, ok := hit["role"]; ok {
		t.Error("hit must return the submitted fields, not cached attributes")
	}
	if hit[FieldUsername] != "john" {
		t.Errorf("hit username = %q, want john", hit[FieldUsername])
	}
}

func TestCachingFailureNotCached(t *testing.T) {
	backend := &countingProvider{err: ErrNotFound}
	c := NewCachingProvider(backend, CacheConfig{TTL: time.Minute})
	fields := map[string]string{FieldUsername: "john", FieldPassword: "wrong"}

	for i := 0; i < 3; i++ {
		if _, err := c.Verify(fields); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Verify = %v, want ErrNotFound", err)
		}
	}
	if backend.calls != 3 {
		t.Fatalf("backend invoked %d times, want 3 (failures must not cache)", backend.calls)
	}
}

func TestCachingDistinguishesFieldSets(t *testing.T) {
	backend := &countingProvider{attrs: map[string]string{}}
	c := NewCachingProvider(backend, CacheConfig{TTL: time.Minute})

	c.Verify(map[string]string{FieldUsername: "john", FieldPassword: "password"})
	c.Verify(map[string]string{FieldUsername: "john", FieldPassword: "different"})

	if backend.calls != 2 {
		t.Fatalf("backend invoked %d times, want 2 (different submissions)", backend.calls)
	}
}

func TestCachingCapFlushes(t *testing.T) {
	backend := &countingProvider{attrs: map[string]string{}}
	c := NewCachingProvider(backend, CacheConfig{TTL: time.Minute, MaxEntries: 2})

	c.Verify(map[string]string{FieldUsername: "a", FieldPassword: "x"})
	c.Verify(map[string]string{FieldUsername: "b", FieldPassword: "x"})
	c.Verify(map[string]string{FieldUsername: "c", FieldPassword: "x"})

	// The third insert hit the cap and flushed before storing.
	if c.Len() != 1 {
		t.Fatalf("Len() = %d after cap flush, want 1", c.Len())
	}
}
