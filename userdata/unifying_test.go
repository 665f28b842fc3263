package userdata

import (
	"errors"
	"testing"
)

// countingProvider wraps a fixed response and counts invocations.
type countingProvider struct {
	attrs map[string]string
	err   error
	calls int
}

func (p *countingProvider) Verify(fields map[string]string) (map[string]string, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return copyAttributes(p.attrs), nil
}

func TestUnifyingFirstSuccessWins(t *testing.T) {
	first := &countingProvider{err: ErrNotFound}
	second := &countingProvider{attrs: map[string]string{"source": "second"}}
	third := &countingProvider{attrs: map[string]string{"source": "third"}}

	u := NewUnifyingProvider(first, second, third)
	attrs, err := u.Verify(map[string]string{FieldUsername: "john"})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if attrs["source"] != "second" {
		t.Errorf("attributes from %q, want second", attrs["source"])
	}
	if third.calls != 0 {
		t.Error("chain continued past the first success")
	}
}

func TestUnifyingAllNotFound(t *testing.T) {
	u := NewUnifyingProvider(
		&countingProvider{err: ErrNotFound},
		&countingProvider{err: ErrNotFound},
	)
	if _, err := u.Verify(nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Verify = %v, want ErrNotFound", err)
	}
}

func TestUnifyingInternalFaultStopsChain(t *testing.T) {
	fault := errors.New("backend unreachable")
	second := &countingProvider{attrs: map[string]string{}}

	u := NewUnifyingProvider(&countingProvider{err: fault}, second)
	_, err := u.Verify(nil)
	if !errors.Is(err, fault) {
		t.Fatalf("Verify = %v, want the backend fault", err)
	}
	if second.calls != 0 {
		t.Error("chain continued past an internal fault")
	}
}

func TestUnifyingWrappedNotFoundFallsThrough(t *testing.T) {
	wrapped := &countingProvider{err: errors.Join(errors.New("ldap: 0 entries"), ErrNotFound)}
	second := &countingProvider{attrs: map[string]string{"source": "second"}}

	u := NewUnifyingProvider(wrapped, second)
	attrs, err := u.Verify(nil)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if attrs["source"] != "second" {
		t.Error("wrapped ErrNotFound did not fall through")
	}
}

func TestUnifyingEmptyChain(t *testing.T) {
	u := NewUnifyingProvider()
	if _, err := u.Verify(nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Verify = %v, want ErrNotFound", err)
	}
}
