package userdata

import (
	"errors"
	"sync"
)

// UnifyingProvider defines a public type used by gateAuth APIs.
//
// UnifyingProvider composes backends into an ordered chain: children are
// tried strictly in configured order and the first success wins. Only
// [ErrNotFound] falls through to the next child. An internal fault stops
// the chain immediately, so a backend outage is never masked as a simple
// login failure.
type UnifyingProvider struct {
	mu        sync.RWMutex
	providers []Provider
}

// NewUnifyingProvider creates a chain over the given backends.
func NewUnifyingProvider(providers ...Provider) *UnifyingProvider {
	u := &UnifyingProvider{}
	u.SetProviders(providers)
	return u
}

// SetProviders describes the setproviders operation and its observable behavior.
//
// SetProviders clears and rebuilds the chain; children never accumulate
// across reconfiguration.
func (u *UnifyingProvider) SetProviders(providers []Provider) {
	list := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			list = append(list, p)
		}
	}

	u.mu.Lock()
	u.providers = list
	u.mu.Unlock()
}

// Verify describes the verify operation and its observable behavior.
//
// Verify returns the first child's successful attributes. If every child
// reports [ErrNotFound], so does the chain.
func (u *UnifyingProvider) Verify(fields map[string]string) (map[string]string, error) {
	u.mu.RLock()
	providers := u.providers
	u.mu.RUnlock()

	for _, p := range providers {
		attrs, err := p.Verify(fields)
		if err == nil {
			return attrs, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}
