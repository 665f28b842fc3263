// Package sweep runs periodic cleanup over the stateful login components
// (session tables, failure records) so expired entries do not pin memory.
//
// Registration carries an owner-supplied liveness probe: when the probe
// reports the component gone, the sweeper drops its reference instead of
// keeping the component alive forever.
package sweep

import (
	"sync"
	"time"
)

// DefaultInterval between sweeps.
const DefaultInterval = 60 * time.Second

// Cleaner is implemented by every component with evictable state.
type Cleaner interface {
	Cleanup()
}

// Sweeper defines a public type used by gateAuth APIs.
//
// A Sweeper owns one low-frequency background goroutine that calls
// Cleanup on every live registered component at a fixed interval.
type Sweeper struct {
	interval time.Duration

	mu      sync.Mutex
	entries []entry

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
	stopped   chan struct{}
}

type entry struct {
	cleaner Cleaner
	alive   func() bool
}

// New creates a sweeper. A zero interval defaults to [DefaultInterval].
func New(interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{
		interval: interval,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Register describes the register operation and its observable behavior.
//
// Register adds a component to the sweep set. alive is the owner's
// liveness signal; the sweeper unregisters the component once alive
// returns false. A nil alive keeps the component registered until
// [Sweeper.Stop]; the owner then accepts explicit teardown as the only
// release path.
func (s *Sweeper) Register(c Cleaner, alive func() bool) {
	if c == nil {
		return
	}
	s.mu.Lock()
	s.entries = append(s.entries, entry{cleaner: c, alive: alive})
	s.mu.Unlock()
}

// Start launches the background goroutine. Repeated calls are no-ops.
func (s *Sweeper) Start() {
	s.startOnce.Do(func() {
		go s.run()
	})
}

// Stop terminates the background goroutine and waits for it to exit.
// Stopping a never-started sweeper is safe.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	s.startOnce.Do(func() {
		close(s.stopped)
	})
	<-s.stopped
}

// Sweep runs one cleanup pass immediately, dropping dead registrations.
// Exposed for tests and for callers that want an eager pass at startup.
func (s *Sweeper) Sweep() {
	s.mu.Lock()
	live := s.entries[:0]
	for _, e := range s.entries {
		if e.alive != nil && !e.alive() {
			continue
		}
		live = append(live, e)
	}
	s.entries = live
	targets := make([]entry, len(live))
	copy(targets, live)
	s.mu.Unlock()

	for _, e := range targets {
		e.cleaner.Cleanup()
	}
}

// Len returns the number of live registrations.
func (s *Sweeper) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Sweeper) run() {
	defer close(s.stopped)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.done:
			return
		}
	}
}
