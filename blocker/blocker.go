package blocker

import (
	"math"
	"sync"
	"time"
)

// Defaults applied by [New] for zero-valued [Config] fields.
const (
	DefaultAfterFailedLogins     = 5
	DefaultBlockFor              = time.Hour
	DefaultBlockWholeSystemAfter = 1_000_000
)

// Config defines a public type used by gateAuth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// AfterFailedLogins is the number of failures inside the window that
	// triggers a block. Minimum effective value is 2.
	AfterFailedLogins int

	// AfterFailedLoginsWithin is the rolling window. Zero or negative means
	// "forever": any AfterFailedLogins failures block, however far apart.
	AfterFailedLoginsWithin time.Duration

	// BlockFor is how long a triggered block lasts.
	BlockFor time.Duration

	// BlockWholeSystemAfter caps the number of tracked usernames. At the
	// cap, every account is reported blocked until records are evicted.
	BlockWholeSystemAfter int
}

// AccountBlocker defines a public type used by gateAuth APIs.
//
// AccountBlocker is safe for concurrent use. The username table and each
// per-username record are guarded independently, so failures for different
// users never serialize on one lock.
type AccountBlocker struct {
	cfg Config
	now func() time.Time

	mu    sync.Mutex
	users map[string]*record
}

type record struct {
	mu           sync.Mutex
	tries        []time.Time // AfterFailedLogins-1 slots, write cursor wraps
	current      int
	blockedUntil time.Time
}

// New creates an account blocker, applying defaults for zero-valued
// configuration fields.
func New(cfg Config) *AccountBlocker {
	if cfg.AfterFailedLogins <= 0 {
		cfg.AfterFailedLogins = DefaultAfterFailedLogins
	}
	if cfg.AfterFailedLogins < 2 {
		cfg.AfterFailedLogins = 2
	}
	if cfg.AfterFailedLoginsWithin <= 0 {
		cfg.AfterFailedLoginsWithin = math.MaxInt64
	}
	if cfg.BlockFor <= 0 {
		cfg.BlockFor = DefaultBlockFor
	}
	if cfg.BlockWholeSystemAfter <= 0 {
		cfg.BlockWholeSystemAfter = DefaultBlockWholeSystemAfter
	}
	return &AccountBlocker{
		cfg:   cfg,
		now:   time.Now,
		users: make(map[string]*record),
	}
}

// IsBlocked describes the isblocked operation and its observable behavior.
//
// IsBlocked reports whether username is currently blocked, or whether the
// whole-system cap has been exhausted. It never mutates state.
func (b *AccountBlocker) IsBlocked(username string) bool {
	b.mu.Lock()
	if len(b.users) >= b.cfg.BlockWholeSystemAfter {
		b.mu.Unlock()
		return true
	}
	rec := b.users[username]
	b.mu.Unlock()

	if rec == nil {
		return false
	}
	return rec.isBlocked(b.now())
}

// Fail describes the fail operation and its observable behavior.
//
// Fail records a failed login attempt for username now and returns whether
// the account is blocked afterwards. At the whole-system cap no new record
// is inserted; the failure is counted against a discarded record so the
// return value stays meaningful.
func (b *AccountBlocker) Fail(username string) bool {
	fresh := newRecord(b.cfg.AfterFailedLogins)

	b.mu.Lock()
	rec := b.users[username]
	if rec == nil {
		rec = fresh
		if len(b.users) < b.cfg.BlockWholeSystemAfter {
			b.users[username] = rec
		}
	}
	b.mu.Unlock()

	now := b.now()
	rec.fail(now, b.cfg.AfterFailedLoginsWithin, b.cfg.BlockFor)
	return rec.isBlocked(now)
}

// Unblock removes the username's record entirely, discarding its failure
// history. Used after a fully successful login.
func (b *AccountBlocker) Unblock(username string) {
	b.mu.Lock()
	delete(b.users, username)
	b.mu.Unlock()
}

// Cleanup describes the cleanup operation and its observable behavior.
//
// Cleanup drops every record whose newest failure is older than the rolling
// window. It is idempotent and safe to call from the sweeper at any time.
func (b *AccountBlocker) Cleanup() {
	if b.cfg.AfterFailedLoginsWithin == math.MaxInt64 {
		return
	}
	death := b.now().Add(-b.cfg.AfterFailedLoginsWithin)

	b.mu.Lock()
	defer b.mu.Unlock()
	for username, rec := range b.users {
		if !rec.hasRelevantInformation(death) {
			delete(b.users, username)
		}
	}
}

// Tracked returns the number of usernames with failure records.
func (b *AccountBlocker) Tracked() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.users)
}

func newRecord(afterFailedLogins int) *record {
	return &record{tries: make([]time.Time, afterFailedLogins-1)}
}

func (r *record) isBlocked(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.blockedUntil.IsZero() {
		return false
	}
	return now.Before(r.blockedUntil)
}

// fail advances the write cursor and stores now. The slot being overwritten
// held the timestamp of the failure exactly len(tries) attempts earlier: if
// it is set and younger than the window, the buffer wrapped inside the
// window and the block triggers.
func (r *record) fail(now time.Time, within, blockFor time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = (r.current + 1) % len(r.tries)
	firstFail := r.tries[r.current]
	r.tries[r.current] = now
	if firstFail.IsZero() {
		return
	}
	if within == math.MaxInt64 || now.Sub(firstFail) < within {
		r.blockedUntil = now.Add(blockFor)
	}
}

func (r *record) hasRelevantInformation(death time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tries[r.current].After(death)
}
