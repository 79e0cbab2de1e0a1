package service

import (
	"sync"
	"time"
)

// RemovalState is the state of a pending removal for one session.
type RemovalState string

const (
	RemovalIdle      RemovalState = "idle"
	RemovalArmed     RemovalState = "armed"
	RemovalConfirmed RemovalState = "confirmed"
	RemovalCancelled RemovalState = "cancelled"
)

// DefaultRemovalTimeout is how long an armed removal waits for confirmation.
const DefaultRemovalTimeout = 30 * time.Second

type pendingRemoval struct {
	target  string
	armedAt time.Time
}

// RemovalTracker holds at most one armed removal per session:
// Idle -> Armed -> Confirmed | Cancelled, back to Idle after the timeout.
type RemovalTracker struct {
	mu      sync.Mutex
	timeout time.Duration
	now     func() time.Time
	pending map[string]pendingRemoval
}

func NewRemovalTracker(timeout time.Duration) *RemovalTracker {
	if timeout <= 0 {
		timeout = DefaultRemovalTimeout
	}
	return &RemovalTracker{
		timeout: timeout,
		now:     time.Now,
		pending: make(map[string]pendingRemoval),
	}
}

// State returns the state of session for target.
func (t *RemovalTracker) State(session, target string) RemovalState {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.live(session)
	if !ok || p.target != target {
		return RemovalIdle
	}
	return RemovalArmed
}

// Arm records a pending removal of target, replacing any other one.
func (t *RemovalTracker) Arm(session, target string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[session] = pendingRemoval{target: target, armedAt: t.now()}
}

// Take consumes the armed removal of target and reports whether it was
// armed and not expired.
func (t *RemovalTracker) Take(session, target string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.live(session)
	if !ok || p.target != target {
		return false
	}
	delete(t.pending, session)
	return true
}

// Cancel drops the pending removal of session.
func (t *RemovalTracker) Cancel(session string) RemovalState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.live(session); !ok {
		return RemovalIdle
	}
	delete(t.pending, session)
	return RemovalCancelled
}

// live returns the unexpired pending removal of session. Caller holds mu.
func (t *RemovalTracker) live(session string) (pendingRemoval, bool) {
	p, ok := t.pending[session]
	if !ok {
		return p, false
	}
	if t.now().Sub(p.armedAt) > t.timeout {
		delete(t.pending, session)
		return p, false
	}
	return p, true
}
