package changetoken

import "sync/atomic"

// DefaultToken is the reference Token implementation. It may change zero or
// more times; every Notify call invokes the callbacks registered at the
// start of the call, each exactly once, in insertion order.
type DefaultToken struct {
	// active counts in-flight notify passes. Changed reads true only
	// while at least one pass is running.
	active    atomic.Int64
	callbacks callbackList
}

var _ Token = (*DefaultToken)(nil)
var _ Notifier = (*DefaultToken)(nil)

// NewToken creates a new default change token.
func NewToken() *DefaultToken {
	return &DefaultToken{}
}

// Changed reports true only while a Notify pass is in flight. A synchronous
// caller outside any active notification always observes false; a callback
// is the practical way to observe a change.
func (t *DefaultToken) Changed() bool {
	return t.active.Load() > 0
}

// MustPoll returns false: this token is callback-driven.
func (t *DefaultToken) MustPoll() bool {
	return false
}

// Register adds a callback and returns its Registration. Registration never
// fails; a nil callback yields an inert registration.
func (t *DefaultToken) Register(cb Callback, state any) *Registration {
	if cb == nil {
		return inertRegistration()
	}
	id := t.callbacks.insert(cb, state)
	return newRegistration(&t.callbacks, id)
}

// Notify invokes every callback registered before the call began, each
// exactly once. Callbacks registered during the pass wait for a later pass;
// callbacks released during the pass are skipped when not yet visited.
//
// The callback list lock is not held while invoking: a callback may
// register or release against this same token without deadlocking.
func (t *DefaultToken) Notify() {
	snap := t.callbacks.snapshot()

	t.active.Add(1)
	defer t.active.Add(-1)

	for _, e := range snap {
		if e.removed.Load() {
			continue
		}
		e.cb(e.state)
	}
}
