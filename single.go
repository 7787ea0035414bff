package changetoken

import "sync/atomic"

// SingleToken is a Token that changes at most once. The first Notify fires
// every callback registered up to that point; later Notify calls no-op, and
// registrations made after the fire return inert registrations without the
// callback ever being invoked.
type SingleToken struct {
	// fired is the one-shot latch. Compare-and-swap, not a lock, so two
	// concurrent Notify calls can never both run the pass.
	fired atomic.Bool
	inner DefaultToken
}

var _ Token = (*SingleToken)(nil)
var _ Notifier = (*SingleToken)(nil)

// NewSingleToken creates a new single-fire change token.
func NewSingleToken() *SingleToken {
	return &SingleToken{}
}

// Changed reports whether the token has fired. Unlike DefaultToken, the
// value latches: once fired it stays true.
func (t *SingleToken) Changed() bool {
	return t.fired.Load()
}

// MustPoll returns false: this token is callback-driven.
func (t *SingleToken) MustPoll() bool {
	return false
}

// Register adds a callback, unless the token has already fired, in which
// case the returned registration is inert and the callback is never invoked
// retroactively.
func (t *SingleToken) Register(cb Callback, state any) *Registration {
	if t.fired.Load() {
		return inertRegistration()
	}
	return t.inner.Register(cb, state)
}

// Notify fires the token. Only the first call performs the pass; every call
// after that observes the set latch and returns without error.
func (t *SingleToken) Notify() {
	if t.fired.CompareAndSwap(false, true) {
		t.inner.Notify()
	}
}
