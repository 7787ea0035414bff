package changetoken

// NeverToken is a stateless token representing "no change is possible". It
// substitutes for a real producer in code paths that conditionally lack one,
// so callers need no nil branching.
type NeverToken struct{}

var _ Token = NeverToken{}

// NewNeverToken creates a token that never changes.
func NewNeverToken() NeverToken {
	return NeverToken{}
}

// Changed always returns false.
func (NeverToken) Changed() bool {
	return false
}

// MustPoll always returns true: nothing will ever push a callback, so
// polling is the only way to observe a change, and the answer is always no.
func (NeverToken) MustPoll() bool {
	return true
}

// Register accepts the callback and returns an inert registration. The
// callback is never invoked.
func (NeverToken) Register(Callback, any) *Registration {
	return inertRegistration()
}
