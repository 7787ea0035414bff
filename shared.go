package changetoken

// SharedToken is a clonable handle over one underlying token. Clones refer
// to the same instance, not copies, so a producer can store the handle in
// several owners while consumers still only ever see the Token contract.
//
// The zero value is not usable; construct with NewShared or Share.
type SharedToken[T Token] struct {
	inner T
}

// NewShared wraps an existing token in a shared handle.
func NewShared[T Token](token T) *SharedToken[T] {
	return &SharedToken[T]{inner: token}
}

// Share returns a shared handle over a fresh DefaultToken, the default
// wrapped type when nothing more specific is needed.
func Share() *SharedToken[*DefaultToken] {
	return NewShared(NewToken())
}

// Clone returns another handle to the same underlying token.
func (s *SharedToken[T]) Clone() *SharedToken[T] {
	return &SharedToken[T]{inner: s.inner}
}

// Unwrap returns the underlying token with its concrete type.
func (s *SharedToken[T]) Unwrap() T {
	return s.inner
}

// Changed reports whether the underlying token has changed.
func (s *SharedToken[T]) Changed() bool {
	return s.inner.Changed()
}

// MustPoll reports whether the underlying token requires polling.
func (s *SharedToken[T]) MustPoll() bool {
	return s.inner.MustPoll()
}

// Register registers the callback against the underlying token.
func (s *SharedToken[T]) Register(cb Callback, state any) *Registration {
	return s.inner.Register(cb, state)
}

// Notify forwards to the underlying token when it exposes the producer
// capability; for purely consumer-side tokens it is a no-op.
func (s *SharedToken[T]) Notify() {
	if n, ok := any(s.inner).(Notifier); ok {
		n.Notify()
	}
}
