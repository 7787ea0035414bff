package changetoken

import "sync"

// Subscription keeps a consumer registered against a producer's tokens
// until closed. It is returned by OnChange and OnChangeFunc; its only
// operation is Close.
type Subscription struct {
	mu      sync.Mutex
	closed  bool
	reg     *Registration
	produce func() Token
	fire    func()
}

// OnChange registers consumer to be invoked every time a token produced by
// producer changes. After each invocation the current registration is
// released and a fresh token is acquired from the producer, so the consumer
// keeps firing across token generations. The state value is fixed once here
// and passed to the consumer on every invocation.
//
// The consumer may be invoked from whatever goroutine the producer's token
// fires on. Closing the returned Subscription releases the current
// registration and stops all further producer calls.
func OnChange[S any](producer func() Token, consumer func(S), state S) *Subscription {
	s := &Subscription{produce: producer}

	// Release first so the registration cannot fire twice for the same
	// condition, then consume, then re-acquire.
	s.fire = func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		reg := s.reg
		s.reg = nil
		s.mu.Unlock()

		reg.Release()
		consumer(state)
		s.acquire()
	}

	s.acquire()
	return s
}

// OnChangeFunc is OnChange for consumers that take no state.
func OnChangeFunc(producer func() Token, consumer func()) *Subscription {
	return OnChange(producer, func(struct{}) { consumer() }, struct{}{})
}

// acquire obtains a fresh token from the producer and registers the bridge
// against it. If the subscription was closed while the registration was
// being made, the fresh registration is released immediately rather than
// left dangling.
func (s *Subscription) acquire() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	// The producer and Register run outside the lock: the token may fire
	// synchronously during registration, which re-enters fire.
	token := s.produce()
	reg := token.Register(func(any) { s.fire() }, nil)

	s.mu.Lock()
	if s.closed || s.reg != nil {
		// Closed concurrently, or the token fired while registering and
		// the re-entrant invocation already installed the next
		// generation. Either way this registration must not be stored,
		// or it would dangle with nobody left to release it.
		s.mu.Unlock()
		reg.Release()
		return
	}
	s.reg = reg
	s.mu.Unlock()
}

// Close releases the current registration and prevents any further producer
// calls. It is idempotent and safe to call concurrently with an in-flight
// notification; a consumer already running completes, but no re-registration
// survives the close.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	reg := s.reg
	s.reg = nil
	s.mu.Unlock()

	reg.Release()
}
