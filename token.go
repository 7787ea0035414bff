package changetoken

// Callback is invoked when a token reports a change. It receives the state
// value supplied at registration time, or nil when none was supplied.
//
// A callback may run on any goroutine, including one owned by an external
// event source, and must tolerate running concurrently with registration and
// removal on the same token.
type Callback func(state any)

// Token is the consumer-facing change-notification contract.
//
// Producers keep the concrete token type (which carries Notify) private and
// hand consumers only this interface.
type Token interface {
	// Changed reports whether a change has occurred.
	Changed() bool

	// MustPoll reports whether the token will ever invoke callbacks.
	// If true, the consumer has to poll Changed to detect changes.
	MustPoll() bool

	// Register adds a callback invoked when the token changes. The state
	// value is passed back to the callback on every invocation. Releasing
	// the returned Registration removes the callback.
	Register(cb Callback, state any) *Registration
}

// Notifier is the producer-side capability of a token. It is deliberately
// not part of Token so that holding the consumer contract never grants the
// ability to raise a change.
type Notifier interface {
	// Notify invokes every callback currently registered, each once.
	Notify()
}
