package changetoken

import (
	"sync/atomic"
	"testing"
)

func TestSharedTokenCloneSharesInstance(t *testing.T) {
	original := Share()
	clone := original.Clone()

	var count atomic.Int32
	reg := clone.Register(func(any) { count.Add(1) }, nil)
	defer reg.Release()

	// A callback registered through one handle fires when notified through
	// the other: both refer to the same underlying registry.
	original.Notify()
	if got := count.Load(); got != 1 {
		t.Errorf("expected 1 invocation via original handle, got %d", got)
	}

	clone.Notify()
	if got := count.Load(); got != 2 {
		t.Errorf("expected 2 invocations after clone notify, got %d", got)
	}
}

func TestSharedTokenDelegates(t *testing.T) {
	single := NewSingleToken()
	shared := NewShared(single)

	if shared.MustPoll() {
		t.Error("shared handle over a single token should not require polling")
	}

	shared.Notify()
	if !shared.Changed() {
		t.Error("Changed should delegate to the wrapped token")
	}
	if !single.Changed() {
		t.Error("notify via the handle should fire the wrapped token")
	}
}

func TestSharedTokenUnwrap(t *testing.T) {
	single := NewSingleToken()
	shared := NewShared(single)

	if shared.Unwrap() != single {
		t.Error("Unwrap should return the wrapped instance")
	}
	if shared.Clone().Unwrap() != single {
		t.Error("clones should unwrap to the same instance")
	}
}

func TestSharedTokenNotifyOnConsumerOnlyToken(t *testing.T) {
	shared := NewShared[Token](NewNeverToken())

	// The wrapped token has no producer side; Notify is a no-op.
	shared.Notify()

	if shared.Changed() {
		t.Error("never token should not change")
	}
}
