package changetoken

import (
	"sync/atomic"
	"testing"
)

func TestCompositeTokenEmptyUnchanged(t *testing.T) {
	token := NewComposite()

	if token.Changed() {
		t.Error("empty composite should not report changed")
	}
	if token.MustPoll() {
		t.Error("empty composite should not require polling")
	}
}

func TestCompositeChildTriggersCallbacks(t *testing.T) {
	a := NewToken()
	b := NewToken()
	c := NewToken()
	composite := NewComposite(a, b, c)
	defer composite.Close()

	var count atomic.Int32
	reg := composite.Register(func(any) { count.Add(1) }, nil)
	defer reg.Release()

	b.Notify()
	if got := count.Load(); got != 1 {
		t.Errorf("expected 1 invocation after child trigger, got %d", got)
	}
}

func TestCompositeExplicitNotify(t *testing.T) {
	composite := NewComposite(NewToken())
	defer composite.Close()

	var count atomic.Int32
	reg := composite.Register(func(any) { count.Add(1) }, nil)
	defer reg.Release()

	composite.Notify()
	if got := count.Load(); got != 1 {
		t.Errorf("expected 1 invocation after explicit notify, got %d", got)
	}
}

func TestCompositeNoCoalescing(t *testing.T) {
	a := NewToken()
	b := NewToken()
	c := NewToken()
	composite := NewComposite(a, b, c)
	defer composite.Close()

	var count atomic.Int32
	reg := composite.Register(func(any) { count.Add(1) }, nil)
	defer reg.Release()

	// Interleaved triggers from two children: one invocation per trigger.
	a.Notify()
	c.Notify()
	a.Notify()

	if got := count.Load(); got != 3 {
		t.Errorf("expected 3 invocations for 3 triggers, got %d", got)
	}
}

func TestCompositeChangedReflectsChildren(t *testing.T) {
	child := NewSingleToken()
	composite := NewComposite(child)
	defer composite.Close()

	if composite.Changed() {
		t.Error("composite should not report changed before any trigger")
	}

	child.Notify()
	if !composite.Changed() {
		t.Error("composite should report changed once a child has")
	}
}

func TestCompositeSingleFireChildDoesNotDisableComposite(t *testing.T) {
	single := NewSingleToken()
	def := NewToken()
	composite := NewComposite(single, def)
	defer composite.Close()

	var count atomic.Int32
	reg := composite.Register(func(any) { count.Add(1) }, nil)
	defer reg.Release()

	single.Notify()
	single.Notify() // spent; no further propagation from this child
	def.Notify()
	composite.Notify()

	if got := count.Load(); got != 3 {
		t.Errorf("expected 3 invocations (single once, default, explicit), got %d", got)
	}
}

func TestCompositeMustPollIfAnyChildDoes(t *testing.T) {
	composite := NewComposite(NewNeverToken(), NewSingleToken())
	defer composite.Close()

	if !composite.MustPoll() {
		t.Error("composite holding a poll-only child should require polling")
	}

	pushOnly := NewComposite(NewToken(), NewSingleToken())
	defer pushOnly.Close()

	if pushOnly.MustPoll() {
		t.Error("composite of callback-driven children should not require polling")
	}
}

func TestCompositePollOnlyChildrenNotBridged(t *testing.T) {
	composite := NewComposite(NewNeverToken())
	defer composite.Close()

	var count atomic.Int32
	reg := composite.Register(func(any) { count.Add(1) }, nil)
	defer reg.Release()

	composite.Notify()
	composite.Notify()

	// Only the explicit notifies fire; the never child contributes nothing.
	if got := count.Load(); got != 2 {
		t.Errorf("expected 2 invocations, got %d", got)
	}
}

func TestCompositeNilChildrenTolerated(t *testing.T) {
	composite := NewComposite(nil, NewToken())
	defer composite.Close()

	if composite.Changed() {
		t.Error("composite with nil child should not report changed")
	}

	composite.Notify()
}

func TestCompositeCloseStopsBridging(t *testing.T) {
	child := NewToken()
	composite := NewComposite(child)

	var count atomic.Int32
	reg := composite.Register(func(any) { count.Add(1) }, nil)
	defer reg.Release()

	composite.Close()
	child.Notify()

	if got := count.Load(); got != 0 {
		t.Errorf("child trigger reached a closed composite %d times", got)
	}

	// Owner-level notify still works after Close.
	composite.Notify()
	if got := count.Load(); got != 1 {
		t.Errorf("expected explicit notify to fire after Close, got %d", got)
	}
}
