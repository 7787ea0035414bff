package changetoken

import (
	"sync"
	"sync/atomic"
)

// centry is one registered callback together with its state payload.
type centry struct {
	id    uint64
	cb    Callback
	state any

	// removed is set when the entry's Registration is released. A notify
	// pass that snapshotted this entry before removal checks the flag
	// right before invoking, so a not-yet-visited callback is skipped.
	removed atomic.Bool
}

// callbackList is the mutable collection backing DefaultToken. Ids grow
// monotonically and are never reused within one list's lifetime, so a stale
// Registration can never remove somebody else's entry.
type callbackList struct {
	mu      sync.Mutex
	nextID  uint64
	entries []*centry
}

// insert stores a new entry and returns its id.
func (l *callbackList) insert(cb Callback, state any) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	l.entries = append(l.entries, &centry{id: l.nextID, cb: cb, state: state})
	return l.nextID
}

// remove deletes the entry with the given id if it is still present.
// Removing an id that is absent is a no-op.
func (l *callbackList) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, e := range l.entries {
		if e.id == id {
			e.removed.Store(true)
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

// snapshot copies the entries registered at this instant, in insertion
// order. Entries inserted afterwards belong to a later pass.
func (l *callbackList) snapshot() []*centry {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := make([]*centry, len(l.entries))
	copy(snap, l.entries)
	return snap
}

func (l *callbackList) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
