package changetoken

import "sync"

// Registration represents one active callback-to-token binding. Its only
// operation is Release, which removes the callback from the token it was
// registered against.
//
// Registrations returned by tokens that will never invoke the callback
// (NeverToken, an already-fired SingleToken) are inert: Release is still
// safe, it just has nothing to remove.
type Registration struct {
	once sync.Once
	list *callbackList
	id   uint64
}

func newRegistration(list *callbackList, id uint64) *Registration {
	return &Registration{list: list, id: id}
}

// inertRegistration returns a registration with nothing behind it.
func inertRegistration() *Registration {
	return &Registration{}
}

// Release removes the callback from its token. It is idempotent and safe to
// call concurrently with a notification pass: a callback not yet visited by
// the pass is skipped, one already running completes but never runs again.
// Release on a nil receiver is a no-op.
func (r *Registration) Release() {
	if r == nil {
		return
	}
	r.once.Do(func() {
		if r.list != nil {
			r.list.remove(r.id)
		}
	})
}
