package changetoken

// CompositeToken aggregates a fixed sequence of child tokens into one
// logical token. Any child's notification, or the owner's explicit Notify,
// fires the composite's own callbacks. Child triggers are not coalesced: a
// child notifying twice fires the composite twice.
//
// The child sequence is captured at construction and never changes. The
// composite holds only the Token contract for each child, never its
// producer.
type CompositeToken struct {
	inner    DefaultToken
	children []Token
	bridges  []*Registration
}

var _ Token = (*CompositeToken)(nil)
var _ Notifier = (*CompositeToken)(nil)

// NewComposite creates a composite over the given child tokens. An empty
// sequence is valid; the composite then only fires on its own Notify.
//
// One bridging callback is registered against each child that can push.
// Children reporting MustPoll are skipped: they will never invoke a
// callback, so there is nothing to bridge.
func NewComposite(tokens ...Token) *CompositeToken {
	c := &CompositeToken{children: tokens}

	for _, child := range tokens {
		if child == nil || child.MustPoll() {
			continue
		}
		c.bridges = append(c.bridges, child.Register(c.bridge, nil))
	}

	return c
}

// bridge forwards a child trigger to the composite's own callbacks. It only
// forwards; whatever state the child is in, the bridge itself cannot fail.
func (c *CompositeToken) bridge(any) {
	c.inner.Notify()
}

// Changed reports true if the composite's own token or any child currently
// reports a change.
func (c *CompositeToken) Changed() bool {
	if c.inner.Changed() {
		return true
	}
	for _, child := range c.children {
		if child != nil && child.Changed() {
			return true
		}
	}
	return false
}

// MustPoll reports true if any child requires polling: changes on such a
// child can only be observed by polling the composite.
func (c *CompositeToken) MustPoll() bool {
	for _, child := range c.children {
		if child != nil && child.MustPoll() {
			return true
		}
	}
	return false
}

// Register adds a callback to the composite's own callback list. Consumers
// never register against the children directly.
func (c *CompositeToken) Register(cb Callback, state any) *Registration {
	return c.inner.Register(cb, state)
}

// Notify is the owner-level explicit trigger.
func (c *CompositeToken) Notify() {
	c.inner.Notify()
}

// Close releases the bridging registrations held against the children.
// After Close, child triggers no longer reach the composite; the owner-level
// Notify still works. Close is idempotent.
func (c *CompositeToken) Close() {
	for _, reg := range c.bridges {
		reg.Release()
	}
}
