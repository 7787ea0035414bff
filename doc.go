// Package changetoken provides a lightweight change-notification primitive.
//
// A change token lets a producer signal interested consumers that some state
// has changed without holding references to them and without consumers
// polling. Consumers hold only the Token contract; the producer keeps the
// concrete token (or a SharedToken handle over it) private, so consumers can
// never trigger or redistribute the producer's capability.
//
// # Core Types
//
// DefaultToken is the reference implementation:
//
//	token := changetoken.NewToken()
//	reg := token.Register(func(state any) { fmt.Println("changed") }, nil)
//	defer reg.Release()
//	token.Notify() // invokes every registered callback once
//
// SingleToken fires at most once over its lifetime. NeverToken never fires.
// CompositeToken aggregates several tokens into one notification stream.
// SharedToken is a clonable handle that lets a producer store the same token
// in multiple owners.
//
// # Re-subscription
//
// OnChange keeps a consumer subscribed across token generations, acquiring a
// fresh token from the producer after every notification:
//
//	sub := changetoken.OnChange(watcher.Token, func(path string) {
//	    reload(path)
//	}, configPath)
//	defer sub.Close()
//
// # Thread Safety
//
// Every token variant is safe for concurrent registration and notification.
// Callbacks must assume they are invoked from an arbitrary goroutine, which
// may not be the one that registered them.
package changetoken
