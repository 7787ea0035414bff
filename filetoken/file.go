package filetoken

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"

	changetoken "github.com/commonsensesoftware/go-changetoken"
)

// FileToken is a single-fire change token for one file. The first write to
// the watched file fires the token from the watcher goroutine; the token
// stays spent afterwards, matching SingleToken semantics.
type FileToken struct {
	inner   *changetoken.SingleToken
	watcher *fsnotify.Watcher
	done    chan struct{}
	once    sync.Once
}

var _ changetoken.Token = (*FileToken)(nil)

// New starts watching path and returns its change token. Close the token to
// stop the watcher.
func New(path string) (*FileToken, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("filetoken: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("filetoken: watch %s: %w", path, err)
	}

	t := &FileToken{
		inner:   changetoken.NewSingleToken(),
		watcher: watcher,
		done:    make(chan struct{}),
	}
	go t.run()
	return t, nil
}

// run drains watcher events until the watcher closes. Draining continues
// after the fire so the watcher never backs up.
func (t *FileToken) run() {
	defer close(t.done)

	for {
		select {
		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				t.inner.Notify()
			}
		case _, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Changed reports whether the file has changed since the token was created.
func (t *FileToken) Changed() bool {
	return t.inner.Changed()
}

// MustPoll returns false: the token pushes via callbacks.
func (t *FileToken) MustPoll() bool {
	return false
}

// Register adds a callback invoked when the file first changes. The callback
// runs on the watcher goroutine.
func (t *FileToken) Register(cb changetoken.Callback, state any) *changetoken.Registration {
	return t.inner.Register(cb, state)
}

// Close stops the watcher and waits for the delivery goroutine to exit.
// Callbacks no longer fire after Close returns. Safe to call more than once.
func (t *FileToken) Close() error {
	var err error
	t.once.Do(func() {
		err = t.watcher.Close()
		<-t.done
	})
	return err
}
