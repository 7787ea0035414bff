package filetoken

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	changetoken "github.com/commonsensesoftware/go-changetoken"
)

// WatcherConfig configures the polling watcher.
type WatcherConfig struct {
	// Paths are the files or directories to watch.
	Paths []string

	// Ignore patterns to skip (globs or path fragments).
	Ignore []string

	// Interval is the delay between scans. It doubles as the batching
	// window: every change landing within one interval is reported as a
	// single generation.
	Interval time.Duration
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"tmp",
	"*.tmp",
	"*.swp",
	"*~",
}

// Watcher polls one or more paths for changes. Each detected change batch
// spends the current token generation and installs a fresh one, so Token is
// a producer in the changetoken.OnChange sense: call it again after every
// fire to get a token for the next change.
type Watcher struct {
	config WatcherConfig

	mu         sync.Mutex
	current    *changetoken.SingleToken
	running    bool
	stopCh     chan struct{}
	timestamps map[string]time.Time
}

// NewWatcher creates a new polling watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Interval == 0 {
		config.Interval = 100 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}

	return &Watcher{
		config:     config,
		current:    changetoken.NewSingleToken(),
		timestamps: make(map[string]time.Time),
	}
}

// Token returns the change token for the current generation. The token
// fires once, on the next detected change batch; after it fires, Token
// returns a fresh one.
func (w *Watcher) Token() changetoken.Token {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Start begins scanning and blocks until the context is cancelled or Stop
// is called. Change callbacks fire on the scanning goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.mu.Unlock()

	w.scanInitial()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			w.checkForChanges()
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// scanInitial builds the initial timestamp map so pre-existing files do not
// count as changes.
func (w *Watcher) scanInitial() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, root := range w.config.Paths {
		filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if info.IsDir() {
				if w.shouldIgnore(p) {
					return filepath.SkipDir
				}
				return nil
			}
			if !w.shouldIgnore(p) {
				w.timestamps[p] = info.ModTime()
			}
			return nil
		})
	}
}

// checkForChanges scans for modified, added, and deleted files. When the
// batch is non-empty, the current token generation is spent.
func (w *Watcher) checkForChanges() {
	changed := false

	for _, root := range w.config.Paths {
		filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if info.IsDir() {
				if w.shouldIgnore(p) {
					return filepath.SkipDir
				}
				return nil
			}
			if w.shouldIgnore(p) {
				return nil
			}

			w.mu.Lock()
			lastMod, exists := w.timestamps[p]
			modTime := info.ModTime()
			// A path missing from the map is a new file: the initial
			// scan already recorded everything that pre-existed.
			if !exists || modTime.After(lastMod) {
				w.timestamps[p] = modTime
				changed = true
			}
			w.mu.Unlock()
			return nil
		})
	}

	w.mu.Lock()
	for p := range w.timestamps {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			delete(w.timestamps, p)
			changed = true
		}
	}
	w.mu.Unlock()

	if changed {
		w.fire()
	}
}

// fire spends the current generation. The fresh token is installed before
// the old one notifies, so a consumer re-acquiring from inside its callback
// always observes the next generation.
func (w *Watcher) fire() {
	w.mu.Lock()
	spent := w.current
	w.current = changetoken.NewSingleToken()
	w.mu.Unlock()

	spent.Notify()
}

// shouldIgnore checks if a path matches any ignore pattern.
func (w *Watcher) shouldIgnore(fullPath string) bool {
	name := filepath.Base(fullPath)
	normalized := filepath.ToSlash(fullPath)

	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		if name == pattern {
			return true
		}

		hasPathSep := strings.Contains(pattern, "/")
		hasGlob := strings.ContainsAny(pattern, "*?[")

		if hasGlob {
			if hasPathSep {
				if matched, _ := path.Match(filepath.ToSlash(pattern), normalized); matched {
					return true
				}
			} else {
				if matched, _ := filepath.Match(pattern, name); matched {
					return true
				}
			}
			continue
		}

		if hasPathSep && strings.Contains(normalized+"/", strings.Trim(filepath.ToSlash(pattern), "/")+"/") {
			return true
		}
	}

	return false
}
