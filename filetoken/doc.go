// Package filetoken provides change tokens backed by the file system.
//
// FileToken watches a single file through the OS notification facility and
// fires once on the first modification. Watcher polls one or more directory
// trees and produces a fresh token per change generation, which makes its
// Token method a natural producer for changetoken.OnChange:
//
//	w := filetoken.NewWatcher(filetoken.WatcherConfig{Paths: []string{"conf"}})
//	go w.Start(ctx)
//
//	sub := changetoken.OnChangeFunc(w.Token, reloadConfig)
//	defer sub.Close()
//
// Callbacks registered on either token fire from a watcher-owned goroutine,
// never the registrant's.
package filetoken
