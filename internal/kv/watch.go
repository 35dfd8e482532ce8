package kv

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Change is delivered by Watch when the storage file changes on disk.
// Err is set when the watcher itself reported a problem.
type Change struct {
	Err error
}

// Watch reports changes to the storage file made by any process, including
// this one. Changes that arrive while one is still pending are coalesced.
// The returned channel is closed when ctx is done.
func (s *FileStore) Watch(ctx context.Context) (<-chan Change, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	ch := make(chan Change, 1)
	go func() {
		defer close(ch)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != s.path {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) {
					continue
				}
				notify(ch, Change{})
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				notify(ch, Change{Err: werr})
			}
		}
	}()
	return ch, nil
}

func notify(ch chan Change, c Change) {
	select {
	case ch <- c:
	default:
	}
}
