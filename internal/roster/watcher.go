package roster

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event reports the outcome of reloading the watched roster file.
type Event struct {
	Path   string
	Roster *Roster
	Error  error
}

// Watcher reloads a roster file into a Store whenever it changes on disk.
// Invalid edits are reported on Events and leave the Store untouched.
type Watcher struct {
	path     string
	store    *Store
	watcher  *fsnotify.Watcher
	events   chan Event
	debounce time.Duration
	done     chan struct{}
	started  bool
}

// NewWatcher creates a watcher for the roster file at path.
func NewWatcher(path string, store *Store) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve roster path: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:     abs,
		store:    store,
		watcher:  fsWatcher,
		events:   make(chan Event, 10),
		debounce: 100 * time.Millisecond,
		done:     make(chan struct{}),
	}, nil
}

// Events returns the channel that receives reload events. It is closed when
// the watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start watches the roster file's directory. Editors often replace files by
// rename, so the directory is watched rather than the file itself.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	w.started = true
	go w.run(ctx)
	return nil
}

// Stop closes the underlying watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	err := w.watcher.Close()
	if w.started {
		<-w.done
	} else {
		close(w.events)
	}
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer close(w.events)

	var pendingSince time.Time
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				pendingSince = time.Now()
			} else if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				w.emit(ctx, Event{
					Path:  w.path,
					Error: fmt.Errorf("roster removed: %s", w.path),
				})
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.emit(ctx, Event{Path: w.path, Error: err})

		case <-ticker.C:
			if !pendingSince.IsZero() && time.Since(pendingSince) >= w.debounce {
				pendingSince = time.Time{}
				w.reload(ctx)
			}
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	r, err := LoadFile(w.path)
	if err != nil {
		w.emit(ctx, Event{
			Path:  w.path,
			Error: fmt.Errorf("failed to reload roster %s: %w", w.path, err),
		})
		return
	}

	w.store.Set(r)
	w.emit(ctx, Event{Path: w.path, Roster: &r})
}

func (w *Watcher) emit(ctx context.Context, ev Event) {
	select {
	case w.events <- ev:
	case <-ctx.Done():
	}
}
