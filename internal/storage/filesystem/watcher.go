package filesystem

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay batches bursts of filesystem events (editors often write,
// rename and chmod in quick succession) into one snapshot.
const debounceDelay = 250 * time.Millisecond

// Watcher watches a Source's root recursively and produces a fresh
// Snapshot after the filesystem settles. It never patches an existing
// forest; every change results in a complete rebuild handed over the
// channel.
type Watcher struct {
	source    *Source
	fsw       *fsnotify.Watcher
	snapshots chan *Snapshot
}

// NewWatcher creates a watcher over the source's root.
func NewWatcher(source *Source) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		source:    source,
		fsw:       fsw,
		snapshots: make(chan *Snapshot, 1),
	}, nil
}

// Snapshots returns the channel fresh snapshots arrive on. The channel has
// a buffer of one; a newer snapshot replaces an unconsumed older one.
func (w *Watcher) Snapshots() <-chan *Snapshot {
	return w.snapshots
}

// Run watches until the context is canceled. It is meant to run on its own
// goroutine; the UI stays single-threaded and only ever sees complete
// snapshots.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	defer close(w.snapshots)

	if err := w.watchRecursive(w.source.Root()); err != nil {
		return err
	}

	var debounce *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.ignored(event.Name) {
				continue
			}
			// New directories need their own watch before their contents
			// produce events.
			if event.Op.Has(fsnotify.Create) {
				if w.source.IsBranch(filepath.ToSlash(event.Name)) {
					if err := w.watchRecursive(event.Name); err != nil {
						slog.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}
			if debounce == nil {
				debounce = time.NewTimer(debounceDelay)
				fire = debounce.C
			} else {
				debounce.Reset(debounceDelay)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("filesystem watch error", "error", err)

		case <-fire:
			debounce = nil
			fire = nil
			snapshot, err := w.source.Snapshot(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.Warn("failed to rebuild snapshot", "error", err)
				continue
			}
			w.deliver(snapshot)
		}
	}
}

// deliver replaces any unconsumed snapshot with the newer one.
func (w *Watcher) deliver(snapshot *Snapshot) {
	for {
		select {
		case w.snapshots <- snapshot:
			return
		default:
			select {
			case <-w.snapshots:
			default:
			}
		}
	}
}

func (w *Watcher) ignored(name string) bool {
	if w.source.ShowHidden() {
		return false
	}
	rel, err := filepath.Rel(w.source.Root(), name)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if !w.source.ShowHidden() && path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			slog.Warn("failed to add watch", "path", path, "error", err)
		}
		return nil
	})
}
