package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/Norgate-AV/wcc/internal/logfields"
)

const eventBuffer = 64

// Watcher watches a directory tree and emits Events. fsnotify is not
// recursive, so every directory is added individually and directories created
// later are added as they appear.
type Watcher struct {
	fs     *fsnotify.Watcher
	root   string
	skip   map[string]struct{}
	events chan Event
	logger *slog.Logger
}

// NewWatcher watches root recursively. Hidden directories, node_modules and
// any directory listed in skip are not watched.
func NewWatcher(root string, logger *slog.Logger, skip ...string) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}

	w := &Watcher{
		fs:     fw,
		root:   filepath.Clean(root),
		skip:   make(map[string]struct{}, len(skip)),
		events: make(chan Event, eventBuffer),
		logger: logger,
	}

	for _, dir := range skip {
		if dir == "" {
			continue
		}

		w.skip[w.resolve(dir)] = struct{}{}
	}

	if err := w.addDirsRecursive(w.root); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", root, err)
	}

	return w, nil
}

// Events returns the event channel. It is closed when Run returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// WatchList returns the watched directories
func (w *Watcher) WatchList() []string {
	return w.fs.WatchList()
}

// Close stops the underlying fsnotify watcher
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run forwards file-system events until ctx is canceled or the watcher is closed
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}

			out, ok := w.handle(ev)
			if !ok {
				continue
			}

			select {
			case w.events <- out:
			case <-ctx.Done():
				return nil
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}

			w.logger.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) (Event, bool) {
	if shouldIgnoreFile(ev.Name) {
		return Event{}, false
	}

	op, ok := translateOp(ev.Op)
	if !ok {
		return Event{}, false
	}

	if op == OpAdd {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if w.skipDir(ev.Name) {
				return Event{}, false
			}

			if err := w.addDirsRecursive(ev.Name); err != nil {
				w.logger.Warn("watch add failed", logfields.Path(ev.Name), logfields.Error(err))
			}
		}
	}

	return Event{Op: op, Path: w.relative(ev.Name)}, true
}

func (w *Watcher) addDirsRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}

			return nil
		}

		if !d.IsDir() {
			return nil
		}

		if path != w.root && w.skipDir(path) {
			return filepath.SkipDir
		}

		if err := w.fs.Add(path); err != nil {
			w.logger.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
		}

		return nil
	})
}

func (w *Watcher) skipDir(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || base == "node_modules" {
		return true
	}

	_, ok := w.skip[w.resolve(path)]
	return ok
}

func (w *Watcher) resolve(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}

	return filepath.Clean(path)
}

// relative returns path relative to the watch root, slash-separated
func (w *Watcher) relative(path string) string {
	if rel, err := filepath.Rel(w.root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}

	return filepath.ToSlash(path)
}

// shouldIgnoreFile reports editor swap and temp files
func shouldIgnoreFile(path string) bool {
	base := filepath.Base(path)

	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		base == ".DS_Store"
}
