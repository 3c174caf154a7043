// Package watch reports changes below a content directory, debounced.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/logfields"
)

// DefaultDebounce collapses bursts of editor writes into one change.
const DefaultDebounce = 300 * time.Millisecond

// Watcher monitors a directory tree and calls OnChange with the changed
// paths, relative to the root, once events stop arriving for the debounce
// interval.
type Watcher struct {
	root     string
	debounce time.Duration
	onChange func(paths []string)
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	done    chan struct{}
}

// New creates a watcher for root.
func New(root string, debounce time.Duration, onChange func(paths []string)) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to resolve content path").WithContext("path", root).Build()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to create file watcher").Build()
	}
	return &Watcher{
		root:     abs,
		debounce: debounce,
		onChange: onChange,
		watcher:  fw,
		pending:  make(map[string]struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Run watches until ctx ends. Directories created later are watched too.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.done)
	defer func() { _ = w.watcher.Close() }()

	if err := w.addTree(w.root); err != nil {
		return err
	}
	slog.Info("Watching content", logfields.Path(w.root))

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", logfields.Error(err))
		}
	}
}

// Done is closed when Run has returned.
func (w *Watcher) Done() <-chan struct{} { return w.done }

func (w *Watcher) handle(event fsnotify.Event) {
	if ignored(event.Name) {
		return
	}
	if event.Op.Has(fsnotify.Create) {
		if err := w.addTree(event.Name); err != nil {
			slog.Debug("Not a directory or not watchable", logfields.File(event.Name), logfields.Error(err))
		}
	}
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return
	}
	slog.Debug("Content change detected", logfields.File(rel), slog.String("op", event.Op.String()))

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[filepath.ToSlash(rel)] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(paths) > 0 && w.onChange != nil {
		w.onChange(paths)
	}
}

// addTree watches dir and its subdirectories. Non-directories are ignored.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.root && ignored(p) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to watch directory").WithContext("path", p).Build()
		}
		return nil
	})
}

// ignored skips hidden files and editor swap files.
func ignored(p string) bool {
	base := filepath.Base(p)
	return strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp")
}
