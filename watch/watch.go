// Package watch re-runs an action on source files when they change.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 100 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Match    func(path string) bool // which files trigger Handle
	Handle   func(path string)      // called once per settled change
	Skip     func(dir string) bool  // directories not to descend into
	Stdout   io.Writer
	Stderr   io.Writer
}

// Watcher monitors files for changes and calls Handle once they settle
type Watcher struct {
	watcher *fsnotify.Watcher
	roots   []string
	files   map[string]bool // roots that are files rather than directories
	opts    Options

	// Rapid changes to one file collapse into a single call
	mu      sync.Mutex
	timers  map[string]*time.Timer
	handled uint64
	wg      sync.WaitGroup
	done    chan struct{} // closed when eventLoop returns

	logMu sync.Mutex
}

// New creates a watcher over roots, which may be files or directories.
func New(roots []string, opts Options) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Match == nil {
		opts.Match = func(string) bool { return true }
	}
	if opts.Handle == nil {
		opts.Handle = func(string) {}
	}
	if opts.Skip == nil {
		opts.Skip = func(string) bool { return false }
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}

	return &Watcher{
		watcher: fsWatcher,
		roots:   roots,
		files:   make(map[string]bool),
		opts:    opts,
		timers:  make(map[string]*time.Timer),
	}, nil
}

// Start adds the roots and begins watching in the background
func (w *Watcher) Start(ctx context.Context) error {
	watched := 0
	for _, root := range w.roots {
		info, err := os.Stat(root)
		if err != nil {
			w.logError("cannot watch %s: %v", root, err)
			continue
		}

		if !info.IsDir() {
			// Editors often replace files, so watch the directory and filter
			abs, err := filepath.Abs(root)
			if err != nil {
				abs = root
			}
			w.files[filepath.Clean(abs)] = true
			if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
				w.logError("failed to watch %s: %v", root, err)
				continue
			}
		} else if err := w.watchDirRecursive(root); err != nil {
			w.logError("failed to watch %s: %v", root, err)
			continue
		}
		watched++
		w.logInfo("watching %s", root)
	}

	if watched == 0 {
		return fmt.Errorf("nothing to watch")
	}

	done := make(chan struct{})
	w.mu.Lock()
	w.done = done
	w.mu.Unlock()
	go w.eventLoop(ctx, done)
	return nil
}

// Run starts watching and blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	w.Close()
	return nil
}

// watchDirRecursive adds a directory and its subdirectories to the watch list
func (w *Watcher) watchDirRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if info.IsDir() {
			// Skip hidden directories
			if path != root && (strings.HasPrefix(info.Name(), ".") || w.opts.Skip(info.Name())) {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		}
		return nil
	})
}

// eventLoop processes file system events
func (w *Watcher) eventLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only handle write and create events
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.watchDirRecursive(event.Name); err != nil {
						w.logError("failed to watch %s: %v", event.Name, err)
					}
					continue
				}
			}

			if w.wanted(event.Name) {
				w.schedule(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logError("watcher error: %v", err)
		}
	}
}

// wanted reports whether a changed path is one of ours
func (w *Watcher) wanted(path string) bool {
	if len(w.files) > 0 {
		abs, err := filepath.Abs(path)
		if err == nil && w.files[filepath.Clean(abs)] {
			return true
		}
		if !w.underDirectoryRoot(path) {
			return false
		}
	}
	return w.opts.Match(path)
}

// underDirectoryRoot reports whether path lies below a root directory
func (w *Watcher) underDirectoryRoot(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, root := range w.roots {
		absRoot, err := filepath.Abs(root)
		if err != nil || w.files[filepath.Clean(absRoot)] {
			continue
		}
		rel, err := filepath.Rel(absRoot, absPath)
		if err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	return false
}

// schedule (re)starts the settle timer for path
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok && t.Stop() {
		t.Reset(w.opts.Debounce)
		return
	}

	w.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(w.opts.Debounce, func() {
		defer w.wg.Done()

		w.mu.Lock()
		if w.timers[path] == t {
			delete(w.timers, path)
		}
		w.handled++
		w.mu.Unlock()

		w.logInfo("changed: %s", path)
		w.opts.Handle(path)
	})
	w.timers[path] = t
}

// Handled returns the number of settled changes passed to Handle
func (w *Watcher) Handled() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.handled
}

// Close stops the watcher and drops pending changes
func (w *Watcher) Close() error {
	// Closing fsnotify ends eventLoop; once it has returned nothing can schedule
	err := w.watcher.Close()
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()
	if done != nil {
		<-done
	}

	w.mu.Lock()
	for path, t := range w.timers {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.timers, path)
	}
	w.mu.Unlock()

	w.wg.Wait()
	return err
}

func (w *Watcher) logInfo(format string, args ...interface{}) {
	w.logMu.Lock()
	defer w.logMu.Unlock()
	fmt.Fprintf(w.opts.Stdout, "[WATCH] "+format+"\n", args...)
}

func (w *Watcher) logError(format string, args ...interface{}) {
	w.logMu.Lock()
	defer w.logMu.Unlock()
	fmt.Fprintf(w.opts.Stderr, "[WATCH ERROR] "+format+"\n", args...)
}
