package index

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zepto-eln/eln/internal/document"
	"github.com/zepto-eln/eln/internal/journal"
)

// DefaultDebounce is how long a file must be quiet before its handler runs.
const DefaultDebounce = 200 * time.Millisecond

// HandlerFunc is called once per settled change of a markdown file.
type HandlerFunc func(path string, removed bool) error

// Watcher monitors the journal for document changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	root     string
	handler  HandlerFunc
	logger   document.Logger
	Debounce time.Duration

	mu       sync.Mutex
	debounce map[string]*time.Timer
	closed   bool
}

// NewWatcher watches root and its non-hidden subdirectories. logger may be
// nil.
func NewWatcher(root string, handler HandlerFunc, logger document.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		root:     root,
		handler:  handler,
		logger:   logger,
		Debounce: DefaultDebounce,
		debounce: make(map[string]*time.Timer),
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
	if err != nil {
		_ = fw.Close()
		return nil, err
	}

	return w, nil
}

// Run dispatches events until ctx is done or the watcher is stopped.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.Stop() }()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	name := filepath.Base(path)

	if strings.HasPrefix(name, ".") {
		return
	}

	if filepath.Ext(name) != journal.Ext {
		// Watch new directories
		if event.Has(fsnotify.Create) {
			info, err := os.Stat(path)
			if err == nil && info.IsDir() {
				if err := w.watcher.Add(path); err != nil {
					w.warn("watch directory", "path", path, "err", err)
				}
			}
		}
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	w.debounce[path] = time.AfterFunc(w.Debounce, func() {
		w.mu.Lock()
		delete(w.debounce, path)
		closed := w.closed
		w.mu.Unlock()
		if closed {
			return
		}

		// Editors often save by rename, so decide on the final state.
		_, err := os.Stat(path)
		removed := os.IsNotExist(err)
		if err := w.handler(path, removed); err != nil {
			w.warn("handle change", "path", path, "err", err)
		}
	})
}

func (w *Watcher) warn(msg string, keyvals ...any) {
	if w.logger != nil {
		w.logger.Warn(msg, keyvals...)
	}
}

// Stop stops the watcher and drops pending changes. It is safe to call more
// than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for path, timer := range w.debounce {
		timer.Stop()
		delete(w.debounce, path)
	}
	w.mu.Unlock()

	return w.watcher.Close()
}
