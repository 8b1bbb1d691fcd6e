// Package watch notifies callers when files under a set of directories change.
// Bursts of events for the same file are debounced into a single notification.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/JaimeStill/jobarch/pkg/lifecycle"
)

// Handler receives the absolute path of a changed file.
type Handler func(path string)

// Watcher debounces filesystem events for a fixed set of directories.
type Watcher struct {
	dirs     []string
	debounce time.Duration
	handler  Handler
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[string]time.Time
}

// New creates a Watcher. Directories are made absolute; missing directories are
// skipped with a warning when the watcher runs.
func New(dirs []string, debounce time.Duration, handler Handler, logger *slog.Logger) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watch handler required")
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	abs := make([]string, 0, len(dirs))
	for _, d := range dirs {
		p, err := filepath.Abs(d)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", d, err)
		}
		abs = append(abs, p)
	}

	return &Watcher{
		dirs:     abs,
		debounce: debounce,
		handler:  handler,
		logger:   logger.With("system", "watch"),
		pending:  make(map[string]time.Time),
	}, nil
}

// Dirs returns the absolute directories being watched.
func (w *Watcher) Dirs() []string {
	return w.dirs
}

// Start runs the watcher for the lifetime of the coordinator's context.
func (w *Watcher) Start(lc *lifecycle.Coordinator) error {
	fw, err := w.open()
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.loop(lc.Context(), fw)
	}()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		<-done
		w.logger.Info("watcher stopped")
	})
	return nil
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := w.open()
	if err != nil {
		return err
	}
	w.loop(ctx, fw)
	return nil
}

func (w *Watcher) open() (*fsnotify.Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	watched := 0
	for _, d := range w.dirs {
		if err := fw.Add(d); err != nil {
			w.logger.Warn("directory not watched", "dir", d, "error", err)
			continue
		}
		watched++
	}
	w.logger.Info("watcher started", "dirs", watched, "debounce", w.debounce)
	return fw, nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) {
	defer fw.Close()

	tick := max(w.debounce/2, 10*time.Millisecond)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			w.record(ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "error", err)
		case now := <-ticker.C:
			w.flush(now)
		}
	}
}

func (w *Watcher) record(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}
	if ignored(ev.Name) {
		return
	}

	w.mu.Lock()
	w.pending[ev.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flush(now time.Time) {
	var ready []string

	w.mu.Lock()
	for p, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, p)
			delete(w.pending, p)
		}
	}
	w.mu.Unlock()

	for _, p := range ready {
		w.logger.Debug("file changed", "path", p)
		w.handler(p)
	}
}

// ignored skips hidden files and office lock files (~$name.xlsx).
func ignored(p string) bool {
	base := filepath.Base(p)
	return strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$")
}
