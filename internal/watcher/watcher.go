// Package watcher monitors intake directories and hands newly settled media
// and document files to a processing callback.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/scribelab/mediascribe/internal/scanner"
)

// Handler receives one settled file per call. Path is absolute; fileType is
// the intake category the file matched.
type Handler func(ctx context.Context, path string, fileType scanner.FileType)

// Watcher monitors directories for new processable files.
type Watcher interface {
	// Watch starts watching a directory and its subdirectories.
	Watch(path string) error

	// Unwatch stops watching a path.
	Unwatch(path string) error

	// WatchedPaths returns the currently watched root paths.
	WatchedPaths() []string

	// Start begins processing filesystem events.
	Start(ctx context.Context) error

	// Stop stops the watcher.
	Stop() error

	// Stats returns current watcher statistics.
	Stats() WatcherStats

	// Errors reports fatal watcher errors.
	Errors() <-chan error
}

// WatcherStats contains statistics about watcher activity.
type WatcherStats struct {
	WatchedPaths   int
	EventsReceived int64
	FilesDelivered int64
	Errors         int64
	IsRunning      bool
	DegradedMode   bool
}

// WatcherOption configures the Watcher.
type WatcherOption func(*watcher)

// WithDebounceWindow sets the debounce window for event coalescing.
func WithDebounceWindow(d time.Duration) WatcherOption {
	return func(w *watcher) {
		w.debounceWindow = d
	}
}

// WithDeleteGracePeriod sets the grace period before discarding delete events.
func WithDeleteGracePeriod(d time.Duration) WatcherOption {
	return func(w *watcher) {
		w.deleteGracePeriod = d
	}
}

// WithLogger sets the logger for the watcher.
func WithLogger(logger *slog.Logger) WatcherOption {
	return func(w *watcher) {
		w.logger = logger
	}
}

type watcher struct {
	fsWatcher *fsnotify.Watcher
	handler   Handler
	coalescer *Coalescer
	logger    *slog.Logger

	debounceWindow    time.Duration
	deleteGracePeriod time.Duration

	mu           sync.RWMutex
	watchedPaths map[string]bool
	stats        WatcherStats
	running      bool
	stopCh       chan struct{}
	doneCh       chan struct{}
	stopOnce     sync.Once

	errChan chan error
}

// New creates a Watcher that invokes handler for each settled file.
func New(handler Handler, opts ...WatcherOption) (Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler must not be nil")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher; %w", err)
	}

	w := &watcher{
		fsWatcher:         fsw,
		handler:           handler,
		logger:            slog.Default(),
		debounceWindow:    500 * time.Millisecond,
		deleteGracePeriod: 5 * time.Second,
		watchedPaths:      make(map[string]bool),
		stopCh:            make(chan struct{}),
		doneCh:            make(chan struct{}),
		errChan:           make(chan error, 1),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.coalescer = NewCoalescer(w.debounceWindow, w.deleteGracePeriod)

	return w, nil
}

// Watch starts watching a directory and its non-hidden subdirectories.
func (w *watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path; %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("failed to stat path; %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", absPath)
	}

	err = filepath.WalkDir(absPath, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil // skip directories we can't access
		}
		if !d.IsDir() {
			return nil
		}
		if p != absPath && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}

		if err := w.addWatch(p); err != nil {
			w.logger.Warn("failed to add watch", "path", p, "error", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk directory; %w", err)
	}

	w.mu.Lock()
	w.watchedPaths[absPath] = true
	w.stats.WatchedPaths = len(w.watchedPaths)
	w.mu.Unlock()

	return nil
}

func (w *watcher) addWatch(path string) error {
	if err := w.fsWatcher.Add(path); err != nil {
		if isWatchLimitError(err) {
			w.mu.Lock()
			w.stats.DegradedMode = true
			w.mu.Unlock()
			w.logger.Warn("watch limit reached, entering degraded mode", "path", path)
			return nil
		}
		return err
	}
	return nil
}

// Unwatch stops watching a path.
func (w *watcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path; %w", err)
	}

	w.mu.Lock()
	delete(w.watchedPaths, absPath)
	w.stats.WatchedPaths = len(w.watchedPaths)
	w.mu.Unlock()

	for _, watched := range w.fsWatcher.WatchList() {
		if watched == absPath || strings.HasPrefix(watched, absPath+string(filepath.Separator)) {
			_ = w.fsWatcher.Remove(watched)
		}
	}

	return nil
}

// WatchedPaths returns the currently watched root paths.
func (w *watcher) WatchedPaths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	paths := make([]string, 0, len(w.watchedPaths))
	for p := range w.watchedPaths {
		paths = append(paths, p)
	}
	return paths
}

// Start begins processing filesystem events.
func (w *watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.stats.IsRunning = true
	w.mu.Unlock()

	go w.processEvents(ctx)
	go w.deliverCoalescedEvents(ctx)

	return nil
}

// Stop stops the watcher.
func (w *watcher) Stop() error {
	var stopErr error
	w.stopOnce.Do(func() {
		w.mu.Lock()
		if !w.running {
			w.mu.Unlock()
			return
		}
		w.running = false
		w.stats.IsRunning = false
		w.mu.Unlock()

		// Stop the coalescer first to unblock deliverCoalescedEvents.
		w.coalescer.Stop()

		close(w.stopCh)
		<-w.doneCh

		stopErr = w.fsWatcher.Close()
	})
	return stopErr
}

// Stats returns current watcher statistics.
func (w *watcher) Stats() WatcherStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// Errors returns a channel for fatal watcher errors.
func (w *watcher) Errors() <-chan error {
	return w.errChan
}

// processEvents reads from fsnotify and feeds the coalescer.
func (w *watcher) processEvents(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleFsEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
			w.logger.Error("fsnotify error", "error", err)
			select {
			case w.errChan <- err:
			default:
			}
		}
	}
}

func (w *watcher) handleFsEvent(event fsnotify.Event) {
	w.mu.Lock()
	w.stats.EventsReceived++
	w.mu.Unlock()

	if isEditorNoise(event.Name) {
		return
	}

	// New subdirectories get watched so files dropped into them are seen.
	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if !strings.HasPrefix(filepath.Base(event.Name), ".") {
				if err := w.addWatch(event.Name); err != nil {
					w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
				}
			}
			return
		}
	}

	var eventType CoalescedEventType
	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		eventType = EventDelete
	case event.Has(fsnotify.Create):
		eventType = EventCreate
	case event.Has(fsnotify.Write):
		eventType = EventModify
	default:
		return // chmod-only
	}

	w.coalescer.Add(CoalescedEvent{
		Path:      event.Name,
		Type:      eventType,
		Timestamp: time.Now(),
	})
}

// deliverCoalescedEvents hands settled files to the handler.
func (w *watcher) deliverCoalescedEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ce, ok := <-w.coalescer.Events():
			if !ok {
				return
			}
			w.deliver(ctx, ce)
		}
	}
}

// deliver invokes the handler for a settled create or modify of a
// processable file. Deletes carry no work for the pipeline and are dropped.
func (w *watcher) deliver(ctx context.Context, ce CoalescedEvent) {
	if ce.Type == EventDelete {
		return
	}
	if !w.isUnderWatchedPath(ce.Path) {
		return
	}

	fileType, ok := scanner.Classify(ce.Path)
	if !ok {
		return
	}

	info, err := os.Stat(ce.Path)
	if err != nil {
		// Gone before the debounce window closed.
		return
	}
	if info.IsDir() || info.Size() == 0 {
		return
	}

	w.logger.Info("file settled", "path", ce.Path, "type", fileType, "bytes", info.Size())
	w.handler(ctx, ce.Path, fileType)

	w.mu.Lock()
	w.stats.FilesDelivered++
	w.mu.Unlock()
}

func (w *watcher) isUnderWatchedPath(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for watched := range w.watchedPaths {
		if path == watched || strings.HasPrefix(path, watched+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// isEditorNoise reports whether the file is a transient editor artifact that
// appears and disappears during saves.
func isEditorNoise(path string) bool {
	name := filepath.Base(path)

	if strings.HasSuffix(name, ".swp") || strings.HasSuffix(name, ".swo") || strings.HasSuffix(name, ".swn") {
		return true
	}
	if name == "4913" { // vim save probe
		return true
	}
	if strings.HasPrefix(name, "#") && strings.HasSuffix(name, "#") {
		return true
	}
	if strings.HasSuffix(name, "~") {
		return true
	}

	return false
}

// isWatchLimitError checks if an error indicates watch limit exhaustion.
func isWatchLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "too many open files") ||
		strings.Contains(errStr, "no space left on device") ||
		strings.Contains(errStr, "user limit on total number of inotify watches")
}
