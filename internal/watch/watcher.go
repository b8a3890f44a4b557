// Package watch re-runs a callback when input files change on disk, with
// rapid saves coalesced into one call.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"agentui/internal/logging"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before its change fires.
const DefaultDebounce = 300 * time.Millisecond

// Handler is called once per debounced change. path is the watched file,
// not the sidecar (e.g. SQLite WAL) that triggered it.
type Handler func(ctx context.Context, path string)

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Fired         int
	Errors        int
	LastEventPath string
	LastEventTime time.Time
}

// Watcher monitors a fixed set of files. It watches their parent
// directories so editors that save by rename are still seen.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	pending  map[string]time.Time
	debounce time.Duration
	handler  Handler
	logger   *zap.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stats    Stats
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change fires.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the watcher's logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New creates a Watcher for paths. Empty paths are skipped.
func New(paths []string, handler Handler, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]struct{}),
		pending:  make(map[string]time.Time),
		debounce: DefaultDebounce,
		handler:  handler,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.OrNop(w.logger, logging.CategoryWatch)

	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
	}
	return w, nil
}

// Start begins watching. It does not block. The parent directory of every
// watched file must exist.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dirs := make(map[string]struct{})
	for f := range w.files {
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.logger.Debug("watching directory", zap.String("dir", dir))
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		w.logger.Error("error closing watcher", zap.Error(err))
	}
}

// Stats returns a copy of the activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounce / 3
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	target, ok := w.match(event.Name)
	if !ok {
		return
	}

	now := time.Now()
	w.mu.Lock()
	w.pending[target] = now
	w.stats.Events++
	w.stats.LastEventPath = event.Name
	w.stats.LastEventTime = now
	w.mu.Unlock()
	w.logger.Debug("file event", zap.String("path", event.Name), zap.String("op", event.Op.String()))
}

// match maps an event path to the watched file it belongs to. SQLite
// sidecars ("db-wal", "db-journal", "db-shm") count as the database.
func (w *Watcher) match(name string) (string, bool) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", false
	}
	if _, ok := w.files[abs]; ok {
		return abs, true
	}
	for f := range w.files {
		if strings.HasPrefix(abs, f+"-") {
			return f, true
		}
	}
	return "", false
}

func (w *Watcher) flush(ctx context.Context) {
	now := time.Now()
	var ready []string

	w.mu.Lock()
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.stats.Fired += len(ready)
	w.mu.Unlock()

	for _, path := range ready {
		w.logger.Debug("change settled", zap.String("path", path))
		if w.handler != nil {
			w.handler(ctx, path)
		}
	}
}
