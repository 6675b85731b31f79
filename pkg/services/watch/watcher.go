// Package watch rebuilds the dashboard snapshot when wave files change under
// the data directory. Rapid saves are debounced; a failed rebuild keeps the
// last good snapshot in service.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Rebuild regenerates the snapshot after the data directory settles.
type Rebuild func(ctx context.Context) error

type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dataDir  string
	rebuild  Rebuild
	debounce time.Duration
	pending  map[string]time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

func NewWatcher(dataDir string, rebuild Rebuild) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fsw,
		dataDir:  dataDir,
		rebuild:  rebuild,
		debounce: 500 * time.Millisecond, // batch rapid saves
		pending:  make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching the data directory. Non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dataDir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("watch %s: %w", w.dataDir, err)
	}
	go w.run(ctx)
	return nil
}

// Stop halts the event loop and releases the underlying watcher.
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
	_ = w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	logger := zerolog.Ctx(ctx)

	ticker := time.NewTicker(100 * time.Millisecond)
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
			logger.Error().Err(err).Msg("watcher error")
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !strings.EqualFold(filepath.Ext(event.Name), ".csv") {
		return
	}
	switch {
	case event.Op&fsnotify.Create != 0,
		event.Op&fsnotify.Write != 0,
		event.Op&fsnotify.Remove != 0,
		event.Op&fsnotify.Rename != 0:
	default:
		return // chmod and friends
	}

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	settled := false
	now := time.Now()
	for path, ts := range w.pending {
		if now.Sub(ts) >= w.debounce {
			delete(w.pending, path)
			settled = true
		}
	}
	w.mu.Unlock()
	if !settled {
		return
	}

	logger := zerolog.Ctx(ctx)
	logger.Info().Str("data_dir", w.dataDir).Msg("wave files changed, rebuilding snapshot")
	if err := w.rebuild(ctx); err != nil {
		logger.Error().Err(err).Msg("rebuild failed, keeping last good snapshot")
	}
}
