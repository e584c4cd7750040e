package watcher

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// DefaultInterval is how often pending changes are flushed to the handler.
const DefaultInterval = 2 * time.Second

// Handler receives the transaction files that changed since the last tick,
// sorted by path.
type Handler func(paths []string) error

// Watcher watches a data directory and batches changes to transaction files.
type Watcher struct {
	dir      string
	handler  Handler
	Interval time.Duration

	fsw         *fsnotify.Watcher
	stopCh      chan struct{}
	wg          sync.WaitGroup
	batchTicker *time.Ticker

	mu      sync.Mutex
	pending map[string]struct{}
	started bool
}

// New creates a Watcher for dir. Start must be called to begin watching.
func New(dir string, handler Handler) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return &Watcher{
		dir:      dir,
		handler:  handler,
		Interval: DefaultInterval,
		stopCh:   make(chan struct{}),
		pending:  make(map[string]struct{}),
	}, nil
}

// Start subscribes to filesystem events and begins flushing on each tick.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return errors.New("watcher already started")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.fsw = fsw
	w.started = true

	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	w.batchTicker = time.NewTicker(interval)

	w.wg.Add(2)
	go w.collectEvents()
	go w.runBatchProcessor()

	log.Debugf("watcher: watching %s every %v", w.dir, interval)
	return nil
}

// collectEvents records changed transaction files until the watcher closes.
func (w *Watcher) collectEvents() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !IsTransactionFile(event.Name) {
				continue
			}
			w.mu.Lock()
			w.pending[event.Name] = struct{}{}
			w.mu.Unlock()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warnf("watcher: %v", err)
		}
	}
}

// runBatchProcessor flushes on each tick and once more on stop.
func (w *Watcher) runBatchProcessor() {
	defer w.wg.Done()

	for {
		select {
		case <-w.batchTicker.C:
			if err := w.Flush(); err != nil {
				log.Errorf("watcher: %v", err)
			}
		case <-w.stopCh:
			if err := w.Flush(); err != nil {
				log.Errorf("watcher: final flush: %v", err)
			}
			return
		}
	}
}

// Flush hands the pending paths to the handler and clears them. Paths that
// no longer exist are dropped.
func (w *Watcher) Flush() error {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(paths) == 0 {
		return nil
	}
	sort.Strings(paths)
	log.Debugf("watcher: %d changed files", len(paths))
	return w.handler(paths)
}

// Stop halts the watcher after a final flush.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = false
	w.mu.Unlock()

	close(w.stopCh)
	if w.batchTicker != nil {
		w.batchTicker.Stop()
	}

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
