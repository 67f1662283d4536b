package theme

import (
	"context"
	"os"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
)

// ReloadFunc receives the freshly loaded scheme, or the load error
// when the changed file does not parse.
type ReloadFunc func(s *Scheme, err error)

// Watcher reloads a scheme file when it changes on disk.
//
// Detection is polling-based: the modification time is checked on an
// interval, and a change is reported only after it has been stable for
// the debounce window, so editors that write in several steps trigger
// one reload.
type Watcher struct {
	path     string
	interval time.Duration
	debounce time.Duration
	reload   ReloadFunc
	log      *clog.Logger

	mu      sync.Mutex
	lastMod time.Time
	pending time.Time
	running bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithDebounce sets how long a change must be stable before reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the logger.
func WithWatchLogger(l *clog.Logger) WatcherOption {
	return func(w *Watcher) { w.log = l }
}

// NewWatcher creates a watcher for one scheme file. The reload
// callback runs on the watcher goroutine; it must marshal any renderer
// work back onto the render thread itself.
func NewWatcher(path string, reload ReloadFunc, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     path,
		interval: 500 * time.Millisecond,
		debounce: 100 * time.Millisecond,
		reload:   reload,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = clog.Default()
	}
	if info, err := os.Stat(path); err == nil {
		w.lastMod = info.ModTime()
	}
	return w
}

// Start begins polling. Calling Start on a running watcher is a no-op.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.pollLoop()
}

// Stop halts polling and waits for the poll goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.cancel()
	w.running = false
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *Watcher) pollLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// check notes a modification-time change and fires the reload once the
// change has been stable for the debounce window.
func (w *Watcher) check() {
	info, err := os.Stat(w.path)
	if err != nil {
		// Deleted or mid-rename; wait for it to come back.
		return
	}

	w.mu.Lock()
	mod := info.ModTime()
	if !mod.Equal(w.lastMod) {
		w.lastMod = mod
		w.pending = time.Now()
		w.mu.Unlock()
		return
	}
	firePending := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
	if firePending {
		w.pending = time.Time{}
	}
	w.mu.Unlock()

	if firePending {
		w.fire()
	}
}

// fire loads the scheme and calls the reload handler, recovering a
// panicking handler so the watcher keeps running.
func (w *Watcher) fire() {
	defer func() {
		if rec := recover(); rec != nil {
			w.log.Error("scheme reload handler panicked", "panic", rec)
		}
	}()

	s, err := Load(w.path)
	if err != nil {
		w.log.Warn("scheme reload failed", "path", w.path, "err", err)
	}
	w.reload(s, err)
}
