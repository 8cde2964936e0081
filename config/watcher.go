package config

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/callshape/errors"
)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatchDebounce sets how long the file must stay quiet before it is reloaded.
func WithWatchDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the logger for reload failures.
func WithWatchLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// Watcher reloads a YAML configuration file when it changes and passes every
// new Config to onChange. It watches the containing directory so that editors
// saving through rename are noticed.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	onChange func(Config)

	fsWatcher *fsnotify.Watcher
	done      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup

	mu      sync.Mutex
	started bool
	current Config
	pending time.Time
}

// NewWatcher creates a Watcher for the file at path.
func NewWatcher(path string, onChange func(Config), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		debounce: 250 * time.Millisecond,
		logger:   slog.Default(),
		onChange: onChange,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start loads the file, delivers it to onChange, and begins watching for changes.
// A Watcher can be started once; later calls, and calls after Stop, return
// ErrWatcherReused.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.started || w.stopped() {
		w.mu.Unlock()
		return errorc.With(errors.ErrWatcherReused, errorc.String(errors.ErrorFieldPath, w.path))
	}
	w.started = true
	w.mu.Unlock()

	cfg, err := LoadFile(w.path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()
	w.onChange(cfg)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errorc.With(errors.ErrInvalidConfig, errorc.String(errors.ErrorFieldPath, w.path), errorc.Error(errors.ErrorFieldCause, err))
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return errorc.With(errors.ErrInvalidConfig, errorc.String(errors.ErrorFieldPath, w.path), errorc.Error(errors.ErrorFieldCause, err))
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	// Stop may have run while the file was loading.
	if w.stopped() {
		_ = fsw.Close()
		return errorc.With(errors.ErrWatcherReused, errorc.String(errors.ErrorFieldPath, w.path))
	}
	w.fsWatcher = fsw
	w.wg.Add(1)
	go w.loop(fsw)
	return nil
}

// Current returns the last configuration that was loaded successfully.
func (w *Watcher) Current() Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Stop terminates the watcher and waits for its goroutine. It is safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	w.stopOnce.Do(func() { close(w.done) })
	fsw := w.fsWatcher
	w.fsWatcher = nil
	w.mu.Unlock()

	w.wg.Wait()
	if fsw != nil {
		return fsw.Close()
	}
	return nil
}

// stopped reports whether Stop has been called.
func (w *Watcher) stopped() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

func (w *Watcher) loop(fsw *fsnotify.Watcher) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.mu.Lock()
				w.pending = time.Now()
				w.mu.Unlock()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", slog.Any("error", err))

		case <-ticker.C:
			w.reloadIfQuiet()
		}
	}
}

func (w *Watcher) reloadIfQuiet() {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	cfg, err := LoadFile(w.path)
	if err != nil {
		w.logger.Error("cannot reload config", slog.String("path", w.path), slog.Any("error", err))
		return
	}

	w.mu.Lock()
	changed := cfg != w.current
	w.current = cfg
	w.mu.Unlock()
	if !changed {
		w.logger.Debug("config unchanged", slog.String("path", w.path))
		return
	}

	w.logger.Info("config changed", slog.String("path", w.path))
	w.onChange(cfg)
}
