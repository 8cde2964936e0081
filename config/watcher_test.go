package config

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	cserrors "github.com/ygrebnov/callshape/errors"
)

func TestWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "callshape.yaml")
	if err := os.WriteFile(path, []byte("short_names: false\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	changes := make(chan Config, 8)
	w := NewWatcher(path, func(cfg Config) { changes <- cfg },
		WithWatchDebounce(20*time.Millisecond),
		WithWatchLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err := w.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	defer func() {
		if err := w.Stop(); err != nil {
			t.Errorf("Stop error: %v", err)
		}
	}()

	select {
	case cfg := <-changes:
		if cfg.ShortNames {
			t.Fatalf("expected initial short_names=false")
		}
	case <-time.After(time.Second):
		t.Fatalf("expected initial config to be delivered")
	}

	if err := os.WriteFile(path, []byte("show_hidden: false\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-changes:
		if cfg.ShowHidden || !cfg.ShortNames {
			t.Fatalf("expected reloaded config, got %+v", cfg)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("expected config change to be delivered")
	}
	if w.Current().ShowHidden {
		t.Fatalf("expected Current to reflect the reload")
	}
}

func TestWatcher_StartMissingFile(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing.yaml"), func(Config) {
		t.Fatalf("unexpected change")
	})
	if err := w.Start(); !errors.Is(err, cserrors.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
}

// lockedBuffer is a bytes.Buffer safe for the watcher goroutine and the test to share.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func startWatcher(t *testing.T, content string) (*Watcher, string, chan Config, *lockedBuffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "callshape.yaml")
	writeConfig(t, path, content)

	logs := &lockedBuffer{}
	changes := make(chan Config, 8)
	w := NewWatcher(path, func(cfg Config) { changes <- cfg },
		WithWatchDebounce(20*time.Millisecond),
		WithWatchLogger(slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	)
	if err := w.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	t.Cleanup(func() {
		if err := w.Stop(); err != nil {
			t.Errorf("Stop error: %v", err)
		}
	})

	select {
	case <-changes:
	case <-time.After(time.Second):
		t.Fatalf("expected initial config to be delivered")
	}
	return w, path, changes, logs
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func waitForLog(t *testing.T, logs *lockedBuffer, msg string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(logs.String(), msg) {
		if time.Now().After(deadline) {
			t.Fatalf("expected log output to contain %q, got:\n%s", msg, logs.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWatcher_ReloadFailureKeepsLastConfig(t *testing.T) {
	w, path, changes, logs := startWatcher(t, "show_hidden: false\n")

	writeConfig(t, path, "show_hidden: [\n")
	waitForLog(t, logs, "cannot reload config")

	select {
	case cfg := <-changes:
		t.Fatalf("expected no change for an invalid file, got %+v", cfg)
	default:
	}
	expected := Default()
	expected.ShowHidden = false
	if got := w.Current(); got != expected {
		t.Fatalf("expected %+v, got %+v", expected, got)
	}

	writeConfig(t, path, "short_names: false\n")
	select {
	case cfg := <-changes:
		if cfg.ShortNames || !cfg.ShowHidden {
			t.Fatalf("expected only short_names=false, got %+v", cfg)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("expected the valid rewrite to be delivered")
	}
}

func TestWatcher_IdenticalConfigNotDelivered(t *testing.T) {
	w, path, changes, logs := startWatcher(t, "show_hidden: false\n")

	writeConfig(t, path, "# same settings\nshow_hidden:    false\n\n")
	waitForLog(t, logs, "config unchanged")

	select {
	case cfg := <-changes:
		t.Fatalf("expected no change for identical settings, got %+v", cfg)
	default:
	}
	if w.Current().ShowHidden {
		t.Fatalf("expected show_hidden to stay false")
	}

	writeConfig(t, path, "show_hidden: true\n")
	select {
	case cfg := <-changes:
		if !cfg.ShowHidden {
			t.Fatalf("expected show_hidden=true, got %+v", cfg)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("expected the changed file to be delivered")
	}
}

func TestWatcher_StartOnce(t *testing.T) {
	t.Run("second start", func(t *testing.T) {
		w, _, changes, _ := startWatcher(t, "short_names: false\n")
		if err := w.Start(); !errors.Is(err, cserrors.ErrWatcherReused) {
			t.Fatalf("expected ErrWatcherReused, got %v", err)
		}
		select {
		case cfg := <-changes:
			t.Fatalf("expected no delivery from a rejected Start, got %+v", cfg)
		default:
		}
	})

	t.Run("start after stop", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "callshape.yaml")
		writeConfig(t, path, "short_names: false\n")
		w := NewWatcher(path, func(Config) { t.Fatalf("unexpected change") })
		if err := w.Stop(); err != nil {
			t.Fatalf("Stop error: %v", err)
		}
		if err := w.Start(); !errors.Is(err, cserrors.ErrWatcherReused) {
			t.Fatalf("expected ErrWatcherReused, got %v", err)
		}
	})

	t.Run("restart after stop", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "callshape.yaml")
		writeConfig(t, path, "short_names: false\n")
		w := NewWatcher(path, func(Config) {}, WithWatchLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		if err := w.Start(); err != nil {
			t.Fatalf("Start error: %v", err)
		}
		if err := w.Stop(); err != nil {
			t.Fatalf("Stop error: %v", err)
		}
		if err := w.Start(); !errors.Is(err, cserrors.ErrWatcherReused) {
			t.Fatalf("expected ErrWatcherReused, got %v", err)
		}
		if err := w.Stop(); err != nil {
			t.Fatalf("second Stop error: %v", err)
		}
	})
}
