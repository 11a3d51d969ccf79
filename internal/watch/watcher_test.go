package watch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatch_RefreshOnLaneChange(t *testing.T) {
	dir := t.TempDir()
	todo := filepath.Join(dir, "todo")
	if err := os.Mkdir(todo, 0o755); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, []string{"todo", "doing"}, 20*time.Millisecond, quietLogger(), func() error {
			calls.Add(1)
			return nil
		})
	}()
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(todo, "a.md"), []byte("# a"), 0o644)
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return calls.Load() > 0
	}, "refresh not called after file creation")

	// Lane created after start is watched too.
	doing := filepath.Join(dir, "doing")
	_ = os.Mkdir(doing, 0o755)
	time.Sleep(100 * time.Millisecond)
	before := calls.Load()
	_ = os.Rename(filepath.Join(todo, "a.md"), filepath.Join(doing, "a.md"))
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return calls.Load() > before
	}, "refresh not called after move into new lane")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}

func TestWatch_RefreshErrorStops(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("boom")

	done := make(chan error, 1)
	go func() {
		done <- Watch(context.Background(), dir, nil, 10*time.Millisecond, quietLogger(), func() error {
			return boom
		})
	}()
	time.Sleep(100 * time.Millisecond)
	_ = os.WriteFile(filepath.Join(dir, "board.toml"), []byte("x"), 0o644)

	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Errorf("err = %v, want boom", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return refresh error")
	}
}
