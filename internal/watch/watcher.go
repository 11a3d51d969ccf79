// Package watch reports changes to a board's lane directories.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts such as an editor's save sequence.
const DefaultDebounce = 200 * time.Millisecond

// RefreshFunc is called once per settled burst of changes.
type RefreshFunc func() error

// Watch starts an fsnotify watcher on boardDir and the given lane
// directories and calls refresh after changes settle, until ctx is
// cancelled. Lane directories that do not exist yet are picked up when
// they are created. An error from refresh stops the watch and is returned.
func Watch(ctx context.Context, boardDir string, lanes []string, debounce time.Duration, logger *slog.Logger, refresh RefreshFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(boardDir); err != nil {
		return err
	}
	laneDirs := make(map[string]struct{}, len(lanes))
	for _, lane := range lanes {
		dir := filepath.Join(boardDir, lane)
		laneDirs[dir] = struct{}{}
		addIfDir(w, dir, logger)
	}

	logger.Info("watch: started", slog.String("board", boardDir))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watch: stopped")
			return nil

		case <-fire:
			if err := refresh(); err != nil {
				return err
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			// A lane directory appearing after start needs its own watch.
			if ev.Op&fsnotify.Create != 0 {
				if _, isLane := laneDirs[ev.Name]; isLane {
					addIfDir(w, ev.Name, logger)
				}
			}
			logger.Debug("watch: event", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch: error", slog.String("error", watchErr.Error()))
		}
	}
}

func addIfDir(w *fsnotify.Watcher, dir string, logger *slog.Logger) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.Add(dir); err != nil {
		logger.Warn("watch: add dir failed", slog.String("path", dir), slog.String("error", err.Error()))
	}
}
