// Package board resolves board addresses, locates items inside a board's
// lanes and applies lifecycle operations to them.
//
// The filesystem is the only record of lane membership: nothing about an
// item is cached between calls, every operation re-reads the lane
// directories it needs.
package board

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/starford/boards/internal/storage"
)

// Board is an opened board directory.
type Board struct {
	Dir    string
	Config *Config

	store  storage.Provider
	logger *slog.Logger
}

// Open loads the board at dir.
func Open(dir string, logger *slog.Logger) (*Board, error) {
	if logger == nil {
		logger = slog.Default()
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		return nil, fmt.Errorf("board: open %s: %w", dir, err)
	}
	cfg, err := LoadConfig(store.Root(), logger)
	if err != nil {
		return nil, err
	}
	return &Board{
		Dir:    store.Root(),
		Config: cfg,
		store:  store,
		logger: logger,
	}, nil
}

// IsBoardDir reports whether dir holds a board descriptor.
func IsBoardDir(dir string) (bool, error) {
	info, err := os.Stat(filepath.Join(dir, ConfigFile))
	switch {
	case err == nil:
		return !info.IsDir(), nil
	case errors.Is(err, os.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return false, nil
	default:
		return false, fmt.Errorf("board: stat %s: %w", dir, err)
	}
}
