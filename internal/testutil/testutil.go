// Package testutil provides shared test helpers for setting up boards and registries.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/boards/internal/board"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestBoard initialises a default board in a temporary directory.
func TestBoard(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.InitBoard(filepath.Join(t.TempDir(), "board"), Logger())
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// WriteItem places an item file directly into a lane of b.
func WriteItem(t *testing.T, b *board.Board, lane, name, content string) string {
	t.Helper()
	dir := filepath.Join(b.Dir, lane)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TrashDir is a Trasher that moves files into a temporary directory.
type TrashDir struct {
	Dir     string
	Trashed []string
}

// NewTrashDir returns an empty TrashDir.
func NewTrashDir(t *testing.T) *TrashDir {
	t.Helper()
	return &TrashDir{Dir: t.TempDir()}
}

// Trash implements board.Trasher.
func (d *TrashDir) Trash(path string) error {
	d.Trashed = append(d.Trashed, path)
	return os.Rename(path, filepath.Join(d.Dir, filepath.Base(path)))
}
