// Package storage defines the board file-system abstraction.
package storage

import "io/fs"

// Provider is the interface for board file operations. All paths are
// relative to the board directory.
type Provider interface {
	// Root returns the absolute board directory.
	Root() string
	// ReadDir lists dir in raw directory order, skipping dot entries.
	ReadDir(dir string) ([]fs.DirEntry, error)
	// Create writes a new file and fails if path is taken.
	Create(path string, content []byte) error
	// Mkdir creates dir and its parents if missing.
	Mkdir(dir string) error
	// Move renames oldPath to newPath without replacing an existing file.
	Move(oldPath, newPath string) error
}

// Verify *FS satisfies Provider at compile time.
var _ Provider = (*FS)(nil)
