package board

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/boards/internal/apperr"
)

// DefaultAddress is the board used when no address is given.
const DefaultAddress = "default"

// Registry maps short board names to root directories.
type Registry map[string]string

// Lookup returns the directory registered under name.
func (r Registry) Lookup(name string) (string, bool) {
	dir, ok := r[name]
	return dir, ok && dir != ""
}

// Resolver turns dotted board addresses into opened boards.
type Resolver struct {
	registry Registry
	workDir  string
	logger   *slog.Logger
}

// NewResolver creates a resolver over a read-only registry. workDir is
// consulted for the "default" address before the registry.
func NewResolver(registry Registry, workDir string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{registry: registry, workDir: workDir, logger: logger}
}

// Resolve opens the board named by address. The first segment is a
// registry name; every further segment is an item reference inside the
// board resolved so far, which must itself be a board.
func (r *Resolver) Resolve(address string) (*Board, error) {
	segments := strings.Split(address, ".")
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("%w: %q has an empty segment", apperr.ErrAddressResolution, address)
		}
	}

	current, err := r.root(segments[0])
	if err != nil {
		return nil, err
	}
	for _, seg := range segments[1:] {
		current, err = r.child(current, seg)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", address, err)
		}
	}
	return current, nil
}

func (r *Resolver) root(name string) (*Board, error) {
	if name == DefaultAddress && r.workDir != "" {
		ok, err := IsBoardDir(r.workDir)
		if err != nil {
			return nil, err
		}
		if ok {
			r.logger.Debug("resolve: using working directory", slog.String("dir", r.workDir))
			return Open(r.workDir, r.logger)
		}
	}
	dir, ok := r.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperr.ErrUnknownBoard, name)
	}
	r.logger.Debug("resolve: registry", slog.String("name", name), slog.String("dir", dir))
	b, err := Open(dir, r.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: board %q: %w", apperr.ErrAddressResolution, name, err)
	}
	return b, nil
}

func (r *Resolver) child(parent *Board, ref string) (*Board, error) {
	e, err := parent.Find(ref)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("%w: no item %q in %s", apperr.ErrAddressResolution, ref, parent.Dir)
	}
	if err != nil {
		return nil, err
	}
	if !e.IsBoard {
		return nil, fmt.Errorf("%w: item %q in %s is not a board", apperr.ErrAddressResolution, ref, parent.Dir)
	}
	r.logger.Debug("resolve: sub-board", slog.String("ref", ref), slog.String("dir", e.Path))
	return Open(e.Path, r.logger)
}
