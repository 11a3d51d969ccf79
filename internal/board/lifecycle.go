package board

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/boards/internal/apperr"
	"github.com/starford/boards/internal/models"
	"github.com/starford/boards/internal/storage"
)

// ItemExt is the extension given to items created by Create.
const ItemExt = ".md"

// Trasher disposes of a path recoverably.
type Trasher interface {
	Trash(path string) error
}

// Create adds a new item to the entry lane.
func (b *Board) Create(name string) (models.Entry, error) {
	if err := validItemName(name); err != nil {
		return models.Entry{}, err
	}
	if existing, err := b.Find(name); err == nil {
		return models.Entry{}, fmt.Errorf("%w: %q is in %s", apperr.ErrAlreadyExists, name, existing.Lane)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return models.Entry{}, err
	}

	lane := b.Config.Lanes[0]
	item := models.Item{Stem: name, Ext: ItemExt}
	rel := filepath.Join(lane, item.Name())
	if err := b.store.Create(rel, itemTemplate(name)); err != nil {
		return models.Entry{}, err
	}
	b.logger.Debug("board: item created", slog.String("path", rel))
	return models.Entry{
		Item:      item,
		Lane:      lane,
		LaneIndex: 0,
		Path:      filepath.Join(b.Dir, rel),
	}, nil
}

// Move shifts the item named by ref offset lanes along the lane order.
// Targets outside the board are rejected; nothing wraps or clamps.
func (b *Board) Move(ref string, offset int) (models.Entry, error) {
	e, err := b.Find(ref)
	if err != nil {
		return models.Entry{}, err
	}
	if e.Archived() {
		return models.Entry{}, fmt.Errorf("%w: %q is in %s", apperr.ErrLaneBoundary, e.Stem, e.Lane)
	}
	target := e.LaneIndex + offset
	if target < 0 || target >= len(b.Config.Lanes) {
		return models.Entry{}, fmt.Errorf("%w: cannot move %q past %s", apperr.ErrLaneBoundary, e.Stem, e.Lane)
	}
	if offset == 0 {
		return e, nil
	}
	return b.relocate(e, b.Config.Lanes[target], target)
}

// Promote moves an item one lane forward.
func (b *Board) Promote(ref string) (models.Entry, error) {
	return b.Move(ref, 1)
}

// Demote moves an item one lane back.
func (b *Board) Demote(ref string) (models.Entry, error) {
	return b.Move(ref, -1)
}

// Remove moves an item into the bin lane. Items already in the bin stay
// where they are.
func (b *Board) Remove(ref string) (models.Entry, error) {
	e, err := b.Find(ref)
	if err != nil {
		return models.Entry{}, err
	}
	if e.Lane == b.Config.Bin {
		b.logger.Debug("board: item already in bin", slog.String("path", e.Path))
		return e, nil
	}
	return b.relocate(e, b.Config.Bin, b.Config.LaneIndex(b.Config.Bin))
}

// PromoteToSubboard replaces an item file with a board of the same stem.
// The file goes to the trash first; its content is not carried over.
func (b *Board) PromoteToSubboard(ref string, trash Trasher) (*Board, error) {
	e, err := b.Find(ref)
	if err != nil {
		return nil, err
	}
	if e.IsBoard {
		return nil, fmt.Errorf("%w: %q is already a board", apperr.ErrAlreadyExists, e.Stem)
	}
	info, err := os.Lstat(e.Path)
	if err != nil {
		return nil, fmt.Errorf("board: stat %s: %w", e.Path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %q is a directory", apperr.ErrAlreadyExists, e.Stem)
	}
	if err := trash.Trash(e.Path); err != nil {
		return nil, fmt.Errorf("board: trash %s: %w", e.Path, err)
	}
	b.logger.Debug("board: item trashed", slog.String("path", e.Path))
	return InitBoard(filepath.Join(b.Dir, e.Lane, e.Stem), b.logger)
}

// InitBoard creates a board at location with the default descriptor and
// its lane directories. location must not exist yet; missing parents are
// created.
func InitBoard(location string, logger *slog.Logger) (*Board, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return nil, fmt.Errorf("board: resolve %s: %w", location, err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("board: mkdir parent: %w", err)
	}
	if err := os.Mkdir(abs, 0o755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("board: init: %w", &apperr.CollisionError{Path: abs})
		}
		return nil, fmt.Errorf("board: init %s: %w", abs, err)
	}

	store, err := storage.NewFS(abs)
	if err != nil {
		return nil, err
	}
	cfg := NewDefaultConfig()
	data, err := cfg.Encode()
	if err != nil {
		return nil, err
	}
	if err := store.Create(ConfigFile, data); err != nil {
		return nil, err
	}
	for _, lane := range append(append([]string(nil), cfg.Lanes...), cfg.Bin) {
		if err := store.Mkdir(lane); err != nil {
			return nil, err
		}
	}
	logger.Debug("board: initialised", slog.String("dir", abs))
	return &Board{Dir: abs, Config: cfg, store: store, logger: logger}, nil
}

// relocate moves e into lane, keeping its name.
func (b *Board) relocate(e models.Entry, lane string, index int) (models.Entry, error) {
	from := filepath.Join(e.Lane, e.Name())
	to := filepath.Join(lane, e.Name())
	if err := b.store.Move(from, to); err != nil {
		return models.Entry{}, err
	}
	b.logger.Debug("board: item moved", slog.String("from", from), slog.String("to", to))
	e.Lane = lane
	e.LaneIndex = index
	e.ID = 0
	e.Path = filepath.Join(b.Dir, to)
	return e, nil
}

func validItemName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is blank", apperr.ErrInvalidName)
	case isNumeric(name):
		return fmt.Errorf("%w: %q is numeric and would shadow a display id", apperr.ErrInvalidName, name)
	case strings.Contains(name, "."):
		// Dots separate segments of a board address.
		return fmt.Errorf("%w: %q contains a dot", apperr.ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", apperr.ErrInvalidName, name)
	}
	return nil
}

func itemTemplate(name string) []byte {
	return []byte("# " + name + "\n")
}
