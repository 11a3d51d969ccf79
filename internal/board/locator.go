package board

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/starford/boards/internal/apperr"
	"github.com/starford/boards/internal/models"
)

// List returns the active lanes and their items. Display ids count from 1
// across lanes in lane order, and within a lane in the order the
// directory yields its entries. Ids are recomputed on every call.
func (b *Board) List() (models.Listing, error) {
	listing := models.Listing{
		Lanes:   append([]string(nil), b.Config.Lanes...),
		Entries: make(map[string][]models.Entry, len(b.Config.Lanes)),
	}
	id := 1
	for i, lane := range b.Config.Lanes {
		entries, err := b.laneEntries(lane, i)
		if err != nil {
			return models.Listing{}, err
		}
		for j := range entries {
			entries[j].ID = id
			id++
		}
		listing.Entries[lane] = entries
	}
	return listing, nil
}

// Find resolves ref to the item it names. A purely numeric ref is first
// read as a display id; out-of-range ids are looked up as literal names.
// Active lanes are searched in lane order and the first match wins. The
// bin is searched last, so removed items stay addressable by name.
func (b *Board) Find(ref string) (models.Entry, error) {
	listing, err := b.List()
	if err != nil {
		return models.Entry{}, err
	}

	stem := ref
	if isNumeric(ref) {
		id, _ := strconv.Atoi(ref)
		if e, ok := listing.ByID(id); ok {
			b.logger.Debug("board: display id resolved",
				slog.Int("id", id), slog.String("stem", e.Stem))
			return e, nil
		}
		b.logger.Debug("board: display id out of range, using literal name", slog.String("ref", ref))
	}

	for _, e := range listing.All() {
		if e.Stem == stem {
			return e, nil
		}
	}

	if !b.Config.BinIsLane() {
		archived, err := b.laneEntries(b.Config.Bin, -1)
		if err != nil {
			return models.Entry{}, err
		}
		for _, e := range archived {
			if e.Stem == stem {
				return e, nil
			}
		}
	}

	return models.Entry{}, fmt.Errorf("%w: %q in board %s", apperr.ErrNotFound, ref, b.Dir)
}

// laneEntries reads one lane directory into entries without ids.
func (b *Board) laneEntries(lane string, index int) ([]models.Entry, error) {
	dirEntries, err := b.store.ReadDir(lane)
	if err != nil {
		return nil, fmt.Errorf("board: list lane %s: %w", lane, err)
	}
	out := make([]models.Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		e, err := b.entry(lane, index, de)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (b *Board) entry(lane string, index int, de fs.DirEntry) (models.Entry, error) {
	name := de.Name()
	item := models.Item{Stem: name}
	if !de.IsDir() {
		item = splitName(name)
	}
	path := filepath.Join(b.Dir, lane, name)
	isBoard := false
	if de.IsDir() {
		var err error
		if isBoard, err = IsBoardDir(path); err != nil {
			return models.Entry{}, fmt.Errorf("board: inspect %s: %w", filepath.Join(lane, name), err)
		}
	}
	return models.Entry{
		Item:      item,
		Lane:      lane,
		LaneIndex: index,
		Path:      path,
		IsBoard:   isBoard,
	}, nil
}

// splitName separates the final extension from a file name.
func splitName(name string) models.Item {
	ext := filepath.Ext(name)
	if ext == name {
		ext = ""
	}
	return models.Item{Stem: strings.TrimSuffix(name, ext), Ext: ext}
}

// isNumeric reports whether s is a non-empty run of ASCII digits.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
