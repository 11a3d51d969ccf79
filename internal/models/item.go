// Package models defines the domain types for boards.
package models

// Item is a task on a board, identified by its stem.
type Item struct {
	Stem string `json:"stem"`
	Ext  string `json:"ext,omitempty"` // includes the leading dot
}

// Name returns the directory entry name of the item.
func (i Item) Name() string {
	return i.Stem + i.Ext
}

// Entry is an item as found on disk at listing time.
type Entry struct {
	Item
	ID        int    `json:"id,omitempty"` // display id; 0 for entries outside the active lanes
	Lane      string `json:"lane"`
	LaneIndex int    `json:"lane_index"` // -1 when the entry sits in the bin
	Path      string `json:"path"`
	IsBoard   bool   `json:"is_board"`
}

// Archived reports whether the entry lives in the bin lane.
func (e Entry) Archived() bool {
	return e.LaneIndex < 0
}

// Listing is a board's active items grouped by lane, in lane order.
type Listing struct {
	Lanes   []string           `json:"lanes"`
	Entries map[string][]Entry `json:"entries"`
}

// All returns every entry in display-id order.
func (l Listing) All() []Entry {
	var out []Entry
	for _, lane := range l.Lanes {
		out = append(out, l.Entries[lane]...)
	}
	return out
}

// ByID returns the entry carrying the given display id.
func (l Listing) ByID(id int) (Entry, bool) {
	if id < 1 {
		return Entry{}, false
	}
	n := id
	for _, lane := range l.Lanes {
		entries := l.Entries[lane]
		if n <= len(entries) {
			return entries[n-1], true
		}
		n -= len(entries)
	}
	return Entry{}, false
}

// Len returns the number of active items.
func (l Listing) Len() int {
	n := 0
	for _, lane := range l.Lanes {
		n += len(l.Entries[lane])
	}
	return n
}
