package board

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/starford/boards/internal/apperr"
)

func TestList_IDsFollowLaneOrder(t *testing.T) {
	b := newTestBoard(t)
	touch(t, b, "done", "c.md")
	touch(t, b, "todo", "a.md")
	touch(t, b, "doing", "b.txt")

	listing, err := b.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	all := listing.All()
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	want := []string{"a", "b", "c"}
	for i, e := range all {
		if e.ID != i+1 {
			t.Errorf("entry %d id = %d", i, e.ID)
		}
		if e.Stem != want[i] {
			t.Errorf("entry %d stem = %q, want %q", i, e.Stem, want[i])
		}
	}
	if all[1].Ext != ".txt" {
		t.Errorf("ext = %q", all[1].Ext)
	}
}

func TestList_Repeatable(t *testing.T) {
	b := newTestBoard(t)
	for i := 0; i < 6; i++ {
		touch(t, b, "todo", "item"+strconv.Itoa(i)+".md")
	}
	first, _ := b.List()
	second, _ := b.List()
	a, c := first.All(), second.All()
	for i := range a {
		if a[i].Stem != c[i].Stem || a[i].ID != c[i].ID {
			t.Fatalf("listing changed between calls at %d: %v vs %v", i, a[i], c[i])
		}
	}
}

func TestFind_ByName(t *testing.T) {
	b := newTestBoard(t)
	touch(t, b, "doing", "task.md")
	e, err := b.Find("task")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if e.Path != filepath.Join(b.Dir, "doing", "task.md") {
		t.Errorf("path = %s", e.Path)
	}
	if e.LaneIndex != 1 {
		t.Errorf("lane index = %d", e.LaneIndex)
	}
}

func TestFind_ByDisplayID(t *testing.T) {
	b := newTestBoard(t)
	touch(t, b, "todo", "first.md")
	touch(t, b, "done", "second.md")

	e, err := b.Find("2")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if e.Stem != "second" {
		t.Errorf("stem = %q, want second", e.Stem)
	}
}

func TestFind_OutOfRangeIDFallsBackToLiteral(t *testing.T) {
	b := newTestBoard(t)
	touch(t, b, "todo", "only.md")
	touch(t, b, "todo", "42.md")

	// Two items on the board, so id 42 is out of range and the literal
	// file named 42 is found instead.
	e, err := b.Find("42")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if e.Name() != "42.md" {
		t.Errorf("name = %q", e.Name())
	}

	if _, err := b.Find("7"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFind_NotFoundIsRecoverable(t *testing.T) {
	b := newTestBoard(t)
	_, err := b.Find("ghost")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if !apperr.IsRecoverable(err) {
		t.Error("not found should be recoverable")
	}
}

func TestFind_FirstLaneWinsOnDuplicates(t *testing.T) {
	b := newTestBoard(t)
	touch(t, b, "done", "dup.md")
	touch(t, b, "todo", "dup.md")
	for i := 0; i < 3; i++ {
		e, err := b.Find("dup")
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		if e.Lane != "todo" {
			t.Errorf("lane = %s, want todo", e.Lane)
		}
	}
}

func TestFind_ArchivedItem(t *testing.T) {
	b := newTestBoard(t)
	touch(t, b, "archive", "old.md")

	listing, _ := b.List()
	if listing.Len() != 0 {
		t.Errorf("archived items must not be listed, got %d", listing.Len())
	}
	e, err := b.Find("old")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !e.Archived() || e.ID != 0 {
		t.Errorf("entry = %+v", e)
	}
}

func TestFind_SkipsHiddenEntries(t *testing.T) {
	b := newTestBoard(t)
	touch(t, b, "todo", ".hidden.md")
	if _, err := b.Find(".hidden"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestList_UnreadableSubdirIsAnError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	b := newTestBoard(t)
	touch(t, b, "todo", "a.md")
	sub := filepath.Join(b.Dir, "doing", "locked")
	if err := os.Mkdir(sub, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(sub, 0o755) })

	if _, err := b.List(); err == nil {
		t.Fatal("List should report the unreadable directory")
	}
	_, err := b.Find("a")
	if err == nil || errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Find err = %v, want a non-NotFound error", err)
	}
}

func TestSplitName(t *testing.T) {
	cases := map[string][2]string{
		"note.md":     {"note", ".md"},
		"a.b.md":      {"a.b", ".md"},
		"noext":       {"noext", ""},
		"archive.tar": {"archive", ".tar"},
	}
	for in, want := range cases {
		got := splitName(in)
		if got.Stem != want[0] || got.Ext != want[1] {
			t.Errorf("splitName(%q) = %+v, want %v", in, got, want)
		}
	}
}
