package board

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/starford/boards/internal/apperr"
)

func TestResolve_RegistryName(t *testing.T) {
	work := newTestBoard(t)
	r := NewResolver(Registry{"work": work.Dir}, "", testLogger())

	b, err := r.Resolve("work")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if b.Dir != work.Dir {
		t.Errorf("dir = %s, want %s", b.Dir, work.Dir)
	}
}

func TestResolve_UnknownBoard(t *testing.T) {
	r := NewResolver(Registry{}, "", testLogger())
	_, err := r.Resolve("nope")
	if !errors.Is(err, apperr.ErrUnknownBoard) {
		t.Fatalf("err = %v, want ErrUnknownBoard", err)
	}
	if apperr.IsRecoverable(err) {
		t.Error("unknown board must abort the command")
	}
}

func TestResolve_SubBoard(t *testing.T) {
	work := newTestBoard(t)
	if _, err := work.Create("sprint1"); err != nil {
		t.Fatal(err)
	}
	sub, err := work.PromoteToSubboard("sprint1", &recordingTrash{dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sub.Create("story"); err != nil {
		t.Fatal(err)
	}
	grand, err := sub.PromoteToSubboard("story", &recordingTrash{dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}

	r := NewResolver(Registry{"work": work.Dir}, "", testLogger())

	b, err := r.Resolve("work.sprint1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if b.Dir != sub.Dir {
		t.Errorf("dir = %s, want %s", b.Dir, sub.Dir)
	}

	b, err = r.Resolve("work.sprint1.story")
	if err != nil {
		t.Fatalf("Resolve nested: %v", err)
	}
	if b.Dir != grand.Dir {
		t.Errorf("nested dir = %s, want %s", b.Dir, grand.Dir)
	}

	// Segments accept display ids too: sprint1 is the only item on work.
	b, err = r.Resolve("work.1")
	if err != nil {
		t.Fatalf("Resolve by id: %v", err)
	}
	if b.Dir != sub.Dir {
		t.Errorf("id dir = %s", b.Dir)
	}
}

func TestResolve_MissingSegment(t *testing.T) {
	work := newTestBoard(t)
	r := NewResolver(Registry{"work": work.Dir}, "", testLogger())

	_, err := r.Resolve("work.sprint1")
	if !errors.Is(err, apperr.ErrAddressResolution) {
		t.Fatalf("err = %v, want ErrAddressResolution", err)
	}
}

func TestResolve_SegmentNotABoard(t *testing.T) {
	work := newTestBoard(t)
	if _, err := work.Create("plain"); err != nil {
		t.Fatal(err)
	}
	r := NewResolver(Registry{"work": work.Dir}, "", testLogger())

	_, err := r.Resolve("work.plain")
	if !errors.Is(err, apperr.ErrAddressResolution) {
		t.Fatalf("err = %v, want ErrAddressResolution", err)
	}
}

func TestResolve_EmptySegment(t *testing.T) {
	r := NewResolver(Registry{"work": t.TempDir()}, "", testLogger())
	for _, addr := range []string{"", "work.", ".work", "work..x"} {
		if _, err := r.Resolve(addr); !errors.Is(err, apperr.ErrAddressResolution) {
			t.Errorf("Resolve(%q) err = %v", addr, err)
		}
	}
}

func TestResolve_DefaultUsesWorkingDirectory(t *testing.T) {
	cwd := newTestBoard(t)
	registered := newTestBoard(t)
	r := NewResolver(Registry{DefaultAddress: registered.Dir}, cwd.Dir, testLogger())

	b, err := r.Resolve(DefaultAddress)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if b.Dir != cwd.Dir {
		t.Errorf("dir = %s, want working directory %s", b.Dir, cwd.Dir)
	}

	// Without a descriptor in the working directory the registry applies.
	r = NewResolver(Registry{DefaultAddress: registered.Dir}, filepath.Dir(cwd.Dir), testLogger())
	b, err = r.Resolve(DefaultAddress)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if b.Dir != registered.Dir {
		t.Errorf("dir = %s, want registered %s", b.Dir, registered.Dir)
	}
}
