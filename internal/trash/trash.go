// Package trash moves files into the freedesktop.org trash can so that
// they can be restored with the desktop's file manager.
package trash

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// dateLayout is the DeletionDate format of .trashinfo files.
const dateLayout = "2006-01-02T15:04:05"

// maxAttempts bounds the search for a free name in files/.
const maxAttempts = 1000

// XDG is a home trash directory ($XDG_DATA_HOME/Trash).
type XDG struct {
	dir    string
	now    func() time.Time
	logger *slog.Logger
}

// New returns the trash rooted at dir. Use Home for the user's trash.
func New(dir string, logger *slog.Logger) *XDG {
	if logger == nil {
		logger = slog.Default()
	}
	return &XDG{dir: dir, now: time.Now, logger: logger}
}

// Home returns the current user's home trash.
func Home(logger *slog.Logger) (*XDG, error) {
	dir, err := HomeDir()
	if err != nil {
		return nil, err
	}
	return New(dir, logger), nil
}

// HomeDir returns $XDG_DATA_HOME/Trash, defaulting to ~/.local/share/Trash.
func HomeDir() (string, error) {
	if data := os.Getenv("XDG_DATA_HOME"); data != "" {
		return filepath.Join(data, "Trash"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("trash: home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "Trash"), nil
}

// Dir returns the trash root.
func (x *XDG) Dir() string {
	return x.dir
}

// Trash moves path into the trash and records where it came from.
//
// The .trashinfo file is created exclusively before the move and is the
// reservation for the name; it is removed again if the move fails.
func (x *XDG) Trash(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("trash: resolve %s: %w", path, err)
	}
	if _, err := os.Lstat(abs); err != nil {
		return fmt.Errorf("trash: %w", err)
	}

	filesDir := filepath.Join(x.dir, "files")
	infoDir := filepath.Join(x.dir, "info")
	for _, d := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return fmt.Errorf("trash: mkdir %s: %w", d, err)
		}
	}

	name, infoPath, err := x.reserve(filesDir, infoDir, filepath.Base(abs), abs)
	if err != nil {
		return err
	}
	dest := filepath.Join(filesDir, name)
	if err := move(abs, dest); err != nil {
		_ = os.Remove(infoPath)
		return fmt.Errorf("trash: move %s: %w", abs, err)
	}
	x.logger.Debug("trash: moved", slog.String("from", abs), slog.String("to", dest))
	return nil
}

// reserve writes the info file under the first name derived from base
// that is free in both files/ and info/.
func (x *XDG) reserve(filesDir, infoDir, base, original string) (string, string, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	body := infoBody(original, x.now())

	for i := 0; i < maxAttempts; i++ {
		name := base
		if i > 0 {
			name = stem + "." + strconv.Itoa(i) + ext
		}
		if _, err := os.Lstat(filepath.Join(filesDir, name)); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", "", fmt.Errorf("trash: stat %s: %w", name, err)
		}
		infoPath := filepath.Join(infoDir, name+".trashinfo")
		f, err := os.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", "", fmt.Errorf("trash: create info: %w", err)
		}
		if _, err := f.WriteString(body); err != nil {
			_ = f.Close()
			_ = os.Remove(infoPath)
			return "", "", fmt.Errorf("trash: write info: %w", err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(infoPath)
			return "", "", fmt.Errorf("trash: close info: %w", err)
		}
		return name, infoPath, nil
	}
	return "", "", fmt.Errorf("trash: no free name for %s", base)
}

func infoBody(original string, at time.Time) string {
	u := url.URL{Path: filepath.ToSlash(original)}
	return "[Trash Info]\nPath=" + u.EscapedPath() + "\nDeletionDate=" + at.Format(dateLayout) + "\n"
}

// move renames src to dest, copying regular files when the trash lives on
// another filesystem.
func move(src, dest string) error {
	err := os.Rename(src, dest)
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	info, statErr := os.Lstat(src)
	if statErr != nil {
		return statErr
	}
	if !info.Mode().IsRegular() {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return err
	}
	return os.Remove(src)
}
