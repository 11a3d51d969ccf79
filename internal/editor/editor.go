// Package editor opens item files in the user's text editor.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Fallback is used when neither the registry nor the environment names an
// editor.
const Fallback = "vi"

// Launcher runs an editor command attached to the given streams.
type Launcher struct {
	command string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// New returns a launcher for command. An empty command falls back to
// $VISUAL, then $EDITOR, then vi. The command may carry arguments, e.g.
// "code --wait".
func New(command string) *Launcher {
	return &Launcher{
		command: Command(command),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
}

// Command resolves the editor command line to use.
func Command(configured string) string {
	for _, c := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return Fallback
}

// WithStreams overrides the streams the editor is attached to.
func (l *Launcher) WithStreams(stdin io.Reader, stdout, stderr io.Writer) *Launcher {
	l.stdin, l.stdout, l.stderr = stdin, stdout, stderr
	return l
}

// Edit opens path and waits for the editor to exit.
func (l *Launcher) Edit(ctx context.Context, path string) error {
	args := strings.Fields(l.command)
	if len(args) == 0 {
		return errors.New("editor: empty command")
	}
	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = l.stdin, l.stdout, l.stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor: %s: %w", args[0], err)
	}
	return nil
}
