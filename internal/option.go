package internal

import (
	"context"
	"io"
	"log/slog"

	"github.com/starford/boards/internal/board"
)

// OpKind names the mutating operation of an invocation.
type OpKind int

const (
	OpNone OpKind = iota
	OpCreate
	OpEdit
	OpPromote
	OpDemote
	OpRemove
	OpSubboard
	OpInit
)

func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "create"
	case OpEdit:
		return "edit"
	case OpPromote:
		return "promote"
	case OpDemote:
		return "demote"
	case OpRemove:
		return "remove"
	case OpSubboard:
		return "subboard"
	case OpInit:
		return "init"
	default:
		return "none"
	}
}

// Operation is the single mutation requested for an invocation. Arg is an
// item name, an item reference or a path, depending on Kind.
type Operation struct {
	Kind OpKind
	Arg  string
}

// Editor opens a file for editing and waits for it to be closed.
type Editor interface {
	Edit(ctx context.Context, path string) error
}

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	configDir string
	created   bool
	workDir   string
	address   string
	op        Operation
	watch     bool
	stdout    io.Writer
	stderr    io.Writer
	logger    *slog.Logger
	trash     board.Trasher
	editor    Editor
}

// WithConfig sets the user registry. dir is the directory the registry
// was loaded from; relative board paths are resolved against it.
func WithConfig(cfg *Config, dir string) Option {
	return func(a *application) {
		a.config = cfg
		a.configDir = dir
	}
}

// WithFirstRun marks the registry as just created, so that its default
// board is initialised if missing.
func WithFirstRun(created bool) Option {
	return func(a *application) {
		a.created = created
	}
}

// WithWorkDir sets the directory checked for a board before the registry
// when the address is "default".
func WithWorkDir(dir string) Option {
	return func(a *application) {
		a.workDir = dir
	}
}

// WithAddress sets the dotted board address.
func WithAddress(address string) Option {
	return func(a *application) {
		a.address = address
	}
}

// WithOperation sets the mutation to perform before displaying the board.
func WithOperation(op Operation) Option {
	return func(a *application) {
		a.op = op
	}
}

// WithWatch keeps redisplaying the board as its lanes change.
func WithWatch(watch bool) Option {
	return func(a *application) {
		a.watch = watch
	}
}

// WithOutput sets the streams for the board and for user-facing messages.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *application) {
		a.stdout = stdout
		a.stderr = stderr
	}
}

// WithLogger replaces the JSON logger built from the registry log level.
func WithLogger(logger *slog.Logger) Option {
	return func(a *application) {
		a.logger = logger
	}
}

// WithTrash sets where sub-board promotion sends the replaced file.
func WithTrash(t board.Trasher) Option {
	return func(a *application) {
		a.trash = t
	}
}

// WithEditor sets the editor used by OpEdit.
func WithEditor(e Editor) Option {
	return func(a *application) {
		a.editor = e
	}
}
