// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/boards/internal/apperr"
	"github.com/starford/boards/internal/board"
	"github.com/starford/boards/internal/editor"
	"github.com/starford/boards/internal/render"
	"github.com/starford/boards/internal/trash"
	"github.com/starford/boards/internal/watch"
)

// Run resolves the board address, applies at most one operation and
// displays the board.
//
// Recoverable failures of the operation (unknown item, edge of board,
// invalid or duplicate name) are reported on stderr and the board is
// still shown. Any other error is returned without display.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{
		address: board.DefaultAddress,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := app.logger
	if logger == nil {
		// Structured JSON logs go to stderr; stdout carries the board.
		logger = slog.New(slog.NewJSONHandler(app.stderr, &slog.HandlerOptions{
			Level: cfg.LogLevel,
		}))
	}
	slog.SetDefault(logger)

	registry, err := cfg.Registry(app.configDir)
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}

	logger.Debug("Configuration loaded",
		slog.String("config_dir", app.configDir),
		slog.Int("boards", len(registry)),
		slog.String("address", app.address),
		slog.String("operation", app.op.Kind.String()),
		slog.String("log_level", cfg.LogLevel.String()))

	if app.created {
		if err := ensureDefaultBoard(registry, logger); err != nil {
			return err
		}
	}

	resolver := board.NewResolver(registry, app.workDir, logger)
	b, err := resolver.Resolve(app.address)
	if err != nil {
		return fmt.Errorf("resolve board: %w", err)
	}

	if err := app.apply(ctx, b, logger); err != nil {
		if !apperr.IsRecoverable(err) {
			return fmt.Errorf("%s: %w", app.op.Kind, err)
		}
		logger.Debug("Operation aborted",
			slog.String("operation", app.op.Kind.String()),
			slog.String("error", err.Error()))
		render.Problem(app.stderr, err)
	}

	if err := display(app, b.Dir, logger); err != nil {
		return err
	}

	if !app.watch {
		return nil
	}
	return app.watchBoard(ctx, b, logger)
}

// apply performs the requested operation against b.
func (app *application) apply(ctx context.Context, b *board.Board, logger *slog.Logger) error {
	arg := app.op.Arg
	switch app.op.Kind {
	case OpNone:
		return nil
	case OpCreate:
		_, err := b.Create(arg)
		return err
	case OpPromote:
		_, err := b.Promote(arg)
		return err
	case OpDemote:
		_, err := b.Demote(arg)
		return err
	case OpRemove:
		_, err := b.Remove(arg)
		return err
	case OpEdit:
		e, err := b.Find(arg)
		if err != nil {
			return err
		}
		ed := app.editor
		if ed == nil {
			ed = editor.New(app.config.Editor)
		}
		return ed.Edit(ctx, e.Path)
	case OpSubboard:
		t := app.trash
		if t == nil {
			home, err := trash.Home(logger)
			if err != nil {
				return err
			}
			t = home
		}
		_, err := b.PromoteToSubboard(arg, t)
		return err
	case OpInit:
		_, err := board.InitBoard(arg, logger)
		return err
	default:
		return fmt.Errorf("unknown operation %d", app.op.Kind)
	}
}

// display reopens the board so that descriptor edits and moves made by
// the operation are both reflected.
func display(app *application, dir string, logger *slog.Logger) error {
	b, err := board.Open(dir, logger)
	if err != nil {
		return err
	}
	listing, err := b.List()
	if err != nil {
		return err
	}
	return render.Board(app.stdout, listing, b.Config.Icons)
}

// watchBoard redisplays the board on every settled change until
// interrupted.
func (app *application) watchBoard(ctx context.Context, b *board.Board, logger *slog.Logger) error {
	g, gCtx := errgroup.WithContext(ctx)
	watchCtx, cancel := context.WithCancel(gCtx)
	defer cancel()

	g.Go(func() error {
		defer cancel()
		return watch.Watch(watchCtx, b.Dir, append(append([]string(nil), b.Config.Lanes...), b.Config.Bin),
			watch.DefaultDebounce, logger, func() error {
				return display(app, b.Dir, logger)
			})
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-watchCtx.Done():
		}
		cancel()
		return nil
	})

	return g.Wait()
}
