package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/boards/internal"
	"github.com/starford/boards/internal/board"
	pkgconfig "github.com/starford/boards/pkg/config"
)

// operationFlags maps each mutating flag to its operation, in the order
// they are listed in help output.
var operationFlags = []struct {
	name  string
	usage string
	kind  internal.OpKind
}{
	{"create", "Create item `NAME` in the first lane", internal.OpCreate},
	{"edit", "Open item `REF` in the editor", internal.OpEdit},
	{"promote", "Move item `REF` one lane forward", internal.OpPromote},
	{"demote", "Move item `REF` one lane back", internal.OpDemote},
	{"remove", "Move item `REF` to the bin lane", internal.OpRemove},
	{"subboard", "Turn item `REF` into a sub-board (its file goes to the trash)", internal.OpSubboard},
	{"init", "Initialise a new board at `PATH`", internal.OpInit},
}

func operationCLIFlags() []cli.Flag {
	flags := make([]cli.Flag, 0, len(operationFlags))
	for _, f := range operationFlags {
		flags = append(flags, &cli.StringFlag{Name: f.name, Usage: f.usage})
	}
	return flags
}

func operation(cmd *cli.Command) (internal.Operation, error) {
	var op internal.Operation
	for _, f := range operationFlags {
		if !cmd.IsSet(f.name) {
			continue
		}
		if op.Kind != internal.OpNone {
			return op, fmt.Errorf("only one of --%s and --%s may be given", op.Kind, f.name)
		}
		op = internal.Operation{Kind: f.kind, Arg: cmd.String(f.name)}
	}
	return op, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	op, err := operation(cmd)
	if err != nil {
		return err
	}

	cfg := internal.NewConfig()
	created, err := pkgconfig.LoadOrCreate(configPath, cfg, func() *internal.Config {
		return internal.NewDefaultConfig(filepath.Dir(configPath))
	})
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	address := board.DefaultAddress
	if cmd.Args().Len() > 0 {
		address = cmd.Args().First()
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}

	opts := []internal.Option{
		internal.WithConfig(cfg, filepath.Dir(configPath)),
		internal.WithFirstRun(created),
		internal.WithWorkDir(workDir),
		internal.WithAddress(address),
		internal.WithOperation(op),
		internal.WithWatch(cmd.Bool("watch")),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("boards: %w", err)
	}

	return nil
}

func main() {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the board registry",
			DefaultText: "<user config dir>/boards/config.yaml",
			Value:       internal.DefaultConfigPath(),
			Sources:     cli.EnvVars("BOARDS_CONFIG_FILE"),
		},
		&cli.BoolFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "Redisplay the board whenever its lanes change",
		},
	}
	flags = append(flags, operationCLIFlags()...)

	cmd := &cli.Command{
		Name:      "boards",
		Usage:     "Task boards kept as directories of files",
		ArgsUsage: "[board[.subboard...]]",
		Action:    run,
		Flags:     flags,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
