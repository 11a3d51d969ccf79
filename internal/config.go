package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/boards/internal/board"
)

// ConfigFileName is the registry file inside the user config directory.
const ConfigFileName = "config.yaml"

// Config is the user-level registry: which boards exist and how to edit
// their items.
type Config struct {
	// Boards maps short board names to board root directories.
	Boards map[string]string `yaml:"boards"`
	// Editor is the command used to open item files.
	Editor   string     `yaml:"editor,omitempty"`
	LogLevel slog.Level `yaml:"log_level"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Boards, validation.Required, validation.Each(validation.Required)),
	); err != nil {
		return err
	}
	for name := range c.Boards {
		if name == "" || strings.Contains(name, ".") {
			return fmt.Errorf("boards: name %q must be non-empty and contain no dots", name)
		}
	}
	return nil
}

// Registry returns the board registry with paths made absolute. A leading
// "~" is the home directory; other relative paths are taken relative to
// baseDir, the directory holding the registry file.
func (c *Config) Registry(baseDir string) (board.Registry, error) {
	reg := make(board.Registry, len(c.Boards))
	for name, dir := range c.Boards {
		abs, err := expandPath(dir, baseDir)
		if err != nil {
			return nil, fmt.Errorf("board %q: %w", name, err)
		}
		reg[name] = abs
	}
	return reg, nil
}

func expandPath(p, baseDir string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(baseDir, p)
	}
	return filepath.Clean(p), nil
}

// DefaultConfigDir returns the per-user directory for the registry and
// the first-run board.
func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "boards"), nil
}

// DefaultConfigPath returns the registry file location.
func DefaultConfigPath() string {
	dir, err := DefaultConfigDir()
	if err != nil {
		return ConfigFileName
	}
	return filepath.Join(dir, ConfigFileName)
}

// NewConfig returns an empty registry carrying the defaults for keys a
// registry file may omit. Decode into it rather than into a zero Config.
func NewConfig() *Config {
	return &Config{LogLevel: slog.LevelWarn}
}

// NewDefaultConfig returns the first-run registry: a single default board
// stored next to the registry file.
func NewDefaultConfig(configDir string) *Config {
	cfg := NewConfig()
	cfg.Boards = map[string]string{
		board.DefaultAddress: filepath.Join(configDir, board.DefaultAddress),
	}
	return cfg
}

// ensureDefaultBoard initialises the default board of a freshly created
// registry when its directory is missing.
func ensureDefaultBoard(reg board.Registry, logger *slog.Logger) error {
	dir, ok := reg.Lookup(board.DefaultAddress)
	if !ok {
		return nil
	}
	if _, err := os.Stat(dir); !errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if _, err := board.InitBoard(dir, logger); err != nil {
		return fmt.Errorf("init default board: %w", err)
	}
	logger.Info("Created default board", slog.String("dir", dir))
	return nil
}
