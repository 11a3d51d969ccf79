package board

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ConfigFile is the descriptor file present in every board directory.
const ConfigFile = "board.toml"

// Defaults written by InitBoard.
var (
	DefaultLanes = []string{"todo", "doing", "done"}
	DefaultBin   = "archive"
)

// Config is the parsed board descriptor.
type Config struct {
	// Lanes is ordered: index 0 is the entry lane, the last index the
	// terminal lane. Moves only ever step along this order.
	Lanes []string `toml:"lanes"`
	// Bin is the lane that removed items are moved into.
	Bin string `toml:"bin"`
	// Icons maps a lane name to the glyph shown in its header.
	Icons map[string]string `toml:"icons,omitempty"`
}

// NewDefaultConfig returns the descriptor used for new boards.
func NewDefaultConfig() *Config {
	return &Config{
		Lanes: append([]string(nil), DefaultLanes...),
		Bin:   DefaultBin,
	}
}

// Validate validates the board configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Lanes, validation.Required, validation.Each(validation.By(laneName))),
		validation.Field(&c.Bin, validation.Required, validation.By(laneName)),
	); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(c.Lanes))
	for _, lane := range c.Lanes {
		if _, dup := seen[lane]; dup {
			return fmt.Errorf("lanes: duplicate lane %q", lane)
		}
		seen[lane] = struct{}{}
	}
	return nil
}

// LaneIndex returns the position of lane in Lanes, or -1.
func (c *Config) LaneIndex(lane string) int {
	for i, l := range c.Lanes {
		if l == lane {
			return i
		}
	}
	return -1
}

// BinIsLane reports whether the bin is also one of the active lanes.
func (c *Config) BinIsLane() bool {
	return c.LaneIndex(c.Bin) >= 0
}

// laneName accepts names usable as a single directory component.
func laneName(value any) error {
	s, _ := value.(string)
	switch {
	case s == "":
		return errors.New("cannot be blank")
	case strings.HasPrefix(s, "."):
		return errors.New("must not start with a dot")
	case strings.ContainsAny(s, `/\`) || filepath.Base(s) != s:
		return errors.New("must be a single path component")
	}
	return nil
}

// LoadConfig reads and validates the board descriptor in dir. Keys the
// descriptor does not define are logged and ignored.
func LoadConfig(dir string, logger *slog.Logger) (*Config, error) {
	path := filepath.Join(dir, ConfigFile)
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("board: read %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logger.Warn("board: unknown keys in descriptor",
			slog.String("path", path),
			slog.String("keys", strings.Join(keys, ",")))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("board: invalid %s: %w", path, err)
	}
	return &cfg, nil
}

// Encode renders the descriptor as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("board: encode descriptor: %w", err)
	}
	return buf.Bytes(), nil
}
