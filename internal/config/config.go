// Package config loads rnav's TOML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/kk-code-lab/rnav/internal/commands"
	"github.com/kk-code-lab/rnav/internal/logging"
	"github.com/kk-code-lab/rnav/internal/source"
	"github.com/kk-code-lab/rnav/internal/state"
)

// FileName is the configuration file looked up in the user config directory.
const FileName = "config.toml"

const maxDebounceMS = 5000

// Config is the decoded configuration file.
type Config struct {
	ShowHidden        bool     `toml:"show_hidden"`
	AllowedExtensions []string `toml:"allowed_extensions,omitempty"`
	Mode              string   `toml:"mode"`
	DebounceMS        int      `toml:"debounce_ms"`
	CommandLimit      int      `toml:"command_limit"`
	DirectoryLimit    int      `toml:"directory_limit"`
	Watch             bool     `toml:"watch"`

	Security SecurityConfig  `toml:"security"`
	Log      LogConfig       `toml:"log"`
	Commands []CommandConfig `toml:"commands,omitempty"`
}

// SecurityConfig confines navigation. Empty roots allow any path.
type SecurityConfig struct {
	Roots []string `toml:"roots,omitempty"`
	Deny  []string `toml:"deny,omitempty"`
}

// LogConfig selects the log file and level.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// CommandConfig is a user-defined palette entry.
type CommandConfig struct {
	Name        string `toml:"name"`
	Description string `toml:"description,omitempty"`
	Action      string `toml:"action"`
	Arg         string `toml:"arg,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Mode:           state.ModeBoth.String(),
		DebounceMS:     int(state.DefaultQueryDebounce / time.Millisecond),
		CommandLimit:   state.DefaultCommandLimit,
		DirectoryLimit: state.DefaultDirectoryLimit,
		Watch:          true,
		Log:            LogConfig{Level: "info"},
	}
}

// DefaultPath returns the config path inside the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "rnav", FileName), nil
}

// Load reads path. An empty path selects DefaultPath, and a missing default
// file yields Default(); an explicitly named file must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML on top of the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("parse config at %d:%d: %w", row, col, err)
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode renders cfg as TOML.
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if _, err := state.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if c.DebounceMS < 0 || c.DebounceMS > maxDebounceMS {
		errs = append(errs, fmt.Errorf("debounce_ms must be between 0 and %d", maxDebounceMS))
	}
	if c.CommandLimit < 0 {
		errs = append(errs, errors.New("command_limit must not be negative"))
	}
	if c.DirectoryLimit < 0 {
		errs = append(errs, errors.New("directory_limit must not be negative"))
	}
	if _, err := source.NewExtensionFilter(c.AllowedExtensions); err != nil {
		errs = append(errs, fmt.Errorf("allowed_extensions: %w", err))
	}
	for _, pattern := range c.Security.Deny {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, fmt.Errorf("security.deny: invalid pattern %q", pattern))
		}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	seen := make(map[string]bool, len(c.Commands))
	for i, cmd := range c.Commands {
		if cmd.Name == "" {
			errs = append(errs, fmt.Errorf("commands[%d]: name is required", i))
			continue
		}
		if seen[cmd.Name] {
			errs = append(errs, fmt.Errorf("commands[%d]: duplicate name %q", i, cmd.Name))
		}
		seen[cmd.Name] = true
		if _, err := commands.ParseAction(cmd.Action); err != nil {
			errs = append(errs, fmt.Errorf("commands[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Debounce returns the query debounce interval.
func (c Config) Debounce() time.Duration {
	if c.DebounceMS <= 0 {
		return state.DefaultQueryDebounce
	}
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// SelectionMode returns the parsed mode; Validate has already vetted it.
func (c Config) SelectionMode() state.Mode {
	mode, _ := state.ParseMode(c.Mode)
	return mode
}

// RegisterCommands adds the configured commands to reg.
func (c Config) RegisterCommands(reg *commands.Registry) error {
	for _, cc := range c.Commands {
		action, err := commands.ParseAction(cc.Action)
		if err != nil {
			return err
		}
		if err := reg.Register(commands.Command{
			Name:        cc.Name,
			Description: cc.Description,
			Action:      action,
			Arg:         cc.Arg,
		}); err != nil {
			return err
		}
	}
	return nil
}
