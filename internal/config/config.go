// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// UI modes.
const (
	UIAuto  = "auto"
	UIPlain = "plain"
	UITUI   = "tui"
)

// Config holds all addressbook configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
	UI      UI      `yaml:"ui"`
	Log     Log     `yaml:"log"`
}

// Storage holds storage file settings.
type Storage struct {
	DefaultFile string      `yaml:"default_file"` // Used when no path is given on the command line.
	FileMode    fs.FileMode `yaml:"file_mode"`
}

// UI holds presentation settings.
type UI struct {
	Mode         string `yaml:"mode"` // "auto" | "plain" | "tui"
	LinePrefix   string `yaml:"line_prefix"`
	Divider      string `yaml:"divider"`
	EchoCommands bool   `yaml:"echo_commands"`
}

// Log holds diagnostic logging settings.
type Log struct {
	Level string `yaml:"level"` // "debug" | "info" | "warn" | "error"
	File  string `yaml:"file"`  // Empty means stderr.
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: Storage{
			DefaultFile: "addressbook.txt",
			FileMode:    0o644,
		},
		UI: UI{
			Mode:         UIAuto,
			LinePrefix:   "|| ",
			Divider:      strings.Repeat("=", 51),
			EchoCommands: true,
		},
		Log: Log{
			Level: "warn",
		},
	}
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files and empty paths are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Storage.DefaultFile == "" {
		return errors.New("config: storage.default_file cannot be empty")
	}
	if !strings.HasSuffix(c.Storage.DefaultFile, ".txt") {
		return fmt.Errorf("config: storage.default_file must end in .txt, got %q", c.Storage.DefaultFile)
	}
	if c.Storage.FileMode&^fs.ModePerm != 0 {
		return fmt.Errorf("config: storage.file_mode must only hold permission bits, got %o", c.Storage.FileMode)
	}
	switch c.UI.Mode {
	case UIAuto, UIPlain, UITUI:
		// valid
	default:
		return fmt.Errorf("config: ui.mode must be %q, %q or %q, got %q", UIAuto, UIPlain, UITUI, c.UI.Mode)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses Log.Level.
func (l Log) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("config: log.level %q: %w", l.Level, err)
	}
	return lvl, nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: ADDRESSBOOK_FILE, ADDRESSBOOK_UI_MODE, ADDRESSBOOK_LOG_LEVEL.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("ADDRESSBOOK_FILE"); v != "" {
		c.Storage.DefaultFile = v
	}
	if v := os.Getenv("ADDRESSBOOK_UI_MODE"); v != "" {
		c.UI.Mode = v
	}
	if v := os.Getenv("ADDRESSBOOK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Storage *rawStorage `yaml:"storage"`
	UI      *rawUI      `yaml:"ui"`
	Log     *rawLog     `yaml:"log"`
}

type rawStorage struct {
	DefaultFile *string      `yaml:"default_file"`
	FileMode    *fs.FileMode `yaml:"file_mode"`
}

type rawUI struct {
	Mode         *string `yaml:"mode"`
	LinePrefix   *string `yaml:"line_prefix"`
	Divider      *string `yaml:"divider"`
	EchoCommands *bool   `yaml:"echo_commands"`
}

type rawLog struct {
	Level *string `yaml:"level"`
	File  *string `yaml:"file"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Storage != nil {
		if layer.Storage.DefaultFile != nil {
			c.Storage.DefaultFile = *layer.Storage.DefaultFile
		}
		if layer.Storage.FileMode != nil {
			c.Storage.FileMode = *layer.Storage.FileMode
		}
	}
	if layer.UI != nil {
		if layer.UI.Mode != nil {
			c.UI.Mode = *layer.UI.Mode
		}
		if layer.UI.LinePrefix != nil {
			c.UI.LinePrefix = *layer.UI.LinePrefix
		}
		if layer.UI.Divider != nil {
			c.UI.Divider = *layer.UI.Divider
		}
		if layer.UI.EchoCommands != nil {
			c.UI.EchoCommands = *layer.UI.EchoCommands
		}
	}
	if layer.Log != nil {
		if layer.Log.Level != nil {
			c.Log.Level = *layer.Log.Level
		}
		if layer.Log.File != nil {
			c.Log.File = *layer.Log.File
		}
	}
}
