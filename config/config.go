package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"go-gliss/midi"
)

const (
	DefaultOutputPort   = "IAC"
	DefaultTickMillis   = 2
	DefaultHistoryLimit = 16
)

// InputConfig chooses which input port is the keyboard
type InputConfig struct {
	Preferred []string `json:"preferred,omitempty"`
	Excluded  []string `json:"excluded,omitempty"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	LastPreset string `json:"lastPreset,omitempty"`
	Palette    string `json:"palette,omitempty"` // optional GIMP palette for voice colors
}

// Config is the main configuration structure
type Config struct {
	Input        InputConfig `json:"input,omitempty"`
	OutputPort   string      `json:"outputPort,omitempty"`
	TickMillis   int         `json:"tickMillis,omitempty"`
	HistoryLimit int         `json:"historyLimit,omitempty"`
	PresetDir    string      `json:"presetDir,omitempty"`
	Debug        bool        `json:"debug,omitempty"`
	UI           UIConfig    `json:"ui,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Excluded: []string{"IAC", "Through", "Midi Through", "RtMidi"},
		},
		OutputPort:   DefaultOutputPort,
		TickMillis:   DefaultTickMillis,
		HistoryLimit: DefaultHistoryLimit,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-gliss"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. Fields missing from the file keep
// their defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrap(err, "read config")
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) fillDefaults() {
	if c.TickMillis <= 0 {
		c.TickMillis = DefaultTickMillis
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = DefaultHistoryLimit
	}
	if c.OutputPort == "" {
		c.OutputPort = DefaultOutputPort
	}
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating its directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create config dir")
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return errors.Wrap(os.WriteFile(path, data, 0644), "write config")
}

// Presets returns the preset directory, defaulting to presets/ under the
// config directory
func (c *Config) Presets() string {
	if c.PresetDir != "" {
		return c.PresetDir
	}
	dir, err := ConfigDir()
	if err != nil {
		return "presets"
	}
	return filepath.Join(dir, "presets")
}

// PortPatterns converts the input section for the device manager
func (c *Config) PortPatterns() midi.PortPatterns {
	return midi.PortPatterns{
		Preferred: c.Input.Preferred,
		Excluded:  c.Input.Excluded,
	}
}
