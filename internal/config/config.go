// Package config handles loading and saving hivenav configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/hivenav/config.yaml
//
// Command-line flags override whatever was loaded; absent files yield
// defaults rather than errors so the browser always starts.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// UIConfig holds presentation preferences.
type UIConfig struct {
	NoColor    bool    `yaml:"no_color,omitempty"`    // disable all styling
	ASCII      bool    `yaml:"ascii,omitempty"`       // ASCII tree glyphs instead of unicode
	SplitRatio float64 `yaml:"split_ratio,omitempty"` // tree pane share of the width (0.2-0.8)
}

// WatchConfig controls how hive file changes are detected.
type WatchConfig struct {
	Poll       bool `yaml:"poll,omitempty"`        // skip fsnotify, poll only
	DebounceMS int  `yaml:"debounce_ms,omitempty"` // quiet period before a reload fires
	IntervalMS int  `yaml:"interval_ms,omitempty"` // polling cadence
}

// LoggingConfig controls the debug log file.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty"`   // defaults to ~/.hivenav/logs
	Level   string `yaml:"level,omitempty"` // debug, info, warn, error
}

// Config is the top-level configuration for hivenav.
type Config struct {
	UI      UIConfig      `yaml:"ui,omitempty"`
	Watch   WatchConfig   `yaml:"watch,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Recent  []string      `yaml:"recent,omitempty"` // recently opened hive paths, newest first
}

// maxRecent caps the recently-opened list.
const maxRecent = 10

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			SplitRatio: 0.55,
		},
		Watch: WatchConfig{
			DebounceMS: 250,
			IntervalMS: 2000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns the XDG config directory for hivenav.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "hivenav")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hivenav")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Logging.Dir = expandHome(cfg.Logging.Dir)
	for i := range cfg.Recent {
		cfg.Recent[i] = expandHome(cfg.Recent[i])
	}
	cfg.clamp()
	return cfg, nil
}

// clamp pulls out-of-range values back to usable ones so a hand-edited file
// cannot wedge the layout.
func (c *Config) clamp() {
	if c.UI.SplitRatio < 0.2 || c.UI.SplitRatio > 0.8 {
		c.UI.SplitRatio = DefaultConfig().UI.SplitRatio
	}
	if c.Watch.DebounceMS <= 0 {
		c.Watch.DebounceMS = DefaultConfig().Watch.DebounceMS
	}
	if c.Watch.IntervalMS <= 0 {
		c.Watch.IntervalMS = DefaultConfig().Watch.IntervalMS
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		c.Logging.Level = DefaultConfig().Logging.Level
	}
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// AddRecent records path as the most recently opened hive, deduplicating
// and capping the list.
func (c *Config) AddRecent(path string) {
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	out := make([]string, 0, len(c.Recent)+1)
	out = append(out, path)
	for _, p := range c.Recent {
		if p != path {
			out = append(out, p)
		}
	}
	if len(out) > maxRecent {
		out = out[:maxRecent]
	}
	c.Recent = out
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
