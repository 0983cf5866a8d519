// Package config handles configuration loading from TOML files and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	// TabStop is the rendered width of a tab. Must be > 0.
	TabStop int `toml:"tab_stop"`
	// QuitTimes is the number of Ctrl-Q presses required to quit while the
	// document has unsaved changes.
	QuitTimes int `toml:"quit_times"`
	// MessageDurationMS is how long status messages stay visible.
	MessageDurationMS int `toml:"message_duration_ms"`
	// ShowLineNumbers toggles the line-number gutter.
	ShowLineNumbers bool `toml:"show_line_numbers"`
	// SyntaxTheme is the Chroma style name used to color highlight
	// categories. Defaults to "monokai" if unset.
	SyntaxTheme string `toml:"syntax_theme"`
	// LogFile receives zerolog output; empty disables logging. Stdout is
	// the terminal UI, so logs can never go there.
	LogFile string `toml:"log_file"`
	// LogLevel is a zerolog level name ("debug", "info", ...).
	LogLevel string `toml:"log_level"`
	// HistoryFile is the SQLite database remembering per-file cursor
	// positions. Empty disables position restore.
	HistoryFile string `toml:"history_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		TabStop:           4,
		QuitTimes:         2,
		MessageDurationMS: 3000,
		ShowLineNumbers:   true,
		SyntaxTheme:       "monokai",
		LogLevel:          "info",
	}
	if dir, err := os.UserCacheDir(); err == nil {
		cfg.HistoryFile = filepath.Join(dir, "scrib", "history.db")
	}
	return cfg
}

// DefaultPath returns the user-level config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "scrib", "config.toml")
}

// Load reads configuration from a TOML file and applies environment variable
// overrides. A missing file is not an error: the defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCRIB_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("SCRIB_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SCRIB_SYNTAX_THEME"); v != "" {
		cfg.SyntaxTheme = v
	}
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	if c.TabStop <= 0 {
		errs = append(errs, fmt.Errorf("tab_stop=%d: must be positive", c.TabStop))
	}
	if c.QuitTimes < 0 {
		errs = append(errs, fmt.Errorf("quit_times=%d: must not be negative", c.QuitTimes))
	}
	if c.MessageDurationMS <= 0 {
		errs = append(errs, fmt.Errorf("message_duration_ms=%d: must be positive", c.MessageDurationMS))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// MessageDuration returns the status message lifetime as a Duration.
func (c *Config) MessageDuration() time.Duration {
	return time.Duration(c.MessageDurationMS) * time.Millisecond
}
