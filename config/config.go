// Package config handles application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	appName        = "voicelab"
	configFileName = "config.json"
)

// Hotkey backends. Native registers the shortcut with the OS, so a combo
// already claimed elsewhere fails at startup and the focused app never sees
// it. Hook only observes key events: the focused app still receives
// Ctrl+Space and a conflicting owner goes undetected.
const (
	BackendHook   = "hook"
	BackendNative = "native"
)

// Injection modes.
const (
	ModeType  = "type"
	ModePaste = "paste"
)

// DefaultPasteRestoreMs is the default clipboard restore delay in paste mode.
const DefaultPasteRestoreMs = 150

// Config represents the application configuration. The push-to-talk key
// combination is fixed and deliberately absent.
type Config struct {
	LogLevel        string `json:"log_level"`
	HotkeyBackend   string `json:"hotkey_backend"`
	CollapseRepeats bool   `json:"collapse_repeats"`
	InjectMode      string `json:"inject_mode"`
	TypeDelayMs     int    `json:"type_delay_ms"`
	PasteRestoreMs  int    `json:"paste_restore_ms"`
	Normalize       *bool  `json:"normalize,omitempty"`
}

// Load loads configuration from the user config directory.
// Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, fmt.Errorf("get config path: %w", err)
	}
	return LoadFrom(path)
}

// LoadFrom loads configuration from path, filling defaults for unset fields.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("config file not found, using defaults", "path", path)
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Path returns the config file location.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.HotkeyBackend == "" {
		c.HotkeyBackend = BackendNative
	}
	if c.InjectMode == "" {
		c.InjectMode = ModeType
	}
	if c.PasteRestoreMs == 0 {
		c.PasteRestoreMs = DefaultPasteRestoreMs
	}
	if c.Normalize == nil {
		on := true
		c.Normalize = &on
	}
}

// Validate rejects values the app cannot act on.
func (c *Config) Validate() error {
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.LogLevel) {
		return fmt.Errorf("unknown log level: %s", c.LogLevel)
	}
	if !slices.Contains([]string{BackendHook, BackendNative}, c.HotkeyBackend) {
		return fmt.Errorf("unknown hotkey backend: %s", c.HotkeyBackend)
	}
	if !slices.Contains([]string{ModeType, ModePaste}, c.InjectMode) {
		return fmt.Errorf("unknown inject mode: %s", c.InjectMode)
	}
	if c.TypeDelayMs < 0 {
		return fmt.Errorf("type delay must not be negative")
	}
	if c.PasteRestoreMs < 0 {
		return fmt.Errorf("paste restore delay must not be negative")
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NormalizeText reports whether transcript text is NFC-normalised before typing.
func (c *Config) NormalizeText() bool {
	return c.Normalize == nil || *c.Normalize
}
