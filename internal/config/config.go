package config

import (
	"fmt"

	"grephl/internal/highlight"
)

// Storage backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Themes
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Config represents the application configuration
type Config struct {
	Version   int             `toml:"version" yaml:"version" koanf:"version"`
	Storage   StorageConfig   `toml:"storage" yaml:"storage" koanf:"storage"`
	UI        UIConfig        `toml:"ui" yaml:"ui" koanf:"ui"`
	Highlight HighlightConfig `toml:"highlight" yaml:"highlight" koanf:"highlight"`
	Log       LogConfig       `toml:"log" yaml:"log" koanf:"log"`
	Server    ServerConfig    `toml:"server" yaml:"server" koanf:"server"`
}

// StorageConfig selects where saved settings live
type StorageConfig struct {
	Backend string `toml:"backend" yaml:"backend" koanf:"backend"`
	Path    string `toml:"path" yaml:"path" koanf:"path"`
}

// UIConfig represents UI-related configuration
type UIConfig struct {
	Theme           string `toml:"theme" yaml:"theme" koanf:"theme"`
	FontScale       int    `toml:"font_scale" yaml:"font_scale" koanf:"font_scale"`
	Wrap            bool   `toml:"wrap" yaml:"wrap" koanf:"wrap"`
	ShowLineNumbers bool   `toml:"show_line_numbers" yaml:"show_line_numbers" koanf:"show_line_numbers"`
	Pager           bool   `toml:"pager" yaml:"pager" koanf:"pager"`
}

type HighlightConfig struct {
	CaseSensitive bool `toml:"case_sensitive" yaml:"case_sensitive" koanf:"case_sensitive"`
}

type LogConfig struct {
	Level string `toml:"level" yaml:"level" koanf:"level"`
	File  string `toml:"file" yaml:"file" koanf:"file"`
}

// ServerConfig drives `grephl serve`
type ServerConfig struct {
	Addr           string   `toml:"addr" yaml:"addr" koanf:"addr"`
	AllowedOrigins []string `toml:"allowed_origins" yaml:"allowed_origins" koanf:"allowed_origins"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    defaultDataPath("settings.json"),
		},
		UI: UIConfig{
			Theme:           ThemeAuto,
			FontScale:       highlight.DefaultFontScale,
			Wrap:            true,
			ShowLineNumbers: true,
		},
		Log: LogConfig{
			Level: "info",
			File:  defaultDataPath("grephl.log"),
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:7777",
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		},
	}
}

var (
	validBackends = map[string]bool{BackendFile: true, BackendSQLite: true, BackendMemory: true}
	validThemes   = map[string]bool{ThemeAuto: true, ThemeLight: true, ThemeDark: true}
	validLevels   = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
)

// Validate checks that the configuration contains valid values
func (c *Config) Validate() error {
	if !validBackends[c.Storage.Backend] {
		return fmt.Errorf("invalid storage.backend %q: must be one of file, sqlite, memory", c.Storage.Backend)
	}
	if c.Storage.Backend != BackendMemory && c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required for the %s backend", c.Storage.Backend)
	}
	if !validThemes[c.UI.Theme] {
		return fmt.Errorf("invalid ui.theme %q: must be one of auto, light, dark", c.UI.Theme)
	}
	if c.UI.FontScale < highlight.MinFontScale || c.UI.FontScale > highlight.MaxFontScale {
		return fmt.Errorf("ui.font_scale %d out of range [%d, %d]",
			c.UI.FontScale, highlight.MinFontScale, highlight.MaxFontScale)
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log.level %q: must be one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}
