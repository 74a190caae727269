// Package config loads the client configuration from a JSON file,
// falling back to defaults for anything unset.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Config is the user-tunable client configuration.
type Config struct {
	ServerURL string  `json:"server"`    // HTTP base, e.g. http://host:8080
	WindowW   int     `json:"windowW"`   // initial window width in pixels
	WindowH   int     `json:"windowH"`   // initial window height
	MinZoom   float64 `json:"minZoom"`   // configured zoom floor
	MaxZoom   float64 `json:"maxZoom"`   // zoom ceiling
	CacheCap  int     `json:"cacheCap"`  // max cached chunks before eviction
	Verbose   bool    `json:"verbose"`   // verbose logging
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ServerURL: "http://localhost:8080",
		WindowW:   1280,
		WindowH:   800,
		MinZoom:   0.05,
		MaxZoom:   4.0,
		CacheCap:  512,
	}
}

// Path resolves the config file location: $XDG_CONFIG_HOME/
// massivesweeper/config.json, or ~/.config/massivesweeper/config.json.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "massivesweeper", "config.json"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home: %w", err)
	}
	return filepath.Join(home, ".config", "massivesweeper", "config.json"), nil
}

// Load reads the config at path. A missing file is not an error: the
// defaults are returned. Fields absent from the file keep defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.MinZoom <= 0 || c.MaxZoom < c.MinZoom {
		return fmt.Errorf("config: zoom range [%v, %v] invalid", c.MinZoom, c.MaxZoom)
	}
	if c.WindowW <= 0 || c.WindowH <= 0 {
		return fmt.Errorf("config: window %dx%d invalid", c.WindowW, c.WindowH)
	}
	return nil
}

// WebSocketURL derives the push-channel endpoint from the HTTP base.
func (c Config) WebSocketURL() string {
	switch {
	case len(c.ServerURL) >= 8 && c.ServerURL[:8] == "https://":
		return "wss://" + c.ServerURL[8:] + "/ws"
	case len(c.ServerURL) >= 7 && c.ServerURL[:7] == "http://":
		return "ws://" + c.ServerURL[7:] + "/ws"
	default:
		return c.ServerURL + "/ws"
	}
}
