package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // -config flag or a compile time default
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the first configuration file found and applies environment
// overrides. Without a file the defaults are used.
func (l *Loader) Load() (*Config, error) {
	cfg := New()
	if path := l.GetConfigPath(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		parsed, err := Parse(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		cfg = parsed
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from WALLSMITH_THEME and WALLSMITH_DPR.
func ApplyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("WALLSMITH_THEME")); v != "" {
		cfg.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv("WALLSMITH_DPR")); v != "" {
		dpr, err := strconv.ParseFloat(v, 64)
		if err != nil || dpr <= 0 {
			return fmt.Errorf("WALLSMITH_DPR: invalid pixel ratio %q", v)
		}
		cfg.Canvas.DPR = dpr
	}
	return nil
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	// 1. Variable override path
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	// 2. Local run directory (dev mode)
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".wallsmithrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	// 3. XDG Config Path
	if xdgPath := DefaultPath(); xdgPath != "" {
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}
	return ""
}

// DefaultPath is where "config save" writes.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "wallsmith", "config.rc")
}

// Save writes cfg to path in RC format, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(cfg.String()), 0o644)
}
