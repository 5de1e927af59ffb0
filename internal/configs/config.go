package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/PolarWolf314/frontcrypt/internal/utils"
)

// Config is the user configuration file.
type Config struct {
	Build BuildConfig `toml:"build"`
	Serve ServeConfig `toml:"serve"`
	Audit AuditConfig `toml:"audit"`
}

type BuildConfig struct {
	// OutputSuffix is appended to the source directory for the default output.
	OutputSuffix string `toml:"output_suffix"`

	// Exclude lists doublestar patterns skipped in every build.
	Exclude []string `toml:"exclude"`
}

type ServeConfig struct {
	Addr string `toml:"addr"`
}

type AuditConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Build: BuildConfig{
			OutputSuffix: utils.DefaultOutputSuffix,
			Exclude:      []string{},
		},
		Serve: ServeConfig{Addr: "127.0.0.1:8080"},
		Audit: AuditConfig{Enabled: true},
	}
}

// Load reads the config at path, or the default location when path is
// empty. A missing file yields Default(); values absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err := LoadTOML(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if cfg.Build.OutputSuffix == "" {
		cfg.Build.OutputSuffix = utils.DefaultOutputSuffix
	}
	return cfg, nil
}

// Save writes cfg to path, or the default location when path is empty.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := SaveTOML(path, cfg); err != nil {
		return fmt.Errorf("failed to save config %s: %w", path, err)
	}
	return nil
}
