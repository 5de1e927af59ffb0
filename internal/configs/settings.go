package configs

import (
	"os"
	"path/filepath"
)

// Settings holds resolved filesystem locations.
type Settings struct {
	// ConfigDir is <user config dir>/frontcrypt.
	ConfigDir string
}

// FrontcryptSettings is resolved at startup and may be overridden in tests.
var FrontcryptSettings = defaultSettings()

func defaultSettings() *Settings {
	base, err := os.UserConfigDir()
	if err != nil {
		// No home directory (e.g. minimal containers); fall back to the working directory.
		base = "."
	}
	return &Settings{ConfigDir: filepath.Join(base, "frontcrypt")}
}

// ConfigPath returns the default config file location.
func ConfigPath() string {
	return filepath.Join(FrontcryptSettings.ConfigDir, "config.toml")
}

// AuditLogPath returns the audit log location.
func AuditLogPath() string {
	return filepath.Join(FrontcryptSettings.ConfigDir, "audit.jsonl")
}
