// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "mousetracks"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DefaultDataDir returns the directory holding profiles and the journal.
func DefaultDataDir() string {
	return filepath.Join(XDGDataHome(), appName)
}

// ProfilesDir returns the profile directory under a data dir.
func ProfilesDir(dataDir string) string {
	return filepath.Join(dataDir, "profiles")
}

// HistoryPath returns the save journal path under a data dir.
func HistoryPath(dataDir string) string {
	return filepath.Join(dataDir, "history.db")
}
