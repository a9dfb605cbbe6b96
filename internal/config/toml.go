// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Tracking TrackingConfig `toml:"tracking"`
	Storage  StorageConfig  `toml:"storage"`
}

// TrackingConfig maps tracking settings. Nil fields keep their defaults.
type TrackingConfig struct {
	UpdatesPerSecond *int     `toml:"updates-per-second"`
	SaveFrequency    *float64 `toml:"save-frequency"`
	SaveRetries      *int     `toml:"save-retries"`
	SwitchRetries    *int     `toml:"switch-retries"`
	RetryBackoff     *float64 `toml:"retry-backoff"`
	CompressCeiling  *int     `toml:"compress-ceiling"`
	CompressFactor   *float64 `toml:"compress-factor"`
	MultiMonitor     *bool    `toml:"multi-monitor"`
	KeyIntervalLimit *int     `toml:"key-interval-limit"`
	Compression      *string  `toml:"compression"`
}

// StorageConfig maps storage settings.
type StorageConfig struct {
	DataDir *string `toml:"data-dir"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
