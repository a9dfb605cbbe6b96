package config

import (
	"fmt"
	"math"
	"time"

	"github.com/verte-zerg/mousetracks/internal/model"
	"github.com/verte-zerg/mousetracks/internal/persist"
)

// Defaults for tracking settings.
const (
	DefaultUpdatesPerSecond = 60
	DefaultSaveFrequency    = 60.0
	DefaultSaveRetries      = 3
	DefaultSwitchRetries    = 10
	DefaultRetryBackoff     = 0.5
	DefaultCompressCeiling  = 425000
	DefaultCompressFactor   = 1.1
	DefaultMultiMonitor     = true
	DefaultCompression      = "zstd"

	// AutoKeyIntervalLimit derives the limit from the update rate.
	AutoKeyIntervalLimit = -1
)

// Tracking holds tracking settings as flags and the config file express
// them: durations in seconds, limits as plain ints.
type Tracking struct {
	UpdatesPerSecond int
	SaveFrequency    float64
	SaveRetries      int
	SwitchRetries    int
	RetryBackoff     float64
	CompressCeiling  int
	CompressFactor   float64
	MultiMonitor     bool
	KeyIntervalLimit int
	Compression      string
	DataDir          string
}

// DefaultTracking returns the default settings.
func DefaultTracking() Tracking {
	return Tracking{
		UpdatesPerSecond: DefaultUpdatesPerSecond,
		SaveFrequency:    DefaultSaveFrequency,
		SaveRetries:      DefaultSaveRetries,
		SwitchRetries:    DefaultSwitchRetries,
		RetryBackoff:     DefaultRetryBackoff,
		CompressCeiling:  DefaultCompressCeiling,
		CompressFactor:   DefaultCompressFactor,
		MultiMonitor:     DefaultMultiMonitor,
		KeyIntervalLimit: AutoKeyIntervalLimit,
		Compression:      DefaultCompression,
		DataDir:          DefaultDataDir(),
	}
}

// Build validates the settings and converts them for the engine.
func (t Tracking) Build() (model.Config, error) {
	if t.UpdatesPerSecond <= 0 {
		return model.Config{}, fmt.Errorf("--updates-per-second must be > 0")
	}
	if t.SaveFrequency <= 0 {
		return model.Config{}, fmt.Errorf("--save-frequency must be > 0")
	}
	if t.SaveRetries < 1 {
		return model.Config{}, fmt.Errorf("--save-retries must be >= 1")
	}
	if t.SwitchRetries < 1 {
		return model.Config{}, fmt.Errorf("--switch-retries must be >= 1")
	}
	if t.RetryBackoff < 0 {
		return model.Config{}, fmt.Errorf("--retry-backoff must be >= 0")
	}
	if t.CompressCeiling < 0 {
		return model.Config{}, fmt.Errorf("--compress-ceiling must be >= 0")
	}
	if t.CompressCeiling > 0 && t.CompressFactor <= 1 {
		return model.Config{}, fmt.Errorf("--compress-factor must be > 1")
	}
	if t.KeyIntervalLimit < AutoKeyIntervalLimit {
		return model.Config{}, fmt.Errorf("--key-interval-limit must be >= 0, or -1 for automatic")
	}
	if _, err := persist.ParseCompression(t.Compression); err != nil {
		return model.Config{}, err
	}
	if t.DataDir == "" {
		return model.Config{}, fmt.Errorf("--data-dir must not be empty")
	}

	limit := uint64(t.KeyIntervalLimit)
	if t.KeyIntervalLimit == AutoKeyIntervalLimit {
		limit = 2 * uint64(t.UpdatesPerSecond)
	}
	return model.Config{
		UpdatesPerSecond: t.UpdatesPerSecond,
		SaveInterval:     seconds(t.SaveFrequency),
		SaveRetries:      t.SaveRetries,
		SwitchRetries:    t.SwitchRetries,
		RetryBackoff:     seconds(t.RetryBackoff),
		CompressCeiling:  uint64(t.CompressCeiling),
		CompressFactor:   t.CompressFactor,
		MultiMonitor:     t.MultiMonitor,
		KeyIntervalLimit: limit,
		Compression:      t.Compression,
		DataDir:          t.DataDir,
	}, nil
}

func seconds(v float64) time.Duration {
	return time.Duration(math.Round(v * float64(time.Second)))
}

// DefaultTemplate returns the commented config file written by the config command.
func DefaultTemplate() string {
	return fmt.Sprintf(`# mousetracks configuration
# Uncomment a value to enable it. CLI flags override config values.

[tracking]
# updates-per-second = %d     # Sampler tick rate
# save-frequency = %.0f         # Seconds between saves
# save-retries = %d            # Attempts per regular save
# switch-retries = %d         # Attempts when saving on a profile switch
# retry-backoff = %.1f         # Seconds between attempts
# compress-ceiling = %d   # Track counter that triggers compaction (0 disables)
# compress-factor = %.1f       # Divisor applied on compaction
# multi-monitor = %t        # Bucket movement per monitor
# key-interval-limit = %d     # Longest recorded key interval in ticks (-1: 2 x updates-per-second, 0: unlimited)
# compression = %q       # none, lz4 or zstd

[storage]
# data-dir = %q
`,
		DefaultUpdatesPerSecond,
		DefaultSaveFrequency,
		DefaultSaveRetries,
		DefaultSwitchRetries,
		DefaultRetryBackoff,
		DefaultCompressCeiling,
		DefaultCompressFactor,
		DefaultMultiMonitor,
		AutoKeyIntervalLimit,
		DefaultCompression,
		DefaultDataDir(),
	)
}
