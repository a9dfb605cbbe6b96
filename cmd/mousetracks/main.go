// Package main provides the CLI entrypoint for mousetracks.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/mousetracks/internal/config"
)

var logLevel string

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mousetracks",
		Short:         "Input telemetry aggregation engine",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newProfilesCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.DefaultTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// loadTracking resolves tracking settings: flags win over the config file,
// which wins over defaults.
func loadTracking(cmd *cobra.Command, t *config.Tracking) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	tc := fileCfg.Tracking
	applyIntConfig(cmd, "updates-per-second", &t.UpdatesPerSecond, tc.UpdatesPerSecond)
	applyFloatConfig(cmd, "save-frequency", &t.SaveFrequency, tc.SaveFrequency)
	applyIntConfig(cmd, "save-retries", &t.SaveRetries, tc.SaveRetries)
	applyIntConfig(cmd, "switch-retries", &t.SwitchRetries, tc.SwitchRetries)
	applyFloatConfig(cmd, "retry-backoff", &t.RetryBackoff, tc.RetryBackoff)
	applyIntConfig(cmd, "compress-ceiling", &t.CompressCeiling, tc.CompressCeiling)
	applyFloatConfig(cmd, "compress-factor", &t.CompressFactor, tc.CompressFactor)
	applyBoolConfig(cmd, "multi-monitor", &t.MultiMonitor, tc.MultiMonitor)
	applyIntConfig(cmd, "key-interval-limit", &t.KeyIntervalLimit, tc.KeyIntervalLimit)
	applyStringConfig(cmd, "compression", &t.Compression, tc.Compression)
	applyStringConfig(cmd, "data-dir", &t.DataDir, fileCfg.Storage.DataDir)
	return nil
}

func addDataDirFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "data-dir", config.DefaultDataDir(), "directory holding profiles and the save journal")
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
