package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/mousetracks/internal/config"
	"github.com/verte-zerg/mousetracks/internal/engine"
	"github.com/verte-zerg/mousetracks/internal/history"
	"github.com/verte-zerg/mousetracks/internal/persist"
)

const (
	inboxSize        = 4096
	notificationSize = 256
	maxLineSize      = 1 << 20
)

var (
	runTracking = config.DefaultTracking()
	runProfile  string
	runInput    string
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Aggregate sampler events read as JSON lines",
		Args:  cobra.NoArgs,
		RunE:  runRunCmd,
	}
	t := &runTracking
	cmd.Flags().StringVar(&runProfile, "profile", persist.DefaultProfile, "profile active on start")
	cmd.Flags().StringVar(&runInput, "input", "-", "sampler event stream (- for stdin)")
	cmd.Flags().IntVar(&t.UpdatesPerSecond, "updates-per-second", t.UpdatesPerSecond, "sampler tick rate")
	cmd.Flags().Float64Var(&t.SaveFrequency, "save-frequency", t.SaveFrequency, "seconds between saves")
	cmd.Flags().IntVar(&t.SaveRetries, "save-retries", t.SaveRetries, "attempts per regular save")
	cmd.Flags().IntVar(&t.SwitchRetries, "switch-retries", t.SwitchRetries, "attempts when saving on a profile switch")
	cmd.Flags().Float64Var(&t.RetryBackoff, "retry-backoff", t.RetryBackoff, "seconds between save attempts")
	cmd.Flags().IntVar(&t.CompressCeiling, "compress-ceiling", t.CompressCeiling, "track counter that triggers compaction (0 disables)")
	cmd.Flags().Float64Var(&t.CompressFactor, "compress-factor", t.CompressFactor, "divisor applied on compaction")
	cmd.Flags().BoolVar(&t.MultiMonitor, "multi-monitor", t.MultiMonitor, "bucket movement per monitor")
	cmd.Flags().IntVar(&t.KeyIntervalLimit, "key-interval-limit", t.KeyIntervalLimit, "longest recorded key interval in ticks (-1: automatic, 0: unlimited)")
	cmd.Flags().StringVar(&t.Compression, "compression", t.Compression, "profile compression (none, lz4, zstd)")
	addDataDirFlag(cmd, &t.DataDir)
	return cmd
}

func runRunCmd(cmd *cobra.Command, _ []string) error {
	if err := loadTracking(cmd, &runTracking); err != nil {
		return err
	}
	cfg, err := runTracking.Build()
	if err != nil {
		return err
	}
	logger, err := newLogger(logLevel, os.Stderr)
	if err != nil {
		return err
	}
	compression, err := persist.ParseCompression(cfg.Compression)
	if err != nil {
		return err
	}

	input, closeInput, err := openInput(runInput)
	if err != nil {
		return err
	}
	defer closeInput()

	journal, err := history.Open(config.HistoryPath(cfg.DataDir))
	if err != nil {
		return fmt.Errorf("failed to open save journal: %w", err)
	}
	defer func() {
		if cerr := journal.Close(); cerr != nil {
			logErrf("failed to close save journal: %v\n", cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	inbox := make(chan engine.Message, inboxSize)
	notifications := make(chan engine.Notification, notificationSize)
	eng := engine.New(engine.Options{
		Config:        cfg,
		Persister:     persist.New(config.ProfilesDir(cfg.DataDir), compression, logger),
		Journal:       journal,
		Logger:        logger,
		Notifications: notifications,
		Profile:       runProfile,
	})

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for n := range notifications {
			logNotification(logger, n)
		}
	}()
	go readMessages(ctx, input, inbox, logger)
	go requestSaves(ctx, cfg.SaveInterval, inbox)

	logger.Info("engine started", "profile", runProfile, "data_dir", cfg.DataDir, "compression", compression.String())
	err = eng.Run(ctx, inbox)
	cancel()
	close(notifications)
	<-drained
	if dropped := eng.Dropped(); dropped > 0 {
		logger.Warn("notifications dropped", "count", dropped)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("engine stopped")
	return nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	// Best-effort close of a read-only file.
	return f, func() { _ = f.Close() }, nil
}

// readMessages decodes sampler lines into inbox. The end of the stream is
// forwarded as Quit so the engine saves before exiting.
func readMessages(ctx context.Context, r io.Reader, inbox chan<- engine.Message, logger *slog.Logger) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		msg, err := engine.DecodeMessage([]byte(raw))
		if err != nil {
			logger.Warn("skipping malformed message", "line", line, "error", err)
			continue
		}
		if msg == nil {
			logger.Debug("skipping unknown message", "line", line)
			continue
		}
		if !send(ctx, inbox, msg) {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Error("reading sampler stream", "error", err)
	}
	send(ctx, inbox, engine.Quit{})
}

// requestSaves queues a Save every interval.
func requestSaves(ctx context.Context, interval time.Duration, inbox chan<- engine.Message) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !send(ctx, inbox, engine.Save{}) {
				return
			}
		}
	}
}

func send(ctx context.Context, inbox chan<- engine.Message, msg engine.Message) bool {
	select {
	case inbox <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

func logNotification(logger *slog.Logger, n engine.Notification) {
	switch n := n.(type) {
	case engine.Status:
		for _, line := range n.Lines {
			logger.Log(context.Background(), severityLevel(line.Severity), line.Text)
		}
	case engine.SaveComplete:
		if len(n.Failed) > 0 {
			logger.Warn("save request finished", "succeeded", n.Succeeded, "failed", n.Failed)
			return
		}
		logger.Debug("save request finished", "succeeded", n.Succeeded)
	case engine.ProfileLoading:
		logger.Debug("profile loading", "profile", n.Name)
	case engine.ProfileLoaded:
		logger.Debug("profile active", "profile", n.Name, "new", n.New, "source", n.Source)
	case engine.QueueReport:
		logger.Info("queue depth", "pending", n.Pending)
	}
}

func severityLevel(s engine.Severity) slog.Level {
	switch s {
	case engine.SeverityWarning:
		return slog.LevelWarn
	case engine.SeverityError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "", "info":
		lvl = slog.LevelInfo
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
