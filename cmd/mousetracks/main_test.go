package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/mousetracks/internal/aggregate"
	"github.com/verte-zerg/mousetracks/internal/config"
	"github.com/verte-zerg/mousetracks/internal/engine"
	"github.com/verte-zerg/mousetracks/internal/persist"
)

const sampleStream = `{"type":"resolution","width":1920,"height":1080}
{"type":"mouse_move","start":[0,0],"end":[3,3]}
not json

{"type":"hologram"}
{"type":"key_press","keys":[81]}
{"type":"key_press","keys":[8]}
{"type":"key_press","keys":[87]}
{"type":"tick","delta":2}
{"type":"profile_changed","name":"Game Mode"}
{"type":"gamepad_button_press","ids":[1]}
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReadMessages(t *testing.T) {
	inbox := make(chan engine.Message, 32)
	readMessages(context.Background(), strings.NewReader(sampleStream), inbox, discardLogger())
	close(inbox)

	var kinds []string
	for msg := range inbox {
		kinds = append(kinds, msg.Kind())
	}
	assert.Equal(t, []string{
		"resolution", "mouse_move", "key_press", "key_press", "key_press",
		"tick", "profile_changed", "gamepad_button_press", "quit",
	}, kinds)
}

func TestReadMessagesStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	inbox := make(chan engine.Message)
	done := make(chan struct{})
	go func() {
		readMessages(ctx, strings.NewReader(sampleStream), inbox, discardLogger())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("reader blocked after cancel")
	}
}

func TestLogNotification(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger("debug", &buf)
	require.NoError(t, err)

	logNotification(logger, engine.Status{Lines: []engine.StatusLine{{Severity: engine.SeverityWarning, Text: "save attempt failed"}}})
	logNotification(logger, engine.SaveComplete{Failed: []string{"game"}})
	logNotification(logger, engine.QueueReport{Pending: 12})

	out := buf.String()
	assert.Contains(t, out, `level=WARN msg="save attempt failed"`)
	assert.Contains(t, out, "failed=[game]")
	assert.Contains(t, out, "pending=12")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger("warn", &buf)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	_, err = newLogger("loud", &buf)
	assert.Error(t, err)
}

func TestRunStatsHistoryProfiles(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dataDir := t.TempDir()
	input := filepath.Join(t.TempDir(), "events.jsonl")
	require.NoError(t, os.WriteFile(input, []byte(sampleStream), 0o644))

	runTracking = config.DefaultTracking()
	root := newRootCmd()
	root.SetArgs([]string{"run", "--log-level", "error", "--input", input, "--data-dir", dataDir, "--multi-monitor=false", "--save-frequency", "3600"})
	require.NoError(t, root.Execute())

	p := persist.New(config.ProfilesDir(dataDir), persist.CompressionZstd, discardLogger())
	names, err := p.Profiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "gamemode"}, names)

	def, source := p.Load("default")
	require.Equal(t, persist.SourceLive, source)
	assert.Equal(t, uint64(4), def.Ticks.Tracks)
	assert.Equal(t, uint64(1), def.Mistakes[aggregate.KeyPair{First: 81, Second: 87}])

	var out bytes.Buffer
	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"stats", "--plain", "--data-dir", dataDir})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Profile: default")
	assert.Contains(t, out.String(), "1920x1080")

	out.Reset()
	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"history", "--summary", "--data-dir", dataDir})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "gamemode")

	out.Reset()
	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"profiles", "--data-dir", dataDir})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "default")
}
