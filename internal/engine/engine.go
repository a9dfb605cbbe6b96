// Package engine runs the aggregation loop. A single goroutine owns the
// active profile's store and applies sampler messages to it one at a time,
// so the store needs no locking.
package engine

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/verte-zerg/mousetracks/internal/aggregate"
	"github.com/verte-zerg/mousetracks/internal/clock"
	"github.com/verte-zerg/mousetracks/internal/model"
	"github.com/verte-zerg/mousetracks/internal/monitor"
	"github.com/verte-zerg/mousetracks/internal/persist"
)

// Persister saves and loads profile stores.
type Persister interface {
	Save(store *aggregate.Store, profile string) (int, error)
	Load(profile string) (*aggregate.Store, persist.Source)
}

// Journal records save attempts.
type Journal interface {
	RecordSave(ctx context.Context, record model.SaveRecord) error
}

// Options configures an Engine.
type Options struct {
	Config    model.Config
	Persister Persister
	// Journal is optional.
	Journal Journal
	Clock   clock.Clock
	Logger  *slog.Logger
	// Notifications receives outbound events. Sends never block; a nil
	// channel disables notifications.
	Notifications chan<- Notification
	// Profile is the profile activated on start.
	Profile string
}

// Engine aggregates sampler messages into the active profile.
type Engine struct {
	cfg       model.Config
	persister Persister
	journal   Journal
	clock     clock.Clock
	logger    *slog.Logger
	out       chan<- Notification
	dropped   atomic.Uint64

	profile    string
	profileKey string
	store      *aggregate.Store
	resolver   monitor.Resolver

	// active is set by input since the last successful save.
	active       bool
	lastActivity uint64
	skipped      int
	keys         keyState

	status []StatusLine
}

// New returns an Engine. The initial profile is loaded when Run starts.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	profile := opts.Profile
	if profile == "" {
		profile = persist.DefaultProfile
	}
	return &Engine{
		cfg:       opts.Config,
		persister: opts.Persister,
		journal:   opts.Journal,
		clock:     clk,
		logger:    logger,
		out:       opts.Notifications,
		profile:   profile,
		resolver:  monitor.Resolver{MultiMonitor: opts.Config.MultiMonitor},
	}
}

// Run loads the initial profile and processes inbox until a Quit message
// arrives, inbox is closed or ctx is cancelled. Every exit path saves the
// active profile first. Cancellation is only observed between messages.
func (e *Engine) Run(ctx context.Context, inbox <-chan Message) error {
	e.load(e.profile)
	e.flushStatus()
	for {
		select {
		case <-ctx.Done():
			e.shutdown(context.WithoutCancel(ctx))
			e.flushStatus()
			return ctx.Err()
		case msg, ok := <-inbox:
			if !ok {
				e.shutdown(ctx)
				e.flushStatus()
				return nil
			}
			if e.handle(ctx, msg, len(inbox)) {
				return nil
			}
		}
	}
}

// Dropped returns the number of notifications dropped because the
// observer channel was full.
func (e *Engine) Dropped() uint64 {
	return e.dropped.Load()
}

// handle applies one message and reports whether the engine should stop.
func (e *Engine) handle(ctx context.Context, msg Message, pending int) bool {
	defer e.flushStatus()
	e.store.CountRecorded()

	switch m := msg.(type) {
	case Tick:
		e.store.AddTicks(m.Delta)
	case Save:
		e.requestSave(ctx)
	case ProfileChanged:
		e.changeProfile(ctx, m)
	case ResolutionChanged:
		e.resolver.Desktop = model.Resolution{Width: m.Width, Height: m.Height}
		e.ensureBuckets()
	case MonitorLimits:
		e.resolver.Monitors = append([]model.Rect(nil), m.Rects...)
		e.ensureBuckets()
	case KeyPress:
		for _, key := range m.Keys {
			e.keyPress(key)
		}
		e.markActive()
	case KeyHeld:
		for _, key := range m.Keys {
			e.store.AddKeyHeld(key)
		}
		e.markActive()
	case MouseMove:
		e.mouseMove(m)
	case MouseClick:
		e.click(aggregate.ClickSingle, m.Button, m.Point)
	case MouseDoubleClick:
		e.click(aggregate.ClickDouble, m.Button, m.Point)
	case MouseHeld:
		e.click(aggregate.ClickHeld, m.Button, m.Point)
	case GamepadButtonPress:
		for _, id := range m.IDs {
			e.store.AddButtonPress(id)
		}
		e.markActive()
	case GamepadButtonHeld:
		for _, id := range m.IDs {
			e.store.AddButtonHeld(id)
		}
		e.markActive()
	case GamepadAxis:
		e.store.AddAxis(m.Axis, axisBucket(m.Value))
		e.markActive()
	case QueueDepth:
		e.notify(QueueReport{Pending: pending})
	case Quit:
		e.shutdown(ctx)
		return true
	default:
		if msg != nil {
			e.logger.Debug("ignoring unknown message", "kind", msg.Kind())
		}
	}
	return false
}

func (e *Engine) markActive() {
	e.active = true
	e.lastActivity = e.store.Ticks.Total
}

func (e *Engine) ensureBuckets() {
	for _, res := range e.resolver.Buckets() {
		e.store.EnsureResolution(res)
	}
}

// requestSave writes the active profile if it changed since the last save.
func (e *Engine) requestSave(ctx context.Context) {
	if !e.active {
		e.skipped++
		inactive := e.store.Ticks.Total - e.lastActivity
		e.statusf(SeverityInfo, "save skipped, %d ticks inactive", inactive)
		e.logger.Debug("save skipped", "profile", e.profile, "skipped", e.skipped, "inactive_ticks", inactive)
		e.notify(SaveComplete{Succeeded: []string{e.profile}})
		return
	}
	e.saveActive(ctx, e.cfg.SaveRetries, "save")
}

// saveActive saves the active profile with the given retry budget and
// acknowledges the outcome.
func (e *Engine) saveActive(ctx context.Context, retries int, reason string) bool {
	if e.saveWithRetry(ctx, retries, reason) {
		e.active = false
		e.skipped = 0
		e.notify(SaveComplete{Succeeded: []string{e.profile}})
		return true
	}
	e.notify(SaveComplete{Failed: []string{e.profile}})
	return false
}

func (e *Engine) shutdown(ctx context.Context) {
	e.logger.Info("shutting down", "profile", e.profile)
	if e.active {
		e.saveActive(ctx, e.cfg.SaveRetries, "shutdown")
	}
}
