package engine

import (
	"math"

	"github.com/verte-zerg/mousetracks/internal/aggregate"
	"github.com/verte-zerg/mousetracks/internal/model"
	"github.com/verte-zerg/mousetracks/internal/raster"
)

// axisBuckets is the number of magnitude buckets per gamepad axis.
const axisBuckets = 100

// keyState follows the press sequence for mistakes and intervals. It is
// reset on every profile switch.
type keyState struct {
	last     aggregate.Key
	lastTick uint64
	hasLast  bool

	// pending is the key a single backspace removed.
	pending    aggregate.Key
	hasPending bool
}

func (e *Engine) keyPress(key aggregate.Key) {
	s := e.store
	s.AddKeyPress(key)
	now := s.Ticks.Total

	if key == aggregate.KeyBackspace {
		// A second backspace in a row means more than one key was wrong.
		if e.keys.hasLast && e.keys.last != aggregate.KeyBackspace {
			e.keys.pending = e.keys.last
			e.keys.hasPending = true
		} else {
			e.keys.hasPending = false
		}
	} else if e.keys.hasPending {
		if key != e.keys.pending {
			s.AddMistake(e.keys.pending, key)
		}
		e.keys.hasPending = false
	}

	if e.keys.hasLast && now >= e.keys.lastTick {
		delta := now - e.keys.lastTick
		if e.cfg.KeyIntervalLimit == 0 || delta <= e.cfg.KeyIntervalLimit {
			s.AddInterval(e.keys.last, key, delta)
		}
	}
	e.keys.last = key
	e.keys.lastTick = now
	e.keys.hasLast = true
}

// mouseMove stamps every pixel of the movement path. Pixels off every
// monitor are dropped; a path that cannot be rasterized drops the move.
func (e *Engine) mouseMove(m MouseMove) {
	path := make([]model.Point, 0, 2)
	if m.Start != nil && *m.Start != m.End {
		inner, err := raster.Line(*m.Start, m.End)
		if err != nil {
			e.statusf(SeverityWarning, "movement %v -> %v dropped: %v", *m.Start, m.End, err)
			e.logger.Warn("dropping movement", "start", *m.Start, "end", m.End, "error", err)
			return
		}
		path = append(path, *m.Start)
		path = append(path, inner...)
	}
	path = append(path, m.End)

	unresolved := 0
	for _, p := range path {
		res, local, ok := e.resolver.Resolve(p)
		if !ok {
			unresolved++
			continue
		}
		e.store.StampTrack(res, local)
		if e.store.Compact(e.cfg.CompressCeiling, e.cfg.CompressFactor) {
			e.logger.Debug("compacted tracks", "profile", e.profile, "tracks", e.store.Ticks.Tracks)
		}
	}
	if unresolved > 0 {
		e.logger.Debug("movement pixels off screen", "count", unresolved, "end", m.End)
	}
	if unresolved < len(path) {
		e.markActive()
	}
}

func (e *Engine) click(kind aggregate.ClickKind, button aggregate.Button, p model.Point) {
	res, local, ok := e.resolver.Resolve(p)
	if !ok {
		e.logger.Debug("click off screen", "point", p)
		return
	}
	if !e.store.AddClick(res, kind, button, local) {
		e.logger.Debug("ignoring click", "button", button, "kind", kind)
		return
	}
	e.markActive()
}

// axisBucket maps an axis position to a magnitude bucket in [0, axisBuckets].
func axisBucket(value float64) int {
	if math.IsNaN(value) {
		return 0
	}
	magnitude := math.Min(math.Abs(value), 1)
	return int(math.Round(magnitude * axisBuckets))
}
