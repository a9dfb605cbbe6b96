// Package monitor maps virtual desktop coordinates onto individual displays.
package monitor

import "github.com/verte-zerg/mousetracks/internal/model"

// Resolver holds the latest display geometry reported by the sampler.
//
// The zero value resolves nothing until geometry is supplied.
type Resolver struct {
	// Monitors lists the physical displays in priority order.
	Monitors []model.Rect
	// Override holds application window rects that take priority over
	// Monitors while an application profile is active.
	Override []model.Rect
	// Desktop is the single resolution used when MultiMonitor is off.
	Desktop      model.Resolution
	MultiMonitor bool
}

// Resolve returns the resolution bucket for p and p relative to the
// containing rectangle. It reports false when p is off every known rect.
func (r *Resolver) Resolve(p model.Point) (model.Resolution, model.Point, bool) {
	if rect, ok := firstContaining(r.Override, p); ok {
		return rect.Size(), local(rect, p), true
	}
	if !r.MultiMonitor {
		if !r.Desktop.Valid() {
			return model.Resolution{}, model.Point{}, false
		}
		return r.Desktop, p, true
	}
	if rect, ok := firstContaining(r.Monitors, p); ok {
		return rect.Size(), local(rect, p), true
	}
	return model.Resolution{}, model.Point{}, false
}

// Buckets returns every resolution the current geometry can produce.
func (r *Resolver) Buckets() []model.Resolution {
	var out []model.Resolution
	seen := map[model.Resolution]struct{}{}
	add := func(res model.Resolution) {
		if !res.Valid() {
			return
		}
		if _, ok := seen[res]; ok {
			return
		}
		seen[res] = struct{}{}
		out = append(out, res)
	}
	for _, rect := range r.Override {
		add(rect.Size())
	}
	if r.MultiMonitor {
		for _, rect := range r.Monitors {
			add(rect.Size())
		}
	} else {
		add(r.Desktop)
	}
	return out
}

func firstContaining(rects []model.Rect, p model.Point) (model.Rect, bool) {
	for _, rect := range rects {
		if rect.Contains(p) {
			return rect, true
		}
	}
	return model.Rect{}, false
}

func local(rect model.Rect, p model.Point) model.Point {
	return model.Point{X: p.X - rect.Left, Y: p.Y - rect.Top}
}
