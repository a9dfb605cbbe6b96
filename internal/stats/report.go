package stats

import (
	"sort"

	"github.com/verte-zerg/mousetracks/internal/aggregate"
	"github.com/verte-zerg/mousetracks/internal/model"
)

// intervalBuckets caps the interval histogram shown in reports.
const intervalBuckets = 240

// Report contains precomputed data for stats rendering.
type Report struct {
	Profile     string
	Version     int
	Ticks       aggregate.Ticks
	Resolutions []ResolutionRow
	Keys        []KeyRow
	Mistakes    []MistakeRow
	Intervals   Histogram
	Buttons     []ButtonRow
	Axes        []AxisRow
}

// ResolutionRow summarizes one resolution bucket.
type ResolutionRow struct {
	Resolution model.Resolution
	Enabled    bool
	Pixels     int
	// Clicks totals every button per click kind.
	Clicks [3]uint64
}

// ButtonRow is one gamepad button.
type ButtonRow struct {
	ID      int
	Pressed uint64
	Held    uint64
}

// AxisRow summarizes the magnitude histogram of one gamepad axis.
type AxisRow struct {
	Axis    int
	Samples uint64
	// Mean is the average deflection in [0, 1].
	Mean   float64
	Values []float64
}

// BuildReport prepares a store for rendering. top limits the key and
// mistake tables; top <= 0 keeps every row.
func BuildReport(profile string, s *aggregate.Store, top int) Report {
	r := Report{
		Profile:   profile,
		Version:   s.Version,
		Ticks:     s.Ticks,
		Keys:      TopKeys(s, top),
		Mistakes:  TopMistakes(s, top),
		Intervals: NewHistogram(s.Intervals, intervalBuckets),
	}

	for res, counts := range s.Tracks {
		row := ResolutionRow{Resolution: res, Enabled: s.Resolutions[res], Pixels: len(counts)}
		if set := s.Clicks[res]; set != nil {
			for kind := range set {
				for button := range set[kind] {
					for _, n := range set[kind][button] {
						row.Clicks[kind] += n
					}
				}
			}
		}
		r.Resolutions = append(r.Resolutions, row)
	}
	sort.Slice(r.Resolutions, func(i, j int) bool {
		a, b := r.Resolutions[i], r.Resolutions[j]
		if a.Pixels != b.Pixels {
			return a.Pixels > b.Pixels
		}
		if a.Resolution.Width != b.Resolution.Width {
			return a.Resolution.Width < b.Resolution.Width
		}
		return a.Resolution.Height < b.Resolution.Height
	})

	for id, bs := range s.Gamepad.Buttons {
		r.Buttons = append(r.Buttons, ButtonRow{ID: id, Pressed: bs.Pressed, Held: bs.Held})
	}
	sort.Slice(r.Buttons, func(i, j int) bool { return r.Buttons[i].ID < r.Buttons[j].ID })

	for axis, hist := range s.Gamepad.Axes {
		r.Axes = append(r.Axes, axisRow(axis, hist))
	}
	sort.Slice(r.Axes, func(i, j int) bool { return r.Axes[i].Axis < r.Axes[j].Axis })
	return r
}

func axisRow(axis int, hist map[int]uint64) AxisRow {
	row := AxisRow{Axis: axis, Values: make([]float64, 101)}
	var weighted float64
	for bucket, count := range hist {
		if bucket < 0 || bucket >= len(row.Values) {
			continue
		}
		row.Values[bucket] = float64(count)
		row.Samples += count
		weighted += float64(bucket) * float64(count)
	}
	if row.Samples > 0 {
		row.Mean = weighted / float64(row.Samples) / 100
	}
	return row
}
