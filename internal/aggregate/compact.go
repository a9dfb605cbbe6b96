package aggregate

import "math"

// Compact rescales the recency stamps once Ticks.Tracks passes ceiling.
// Every stamp and the Tracks counters are divided by factor and floored,
// which keeps their relative order. A zero ceiling or a factor <= 1
// disables compaction. It reports whether anything was rescaled.
func (s *Store) Compact(ceiling uint64, factor float64) bool {
	if ceiling == 0 || factor <= 1 || s.Ticks.Tracks <= ceiling {
		return false
	}
	for _, counts := range s.Tracks {
		for p, stamp := range counts {
			counts[p] = shrink(stamp, factor)
		}
	}
	s.Ticks.Tracks = shrink(s.Ticks.Tracks, factor)
	s.Ticks.Session.Tracks = shrink(s.Ticks.Session.Tracks, factor)
	return true
}

func shrink(v uint64, factor float64) uint64 {
	return uint64(math.Floor(float64(v) / factor))
}
