// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"sort"
	"strings"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(min(i+1, window))
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Histogram summarizes a bucket -> count map.
type Histogram struct {
	// Values holds the count for every bucket from 0 to the last bucket
	// shown; later buckets are folded into Overflow.
	Values   []float64
	Overflow uint64
	Samples  uint64
	Mean     float64
	Median   uint64
	P90      uint64
}

// NewHistogram summarizes hist, keeping at most limit buckets in Values.
func NewHistogram(hist map[uint64]uint64, limit int) Histogram {
	var h Histogram
	if len(hist) == 0 {
		return h
	}
	buckets := make([]uint64, 0, len(hist))
	for bucket, count := range hist {
		if count == 0 {
			continue
		}
		buckets = append(buckets, bucket)
	}
	if len(buckets) == 0 {
		return h
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i] < buckets[j] })

	var weighted float64
	for _, bucket := range buckets {
		h.Samples += hist[bucket]
		weighted += float64(bucket) * float64(hist[bucket])
	}
	h.Mean = weighted / float64(h.Samples)
	h.Median = percentile(hist, buckets, h.Samples, 0.5)
	h.P90 = percentile(hist, buckets, h.Samples, 0.9)

	last := buckets[len(buckets)-1]
	if limit > 0 && last >= uint64(limit) {
		last = uint64(limit) - 1
	}
	h.Values = make([]float64, last+1)
	for _, bucket := range buckets {
		if bucket > last {
			h.Overflow += hist[bucket]
			continue
		}
		h.Values[bucket] = float64(hist[bucket])
	}
	return h
}

func percentile(hist map[uint64]uint64, sorted []uint64, samples uint64, p float64) uint64 {
	target := uint64(math.Ceil(float64(samples) * p))
	var seen uint64
	for _, bucket := range sorted {
		seen += hist[bucket]
		if seen >= target {
			return bucket
		}
	}
	return sorted[len(sorted)-1]
}
