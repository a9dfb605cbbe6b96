package stats

import (
	"math"
	"testing"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if same := MovingAverage([]float64{1, 5}, 1); same[0] != 1 || same[1] != 5 {
		t.Fatalf("window 1 should copy values: %v", same)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("flat series should use the middle glyph, got %q", got)
	}
}

func TestNewHistogram(t *testing.T) {
	h := NewHistogram(map[uint64]uint64{2: 3, 4: 1, 10: 1, 7: 0}, 6)
	if h.Samples != 5 {
		t.Fatalf("expected 5 samples, got %d", h.Samples)
	}
	if math.Abs(h.Mean-4.0) > 1e-9 {
		t.Fatalf("expected mean 4, got %v", h.Mean)
	}
	if h.Median != 2 || h.P90 != 10 {
		t.Fatalf("unexpected percentiles: median %d p90 %d", h.Median, h.P90)
	}
	if len(h.Values) != 6 || h.Values[2] != 3 || h.Values[4] != 1 {
		t.Fatalf("unexpected values: %v", h.Values)
	}
	if h.Overflow != 1 {
		t.Fatalf("expected 1 overflow sample, got %d", h.Overflow)
	}
}

func TestNewHistogramEmpty(t *testing.T) {
	h := NewHistogram(map[uint64]uint64{3: 0}, 10)
	if h.Samples != 0 || h.Values != nil {
		t.Fatalf("expected empty histogram, got %+v", h)
	}
}
