package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/mousetracks/internal/aggregate"
	"github.com/verte-zerg/mousetracks/internal/model"
)

func sampleStore() *aggregate.Store {
	s := aggregate.New(3)
	hd := model.Resolution{Width: 1920, Height: 1080}
	small := model.Resolution{Width: 800, Height: 600}
	for x := 0; x < 5; x++ {
		s.StampTrack(hd, model.Point{X: x, Y: 0})
	}
	s.StampTrack(small, model.Point{X: 1, Y: 1})
	s.AddClick(hd, aggregate.ClickSingle, aggregate.ButtonLeft, model.Point{X: 1, Y: 1})
	s.AddClick(hd, aggregate.ClickSingle, aggregate.ButtonRight, model.Point{X: 1, Y: 1})
	s.AddClick(hd, aggregate.ClickDouble, aggregate.ButtonLeft, model.Point{X: 2, Y: 2})
	s.AddTicks(300)
	s.AddKeyPress('Q')
	s.AddKeyPress('W')
	s.AddMistake('Q', 'W')
	s.AddInterval('Q', 'W', 12)
	s.AddButtonPress(3)
	s.AddAxis(0, 50)
	s.AddAxis(0, 100)
	return s
}

func TestBuildReport(t *testing.T) {
	report := BuildReport("default", sampleStore(), 10)

	if len(report.Resolutions) != 2 {
		t.Fatalf("expected 2 resolutions, got %d", len(report.Resolutions))
	}
	first := report.Resolutions[0]
	if first.Resolution != (model.Resolution{Width: 1920, Height: 1080}) || first.Pixels != 5 {
		t.Fatalf("unexpected first resolution: %+v", first)
	}
	if first.Clicks != [3]uint64{2, 0, 1} {
		t.Fatalf("unexpected click totals: %v", first.Clicks)
	}
	if len(report.Keys) != 2 || report.Keys[0].Mistakes != 1 {
		t.Fatalf("unexpected keys: %+v", report.Keys)
	}
	if report.Intervals.Samples != 1 || report.Intervals.Median != 12 {
		t.Fatalf("unexpected intervals: %+v", report.Intervals)
	}
	if len(report.Axes) != 1 || report.Axes[0].Samples != 2 || report.Axes[0].Mean != 0.75 {
		t.Fatalf("unexpected axes: %+v", report.Axes)
	}
	if len(report.Buttons) != 1 || report.Buttons[0].ID != 3 {
		t.Fatalf("unexpected buttons: %+v", report.Buttons)
	}
}

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderReport(&buf, BuildReport("work", sampleStore(), 0)); err != nil {
		t.Fatalf("render report: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Profile: work (format v3)",
		"Ticks: 300",
		"1920x1080",
		"Wanted Typed Count",
		"Samples: 1  Mean: 12.0  Median: 12  P90: 12",
		"Axis 0: 2 samples, mean 75%",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderReportEmptyStore(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderReport(&buf, BuildReport("empty", aggregate.New(3), 0)); err != nil {
		t.Fatalf("render report: %v", err)
	}
	for _, want := range []string{"No movement recorded.", "No key presses recorded.", "No gamepad input recorded."} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("report missing %q", want)
		}
	}
}

func TestFitSeries(t *testing.T) {
	got := fitSeries([]float64{1, 1, 1, 1, 1}, 2)
	if len(got) != 2 || got[0] != 3 || got[1] != 2 {
		t.Fatalf("unexpected fitted series: %v", got)
	}
}
