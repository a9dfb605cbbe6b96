package monitor

import (
	"testing"

	"github.com/verte-zerg/mousetracks/internal/model"
)

func TestResolveMultiMonitor(t *testing.T) {
	r := Resolver{
		MultiMonitor: true,
		Monitors: []model.Rect{
			{Left: 0, Top: 0, Right: 1920, Bottom: 1080},
			{Left: -1280, Top: 0, Right: 0, Bottom: 1024},
		},
	}

	res, p, ok := r.Resolve(model.Point{X: -10, Y: 20})
	if !ok {
		t.Fatalf("expected point on secondary monitor")
	}
	if res != (model.Resolution{Width: 1280, Height: 1024}) {
		t.Fatalf("unexpected resolution: %v", res)
	}
	if p != (model.Point{X: 1270, Y: 20}) {
		t.Fatalf("unexpected local point: %v", p)
	}

	if _, _, ok := r.Resolve(model.Point{X: -10, Y: 1050}); ok {
		t.Fatalf("expected point below secondary monitor to be unresolved")
	}
}

func TestResolveOverrideWins(t *testing.T) {
	r := Resolver{
		MultiMonitor: true,
		Monitors:     []model.Rect{{Left: 0, Top: 0, Right: 1920, Bottom: 1080}},
		Override:     []model.Rect{{Left: 100, Top: 100, Right: 900, Bottom: 700}},
	}
	res, p, ok := r.Resolve(model.Point{X: 150, Y: 120})
	if !ok {
		t.Fatalf("expected override hit")
	}
	if res != (model.Resolution{Width: 800, Height: 600}) || p != (model.Point{X: 50, Y: 20}) {
		t.Fatalf("unexpected override result: %v %v", res, p)
	}

	res, _, ok = r.Resolve(model.Point{X: 1000, Y: 10})
	if !ok || res != (model.Resolution{Width: 1920, Height: 1080}) {
		t.Fatalf("expected fallback to monitor, got %v %v", res, ok)
	}
}

func TestResolveSingleDesktop(t *testing.T) {
	r := Resolver{
		Desktop:  model.Resolution{Width: 2560, Height: 1440},
		Monitors: []model.Rect{{Left: 0, Top: 0, Right: 10, Bottom: 10}},
	}
	res, p, ok := r.Resolve(model.Point{X: 2000, Y: 1000})
	if !ok || res != r.Desktop || p != (model.Point{X: 2000, Y: 1000}) {
		t.Fatalf("single desktop mode should pass through: %v %v %v", res, p, ok)
	}

	var empty Resolver
	if _, _, ok := empty.Resolve(model.Point{}); ok {
		t.Fatalf("zero resolver should resolve nothing")
	}
}

func TestBucketsDeduplicates(t *testing.T) {
	r := Resolver{
		MultiMonitor: true,
		Monitors: []model.Rect{
			{Left: 0, Top: 0, Right: 1920, Bottom: 1080},
			{Left: 1920, Top: 0, Right: 3840, Bottom: 1080},
		},
	}
	buckets := r.Buckets()
	if len(buckets) != 1 || buckets[0] != (model.Resolution{Width: 1920, Height: 1080}) {
		t.Fatalf("unexpected buckets: %v", buckets)
	}
}
