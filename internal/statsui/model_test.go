package statsui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/mousetracks/internal/aggregate"
	"github.com/verte-zerg/mousetracks/internal/model"
	"github.com/verte-zerg/mousetracks/internal/stats"
)

func testLoader(calls *int) Loader {
	return func() (stats.Report, []model.SaveRecord, error) {
		*calls++
		s := aggregate.New(3)
		s.StampTrack(model.Resolution{Width: 1920, Height: 1080}, model.Point{X: 1, Y: 1})
		s.AddKeyPress('A')
		s.AddMistake('A', 'S')
		saves := []model.SaveRecord{
			{Profile: "default", Reason: "save", Attempt: 1, SavedAt: time.Unix(0, 0), Bytes: 42},
			{Profile: "default", Reason: "switch", Attempt: 2, SavedAt: time.Unix(60, 0), Err: "disk full"},
		}
		return stats.BuildReport("default", s, 0), saves, nil
	}
}

func sized(t *testing.T, m *Model) *Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(*Model)
}

func TestViewRendersTabs(t *testing.T) {
	calls := 0
	m := sized(t, NewModel(testLoader(&calls)))

	view := m.View()
	if lines := strings.Split(view, "\n"); len(lines) != 30 {
		t.Fatalf("expected 30 lines, got %d", len(lines))
	}
	for _, want := range []string{"Overview", "Profile: default", "1920x1080"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestNavigationAndReload(t *testing.T) {
	calls := 0
	m := sized(t, NewModel(testLoader(&calls)))

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabKeys {
		t.Fatalf("expected keys tab, got %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabSaves {
		t.Fatalf("expected wrap to saves tab, got %d", m.activeTab)
	}
	if !strings.Contains(m.View(), "disk full") {
		t.Fatalf("saves tab should show failed attempt")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if calls != 2 {
		t.Fatalf("expected reload, loader called %d times", calls)
	}
}

func TestLoadError(t *testing.T) {
	m := sized(t, NewModel(func() (stats.Report, []model.SaveRecord, error) {
		return stats.Report{}, nil, errors.New("profile unreadable")
	}))
	if !strings.Contains(m.View(), "profile unreadable") {
		t.Fatalf("view should show load error")
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateLine("abc", 6); got != "abc" {
		t.Fatalf("short line changed: %q", got)
	}
}
