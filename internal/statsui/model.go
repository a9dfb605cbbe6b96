// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mousetracks/internal/model"
	"github.com/verte-zerg/mousetracks/internal/stats"
)

const (
	tabOverview = iota
	tabKeys
	tabMistakes
	tabTiming
	tabSaves
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Loader reads the latest report and save history for the viewed profile.
type Loader func() (stats.Report, []model.SaveRecord, error)

// Model implements the Bubble Tea stats UI.
type Model struct {
	load Loader

	report stats.Report
	saves  []model.SaveRecord
	errMsg string

	tabs      []string
	activeTab int
	viewports map[int]*viewport.Model
	tables    map[int]*table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model and loads the first report.
func NewModel(load Loader) *Model {
	m := &Model{
		load:      load,
		tabs:      []string{"Overview", "Keys", "Mistakes", "Timing", "Saves"},
		viewports: map[int]*viewport.Model{},
		tables:    map[int]*table.Model{},
	}
	for _, tab := range []int{tabOverview, tabTiming} {
		vp := viewport.New(0, 0)
		m.viewports[tab] = &vp
	}
	for _, tab := range []int{tabKeys, tabMistakes, tabSaves} {
		t := table.New(table.WithStyles(tableStyles()))
		m.tables[tab] = &t
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.refresh()
			m.updateLayout()
			return m, nil
		case "g", "home":
			m.gotoEdge(true)
			return m, nil
		case "G", "end":
			m.gotoEdge(false)
			return m, nil
		}
		var cmd tea.Cmd
		if t, ok := m.tables[m.activeTab]; ok {
			*t, cmd = t.Update(msg)
			return m, cmd
		}
		if vp, ok := m.viewports[m.activeTab]; ok {
			*vp, cmd = vp.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) refresh() {
	report, saves, err := m.load()
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.report = report
	m.saves = saves
	m.renderTables()
	m.renderTabContents()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(lipgloss.Height(activeNavStyle.Render("X")), 1)
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for _, vp := range m.viewports {
		vp.Width = m.width
		vp.Height = bodyHeight
	}
	for _, t := range m.tables {
		t.SetWidth(m.width)
		t.SetHeight(max(1, bodyHeight-1))
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	for tab, t := range m.tables {
		if tab == m.activeTab {
			t.Focus()
		} else {
			t.Blur()
		}
	}
}

func (m *Model) gotoEdge(top bool) {
	if t, ok := m.tables[m.activeTab]; ok {
		if top {
			t.GotoTop()
		} else {
			t.GotoBottom()
		}
		return
	}
	if vp, ok := m.viewports[m.activeTab]; ok {
		if top {
			vp.GotoTop()
		} else {
			vp.GotoBottom()
		}
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	summary := fmt.Sprintf("Profile: %s  ticks=%d  resolutions=%d  keys=%d",
		m.report.Profile, m.report.Ticks.Total, len(m.report.Resolutions), len(m.report.Keys))
	return padLines(m.renderTabs(), m.width) + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Reload: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if t, ok := m.tables[m.activeTab]; ok {
		if len(t.Rows()) == 0 {
			return emptyMessage(m.activeTab)
		}
		return tableMutedStyle.Render(t.View())
	}
	return m.viewports[m.activeTab].View()
}

func emptyMessage(tab int) string {
	switch tab {
	case tabKeys:
		return "No key presses recorded."
	case tabMistakes:
		return "No corrections recorded."
	default:
		return "No saves recorded."
	}
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabTiming].SetContent(renderSections(m.report, stats.RenderIntervals, stats.RenderGamepad))
}

func renderOverview(r stats.Report, width int) string {
	var clicks uint64
	var pixels int
	for _, res := range r.Resolutions {
		pixels += res.Pixels
		for _, n := range res.Clicks {
			clicks += n
		}
	}
	var presses uint64
	for _, k := range r.Keys {
		presses += k.Pressed
	}
	cards := []string{
		metricCard("Ticks", fmt.Sprintf("%d", r.Ticks.Total)),
		metricCard("Pixels", fmt.Sprintf("%d", pixels)),
		metricCard("Clicks", fmt.Sprintf("%d", clicks)),
		metricCard("Key presses", fmt.Sprintf("%d", presses)),
		metricCard("Corrections", fmt.Sprintf("%d", len(r.Mistakes))),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	return strings.TrimRight(summary+"\n\n"+renderSections(r, stats.RenderResolutions), "\n")
}

func renderSections(r stats.Report, sections ...func(io.Writer, stats.Report) error) string {
	var buf bytes.Buffer
	for _, render := range sections {
		if err := render(&buf, r); err != nil {
			return fmt.Sprintf("Failed to render stats: %v", err)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}
