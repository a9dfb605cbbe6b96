package statsui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) renderTables() {
	keyRows := make([]table.Row, 0, len(m.report.Keys))
	for _, k := range m.report.Keys {
		keyRows = append(keyRows, table.Row{
			k.Name,
			fmt.Sprintf("%d", k.Pressed),
			fmt.Sprintf("%d", k.Held),
			fmt.Sprintf("%d", k.Mistakes),
		})
	}
	setTable(m.tables[tabKeys], []table.Column{
		{Title: "Key", Width: 10},
		{Title: "Pressed", Width: 10},
		{Title: "Held", Width: 10},
		{Title: "Mistakes", Width: 9},
	}, keyRows)

	mistakeRows := make([]table.Row, 0, len(m.report.Mistakes))
	for _, mk := range m.report.Mistakes {
		mistakeRows = append(mistakeRows, table.Row{mk.Wanted, mk.Typed, fmt.Sprintf("%d", mk.Count)})
	}
	setTable(m.tables[tabMistakes], []table.Column{
		{Title: "Wanted", Width: 10},
		{Title: "Typed", Width: 10},
		{Title: "Count", Width: 8},
	}, mistakeRows)

	saveRows := make([]table.Row, 0, len(m.saves))
	for _, rec := range m.saves {
		status := "ok"
		if !rec.Succeeded() {
			status = rec.Err
		}
		saveRows = append(saveRows, table.Row{
			rec.SavedAt.Local().Format(time.DateTime),
			rec.Reason,
			fmt.Sprintf("%d", rec.Attempt),
			fmt.Sprintf("%d", rec.Bytes),
			status,
		})
	}
	setTable(m.tables[tabSaves], []table.Column{
		{Title: "Saved at", Width: 19},
		{Title: "Reason", Width: 8},
		{Title: "Try", Width: 3},
		{Title: "Bytes", Width: 9},
		{Title: "Status", Width: 30},
	}, saveRows)
}

func setTable(t *table.Model, cols []table.Column, rows []table.Row) {
	// Rows must be cleared before the columns shrink.
	t.SetRows(nil)
	t.SetColumns(cols)
	t.SetRows(rows)
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
