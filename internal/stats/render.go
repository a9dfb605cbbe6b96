package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// sparkWidth is the widest sparkline printed for a histogram.
const sparkWidth = 60

// RenderReport prints every report section.
func RenderReport(w io.Writer, r Report) error {
	sections := []func(io.Writer, Report) error{
		RenderSummary,
		RenderResolutions,
		RenderKeys,
		RenderMistakes,
		RenderIntervals,
		RenderGamepad,
	}
	for _, render := range sections {
		if err := render(w, r); err != nil {
			return err
		}
	}
	return nil
}

// RenderSummary prints the tick counters.
func RenderSummary(w io.Writer, r Report) error {
	lines := []string{
		fmt.Sprintf("Profile: %s (format v%d)", r.Profile, r.Version),
		fmt.Sprintf("Ticks: %d", r.Ticks.Total),
		fmt.Sprintf("Track ticks: %d", r.Ticks.Tracks),
		fmt.Sprintf("Messages: %d", r.Ticks.Recorded),
		"",
	}
	return writeLines(w, lines)
}

// RenderResolutions prints one row per resolution bucket.
func RenderResolutions(w io.Writer, r Report) error {
	if len(r.Resolutions) == 0 {
		return writeLines(w, []string{"No movement recorded.", ""})
	}
	headers := []string{"Resolution", "Enabled", "Pixels", "Clicks", "Held", "Double"}
	rows := make([][]string, 0, len(r.Resolutions))
	for _, res := range r.Resolutions {
		enabled := "no"
		if res.Enabled {
			enabled = "yes"
		}
		rows = append(rows, []string{
			res.Resolution.String(),
			enabled,
			fmt.Sprintf("%d", res.Pixels),
			fmt.Sprintf("%d", res.Clicks[0]),
			fmt.Sprintf("%d", res.Clicks[1]),
			fmt.Sprintf("%d", res.Clicks[2]),
		})
	}
	return WriteTable(w, "Resolutions", headers, rows, map[int]bool{2: true, 3: true, 4: true, 5: true})
}

// RenderKeys prints the key table.
func RenderKeys(w io.Writer, r Report) error {
	if len(r.Keys) == 0 {
		return writeLines(w, []string{"No key presses recorded.", ""})
	}
	headers := []string{"Key", "Pressed", "Held", "Mistakes"}
	rows := make([][]string, 0, len(r.Keys))
	for _, k := range r.Keys {
		rows = append(rows, []string{
			k.Name,
			fmt.Sprintf("%d", k.Pressed),
			fmt.Sprintf("%d", k.Held),
			fmt.Sprintf("%d", k.Mistakes),
		})
	}
	return WriteTable(w, "Keys", headers, rows, map[int]bool{1: true, 2: true, 3: true})
}

// RenderMistakes prints the correction ledger.
func RenderMistakes(w io.Writer, r Report) error {
	if len(r.Mistakes) == 0 {
		return writeLines(w, []string{"No corrections recorded.", ""})
	}
	headers := []string{"Wanted", "Typed", "Count"}
	rows := make([][]string, 0, len(r.Mistakes))
	for _, m := range r.Mistakes {
		rows = append(rows, []string{m.Wanted, m.Typed, fmt.Sprintf("%d", m.Count)})
	}
	return WriteTable(w, "Mistakes", headers, rows, map[int]bool{2: true})
}

// RenderIntervals prints the key interval distribution.
func RenderIntervals(w io.Writer, r Report) error {
	h := r.Intervals
	if h.Samples == 0 {
		return writeLines(w, []string{"No key intervals recorded.", ""})
	}
	lines := []string{
		"Key Intervals (ticks)",
		fmt.Sprintf("Samples: %d  Mean: %.1f  Median: %d  P90: %d", h.Samples, h.Mean, h.Median, h.P90),
		"[" + Sparkline(fitSeries(h.Values, sparkWidth)) + "]",
	}
	if h.Overflow > 0 {
		lines = append(lines, fmt.Sprintf("Longer than %d ticks: %d", len(h.Values), h.Overflow))
	}
	lines = append(lines, "")
	return writeLines(w, lines)
}

// RenderGamepad prints controller buttons and axes.
func RenderGamepad(w io.Writer, r Report) error {
	if len(r.Buttons) == 0 && len(r.Axes) == 0 {
		return writeLines(w, []string{"No gamepad input recorded.", ""})
	}
	if len(r.Buttons) > 0 {
		rows := make([][]string, 0, len(r.Buttons))
		for _, b := range r.Buttons {
			rows = append(rows, []string{
				fmt.Sprintf("%d", b.ID),
				fmt.Sprintf("%d", b.Pressed),
				fmt.Sprintf("%d", b.Held),
			})
		}
		if err := WriteTable(w, "Gamepad Buttons", []string{"Button", "Pressed", "Held"}, rows, map[int]bool{0: true, 1: true, 2: true}); err != nil {
			return err
		}
	}
	if len(r.Axes) > 0 {
		lines := []string{"Gamepad Axes"}
		for _, a := range r.Axes {
			lines = append(lines, fmt.Sprintf("Axis %d: %d samples, mean %.0f%% [%s]",
				a.Axis, a.Samples, a.Mean*100, Sparkline(fitSeries(a.Values, sparkWidth))))
		}
		lines = append(lines, "")
		return writeLines(w, lines)
	}
	return nil
}

// fitSeries sums adjacent values so the series is at most width long.
func fitSeries(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	per := (len(values) + width - 1) / width
	out := make([]float64, 0, width)
	for i := 0; i < len(values); i += per {
		var sum float64
		for _, v := range values[i:min(i+per, len(values))] {
			sum += v
		}
		out = append(out, sum)
	}
	return out
}

// WriteTable prints a titled table followed by a blank line.
func WriteTable(w io.Writer, title string, headers []string, rows [][]string, rightAlign map[int]bool) error {
	lines := append([]string{title}, formatTable(headers, rows, rightAlign)...)
	lines = append(lines, "")
	return writeLines(w, lines)
}

// formatTable aligns headers and rows into columns separated by one space.
// Columns in rightAlign are padded on the left; short rows get empty cells.
func formatTable(headers []string, rows [][]string, rightAlign map[int]bool) []string {
	widths := columnWidths(headers, rows)
	if len(widths) == 0 {
		return nil
	}
	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, alignRow(headers, widths, rightAlign))
	}
	for _, row := range rows {
		lines = append(lines, alignRow(row, widths, rightAlign))
	}
	return lines
}

// columnWidths measures terminal cells, so wide runes take two.
func columnWidths(headers []string, rows [][]string) []int {
	n := len(headers)
	for _, row := range rows {
		n = max(n, len(row))
	}
	widths := make([]int, n)
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}
	return widths
}

func alignRow(row []string, widths []int, rightAlign map[int]bool) string {
	cells := make([]string, len(widths))
	for i, width := range widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		if rightAlign[i] {
			cells[i] = runewidth.FillLeft(cell, width)
		} else {
			cells[i] = runewidth.FillRight(cell, width)
		}
	}
	return strings.Join(cells, " ")
}

func writeLines(w io.Writer, lines []string) error {
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}
