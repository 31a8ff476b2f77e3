package history

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisSeparator       = " │ "
	terminalWidthBackup = 80
)

// PlotFocus draws focused minutes per day as a braille line chart scaled from zero
// to the busiest day. Width and height of 0 pick defaults from the terminal.
func PlotFocus(w io.Writer, report Report, width, height int, forceColor bool) error {
	if len(report.Days) < 2 {
		return nil
	}
	values := make([]float64, 0, len(report.Days))
	top := 0.0
	for _, d := range report.Days {
		v := d.FocusedTotal.Minutes()
		values = append(values, v)
		top = math.Max(top, v)
	}
	if top == 0 {
		top = 1
	}

	if height <= 0 {
		height = defaultPlotHeight
	}
	labels := axisLabels(top, height)
	axisW := 0
	for _, l := range labels {
		axisW = max(axisW, runewidth.StringWidth(l))
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth(), axisW)
	}
	width = max(width, minPlotWidth)

	cells := makeCells(height, width)
	prevX, prevY := -1, -1
	for x, v := range resample(values, width) {
		px, py := x*2, valueToRow(v, top, height*4)
		if prevX >= 0 {
			drawLine(prevX, prevY, px, py, func(dx, dy int) {
				setBrailleDot(cells, dx, dy)
			})
		} else {
			setBrailleDot(cells, px, py)
		}
		prevX, prevY = px, py
	}

	useColor := shouldUseColor(w, forceColor)
	lineStyle := colorRenderer(w).NewStyle().Foreground(lipgloss.Color(plotColor))
	if _, err := fmt.Fprintln(w, "Focused minutes per day"); err != nil {
		return err
	}
	for y := 0; y < height; y++ {
		var row strings.Builder
		for x := 0; x < width; x++ {
			row.WriteRune(brailleFromMask(cells[y][x]))
		}
		line := row.String()
		if useColor {
			line = lineStyle.Render(line)
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", runewidth.FillLeft(labels[y], axisW), axisSeparator, line); err != nil {
			return err
		}
	}
	first := report.Days[0].Day.Format("2006-01-02")
	last := report.Days[len(report.Days)-1].Day.Format("2006-01-02")
	gap := max(width-len(first)-len(last), 1)
	_, err := fmt.Fprintf(w, "%s%s%s%s%s\n\n", strings.Repeat(" ", axisW), axisSeparator, first, strings.Repeat(" ", gap), last)
	return err
}

// PlotWidthFor computes a plot width that fits next to an axis of axisW cells.
func PlotWidthFor(totalWidth, axisW int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(totalWidth-axisW-runewidth.StringWidth(axisSeparator), minPlotWidth)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func axisLabels(top float64, height int) []string {
	if height <= 0 {
		return nil
	}
	labels := make([]string, height)
	labels[0] = fmt.Sprintf("%.0fm", top)
	if height > 2 {
		labels[height/2] = fmt.Sprintf("%.0fm", top/2)
	}
	if height > 1 {
		labels[height-1] = "0m"
	}
	return labels
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

// resample stretches or averages values to exactly width points.
func resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	if len(values) >= width {
		for i := 0; i < width; i++ {
			start := i * len(values) / width
			end := max((i+1)*len(values)/width, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	if width == 1 {
		out[0] = values[0]
		return out
	}
	for i := 0; i < width; i++ {
		pos := float64(i) * float64(len(values)-1) / float64(width-1)
		idx := int(math.Floor(pos))
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

// valueToRow maps v in [0, top] to a dot row, 0 being the top edge.
func valueToRow(v, top float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	row := int(math.Round((1 - v/top) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Braille dot bits, indexed by [column][row] within a 2x4 cell.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cy, cx := y/4, x/2
	if cy >= len(cells) || cx >= len(cells[cy]) {
		return
	}
	cells[cy][cx] |= brailleBits[x%2][y%4]
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
