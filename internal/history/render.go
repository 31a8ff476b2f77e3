package history

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/verte-zerg/pomotui/internal/timer"
)

const (
	headerColor = "#C89A3A"
	plotColor   = "#5B9BD5"
)

// colorRenderer returns a renderer bound to w that always emits ANSI colors,
// so output stays colored when w is a pipe or a buffer.
func colorRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI256)
	return r
}

// Render writes the report as an aligned table followed by totals.
func Render(w io.Writer, report Report, forceColor bool) error {
	if len(report.Days) == 0 {
		_, err := fmt.Fprintln(w, "No completed intervals yet.")
		return err
	}
	rows := make([][]string, 0, len(report.Days))
	for _, d := range report.Days {
		rows = append(rows, []string{
			d.Day.Format("2006-01-02 Mon"),
			fmt.Sprintf("%d", d.Pomodoros),
			fmt.Sprintf("%d", d.Breaks),
			formatFocused(d.FocusedTotal),
		})
	}
	lines := formatTable([]string{"Day", "Pomodoros", "Breaks", "Focused"}, rows, map[int]bool{1: true, 2: true, 3: true})
	if shouldUseColor(w, forceColor) {
		header := colorRenderer(w).NewStyle().Bold(true).Foreground(lipgloss.Color(headerColor))
		lines[0] = header.Render(lines[0])
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nTotal: %d pomodoros, %s focused\n", report.Pomodoros, formatFocused(report.FocusedTotal))
	return err
}

// formatFocused renders a duration as MM:SS using the timer clock format.
func formatFocused(d time.Duration) string {
	return timer.FormatClock(d)
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
