package history

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/pomotui/internal/model"
)

func plotReport(minutes ...int) Report {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var r Report
	for i, m := range minutes {
		r.Days = append(r.Days, model.DaySummary{
			Day:          day.AddDate(0, 0, i),
			FocusedTotal: time.Duration(m) * time.Minute,
		})
	}
	return r
}

func TestPlotFocus(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotFocus(&buf, plotReport(25, 50, 0), 10, 4, false); err != nil {
		t.Fatalf("PlotFocus failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Focused minutes per day" {
		t.Fatalf("unexpected title: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "50m │ ") || !strings.HasPrefix(lines[3], "25m │ ") || !strings.HasPrefix(lines[4], " 0m │ ") {
		t.Fatalf("unexpected axis:\n%s", buf.String())
	}
	for _, row := range []string{lines[1], lines[4]} {
		plot := strings.SplitN(row, axisSeparator, 2)[1]
		if strings.Trim(plot, "\u2800") == "" {
			t.Fatalf("expected dots in row %q", row)
		}
	}
	if !strings.Contains(lines[5], "2026-03-01") || !strings.Contains(lines[5], "2026-03-03") {
		t.Fatalf("expected date range, got %q", lines[5])
	}
}

func TestPlotFocusForcedColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	var buf bytes.Buffer
	if err := PlotFocus(&buf, plotReport(25, 50), 10, 4, true); err != nil {
		t.Fatalf("PlotFocus failed: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes with forced color, got %q", buf.String())
	}
}

func TestPlotFocusNeedsTwoDays(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotFocus(&buf, plotReport(25), 10, 4, false); err != nil {
		t.Fatalf("PlotFocus failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80, 3); got != 80-3-3 {
		t.Fatalf("unexpected width %d", got)
	}
	if got := PlotWidthFor(0, 3); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestResample(t *testing.T) {
	got := resample([]float64{1, 3, 5, 7}, 2)
	if len(got) != 2 || got[0] != 2 || got[1] != 6 {
		t.Fatalf("unexpected downsample: %v", got)
	}
	got = resample([]float64{0, 10}, 3)
	if len(got) != 3 || got[0] != 0 || got[1] != 5 || got[2] != 10 {
		t.Fatalf("unexpected upsample: %v", got)
	}
}
