package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pomotui/internal/session"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	title = " Pomodoro "

	workColor  = "#5B9BD5"
	breakColor = "#6BBF59"
)

var (
	borderStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	footerKeyStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(workColor))
	footerDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	artStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// phaseView holds per-phase display parameters.
type phaseView struct {
	color string
}

var phaseViews = map[session.Phase]phaseView{
	session.Work:  {color: workColor},
	session.Break: {color: breakColor},
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	width, height := m.width, m.height
	if width <= 0 || height <= 0 {
		width, height = defaultWidth, defaultHeight
	}
	if width < 4 || height < 4 {
		return m.session.Timer(m.session.Phase()).Format()
	}
	innerW, innerH := width-2, height-2

	artW := 0
	if !m.hideImage {
		artW = innerW / 2
	}
	timersW := innerW - artW

	columns := []string{}
	if artW > 0 {
		art := artStyle.Render(artFor(m.session.Phase()))
		columns = append(columns, lipgloss.Place(artW, innerH, lipgloss.Center, lipgloss.Center, art))
	}
	columns = append(columns, lipgloss.Place(timersW, innerH, lipgloss.Center, lipgloss.Center, m.renderTimers(timersW)))
	body := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	return frame(body, width, height, titleStyle.Render(title), m.renderFooter())
}

func (m *Model) renderTimers(width int) string {
	active := m.session.Phase()
	blocks := make([]string, 0, 4)
	for _, p := range []session.Phase{session.Work, session.Break} {
		size := pixelHalf
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(phaseViews[p].color))
		if p == active {
			size = pixelFull
			style = style.Bold(true)
		} else {
			style = style.Faint(true)
		}
		blocks = append(blocks, style.Render(bigText(m.session.Timer(p).Format(), size)), "")
	}

	bar := m.progress
	bar.FullColor = phaseViews[active].color
	bar.Width = max(width*2/3, 10)
	blocks = append(blocks, bar.ViewAs(m.session.Progress()), statusStyle.Render(m.renderStatus()))
	return lipgloss.JoinVertical(lipgloss.Center, blocks...)
}

func (m *Model) renderStatus() string {
	state := "paused"
	if m.session.IsRunning() {
		state = "running"
	}
	return fmt.Sprintf("%s · %s · %d completed", m.session.Phase(), state, m.session.Completed())
}

// renderFooter lists each binding as its label followed by its key, e.g. "Start <S>".
func (m *Model) renderFooter() string {
	bindings := m.keys.footerBindings(m.session.IsRunning())
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, footerDescStyle.Render(h.Desc)+" "+footerKeyStyle.Render(h.Key))
	}
	return " " + strings.Join(parts, footerDescStyle.Render("  ")) + " "
}

// frame draws a thick border with the title centred in the top edge and the
// footer centred in the bottom edge.
func frame(body string, width, height int, top, bottom string) string {
	b := lipgloss.ThickBorder()
	innerW := width - 2
	topLine := borderStyle.Render(b.TopLeft) + edge(b.Top, top, innerW) + borderStyle.Render(b.TopRight)
	bottomLine := borderStyle.Render(b.BottomLeft) + edge(b.Bottom, bottom, innerW) + borderStyle.Render(b.BottomRight)
	mid := lipgloss.NewStyle().
		Border(b, false, true).
		BorderForeground(borderStyle.GetForeground()).
		Width(innerW).
		Height(height - 2).
		MaxWidth(width).
		MaxHeight(height - 2).
		Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, topLine, mid, bottomLine)
}

func edge(fill, label string, width int) string {
	labelW := lipgloss.Width(label)
	if labelW > width {
		return borderStyle.Render(strings.Repeat(fill, width))
	}
	left := (width - labelW) / 2
	right := width - labelW - left
	return borderStyle.Render(strings.Repeat(fill, left)) + label + borderStyle.Render(strings.Repeat(fill, right))
}
