package tui

import (
	_ "embed"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/pomotui/internal/session"
)

// Computer art by jgs, cats by Felix Lee (asciiart.eu).
var (
	//go:embed art/computer.txt
	computerArt string
	//go:embed art/sleeping_cat.txt
	sleepingCatArt string
)

var artLines = map[session.Phase][]string{
	session.Work:  splitArt(computerArt),
	session.Break: splitArt(sleepingCatArt),
}

// splitArt pads every line to the widest one so centering keeps the picture aligned.
func splitArt(s string) []string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	width := 0
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w > width {
			width = w
		}
	}
	for i, line := range lines {
		lines[i] = runewidth.FillRight(line, width)
	}
	return lines
}

func artFor(p session.Phase) string {
	return strings.Join(artLines[p], "\n")
}
