package tui

import (
	"strings"
)

// pixelSize selects how glyph pixels map to terminal cells.
type pixelSize uint8

const (
	// pixelFull draws every pixel as two full-block cells.
	pixelFull pixelSize = iota
	// pixelHalf packs two pixel rows into one cell row with half blocks.
	pixelHalf
)

const glyphHeight = 5

// 3x5 pixel font for the countdown.
var glyphs = map[rune][glyphHeight]string{
	'0': {"###", "#.#", "#.#", "#.#", "###"},
	'1': {".#.", "##.", ".#.", ".#.", "###"},
	'2': {"###", "..#", "###", "#..", "###"},
	'3': {"###", "..#", "###", "..#", "###"},
	'4': {"#.#", "#.#", "###", "..#", "..#"},
	'5': {"###", "#..", "###", "..#", "###"},
	'6': {"###", "#..", "###", "#.#", "###"},
	'7': {"###", "..#", "..#", "..#", "..#"},
	'8': {"###", "#.#", "###", "#.#", "###"},
	'9': {"###", "#.#", "###", "..#", "###"},
	':': {".", "#", ".", "#", "."},
	' ': {".", ".", ".", ".", "."},
}

// bigText renders s with the pixel font. Unknown runes render as blanks.
func bigText(s string, size pixelSize) string {
	rows := pixelRows(s)
	switch size {
	case pixelHalf:
		return renderHalf(rows)
	default:
		return renderFull(rows)
	}
}

func pixelRows(s string) [glyphHeight]string {
	var rows [glyphHeight]strings.Builder
	for i, r := range s {
		g, ok := glyphs[r]
		if !ok {
			g = glyphs[' ']
		}
		for y := 0; y < glyphHeight; y++ {
			if i > 0 {
				rows[y].WriteByte('.')
			}
			rows[y].WriteString(g[y])
		}
	}
	var out [glyphHeight]string
	for y := range rows {
		out[y] = rows[y].String()
	}
	return out
}

func renderFull(rows [glyphHeight]string) string {
	lines := make([]string, 0, glyphHeight)
	for _, row := range rows {
		var b strings.Builder
		for _, px := range row {
			if px == '#' {
				b.WriteString("██")
			} else {
				b.WriteString("  ")
			}
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func renderHalf(rows [glyphHeight]string) string {
	lines := make([]string, 0, (glyphHeight+1)/2)
	for y := 0; y < glyphHeight; y += 2 {
		top := []rune(rows[y])
		var bottom []rune
		if y+1 < glyphHeight {
			bottom = []rune(rows[y+1])
		}
		var b strings.Builder
		for x, t := range top {
			upper := t == '#'
			lower := x < len(bottom) && bottom[x] == '#'
			switch {
			case upper && lower:
				b.WriteRune('█')
			case upper:
				b.WriteRune('▀')
			case lower:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}
