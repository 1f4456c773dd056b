package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"transit/grid"
	"transit/theme"
)

// CellWidth is the number of terminal columns one grid cell takes
const CellWidth = 2

// RenderPad renders a single colored pad
func RenderPad(color [3]uint8, symbol rune) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render(string(symbol))
}

// RenderLevelGrid draws a buffer with the highest row on top. cursor, when
// not nil, marks one cell as {row, col}.
func RenderLevelGrid(b *grid.Buffer, th *theme.Theme, cursor *[2]int) string {
	if b == nil {
		return ""
	}
	var lines []string
	for row := b.Rows() - 1; row >= 0; row-- {
		var line strings.Builder
		for col := 0; col < b.Cols(); col++ {
			level := b.Level(row, col)
			symbol := th.Symbols.Lit
			color := th.Level(level)
			if level == 0 {
				symbol = th.Symbols.Off
				color = th.Palette.Lookup(theme.RoleMuted)
			}
			if cursor != nil && cursor[0] == row && cursor[1] == col {
				symbol = th.Symbols.Cursor
				if level == 0 {
					color = th.Palette.Lookup(theme.RoleCursor)
				}
			}
			line.WriteString(RenderPad(color, symbol))
			if col < b.Cols()-1 {
				line.WriteString(strings.Repeat(" ", CellWidth-1))
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// CellAt maps a position relative to the top-left of a RenderLevelGrid
// output back to {row, col}
func CellAt(x, y, rows, cols int) (row, col int, ok bool) {
	if x < 0 || y < 0 || y >= rows || x >= cols*CellWidth {
		return 0, 0, false
	}
	return rows - 1 - y, x / CellWidth, true
}

// RenderLegendItem renders a single legend item: "■ Name - description"
func RenderLegendItem(color [3]uint8, symbol rune, name, desc string) string {
	return fmt.Sprintf("  %s %s - %s", RenderPad(color, symbol), name, desc)
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
