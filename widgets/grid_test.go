package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"transit/grid"
	"transit/theme"
)

func TestRenderLevelGridShape(t *testing.T) {
	b := grid.NewBuffer(8, 16)
	b.Set(7, 0, 9)
	out := RenderLevelGrid(b, theme.New(nil), &[2]int{0, 15})

	lines := strings.Split(out, "\n")
	if len(lines) != 8 {
		t.Fatalf("lines = %d, want 8", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 16*CellWidth-1 {
			t.Errorf("line %d width = %d", i, w)
		}
	}
	if !strings.Contains(lines[0], "■") {
		t.Error("lit cell on row 7 should be on the first line")
	}
	if !strings.Contains(lines[7], "◉") {
		t.Error("cursor on row 0 should be on the last line")
	}
}

func TestCellAt(t *testing.T) {
	tests := []struct {
		x, y     int
		row, col int
		ok       bool
	}{
		{0, 0, 7, 0, true},
		{1, 0, 7, 0, true},
		{2, 7, 0, 1, true},
		{31, 3, 4, 15, true},
		{32, 0, 0, 0, false},
		{0, 8, 0, 0, false},
		{-1, 0, 0, 0, false},
	}
	for _, tt := range tests {
		row, col, ok := CellAt(tt.x, tt.y, 8, 16)
		if ok != tt.ok || (ok && (row != tt.row || col != tt.col)) {
			t.Errorf("CellAt(%d, %d) = (%d, %d, %v)", tt.x, tt.y, row, col, ok)
		}
	}
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{{Title: "Grid", Keys: []KeyBinding{{"space", "tap"}}}})
	if out != "Grid\n  space        tap" {
		t.Errorf("help = %q", out)
	}
}
