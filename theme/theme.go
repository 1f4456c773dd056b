package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"transit/grid"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	Off    rune // · unlit cell
	Lit    rune // ■ lit cell, colored by level
	Cursor rune // ◉ keyboard cursor
}

// LevelColors maps every grid brightness level to a color
type LevelColors [grid.MaxLevel + 1]RGB

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Off:    '·',
			Lit:    '■',
			Cursor: '◉',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleMuted  = 0.2
	RoleFG     = 0.6
	RoleAccent = 0.8
	RoleCursor = 1.0
)

// Style helpers

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Cursor() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleCursor))
}

// Level returns the color for a grid level. Level 0 is off (black); the rest
// spread over the palette.
func (t *Theme) Level(level uint8) RGB {
	if level == 0 {
		return RGB{}
	}
	if level > grid.MaxLevel {
		level = grid.MaxLevel
	}
	return t.Palette.Lookup(float64(level-1) / float64(grid.MaxLevel-1))
}

// Levels precomputes Level for every level (for Launchpad output)
func (t *Theme) Levels() LevelColors {
	var lc LevelColors
	for i := range lc {
		lc[i] = t.Level(uint8(i))
	}
	return lc
}

// LevelColor returns lipgloss color for a grid level
func (t *Theme) LevelColor(level uint8) lipgloss.Color {
	return rgbToLipgloss(t.Level(level))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
