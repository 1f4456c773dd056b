package midi

import (
	"fmt"
	"strings"

	"transit/theme"
)

// Kind identifies the Launchpad protocol family
type Kind int

const (
	KindUnknown Kind = iota
	// KindX covers RGB Launchpads in programmer mode (X, Mini MK3)
	KindX
	// KindS covers classic red/green Launchpads (S, Mini MK1/2)
	KindS
)

func (k Kind) String() string {
	switch k {
	case KindX:
		return "x"
	case KindS:
		return "s"
	}
	return "unknown"
}

// ParseKind reads a config value ("x", "s" or "" for auto)
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return KindUnknown, nil
	case "x", "launchpad-x", "mk3":
		return KindX, nil
	case "s", "launchpad-s", "classic":
		return KindS, nil
	}
	return KindUnknown, fmt.Errorf("unknown launchpad type %q", s)
}

// kindFromName guesses the protocol from a port name
func kindFromName(name string) Kind {
	name = strings.ToLower(name)
	if !strings.Contains(name, "launchpad") {
		return KindUnknown
	}
	switch {
	case strings.Contains(name, "lpx"), strings.Contains(name, "launchpad x"),
		strings.Contains(name, "mk3"):
		return KindX
	case strings.Contains(name, "launchpad s"), strings.Contains(name, "launchpad mini"):
		return KindS
	}
	// bare "Launchpad" is the original classic model
	return KindS
}

// Launchpad X note mapping
// 8x8 Grid:  Row 0 (bottom) = notes 11-18, Row 7 = notes 81-88
// Side col and top row (19..89, CC 91-98) are not part of the grid

func xNote(row, col int) uint8 {
	return uint8((row+1)*10 + col + 1)
}

func xRowCol(note uint8) (row, col int) {
	row = int(note/10) - 1
	col = int(note%10) - 1
	if row < 0 || row > 7 || col < 0 || col > 7 {
		return -1, -1
	}
	return row, col
}

// Launchpad S note mapping
// The top pad row is notes 0-7, each row below adds 16. Column 8 is the
// scene button and CC 104-111 the top buttons; neither is part of the grid.
// Grid row 7 is the top pad row.

func sNote(row, col int) uint8 {
	return uint8((7-row)*16 + col)
}

func sRowCol(note uint8) (row, col int) {
	r := int(note) / 16
	col = int(note) % 16
	if r > 7 || col > 7 {
		return -1, -1
	}
	return 7 - r, col
}

// xVelocity finds the nearest Launchpad X palette color for an RGB value
func xVelocity(rgb theme.RGB) uint8 {
	// Launchpad X palette - approximate RGB values for key colors
	// Format: {velocity, R, G, B}
	palette := [][4]uint8{
		{0, 0, 0, 0},         // off
		{5, 255, 0, 0},       // red
		{6, 255, 80, 80},     // bright red
		{7, 180, 60, 60},     // dim red
		{9, 255, 100, 0},     // orange
		{11, 180, 80, 40},    // dim orange
		{13, 255, 200, 0},    // yellow
		{17, 0, 180, 0},      // green
		{19, 0, 100, 0},      // dim green
		{21, 0, 255, 0},      // bright green
		{37, 0, 200, 200},    // cyan
		{43, 40, 60, 120},    // dim blue
		{45, 0, 100, 255},    // blue
		{47, 80, 150, 255},   // bright blue
		{49, 150, 0, 200},    // purple
		{53, 255, 80, 180},   // pink
		{61, 120, 40, 0},     // dark amber
		{83, 60, 20, 0},      // faint amber
		{84, 255, 150, 50},   // bright orange
		{87, 150, 255, 100},  // lime
		{97, 180, 180, 60},   // dim yellow
		{108, 255, 210, 120}, // pale amber
		{119, 255, 255, 255}, // white
	}

	bestMatch := uint8(0)
	bestDist := 1 << 30

	r, g, b := int(rgb[0]), int(rgb[1]), int(rgb[2])

	for _, p := range palette {
		pr, pg, pb := int(p[1]), int(p[2]), int(p[3])
		dist := (r-pr)*(r-pr) + (g-pg)*(g-pg) + (b-pb)*(b-pb)
		if dist < bestDist {
			bestDist = dist
			bestMatch = p[0]
		}
	}

	return bestMatch
}

// sVelocity builds a classic Launchpad velocity: bits 5-4 green, bits 3-2
// copy+clear flags, bits 1-0 red
func sVelocity(rgb theme.RGB) uint8 {
	if rgb[0] < 10 && rgb[1] < 10 && rgb[2] < 10 {
		return 0x0C
	}
	// no blue LED: fold blue into red and green, scaled to 0-127
	effectiveR := int(rgb[0])/2 + int(rgb[2])/8
	effectiveG := int(rgb[1])/2 + int(rgb[2])*3/8
	if effectiveR > 127 {
		effectiveR = 127
	}
	if effectiveG > 127 {
		effectiveG = 127
	}
	red := colorTo4Level(uint8(effectiveR))
	green := colorTo4Level(uint8(effectiveG))
	if red == 0 && green == 0 {
		// dim but lit: keep it visible
		red = 1
	}
	return (green << 4) | 0x0C | red
}

// colorTo4Level converts 0-127 color value to 0-3 intensity
func colorTo4Level(value uint8) uint8 {
	switch {
	case value < 32:
		return 0
	case value < 64:
		return 1
	case value < 96:
		return 2
	}
	return 3
}
