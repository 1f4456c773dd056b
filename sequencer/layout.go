package sequencer

// Layout names the grid regions. Rows count up from the bottom of the
// lower 4x16 stage matrix.
type Layout struct {
	ControlRow  int
	EditHighRow int
	EditLowRow  int
	PlayBarRow  int

	TrackKeys [NumTracks]int // control-row columns selecting tracks 0-3
	MetaKey   int

	DurationCol int
	WidthCol    int
}

// DefaultLayout is the layout for an 8x16 grid
var DefaultLayout = Layout{
	ControlRow:  7,
	EditHighRow: 6,
	EditLowRow:  5,
	PlayBarRow:  4,
	TrackKeys:   [NumTracks]int{0, 1, 2, 3},
	MetaKey:     15,
	DurationCol: 0,
	WidthCol:    8,
}

// LayoutFor adapts DefaultLayout to a device size. On grids narrower than
// 16 columns the meta key moves to the last column so it stays reachable.
func LayoutFor(rows, cols int) Layout {
	l := DefaultLayout
	if cols > 0 && cols <= l.MetaKey {
		l.MetaKey = cols - 1
	}
	return l
}

// trackKey returns the track index selected by a control-row column, or -1
func (l Layout) trackKey(col int) int {
	for i, c := range l.TrackKeys {
		if c == col {
			return i
		}
	}
	return -1
}
