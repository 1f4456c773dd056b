package sequencer

// The lower 4x16 region of the grid addresses the 64 stages of a sequence.
// Row 3 holds stages 0-15, row 0 holds stages 48-63.

// GridToStage maps a lower-grid cell to a stage index
func GridToStage(row, col int) int {
	return (3-row)*16 + col
}

// StageToGrid maps a stage index back to its lower-grid cell
func StageToGrid(stage int) (row, col int) {
	return 3 - (stage >> 4), stage & 15
}

// Split breaks a parameter value into the counts shown on the two
// parameter rows: high*8 + low == value.
func Split(value int) (high, low int) {
	high = value >> 3
	low = value - high*8
	return high, low
}
