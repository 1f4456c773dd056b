package grid

// MaxLevel is the brightest LED level (monome varibright scale 0-15)
const MaxLevel = 15

// Buffer holds one brightness level per cell, row-major
type Buffer struct {
	rows, cols int
	levels     []uint8
}

// NewBuffer allocates a dark rows x cols buffer
func NewBuffer(rows, cols int) *Buffer {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Buffer{
		rows:   rows,
		cols:   cols,
		levels: make([]uint8, rows*cols),
	}
}

func (b *Buffer) Rows() int { return b.rows }
func (b *Buffer) Cols() int { return b.cols }

// Set stores a level for one cell. Levels are clamped to [0, MaxLevel] and
// cells outside the buffer are ignored, so smaller devices simply don't show
// them.
func (b *Buffer) Set(row, col, level int) {
	if !b.contains(row, col) {
		return
	}
	if level < 0 {
		level = 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	b.levels[row*b.cols+col] = uint8(level)
}

// Level returns the level of a cell (0 outside the buffer)
func (b *Buffer) Level(row, col int) uint8 {
	if !b.contains(row, col) {
		return 0
	}
	return b.levels[row*b.cols+col]
}

// Clear turns every cell off
func (b *Buffer) Clear() {
	for i := range b.levels {
		b.levels[i] = 0
	}
}

// Clone returns an independent copy
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{rows: b.rows, cols: b.cols, levels: make([]uint8, len(b.levels))}
	copy(c.levels, b.levels)
	return c
}

// Equal reports whether two buffers have the same shape and levels
func (b *Buffer) Equal(o *Buffer) bool {
	if o == nil || b.rows != o.rows || b.cols != o.cols {
		return false
	}
	for i, l := range b.levels {
		if o.levels[i] != l {
			return false
		}
	}
	return true
}

func (b *Buffer) contains(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}
