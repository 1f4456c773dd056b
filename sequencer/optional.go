package sequencer

// OptionalColumn is a column index that may be absent
type OptionalColumn struct {
	value  int
	exists bool
}

func NewOptionalColumnOf(col int) OptionalColumn {
	return OptionalColumn{value: col, exists: true}
}

func (c OptionalColumn) Unpack() (int, bool) {
	return c.value, c.exists
}

func (c OptionalColumn) Empty() bool {
	return !c.exists
}

func (c OptionalColumn) Equals(col int) bool {
	return c.exists && c.value == col
}
