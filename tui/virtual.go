package tui

import (
	"sync"

	"transit/debug"
	"transit/grid"
)

// VirtualGrid is an on-screen grid driven by the terminal UI
type VirtualGrid struct {
	rows, cols int
	keys       chan grid.KeyEvent

	mu     sync.Mutex
	held   map[[2]int]bool
	closed bool
}

// NewVirtualGrid creates a grid of the given size (8x16 if either is 0)
func NewVirtualGrid(rows, cols int) *VirtualGrid {
	if rows <= 0 || cols <= 0 {
		rows, cols = 8, 16
	}
	return &VirtualGrid{
		rows: rows,
		cols: cols,
		keys: make(chan grid.KeyEvent, 64),
		held: make(map[[2]int]bool),
	}
}

func (v *VirtualGrid) ID() string { return "virtual" }

func (v *VirtualGrid) Size() (rows, cols int) { return v.rows, v.cols }

func (v *VirtualGrid) Keys() <-chan grid.KeyEvent { return v.keys }

// Render is a no-op; the model draws the buffer carried by Status
func (v *VirtualGrid) Render(b *grid.Buffer) error { return nil }

// Press sends a key down. Pressing a held key does nothing.
func (v *VirtualGrid) Press(row, col int) {
	v.send(row, col, grid.Press)
}

// Release sends a key up for a held key
func (v *VirtualGrid) Release(row, col int) {
	v.send(row, col, grid.Release)
}

// Tap presses and releases a key
func (v *VirtualGrid) Tap(row, col int) {
	v.Press(row, col)
	v.Release(row, col)
}

// Toggle latches a key: press if up, release if held
func (v *VirtualGrid) Toggle(row, col int) {
	if v.Held(row, col) {
		v.Release(row, col)
	} else {
		v.Press(row, col)
	}
}

func (v *VirtualGrid) Held(row, col int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.held[[2]int{row, col}]
}

func (v *VirtualGrid) send(row, col, state int) {
	if row < 0 || row >= v.rows || col < 0 || col >= v.cols {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	key := [2]int{row, col}
	if v.held[key] == (state == grid.Press) {
		return
	}
	select {
	case v.keys <- grid.KeyEvent{Row: row, Col: col, State: state}:
		if state == grid.Press {
			v.held[key] = true
		} else {
			delete(v.held, key)
		}
	default:
		debug.Warn("virtual", "key queue full, dropped %d,%d", row, col)
	}
}

func (v *VirtualGrid) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.closed {
		v.closed = true
		close(v.keys)
	}
	return nil
}
