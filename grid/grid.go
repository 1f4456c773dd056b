// Package grid describes a button/LED grid: key events coming in, brightness
// buffers going out. Drivers for real hardware live in serialosc and midi.
package grid

// Key states carried by KeyEvent.State
const (
	Release = 0
	Press   = 1
)

// KeyEvent is sent when a grid button changes state
type KeyEvent struct {
	Row, Col int
	State    int // Press or Release
}

// Pressed reports whether the event is a press edge
func (e KeyEvent) Pressed() bool {
	return e.State == Press
}

// Device is the interface every grid driver implements.
//
// Constructors perform the connect/handshake; once a Device is returned its
// size is known and it is ready to receive buffers.
type Device interface {
	ID() string

	// Size is the number of rows and columns of the LED matrix
	Size() (rows, cols int)

	// Keys delivers every press and release. It is closed when the device
	// goes away.
	Keys() <-chan KeyEvent

	// Render submits a full buffer to the hardware
	Render(b *Buffer) error

	Close() error
}
