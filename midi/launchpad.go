package midi

import (
	"fmt"
	"sync"

	"transit/debug"
	"transit/grid"
	"transit/theme"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

const (
	gridRows = 8
	gridCols = 8
)

// Launchpad drives the 8x8 pad matrix of a Novation Launchpad as a grid
type Launchpad struct {
	id     string
	kind   Kind
	send   func(msg gomidi.Message) error
	stop   func()
	colors theme.LevelColors

	keys chan grid.KeyEvent

	mu     sync.Mutex
	shown  *grid.Buffer // what the pads currently show
	closed bool
}

// NewLaunchpad opens a Launchpad on the given ports. Either port may be nil
// (input-only or output-only). colors maps grid levels to pad colors.
func NewLaunchpad(id string, kind Kind, in drivers.In, out drivers.Out, colors theme.LevelColors) (*Launchpad, error) {
	if kind == KindUnknown {
		kind = kindFromName(id)
	}
	lp := &Launchpad{
		id:     id,
		kind:   kind,
		colors: colors,
		keys:   make(chan grid.KeyEvent, 32),
	}

	if out != nil {
		send, err := gomidi.SendTo(out)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		lp.send = send
		if err := lp.setup(); err != nil {
			return nil, fmt.Errorf("setup %s: %w", id, err)
		}
	}

	if in != nil {
		stop, err := gomidi.ListenTo(in, lp.handleMessage)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		lp.stop = stop
	}

	debug.Log("launchpad", "opened %s (kind=%s)", id, kind)
	return lp, nil
}

func (lp *Launchpad) setup() error {
	switch lp.kind {
	case KindX:
		// Programmer mode: F0 00 20 29 02 0C 00 7F F7
		if err := lp.send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F})); err != nil {
			return err
		}
		// Brightness to maximum: F0 00 20 29 02 0C 08 7F F7
		return lp.send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x08, 0x7F}))
	default:
		// Reset: B0 00 00
		return lp.send(gomidi.ControlChange(0, 0, 0))
	}
}

func (lp *Launchpad) handleMessage(msg gomidi.Message, timestampms int32) {
	var channel, note, velocity uint8

	state := -1
	switch {
	case msg.GetNoteOn(&channel, &note, &velocity):
		state = grid.Press
		if velocity == 0 {
			state = grid.Release
		}
	case msg.GetNoteOff(&channel, &note, &velocity):
		state = grid.Release
	default:
		return
	}

	row, col := lp.rowCol(note)
	if row < 0 {
		debug.Log("launchpad", "ignored note %d", note)
		return
	}
	lp.emit(grid.KeyEvent{Row: row, Col: col, State: state})
}

func (lp *Launchpad) emit(ev grid.KeyEvent) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	if lp.closed {
		return
	}
	select {
	case lp.keys <- ev:
	default:
		debug.Warn("launchpad", "key queue full, dropped %+v", ev)
	}
}

func (lp *Launchpad) rowCol(note uint8) (int, int) {
	if lp.kind == KindX {
		return xRowCol(note)
	}
	return sRowCol(note)
}

func (lp *Launchpad) note(row, col int) uint8 {
	if lp.kind == KindX {
		return xNote(row, col)
	}
	return sNote(row, col)
}

func (lp *Launchpad) velocity(level uint8) uint8 {
	rgb := lp.colors[level]
	if lp.kind == KindX {
		return xVelocity(rgb)
	}
	return sVelocity(rgb)
}

func (lp *Launchpad) ID() string { return lp.id }

func (lp *Launchpad) Kind() Kind { return lp.kind }

func (lp *Launchpad) Size() (rows, cols int) { return gridRows, gridCols }

func (lp *Launchpad) Keys() <-chan grid.KeyEvent { return lp.keys }

// Render sends the pads that differ from what is already shown
func (lp *Launchpad) Render(b *grid.Buffer) error {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	if lp.send == nil || lp.closed {
		return nil
	}

	sent := 0
	for row := 0; row < gridRows; row++ {
		for col := 0; col < gridCols; col++ {
			level := b.Level(row, col)
			if lp.shown != nil && lp.shown.Level(row, col) == level {
				continue
			}
			if err := lp.send(gomidi.NoteOn(0, lp.note(row, col), lp.velocity(level))); err != nil {
				// force a full redraw next time
				lp.shown = nil
				return fmt.Errorf("send to %s: %w", lp.id, err)
			}
			sent++
		}
	}

	if lp.shown == nil {
		lp.shown = grid.NewBuffer(gridRows, gridCols)
	}
	for row := 0; row < gridRows; row++ {
		for col := 0; col < gridCols; col++ {
			lp.shown.Set(row, col, int(b.Level(row, col)))
		}
	}
	if sent > 0 {
		debug.LogEvery(50, "launchpad", "%s sent %d pads", lp.id, sent)
	}
	return nil
}

// Close clears the pads, stops listening and closes the key channel
func (lp *Launchpad) Close() error {
	lp.mu.Lock()
	if lp.closed {
		lp.mu.Unlock()
		return nil
	}
	if lp.send != nil {
		for row := 0; row < gridRows; row++ {
			for col := 0; col < gridCols; col++ {
				lp.send(gomidi.NoteOn(0, lp.note(row, col), lp.velocity(0)))
			}
		}
	}
	lp.closed = true
	close(lp.keys)
	lp.mu.Unlock()

	if lp.stop != nil {
		lp.stop()
	}
	debug.Log("launchpad", "closed %s", lp.id)
	return nil
}
