package sequencer

import (
	"transit/debug"
	"transit/grid"
)

// Dispatcher turns grid key events into Session mutations
type Dispatcher struct {
	session  *Session
	layout   Layout
	playback Playback
}

// NewDispatcher creates a dispatcher. A nil playback logs decisions only.
func NewDispatcher(s *Session, l Layout, p Playback) *Dispatcher {
	if p == nil {
		p = LogPlayback{}
	}
	return &Dispatcher{session: s, layout: l, playback: p}
}

// HandleKey routes one press/release to the region it belongs to
func (d *Dispatcher) HandleKey(ev grid.KeyEvent) {
	l := d.layout
	switch ev.Row {
	case l.ControlRow:
		if idx := l.trackKey(ev.Col); idx >= 0 {
			d.trackSelect(idx, ev.State)
		} else if ev.Col == l.MetaKey {
			d.setMeta(ev.State)
		}
	case l.EditHighRow:
		d.editHigh(ev.Col, ev.State)
	case l.EditLowRow:
		d.editLow(ev.Col, ev.State)
	case l.PlayBarRow:
		d.playBar(ev.Col, ev.State)
	default:
		d.lower(ev.Row, ev.Col, ev.State)
	}
}

func (d *Dispatcher) trackSelect(idx, state int) {
	if state != grid.Press {
		return
	}
	s := d.session
	chosen := s.tracks[idx]

	switch {
	case s.meta || s.mode == ModeTrackEdit:
		s.focus = chosen
		s.mode = ModeTrackEdit
		debug.Log("dispatch", "track edit: %d", idx)
	case s.focus == chosen:
		s.focus = nil
		debug.Log("dispatch", "focus off")
	default:
		s.focus = chosen
		debug.Log("dispatch", "focus: %d", idx)
	}
}

func (d *Dispatcher) setMeta(state int) {
	s := d.session
	s.meta = state == grid.Press
	if s.mode != ModePlay && s.meta {
		s.mode = ModePlay
		s.clearSelection()
		debug.Log("dispatch", "return to play")
	}
}

// editHigh sets the eights of duration (left half) or width (right half)
func (d *Dispatcher) editHigh(col, state int) {
	stage := d.editableStage(state)
	if stage == nil {
		return
	}
	if col < d.layout.WidthCol {
		stage.SetDuration((col - d.layout.DurationCol + 1) * 8)
		debug.Log("dispatch", "stage %d duration: %d", stage.Position(), stage.Duration())
	} else {
		stage.SetWidth((col - d.layout.WidthCol + 1) * 8)
		debug.Log("dispatch", "stage %d width: %d", stage.Position(), stage.Width())
	}
}

// editLow sets the ones of duration or width, keeping the eights
func (d *Dispatcher) editLow(col, state int) {
	stage := d.editableStage(state)
	if stage == nil {
		return
	}
	if col < d.layout.WidthCol {
		high := stage.Duration() >> 3
		stage.SetDuration(high*8 + col - d.layout.DurationCol + 1)
		debug.Log("dispatch", "stage %d duration: %d", stage.Position(), stage.Duration())
	} else {
		high := stage.Width() >> 3
		stage.SetWidth(high*8 + col - d.layout.WidthCol + 1)
		debug.Log("dispatch", "stage %d width: %d", stage.Position(), stage.Width())
	}
}

func (d *Dispatcher) editableStage(state int) *Stage {
	if state != grid.Press || d.session.mode != ModeTrackEdit {
		return nil
	}
	return d.session.selectedStage
}

func (d *Dispatcher) playBar(col, state int) {
	if state != grid.Press {
		return
	}
	s := d.session
	switch s.mode {
	case ModePlay:
		if s.queued.Equals(col) {
			s.queued = OptionalColumn{}
		} else {
			s.queued = NewOptionalColumnOf(col)
			debug.Log("dispatch", "queue column: %d", col)
		}
	case ModeTrackEdit:
		if s.focus == nil {
			return
		}
		if seq := s.focus.GetSequence(col); seq != nil {
			s.selectedSequence = seq
			debug.Log("dispatch", "track %d sequence %d", s.focus.Index(), col)
		}
	}
}

func (d *Dispatcher) lower(row, col, state int) {
	if state != grid.Press || row < 0 || row >= NumTracks || col < 0 || col >= NumSequences {
		return
	}
	s := d.session
	switch s.mode {
	case ModePlay:
		track := s.tracks[3-row]
		if track.Sequence(col) != nil {
			d.playback.Queue(track, col)
		} else {
			d.playback.Stop(track)
		}
	case ModeTrackEdit:
		if s.selectedSequence == nil {
			return
		}
		s.selectedStage = s.selectedSequence.GetStage(GridToStage(row, col))
		debug.Log("dispatch", "stage %d selected", s.selectedStage.Position())
	}
}
