package sequencer

import "transit/grid"

// LED levels
const (
	L1 = 3
	L2 = 6
	L3 = 9

	accent = 3 // added to L3 for the ladder start marker
	blink  = 5 // highlight for focus, selection and the queued column
)

// Render draws the session into b. It reads the session only; the phase bit
// is whatever the last tick left it at.
func Render(s *Session, l Layout, b *grid.Buffer) {
	b.Clear()

	// meta hint
	if s.mode != ModePlay {
		b.Set(l.ControlRow, l.MetaKey, L2)
	}

	// track select
	for i, col := range l.TrackKeys {
		level := L2
		if s.focus != nil && s.focus.Index() == i {
			level += blink
		}
		b.Set(l.ControlRow, col, level)
	}

	// edit params
	if s.mode == ModeTrackEdit && s.selectedStage != nil {
		renderLadder(b, l, l.DurationCol, s.selectedStage.Duration())
		renderLadder(b, l, l.WidthCol, s.selectedStage.Width())
	}

	renderPlayBar(s, l, b)
	renderLower(s, b)
}

// renderLadder shows value as high/low counts starting at col, with the
// first high-row cell always marked
func renderLadder(b *grid.Buffer, l Layout, col, value int) {
	high, low := Split(value)
	for c := 0; c < high; c++ {
		b.Set(l.EditHighRow, col+c, L2)
	}
	for c := 0; c < low; c++ {
		b.Set(l.EditLowRow, col+c, L2)
	}
	b.Set(l.EditHighRow, col, L3+accent)
}

func renderPlayBar(s *Session, l Layout, b *grid.Buffer) {
	for col := 0; col < b.Cols(); col++ {
		switch s.mode {
		case ModePlay:
			level := L2
			if s.queued.Equals(col) && s.phase == 1 {
				level += blink
			}
			b.Set(l.PlayBarRow, col, level)
		case ModeTrackEdit:
			level := L1
			var seq *Sequence
			if s.focus != nil {
				seq = s.focus.Sequence(col)
			}
			if seq != nil {
				level = L2
			}
			if s.selectedSequence != nil && s.selectedSequence == seq {
				level = L2 + blink
			}
			b.Set(l.PlayBarRow, col, level)
		}
	}
}

func renderLower(s *Session, b *grid.Buffer) {
	switch s.mode {
	case ModePlay:
		for _, track := range s.tracks {
			for slot := 0; slot < NumSequences; slot++ {
				if track.Sequence(slot) != nil {
					b.Set(3-track.Index(), slot, L2-2)
				}
			}
		}
	case ModeTrackEdit:
		if s.selectedStage != nil {
			row, col := StageToGrid(s.selectedStage.Position())
			b.Set(row, col, L3)
		}
	}
}
