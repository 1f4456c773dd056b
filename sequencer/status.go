package sequencer

import "transit/grid"

// Status is a copy of what the UI shows, safe to read on any goroutine
type Status struct {
	Mode  Mode
	Meta  bool
	Phase uint8

	Focus    int // track index, -1 if none
	Queued   OptionalColumn
	Sequence int // selected slot on the focused track, -1 if none
	Stage    int // selected stage position, -1 if none
	Duration int
	Width    int

	Occupied [NumTracks][]bool
	Buffer   *grid.Buffer
}

// NewStatus snapshots s; buf is cloned when non-nil
func NewStatus(s *Session, buf *grid.Buffer) Status {
	st := Status{
		Mode:     s.mode,
		Meta:     s.meta,
		Phase:    s.phase,
		Focus:    -1,
		Queued:   s.queued,
		Sequence: -1,
		Stage:    -1,
	}
	if s.focus != nil {
		st.Focus = s.focus.Index()
		st.Sequence = s.focus.SequenceIndex(s.selectedSequence)
	}
	if s.selectedStage != nil {
		st.Stage = s.selectedStage.Position()
		st.Duration = s.selectedStage.Duration()
		st.Width = s.selectedStage.Width()
	}
	for i, t := range s.tracks {
		st.Occupied[i] = t.ContentMask()
	}
	if buf != nil {
		st.Buffer = buf.Clone()
	}
	return st
}
