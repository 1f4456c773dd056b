package sequencer

// Mode is the editing mode of the grid
type Mode int

const (
	ModePlay Mode = iota
	ModeTrackEdit
	// ModeClipEdit is declared but nothing transitions into it yet
	ModeClipEdit
)

func (m Mode) String() string {
	switch m {
	case ModePlay:
		return "play"
	case ModeTrackEdit:
		return "track"
	case ModeClipEdit:
		return "clip"
	}
	return "unknown"
}

// Session is the whole editing state: the four tracks plus what the grid is
// currently pointing at. It is owned by a single goroutine (see Manager).
type Session struct {
	tracks [NumTracks]*Track

	mode  Mode
	meta  bool
	focus *Track

	queued           OptionalColumn
	selectedSequence *Sequence
	selectedStage    *Stage

	phase uint8
}

// NewSession creates a session in play mode with four empty tracks
func NewSession() *Session {
	s := &Session{mode: ModePlay}
	for i := range s.tracks {
		s.tracks[i] = NewTrack(i)
	}
	return s
}

// Track returns track i (nil outside 0-3)
func (s *Session) Track(i int) *Track {
	if i < 0 || i >= NumTracks {
		return nil
	}
	return s.tracks[i]
}

// Tracks returns the four tracks in index order
func (s *Session) Tracks() []*Track {
	return s.tracks[:]
}

func (s *Session) Mode() Mode                  { return s.mode }
func (s *Session) Meta() bool                  { return s.meta }
func (s *Session) Focus() *Track               { return s.focus }
func (s *Session) Queued() OptionalColumn      { return s.queued }
func (s *Session) SelectedSequence() *Sequence { return s.selectedSequence }
func (s *Session) SelectedStage() *Stage       { return s.selectedStage }

// Phase is the blink bit, 0 or 1
func (s *Session) Phase() uint8 { return s.phase }

// TogglePhase flips the blink bit. Only the periodic tick calls it.
func (s *Session) TogglePhase() {
	s.phase ^= 1
}

// clearSelection drops the sequence/stage references (focus is kept)
func (s *Session) clearSelection() {
	s.selectedSequence = nil
	s.selectedStage = nil
}
