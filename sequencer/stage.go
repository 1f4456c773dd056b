package sequencer

// Stage parameter bounds. Duration is in 64ths; width is stored in the same
// integer units (see DESIGN.md on its unit).
const (
	MinParam = 1
	MaxParam = 63

	DefaultDuration = 16
	DefaultWidth    = 50
)

// Stage is one step of a sequence
type Stage struct {
	position   int
	duration   int
	width      int
	endOfStage bool
}

// NewStage creates a stage at a fixed position with default parameters
func NewStage(position int) *Stage {
	s := &Stage{position: position}
	s.SetDuration(DefaultDuration)
	s.SetWidth(DefaultWidth)
	return s
}

// Position is the stage index within its sequence (0-63)
func (s *Stage) Position() int { return s.position }

func (s *Stage) Duration() int { return s.duration }
func (s *Stage) Width() int    { return s.width }

// SetDuration stores d clamped to [MinParam, MaxParam]
func (s *Stage) SetDuration(d int) {
	s.duration = clamp(d, MinParam, MaxParam)
}

// SetWidth stores w clamped to [MinParam, MaxParam]
func (s *Stage) SetWidth(w int) {
	s.width = clamp(w, MinParam, MaxParam)
}

func (s *Stage) NudgeDuration(n int) { s.SetDuration(s.duration + n) }
func (s *Stage) NudgeWidth(n int)    { s.SetWidth(s.width + n) }

// DurationRemainder is duration modulo div (0 for div <= 0)
func (s *Stage) DurationRemainder(div int) int {
	if div <= 0 {
		return 0
	}
	return s.duration % div
}

// WidthRemainder is width modulo div (0 for div <= 0)
func (s *Stage) WidthRemainder(div int) int {
	if div <= 0 {
		return 0
	}
	return s.width % div
}

// EndOfStage flags a trigger at the end of the stage. Stored only.
func (s *Stage) EndOfStage() bool      { return s.endOfStage }
func (s *Stage) SetEndOfStage(on bool) { s.endOfStage = on }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
