package sequencer

const (
	NumTracks    = 4
	NumSequences = 16
)

// Track is one sequencer lane holding up to 16 sequences.
// Sequences are created on first access and never removed.
type Track struct {
	index     int
	sequences [NumSequences]*Sequence

	// Playback pointers, reserved for the playback collaborator.
	// Dispatch and rendering never read them.
	CurrentSequence *Sequence
	CurrentStage    int
}

// NewTrack creates an empty track with the given index (0-3)
func NewTrack(index int) *Track {
	return &Track{index: index}
}

func (t *Track) Index() int { return t.index }

// Sequence returns the sequence in slot n without creating it
func (t *Track) Sequence(n int) *Sequence {
	if n < 0 || n >= NumSequences {
		return nil
	}
	return t.sequences[n]
}

// GetSequence returns the sequence in slot n, creating it on first access
func (t *Track) GetSequence(n int) *Sequence {
	if n < 0 || n >= NumSequences {
		return nil
	}
	if t.sequences[n] == nil {
		t.sequences[n] = NewSequence()
	}
	return t.sequences[n]
}

// SequenceIndex returns the slot holding seq, or -1
func (t *Track) SequenceIndex(seq *Sequence) int {
	if seq == nil {
		return -1
	}
	for i, s := range t.sequences {
		if s == seq {
			return i
		}
	}
	return -1
}

// ContentMask reports which slots hold a sequence
func (t *Track) ContentMask() []bool {
	mask := make([]bool, NumSequences)
	for i, s := range t.sequences {
		mask[i] = s != nil
	}
	return mask
}
