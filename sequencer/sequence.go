package sequencer

// NumStages is the number of stage slots in a sequence
const NumStages = 64

// Sequence is an ordered set of lazily created stages
type Sequence struct {
	stages [NumStages]*Stage
}

// NewSequence creates an empty sequence
func NewSequence() *Sequence {
	return &Sequence{}
}

// Stage returns the stage at i without creating it (nil if empty)
func (q *Sequence) Stage(i int) *Stage {
	if i < 0 || i >= NumStages {
		return nil
	}
	return q.stages[i]
}

// GetStage returns the stage at i, creating it on first access.
// Returns nil only for an index outside the sequence.
func (q *Sequence) GetStage(i int) *Stage {
	if i < 0 || i >= NumStages {
		return nil
	}
	if q.stages[i] == nil {
		q.stages[i] = NewStage(i)
	}
	return q.stages[i]
}

// Len counts the stages created so far
func (q *Sequence) Len() int {
	n := 0
	for _, s := range q.stages {
		if s != nil {
			n++
		}
	}
	return n
}

// Stages returns the created stages in position order
func (q *Sequence) Stages() []*Stage {
	var out []*Stage
	for _, s := range q.stages {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
