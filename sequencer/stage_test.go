package sequencer

import "testing"

func TestNewStageDefaults(t *testing.T) {
	s := NewStage(12)
	if s.Position() != 12 {
		t.Fatalf("position = %d, want 12", s.Position())
	}
	if s.Duration() != DefaultDuration || s.Width() != DefaultWidth {
		t.Fatalf("got duration=%d width=%d, want %d/%d", s.Duration(), s.Width(), DefaultDuration, DefaultWidth)
	}
	if s.EndOfStage() {
		t.Fatal("end of stage should start off")
	}
}

func TestStageClamp(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-4, MinParam},
		{0, MinParam},
		{1, 1},
		{40, 40},
		{63, 63},
		{64, MaxParam},
		{1000, MaxParam},
	}
	for _, tt := range tests {
		s := NewStage(0)
		s.SetDuration(tt.in)
		s.SetWidth(tt.in)
		if s.Duration() != tt.want || s.Width() != tt.want {
			t.Errorf("set %d: duration=%d width=%d, want %d", tt.in, s.Duration(), s.Width(), tt.want)
		}
	}
}

func TestStageNudge(t *testing.T) {
	s := NewStage(0)
	s.NudgeDuration(-20)
	if s.Duration() != MinParam {
		t.Errorf("duration = %d, want %d", s.Duration(), MinParam)
	}
	s.NudgeWidth(5)
	if s.Width() != 55 {
		t.Errorf("width = %d, want 55", s.Width())
	}
	s.NudgeWidth(20)
	if s.Width() != MaxParam {
		t.Errorf("width = %d, want %d", s.Width(), MaxParam)
	}
}

func TestStageRemainder(t *testing.T) {
	s := NewStage(0)
	s.SetDuration(21)
	if got := s.DurationRemainder(8); got != 5 {
		t.Errorf("DurationRemainder(8) = %d, want 5", got)
	}
	if got := s.WidthRemainder(8); got != 2 {
		t.Errorf("WidthRemainder(8) = %d, want 2", got)
	}
	if got := s.DurationRemainder(0); got != 0 {
		t.Errorf("DurationRemainder(0) = %d, want 0", got)
	}
}

func TestLazyCreation(t *testing.T) {
	tr := NewTrack(2)
	if tr.Sequence(4) != nil {
		t.Fatal("peek should not create a sequence")
	}
	seq := tr.GetSequence(4)
	if seq == nil || tr.GetSequence(4) != seq {
		t.Fatal("GetSequence should create once and return the same sequence")
	}
	if tr.SequenceIndex(seq) != 4 {
		t.Errorf("SequenceIndex = %d, want 4", tr.SequenceIndex(seq))
	}
	if tr.GetSequence(16) != nil || tr.GetSequence(-1) != nil {
		t.Error("out of range slots should return nil")
	}

	if seq.Stage(9) != nil {
		t.Fatal("peek should not create a stage")
	}
	st := seq.GetStage(9)
	if st == nil || st.Position() != 9 || seq.GetStage(9) != st {
		t.Fatal("GetStage should create a stage at its position once")
	}
	if seq.GetStage(64) != nil {
		t.Error("stage 64 should be out of range")
	}
	if seq.Len() != 1 {
		t.Errorf("Len = %d, want 1", seq.Len())
	}

	mask := tr.ContentMask()
	for i, on := range mask {
		if on != (i == 4) {
			t.Errorf("mask[%d] = %v", i, on)
		}
	}
}

func TestOptionalColumn(t *testing.T) {
	var none OptionalColumn
	if !none.Empty() || none.Equals(0) {
		t.Error("zero value should be empty and match nothing")
	}
	c := NewOptionalColumnOf(0)
	if v, ok := c.Unpack(); !ok || v != 0 {
		t.Errorf("Unpack = %d, %v", v, ok)
	}
	if !c.Equals(0) || c.Equals(1) {
		t.Error("Equals mismatch")
	}
}
