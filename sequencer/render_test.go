package sequencer

import (
	"testing"

	"transit/grid"
)

func render(s *Session, rows, cols int) *grid.Buffer {
	b := grid.NewBuffer(rows, cols)
	Render(s, LayoutFor(rows, cols), b)
	return b
}

func TestRenderPlayMode(t *testing.T) {
	s := NewSession()
	s.Track(1).GetSequence(2)
	s.Track(3).GetSequence(15)
	b := render(s, 8, 16)

	for col := 0; col < 4; col++ {
		if got := b.Level(7, col); got != L2 {
			t.Errorf("track key %d = %d, want %d", col, got, L2)
		}
	}
	if got := b.Level(7, 15); got != 0 {
		t.Errorf("meta hint in play mode = %d, want 0", got)
	}
	for col := 0; col < 16; col++ {
		if got := b.Level(4, col); got != L2 {
			t.Errorf("play bar %d = %d, want %d", col, got, L2)
		}
	}
	if got := b.Level(2, 2); got != L2-2 {
		t.Errorf("track 1 slot 2 = %d, want %d", got, L2-2)
	}
	if got := b.Level(0, 15); got != L2-2 {
		t.Errorf("track 3 slot 15 = %d, want %d", got, L2-2)
	}
	if got := b.Level(3, 2); got != 0 {
		t.Errorf("empty slot = %d, want 0", got)
	}
	for _, row := range []int{5, 6} {
		for col := 0; col < 16; col++ {
			if b.Level(row, col) != 0 {
				t.Fatalf("parameter row %d lit in play mode", row)
			}
		}
	}
}

func TestRenderFocusBlink(t *testing.T) {
	s := NewSession()
	s.focus = s.Track(2)
	b := render(s, 8, 16)
	if got := b.Level(7, 2); got != L2+blink {
		t.Errorf("focused key = %d, want %d", got, L2+blink)
	}
	if got := b.Level(7, 1); got != L2 {
		t.Errorf("other key = %d, want %d", got, L2)
	}
}

func TestRenderQueuedBlinkFollowsPhase(t *testing.T) {
	s := NewSession()
	s.queued = NewOptionalColumnOf(5)

	if got := render(s, 8, 16).Level(4, 5); got != L2 {
		t.Errorf("phase 0: queued column = %d, want %d", got, L2)
	}
	s.TogglePhase()
	if got := render(s, 8, 16).Level(4, 5); got != L2+blink {
		t.Errorf("phase 1: queued column = %d, want %d", got, L2+blink)
	}
	if got := render(s, 8, 16).Level(4, 6); got != L2 {
		t.Errorf("phase 1: other column = %d, want %d", got, L2)
	}
}

func TestRenderTrackEdit(t *testing.T) {
	s := NewSession()
	s.mode = ModeTrackEdit
	s.focus = s.Track(0)
	s.focus.GetSequence(1)
	s.selectedSequence = s.focus.GetSequence(3)
	s.selectedStage = s.selectedSequence.GetStage(20) // duration 16, width 50

	b := render(s, 8, 16)

	if got := b.Level(7, 15); got != L2 {
		t.Errorf("meta hint = %d, want %d", got, L2)
	}

	// duration 16: two high cells, no low cells
	wantHigh := []uint8{L3 + accent, L2, 0, 0, 0, 0, 0, 0}
	wantLow := []uint8{0, 0, 0, 0, 0, 0, 0, 0}
	// width 50: six high cells, two low cells
	wantHigh = append(wantHigh, L3+accent, L2, L2, L2, L2, L2, 0, 0)
	wantLow = append(wantLow, L2, L2, 0, 0, 0, 0, 0, 0)
	for col := 0; col < 16; col++ {
		if got := b.Level(6, col); got != wantHigh[col] {
			t.Errorf("high row col %d = %d, want %d", col, got, wantHigh[col])
		}
		if got := b.Level(5, col); got != wantLow[col] {
			t.Errorf("low row col %d = %d, want %d", col, got, wantLow[col])
		}
	}

	if got := b.Level(4, 0); got != L1 {
		t.Errorf("empty slot = %d, want %d", got, L1)
	}
	if got := b.Level(4, 1); got != L2 {
		t.Errorf("occupied slot = %d, want %d", got, L2)
	}
	if got := b.Level(4, 3); got != L2+blink {
		t.Errorf("selected slot = %d, want %d", got, L2+blink)
	}

	// stage 20 is row 2, col 4
	if got := b.Level(2, 4); got != L3 {
		t.Errorf("selected stage cell = %d, want %d", got, L3)
	}
	if got := b.Level(3, 4); got != 0 {
		t.Errorf("other stage cell = %d, want 0", got)
	}
}

func TestRenderLadderMarksZeroHigh(t *testing.T) {
	s := NewSession()
	s.mode = ModeTrackEdit
	s.focus = s.Track(0)
	s.selectedSequence = s.focus.GetSequence(0)
	s.selectedStage = s.selectedSequence.GetStage(0)
	s.selectedStage.SetDuration(5)

	b := render(s, 8, 16)
	if got := b.Level(6, 0); got != L3+accent {
		t.Errorf("ladder start = %d, want %d", got, L3+accent)
	}
	for col := 0; col < 5; col++ {
		if got := b.Level(5, col); got != L2 {
			t.Errorf("low cell %d = %d, want %d", col, got, L2)
		}
	}
	if got := b.Level(5, 5); got != 0 {
		t.Errorf("low cell 5 = %d, want 0", got)
	}
}

func TestRenderNarrowGrid(t *testing.T) {
	s := NewSession()
	s.Track(0).GetSequence(12)
	s.mode = ModeTrackEdit
	b := render(s, 8, 8)
	if b.Cols() != 8 {
		t.Fatalf("cols = %d", b.Cols())
	}
	if got := b.Level(7, 7); got != L2 {
		t.Errorf("meta hint on 8x8 = %d, want %d", got, L2)
	}
}

func TestRenderDoesNotMutate(t *testing.T) {
	s := NewSession()
	s.queued = NewOptionalColumnOf(1)
	phase := s.Phase()
	render(s, 8, 16)
	render(s, 8, 16)
	if s.Phase() != phase {
		t.Fatal("render flipped the phase")
	}
	for _, tr := range s.Tracks() {
		for _, on := range tr.ContentMask() {
			if on {
				t.Fatal("render created a sequence")
			}
		}
	}
}
