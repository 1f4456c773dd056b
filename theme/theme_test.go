package theme

import (
	"strings"
	"testing"

	"transit/grid"
)

func TestParseGPL(t *testing.T) {
	src := `GIMP Palette
Name: two
Columns: 2
# comment
  0   0   0	black
255 300 -1	clipped
bad line
`
	p, err := ParseGPL(strings.NewReader(src), "test")
	if err != nil {
		t.Fatalf("ParseGPL: %v", err)
	}
	if p.Name != "two" || len(p.Colors) != 2 {
		t.Fatalf("palette = %+v", p)
	}
	if p.Colors[1] != (RGB{255, 255, 0}) {
		t.Errorf("clipped color = %v", p.Colors[1])
	}
	if got := p.Lookup(0.5); got != (RGB{127, 127, 0}) {
		t.Errorf("Lookup(0.5) = %v", got)
	}
}

func TestParseGPLEmpty(t *testing.T) {
	if _, err := ParseGPL(strings.NewReader("GIMP Palette\n"), "empty"); err == nil {
		t.Fatal("expected error for a palette without colors")
	}
}

func TestLevels(t *testing.T) {
	th := New(nil)
	if th.Palette.Name != "transit-amber" {
		t.Fatalf("default palette = %q", th.Palette.Name)
	}
	lc := th.Levels()
	if lc[0] != (RGB{}) {
		t.Errorf("level 0 = %v, want black", lc[0])
	}
	if lc[1] != th.Palette.Colors[0] {
		t.Errorf("level 1 = %v, want first palette color", lc[1])
	}
	last := th.Palette.Colors[len(th.Palette.Colors)-1]
	if lc[grid.MaxLevel] != last || th.Level(200) != last {
		t.Errorf("top level = %v, want %v", lc[grid.MaxLevel], last)
	}
	// brightness should not drop as the level rises
	for i := 2; i < len(lc); i++ {
		if sum(lc[i]) < sum(lc[i-1]) {
			t.Errorf("level %d darker than level %d", i, i-1)
		}
	}
}

func sum(c RGB) int { return int(c[0]) + int(c[1]) + int(c[2]) }
