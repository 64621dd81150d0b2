package quantize

import "testing"

func TestBuildFourDistinctColorsNoLoss(t *testing.T) {
	colors := []Color{
		{R: 255, G: 0, B: 0},
		{R: 0, G: 255, B: 0},
		{R: 0, G: 0, B: 255},
		{R: 255, G: 255, B: 0},
	}
	result := Build(colors, 4)
	if len(result.Palette) != 4 {
		t.Fatalf("palette size = %d, want 4", len(result.Palette))
	}
	seen := make(map[int]bool)
	for _, c := range colors {
		idx := result.Index(c)
		if idx < 0 || idx >= len(result.Palette) {
			t.Fatalf("Index(%v) = %d out of range", c, idx)
		}
		if result.Palette[idx] != c {
			t.Errorf("Index(%v) -> palette entry %v, want exact match with 4 colors and maxColors=4", c, result.Palette[idx])
		}
		seen[idx] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct palette indices, got %d", len(seen))
	}
}

func TestBuildClampsMaxColors(t *testing.T) {
	colors := []Color{{R: 1, G: 2, B: 3}}
	if r := Build(colors, 0); len(r.Palette) != 1 {
		t.Errorf("maxColors=0 should clamp to at least 1, got palette of %d", len(r.Palette))
	}
	if r := Build(colors, 500); len(r.Palette) > 256 {
		t.Errorf("maxColors=500 should clamp to 256, got palette of %d", len(r.Palette))
	}
}

func TestBuildSingleColorProducesOneEntry(t *testing.T) {
	colors := []Color{{R: 10, G: 10, B: 10}, {R: 10, G: 10, B: 10}, {R: 10, G: 10, B: 10}}
	result := Build(colors, 16)
	if len(result.Palette) != 1 {
		t.Fatalf("palette size = %d, want 1 for a single repeated color", len(result.Palette))
	}
}

func TestIndexFallsBackToNearestForUnseenColor(t *testing.T) {
	colors := []Color{{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255}}
	result := Build(colors, 2)
	idx := result.Index(Color{R: 10, G: 10, B: 10})
	want := result.Index(Color{R: 0, G: 0, B: 0})
	if idx != want {
		t.Errorf("Index(near-black) = %d, want nearest palette entry %d", idx, want)
	}
}

func TestMeanColorRounding(t *testing.T) {
	colors := []Color{{R: 0, G: 0, B: 0}, {R: 3, G: 3, B: 3}}
	got := meanColor(colors)
	want := Color{R: 1, G: 1, B: 1} // floor((0+3)/2) = 1
	if got != want {
		t.Errorf("meanColor = %v, want %v", got, want)
	}
}

func TestWidestChannelPrefersRedOverBlueAtEqualRange(t *testing.T) {
	colors := []Color{{R: 0, G: 128, B: 0}, {R: 255, G: 128, B: 255}}
	channel, _ := widestChannel(colors)
	if channel != 0 {
		t.Errorf("widestChannel = %d, want 0 (red) since red/blue tie is broken by channel weight", channel)
	}
}
