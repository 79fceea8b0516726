package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/gridcover/gridcover"
	"github.com/gridcover/gridcover/grid"
)

func TestThemeByNameFallsBackToDefault(t *testing.T) {
	if got := ThemeByName("nonexistent"); got.Name != "default" {
		t.Errorf("ThemeByName(nonexistent) = %q, want %q", got.Name, "default")
	}
	if got := ThemeByName("blue"); got.Name != "blue" {
		t.Errorf("ThemeByName(blue) = %q, want %q", got.Name, "blue")
	}
}

func TestCoverageColorClampsToShadeRange(t *testing.T) {
	th := ThemeByName("default")
	if th.CoverageColor(-1) != th.Shades[0] {
		t.Error("expected a negative visit count to clamp to shade 0")
	}
	last := len(th.Shades) - 1
	if th.CoverageColor(1000) != th.Shades[last] {
		t.Error("expected a large visit count to clamp to the last shade")
	}
	if th.CoverageColor(0) != th.Shades[0] {
		t.Error("expected visit count 0 to map to shade 0")
	}
}

func TestPaperSizePixelsAt(t *testing.T) {
	w, h := A4.PixelsAt(300)
	if w <= 0 || h <= 0 {
		t.Fatalf("PixelsAt(300) = %d,%d, want positive", w, h)
	}
	// A4 is taller than wide, so pixel height should exceed pixel width.
	if h <= w {
		t.Errorf("expected A4 height in pixels (%d) to exceed width (%d)", h, w)
	}
}

func TestRenderRejectsNonPositiveDimensions(t *testing.T) {
	if _, err := Render(Options{ImageW: 0, ImageH: 100}); err == nil {
		t.Error("expected an error for a zero image width")
	}
}

func TestRenderProducesValidPNG(t *testing.T) {
	g := grid.New(10, 10, 1)
	g.Visit(2, 2)
	opts := Options{
		Grid:   g,
		World:  gridcover.World{W: 10, H: 10},
		Theme:  ThemeByName("default"),
		ImageW: 64,
		ImageH: 64,
	}
	var buf bytes.Buffer
	if err := WritePNG(&buf, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("produced invalid PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Errorf("decoded image size = %dx%d, want 64x64", b.Dx(), b.Dy())
	}
}

func TestSampleIntervalAtLeastOne(t *testing.T) {
	if got := SampleInterval(0, 30, 1); got != 1 {
		t.Errorf("SampleInterval with dt=0 = %d, want 1", got)
	}
	if got := SampleInterval(0.1, 30, 1); got < 1 {
		t.Errorf("SampleInterval = %d, want >= 1", got)
	}
}

func TestSampleIntervalScalesWithSpeedup(t *testing.T) {
	base := SampleInterval(0.01, 30, 1)
	doubled := SampleInterval(0.01, 30, 2)
	if doubled > base {
		t.Errorf("doubling speedup should not increase the sample interval: base=%d doubled=%d", base, doubled)
	}
}

func TestFramePathZeroPadded(t *testing.T) {
	if got, want := FramePath("/tmp/frames", 7), "/tmp/frames/frame_000007.png"; got != want {
		t.Errorf("FramePath = %q, want %q", got, want)
	}
}
