package mapfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gridcover/gridcover"
)

func TestLoadParsesYAML(t *testing.T) {
	doc := `
name: arena
description: a test arena
grid:
  width: 20
obstacles:
  - type: circle
    name: rock
    x: 5
    y: 5
    radius: 1
`
	dir := t.TempDir()
	path := filepath.Join(dir, "map.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Name != "arena" || len(f.Obstacles) != 1 {
		t.Fatalf("got %+v, want name %q with 1 obstacle", f, "arena")
	}
	if f.Grid == nil || f.Grid.Width == nil || *f.Grid.Width != 20 {
		t.Errorf("expected grid width override of 20, got %+v", f.Grid)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/map.yaml"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestToMapAppliesGridOverride(t *testing.T) {
	width := 30.0
	f := &File{Name: "over", Grid: &GridSize{Width: &width}}
	m, err := f.ToMap(10, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.World.W != 30 || m.World.H != 10 {
		t.Errorf("World = %+v, want W overridden to 30, H unchanged at 10", m.World)
	}
}

func TestToMapDispatchesEachObstacleKind(t *testing.T) {
	f := &File{
		Name: "shapes",
		Obstacles: []ObstacleYAML{
			{Type: "rectangle", X: 1, Y: 1, Width: 2, Height: 2},
			{Type: "circle", X: 5, Y: 5, Radius: 1},
			{Type: "polygon", Points: [][2]float64{{0, 0}, {1, 0}, {1, 1}}},
			{Type: "line", Points: [][2]float64{{0, 0}, {5, 5}}, Width: 0.5},
		},
	}
	m, err := f.ToMap(20, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantKinds := []gridcover.ObstacleKind{
		gridcover.KindRectangle, gridcover.KindCircle, gridcover.KindPolygon, gridcover.KindLine,
	}
	for i, want := range wantKinds {
		if m.Obstacles[i].Kind != want {
			t.Errorf("obstacle %d kind = %v, want %v", i, m.Obstacles[i].Kind, want)
		}
	}
}

func TestToMapRejectsUnknownType(t *testing.T) {
	f := &File{Name: "bad", Obstacles: []ObstacleYAML{{Type: "triangle"}}}
	if _, err := f.ToMap(10, 10); err == nil {
		t.Error("expected an error for an unknown obstacle type")
	}
}

func TestToMapRejectsMalformedLine(t *testing.T) {
	f := &File{Name: "bad", Obstacles: []ObstacleYAML{{Type: "line", Points: [][2]float64{{0, 0}}}}}
	if _, err := f.ToMap(10, 10); err == nil {
		t.Error("expected an error for a line obstacle without exactly 2 points")
	}
}
