package gridcover

import (
	"testing"

	"github.com/gridcover/gridcover/geometry"
	"github.com/gridcover/gridcover/grid"
)

func TestApplyCoverageDiscMarksCellsWhollyWithinRadius(t *testing.T) {
	g := grid.New(10, 10, 1)
	c := &Cutter{Pos: geometry.Vector{X: 5, Y: 5}, Geometry: CutterGeometry{Kind: GeomDisc, Radius: 3}}
	applyCoverage(g, c)
	if g.Covered() == 0 {
		t.Fatal("expected at least one cell covered under a disc of radius 3")
	}
	// A cell far outside the radius must stay uncovered.
	if g.At(9, 9).Covered() {
		t.Error("expected a far corner cell to remain uncovered")
	}
}

func TestCellFullyCoveredBladeRequiresOuterAnnulus(t *testing.T) {
	g := grid.New(10, 10, 1)
	c := &Cutter{Pos: geometry.Vector{X: 5, Y: 5}, Geometry: CutterGeometry{Kind: GeomBlade, Radius: 3, BladeLength: 1}}
	// The cell directly under the center is inside the radius but
	// closer than (r - bladeLength), so the blade's inner hole leaves
	// it uncovered.
	if cellFullyCovered(g, 5, 5, c) {
		t.Error("expected the center cell to be uncovered by a blade with a hole")
	}
}

func TestCellFullyCoveredBladeWithoutHoleCoversLikeDisc(t *testing.T) {
	g := grid.New(10, 10, 0.5)
	c := &Cutter{Pos: geometry.Vector{X: 5, Y: 5}, Geometry: CutterGeometry{Kind: GeomBlade, Radius: 3, BladeLength: 3}}
	// BladeLength == Radius means no inner hole, so it behaves like a disc.
	i, j, _ := g.CellAt(geometry.Vector{X: 5.1, Y: 5.1})
	if !cellFullyCovered(g, i, j, c) {
		t.Error("expected a blade with BladeLength == Radius to cover like a disc near the center")
	}
}

func TestValidStartRegionRejectsNearEdge(t *testing.T) {
	w := World{W: 10, H: 10}
	if validStartRegion(w, nil, geometry.Vector{X: 0.1, Y: 5}, 1) {
		t.Error("expected a point too close to the edge to be invalid")
	}
	if !validStartRegion(w, nil, geometry.Vector{X: 5, Y: 5}, 1) {
		t.Error("expected the center of an empty world to be a valid start")
	}
}

func TestValidStartRegionRejectsInsideObstacle(t *testing.T) {
	w := World{W: 10, H: 10}
	obstacles := []Obstacle{{Kind: KindCircle, Circle: geometry.Circle{Center: geometry.Vector{X: 5, Y: 5}, R: 2}}}
	if validStartRegion(w, obstacles, geometry.Vector{X: 5, Y: 5}, 0.5) {
		t.Error("expected a point inside an obstacle to be invalid")
	}
	if !validStartRegion(w, obstacles, geometry.Vector{X: 9, Y: 9}, 0.5) {
		t.Error("expected a point away from the obstacle to be valid")
	}
}
