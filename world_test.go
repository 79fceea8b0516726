package gridcover

import (
	"testing"

	"github.com/gridcover/gridcover/geometry"
)

func TestNewMapRejectsNonPositiveDimensions(t *testing.T) {
	if _, err := NewMap("", World{W: 0, H: 10}, nil); err == nil {
		t.Error("expected an error for zero width")
	}
	if _, err := NewMap("", World{W: 10, H: -1}, nil); err == nil {
		t.Error("expected an error for negative height")
	}
}

func TestNewMapRejectsShortPolygon(t *testing.T) {
	o := Obstacle{Kind: KindPolygon, Polygon: geometry.Polygon{Points: []geometry.Vector{{0, 0}, {1, 0}}}}
	if _, err := NewMap("", World{W: 10, H: 10}, []Obstacle{o}); err == nil {
		t.Error("expected an error for a polygon with fewer than 3 points")
	}
}

func TestNewMapRejectsObstacleOutsideWorld(t *testing.T) {
	o := Obstacle{Kind: KindRectangle, Rect: geometry.Rect{X: 100, Y: 100, W: 1, H: 1}}
	if _, err := NewMap("", World{W: 10, H: 10}, []Obstacle{o}); err == nil {
		t.Error("expected an error for an obstacle entirely outside the world")
	}
}

func TestNewMapAcceptsValidObstacles(t *testing.T) {
	o := Obstacle{Kind: KindCircle, Circle: geometry.Circle{Center: geometry.Vector{X: 5, Y: 5}, R: 1}}
	m, err := NewMap("arena", World{W: 10, H: 10}, []Obstacle{o})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name != "arena" || len(m.Obstacles) != 1 {
		t.Errorf("got %+v, want name %q with 1 obstacle", m, "arena")
	}
}

func TestObstacleKindDispatch(t *testing.T) {
	cases := []struct {
		name string
		o    Obstacle
		in   geometry.Vector
		out  geometry.Vector
	}{
		{"rectangle", Obstacle{Kind: KindRectangle, Rect: geometry.Rect{X: 0, Y: 0, W: 10, H: 10}}, geometry.Vector{X: 5, Y: 5}, geometry.Vector{X: 20, Y: 5}},
		{"circle", Obstacle{Kind: KindCircle, Circle: geometry.Circle{Center: geometry.Vector{X: 5, Y: 5}, R: 3}}, geometry.Vector{X: 5, Y: 5}, geometry.Vector{X: 20, Y: 5}},
		{"polygon", Obstacle{Kind: KindPolygon, Polygon: geometry.Polygon{Points: []geometry.Vector{{0, 0}, {10, 0}, {10, 10}, {0, 10}}}}, geometry.Vector{X: 5, Y: 5}, geometry.Vector{X: 20, Y: 5}},
		{"line", Obstacle{Kind: KindLine, Line: geometry.ThickLine{A: geometry.Vector{X: 0, Y: 5}, B: geometry.Vector{X: 10, Y: 5}, Width: 2}}, geometry.Vector{X: 5, Y: 5}, geometry.Vector{X: 5, Y: 50}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if !c.o.Contains(c.in) {
				t.Errorf("Contains(%+v) = false, want true", c.in)
			}
			if c.o.Contains(c.out) {
				t.Errorf("Contains(%+v) = true, want false", c.out)
			}
			if d := c.o.SignedDistance(c.in); d >= 0 {
				t.Errorf("SignedDistance(%+v) = %v, want negative", c.in, d)
			}
			if d := c.o.SignedDistance(c.out); d <= 0 {
				t.Errorf("SignedDistance(%+v) = %v, want positive", c.out, d)
			}
		})
	}
}

func TestWorldContains(t *testing.T) {
	w := World{W: 10, H: 10}
	if !w.Contains(geometry.Vector{X: 5, Y: 5}) {
		t.Error("expected (5,5) inside a 10x10 world")
	}
	if w.Contains(geometry.Vector{X: 11, Y: 5}) {
		t.Error("expected (11,5) outside a 10x10 world")
	}
}
