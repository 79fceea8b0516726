// Package gridcover simulates a robotic lawn-cutting device moving
// across a rectangular world with optional static obstacles. It
// deterministically advances the cutter along straight segments,
// reflects it off boundaries and obstacles, and records which
// fixed-size grid cells become fully covered by the cutter's cutting
// geometry.
//
// The package never reaches for a process-wide logger, clock, or
// random source: every collaborating capability a simulation needs —
// logging, randomness, the grid, the spatial index — is passed in
// explicitly through SimConfig and held on Simulation.
package gridcover

import (
	"fmt"

	"github.com/gridcover/gridcover/geometry"
)

// ObstacleKind identifies which variant of the Obstacle tagged union
// is populated. The collision routine and the map loader both switch
// on Kind rather than using virtual dispatch, since the set of kinds
// is fixed.
type ObstacleKind int

const (
	KindRectangle ObstacleKind = iota
	KindCircle
	KindPolygon
	KindLine
)

func (k ObstacleKind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	case KindCircle:
		return "circle"
	case KindPolygon:
		return "polygon"
	case KindLine:
		return "line"
	default:
		return "unknown"
	}
}

// An Obstacle is a static, named region of the world. Exactly the
// field matching Kind is meaningful; the others are zero. Obstacles
// are placed in world coordinates and may overlap; the only defined
// semantics of overlap is that the union is blocked.
type Obstacle struct {
	Kind    ObstacleKind
	Name    string
	Rect    geometry.Rect
	Circle  geometry.Circle
	Polygon geometry.Polygon
	Line    geometry.ThickLine
}

// AABB returns the obstacle's axis-aligned bounding box, used to file
// it into the quad-tree.
func (o *Obstacle) AABB() geometry.Rect {
	switch o.Kind {
	case KindRectangle:
		return o.Rect
	case KindCircle:
		return o.Circle.AABB()
	case KindPolygon:
		return o.Polygon.AABB()
	case KindLine:
		return o.Line.AABB()
	default:
		return geometry.Rect{}
	}
}

// Contains reports whether p lies inside the obstacle. Cell-blocking
// uses this with the cell's geometric center (§3): a cell is blocked
// iff its center is Contained by some obstacle, applied uniformly
// across all four kinds (see DESIGN.md, Open Question 2).
func (o *Obstacle) Contains(p geometry.Vector) bool {
	switch o.Kind {
	case KindRectangle:
		return o.Rect.Contains(p)
	case KindCircle:
		return o.Circle.Contains(p)
	case KindPolygon:
		return o.Polygon.Contains(p)
	case KindLine:
		return o.Line.Contains(p)
	default:
		return false
	}
}

// SignedDistance returns the distance from p to the obstacle's
// boundary, negative when p is inside. Used by the motion/collision
// step to find, along a candidate segment, the point where the
// cutter's leading edge first touches the obstacle.
func (o *Obstacle) SignedDistance(p geometry.Vector) float64 {
	switch o.Kind {
	case KindRectangle:
		return o.Rect.SignedDistance(p)
	case KindCircle:
		return o.Circle.SignedDistance(p)
	case KindPolygon:
		return o.Polygon.SignedDistance(p)
	case KindLine:
		return o.Line.SignedDistance(p)
	default:
		return 0
	}
}

// Normal returns the outward unit normal of the obstacle boundary at
// the point nearest to p, used to reflect the cutter's heading on
// bounce.
func (o *Obstacle) Normal(p geometry.Vector) geometry.Vector {
	switch o.Kind {
	case KindRectangle:
		c := o.Rect.ClosestPoint(p)
		n := p.Sub(c)
		if n.Norm() == 0 {
			return geometry.Vector{X: 1}
		}
		return n.Normalize()
	case KindCircle:
		return o.Circle.Normal(p)
	case KindPolygon:
		return o.Polygon.Normal(p)
	case KindLine:
		return o.Line.Normal(p)
	default:
		return geometry.Vector{}
	}
}

// A World is the rectangular domain the cutter moves within:
// [0,W]×[0,H] in abstract length units.
type World struct {
	W, H float64
}

// Contains reports whether p lies within the closed world rectangle.
func (w World) Contains(p geometry.Vector) bool {
	return p.X >= 0 && p.X <= w.W && p.Y >= 0 && p.Y <= w.H
}

// A Map is the validated combination of a World and its obstacles.
type Map struct {
	World     World
	Name      string
	Obstacles []Obstacle
}

// NewMap validates and constructs a Map. It returns a *ConfigError for
// non-positive dimensions, obstacles entirely outside the world, or a
// polygon with fewer than 3 points (§7 class 1).
func NewMap(name string, w World, obstacles []Obstacle) (*Map, error) {
	if w.W <= 0 || w.H <= 0 {
		return nil, &ConfigError{Msg: fmt.Sprintf("world dimensions must be positive, got %gx%g", w.W, w.H)}
	}
	worldRect := geometry.Rect{X: 0, Y: 0, W: w.W, H: w.H}
	for i, o := range obstacles {
		if o.Kind == KindPolygon && len(o.Polygon.Points) < 3 {
			return nil, &ConfigError{Msg: fmt.Sprintf("obstacle %d (%q): polygon needs at least 3 points", i, o.Name)}
		}
		if !worldRect.Intersects(o.AABB()) {
			return nil, &ConfigError{Msg: fmt.Sprintf("obstacle %d (%q) lies entirely outside the world", i, o.Name)}
		}
	}
	return &Map{World: w, Name: name, Obstacles: obstacles}, nil
}
