// Package geometry provides the vector and shape primitives shared by
// the map model, the quad-tree index, and the motion/collision code:
// points, segments, rectangles, circles, polygons and thick lines, plus
// the intersection and reflection math used to collide the cutter with
// the world boundary and with obstacles.
package geometry

import "math"

// Epsilon is the tolerance below which a grazing intersection is
// treated as no intersection at all, preventing oscillation at exact
// tangencies.
const Epsilon = 1e-9

// A Vector is a point or a displacement in the plane.
type Vector struct {
	X, Y float64
}

// Add returns v+u.
func (v Vector) Add(u Vector) Vector { return Vector{v.X + u.X, v.Y + u.Y} }

// Sub returns v-u.
func (v Vector) Sub(u Vector) Vector { return Vector{v.X - u.X, v.Y - u.Y} }

// Scale returns v*k.
func (v Vector) Scale(k float64) Vector { return Vector{v.X * k, v.Y * k} }

// Dot returns the dot product of v and u.
func (v Vector) Dot(u Vector) float64 { return v.X*u.X + v.Y*u.Y }

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns v scaled to unit length. The zero vector is
// returned unchanged.
func (v Vector) Normalize() Vector {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// Rotate returns v rotated by θ radians counter-clockwise.
func (v Vector) Rotate(θ float64) Vector {
	sin, cos := math.Sincos(θ)
	return Vector{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// Angle returns the angle of v from the positive X axis, in (-π, π].
func (v Vector) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Reflect returns v reflected about the line whose unit normal is n.
func (v Vector) Reflect(n Vector) Vector {
	k := 2 * v.Dot(n)
	return Vector{v.X - k*n.X, v.Y - k*n.Y}
}

// DiffAngle returns the signed difference θ-φ wrapped to (-π, π].
func DiffAngle(θ, φ float64) float64 {
	d := math.Mod(θ-φ+math.Pi, 2*math.Pi)
	if d <= 0 {
		d += 2 * math.Pi
	}
	return d - math.Pi
}

// A Segment is an oriented line between two points.
type Segment struct {
	A, B Vector
}

// Point returns the point at parameter t along the segment, where
// t=0 is A and t=1 is B.
func (s Segment) Point(t float64) Vector {
	return Vector{(1-t)*s.A.X + t*s.B.X, (1-t)*s.A.Y + t*s.B.Y}
}

// Vector returns the displacement from A to B.
func (s Segment) Vector() Vector { return s.B.Sub(s.A) }

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 { return s.Vector().Norm() }

// ClosestPoint returns the point of the segment closest to p and the
// parameter t at which it occurs, clamped to [0,1].
func (s Segment) ClosestPoint(p Vector) (Vector, float64) {
	d := s.Vector()
	l2 := d.Dot(d)
	if l2 == 0 {
		return s.A, 0
	}
	t := p.Sub(s.A).Dot(d) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return s.Point(t), t
}

// Distance returns the distance from p to the closest point of the
// segment.
func (s Segment) Distance(p Vector) float64 {
	c, _ := s.ClosestPoint(p)
	return c.Sub(p).Norm()
}

// Intersect returns the parameters (t on s, u on o) such that
// s.Point(t) == o.Point(u), solving the 2x2 linear system formed by
// the two segments treated as lines. The result may contain NaN or
// Inf when the segments are parallel.
func (s Segment) Intersect(o Segment) (t, u float64) {
	d1, d2 := s.Vector(), o.Vector()
	det := d1.X*d2.Y - d1.Y*d2.X
	diff := o.A.Sub(s.A)
	t = (diff.X*d2.Y - diff.Y*d2.X) / det
	u = (diff.X*d1.Y - diff.Y*d1.X) / det
	return t, u
}

// A Rect is an axis-aligned rectangle anchored at its lower-left
// corner (X,Y) with width W and height H.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies within the closed rectangle.
func (r Rect) Contains(p Vector) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Expand returns r grown by m on every side.
func (r Rect) Expand(m float64) Rect {
	return Rect{r.X - m, r.Y - m, r.W + 2*m, r.H + 2*m}
}

// Intersects reports whether r and o overlap (touching counts as
// overlap).
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.X+o.W && o.X <= r.X+r.W && r.Y <= o.Y+o.H && o.Y <= r.Y+r.H
}

// Center returns the center point of r.
func (r Rect) Center() Vector { return Vector{r.X + r.W/2, r.Y + r.H/2} }

// ClosestPoint returns the point of the (boundary of the) rectangle
// closest to p.
func (r Rect) ClosestPoint(p Vector) Vector {
	x := math.Max(r.X, math.Min(p.X, r.X+r.W))
	y := math.Max(r.Y, math.Min(p.Y, r.Y+r.H))
	if p.X > r.X && p.X < r.X+r.W && p.Y > r.Y && p.Y < r.Y+r.H {
		// p is inside: snap to the nearest edge instead of itself.
		dl, dr := p.X-r.X, r.X+r.W-p.X
		db, dt := p.Y-r.Y, r.Y+r.H-p.Y
		m := math.Min(math.Min(dl, dr), math.Min(db, dt))
		switch m {
		case dl:
			return Vector{r.X, p.Y}
		case dr:
			return Vector{r.X + r.W, p.Y}
		case db:
			return Vector{p.X, r.Y}
		default:
			return Vector{p.X, r.Y + r.H}
		}
	}
	return Vector{x, y}
}

// SignedDistance returns the distance from p to the rectangle
// boundary, negative when p is inside.
func (r Rect) SignedDistance(p Vector) float64 {
	c := r.ClosestPoint(p)
	d := c.Sub(p).Norm()
	if r.Contains(p) {
		return -d
	}
	return d
}

// A Circle is centered at Center with radius R.
type Circle struct {
	Center Vector
	R      float64
}

// Contains reports whether p lies within the closed disc.
func (c Circle) Contains(p Vector) bool {
	return p.Sub(c.Center).Norm() <= c.R
}

// AABB returns the axis-aligned bounding box of the circle.
func (c Circle) AABB() Rect {
	return Rect{c.Center.X - c.R, c.Center.Y - c.R, 2 * c.R, 2 * c.R}
}

// SignedDistance returns the distance from p to the circle boundary,
// negative when p is inside.
func (c Circle) SignedDistance(p Vector) float64 {
	return p.Sub(c.Center).Norm() - c.R
}

// Normal returns the outward unit normal of the circle at the point
// nearest to p.
func (c Circle) Normal(p Vector) Vector {
	return p.Sub(c.Center).Normalize()
}

// A Polygon is an ordered list of vertices, implicitly closed between
// the last and first point.
type Polygon struct {
	Points []Vector
}

// AABB returns the axis-aligned bounding box of the polygon.
func (p Polygon) AABB() Rect {
	if len(p.Points) == 0 {
		return Rect{}
	}
	minX, minY := p.Points[0].X, p.Points[0].Y
	maxX, maxY := minX, minY
	for _, v := range p.Points[1:] {
		minX = math.Min(minX, v.X)
		minY = math.Min(minY, v.Y)
		maxX = math.Max(maxX, v.X)
		maxY = math.Max(maxY, v.Y)
	}
	return Rect{minX, minY, maxX - minX, maxY - minY}
}

// Contains reports whether p lies inside the polygon using the
// odd-even (ray casting) rule.
func (p Polygon) Contains(q Vector) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p.Points[i], p.Points[j]
		if (a.Y > q.Y) != (b.Y > q.Y) {
			xint := (b.X-a.X)*(q.Y-a.Y)/(b.Y-a.Y) + a.X
			if q.X < xint {
				inside = !inside
			}
		}
	}
	return inside
}

// edges returns the polygon's boundary segments.
func (p Polygon) edges() []Segment {
	n := len(p.Points)
	edges := make([]Segment, n)
	for i := 0; i < n; i++ {
		edges[i] = Segment{p.Points[i], p.Points[(i+1)%n]}
	}
	return edges
}

// SignedDistance returns the distance from q to the nearest polygon
// edge, negative when q is inside the polygon.
func (p Polygon) SignedDistance(q Vector) float64 {
	best := math.Inf(1)
	for _, e := range p.edges() {
		if d := e.Distance(q); d < best {
			best = d
		}
	}
	if p.Contains(q) {
		return -best
	}
	return best
}

// Normal returns the outward unit normal of the polygon edge nearest
// to q.
func (p Polygon) Normal(q Vector) Vector {
	bestD := math.Inf(1)
	var bestEdge Segment
	for _, e := range p.edges() {
		if d := e.Distance(q); d < bestD {
			bestD = d
			bestEdge = e
		}
	}
	d := bestEdge.Vector()
	n := Vector{d.Y, -d.X}.Normalize()
	if p.Contains(q) {
		return n.Scale(-1)
	}
	return n
}

// A ThickLine is a line segment with a perpendicular half-width,
// modelling a wall of finite thickness.
type ThickLine struct {
	A, B  Vector
	Width float64
}

// AABB returns the axis-aligned bounding box of the thick line.
func (l ThickLine) AABB() Rect {
	half := l.Width / 2
	minX := math.Min(l.A.X, l.B.X) - half
	minY := math.Min(l.A.Y, l.B.Y) - half
	maxX := math.Max(l.A.X, l.B.X) + half
	maxY := math.Max(l.A.Y, l.B.Y) + half
	return Rect{minX, minY, maxX - minX, maxY - minY}
}

// Contains reports whether p lies within half the line's width of the
// segment.
func (l ThickLine) Contains(p Vector) bool {
	s := Segment{l.A, l.B}
	return s.Distance(p) <= l.Width/2
}

// SignedDistance returns the distance from p to the line's thick
// boundary, negative when p is inside.
func (l ThickLine) SignedDistance(p Vector) float64 {
	s := Segment{l.A, l.B}
	return s.Distance(p) - l.Width/2
}

// Normal returns the outward unit normal of the thick line at the
// point nearest to p.
func (l ThickLine) Normal(p Vector) Vector {
	s := Segment{l.A, l.B}
	c, _ := s.ClosestPoint(p)
	n := p.Sub(c)
	if n.Norm() == 0 {
		d := s.Vector()
		return Vector{d.Y, -d.X}.Normalize()
	}
	return n.Normalize()
}
