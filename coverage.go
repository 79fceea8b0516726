package gridcover

import (
	"math"

	"github.com/gridcover/gridcover/geometry"
	"github.com/gridcover/gridcover/grid"
)

// applyCoverage is the coverage oracle (§4.4): it tests every cell
// within the cutter's outer-disc bounding box around its current
// position and marks it visited when the cutter's active region, at
// this pose, fully contains the cell.
func applyCoverage(g *grid.Grid, c *Cutter) {
	r := c.Geometry.Radius
	minI := int(math.Floor((c.Pos.X - r) / g.S))
	maxI := int(math.Floor((c.Pos.X + r) / g.S))
	minJ := int(math.Floor((c.Pos.Y - r) / g.S))
	maxJ := int(math.Floor((c.Pos.Y + r) / g.S))
	if minI < 0 {
		minI = 0
	}
	if minJ < 0 {
		minJ = 0
	}
	if maxI >= g.Nx {
		maxI = g.Nx - 1
	}
	if maxJ >= g.Ny {
		maxJ = g.Ny - 1
	}
	for j := minJ; j <= maxJ; j++ {
		for i := minI; i <= maxI; i++ {
			if cellFullyCovered(g, i, j, c) {
				g.Visit(i, j)
			}
		}
	}
}

// cellFullyCovered implements the per-geometry predicate of §4.4.
func cellFullyCovered(g *grid.Grid, i, j int, c *Cutter) bool {
	corners := g.Corners(i, j)
	r := c.Geometry.Radius
	switch c.Geometry.Kind {
	case GeomDisc:
		for _, corner := range corners {
			if corner.Sub(c.Pos).Norm() > r {
				return false
			}
		}
		return true
	case GeomBlade:
		inner := r - c.Geometry.BladeLength
		farthest := 0.0
		for _, corner := range corners {
			d := corner.Sub(c.Pos).Norm()
			if d > r {
				return false
			}
			if d > farthest {
				farthest = d
			}
		}
		return farthest >= inner
	default:
		return false
	}
}

// validStartRegion reports whether a candidate start position keeps
// the cutter's bounding disc fully inside the world and off any
// obstacle, used when sampling a random start pose.
func validStartRegion(w World, obstacles []Obstacle, p geometry.Vector, r float64) bool {
	if p.X < r || p.X > w.W-r || p.Y < r || p.Y > w.H-r {
		return false
	}
	for i := range obstacles {
		if obstacles[i].SignedDistance(p) < r {
			return false
		}
	}
	return true
}
