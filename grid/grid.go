// Package grid holds the 2D array of per-cell visit counts and the
// aggregate coverage counters (§3 "Grid aggregate", §4.4 coverage
// oracle bookkeeping half). It is deliberately obstacle-agnostic: it
// accepts anything that can answer Contains(point) so the root
// package's Obstacle type can block cells without grid importing the
// root package back.
package grid

import "github.com/gridcover/gridcover/geometry"

// A Blocker reports whether a world point lies inside it. An
// *gridcover.Obstacle satisfies this.
type Blocker interface {
	Contains(p geometry.Vector) bool
}

// Cell holds the per-cell state tracked by the simulation.
type Cell struct {
	Blocked    bool
	VisitCount int
}

// Covered reports whether the cell has been visited at least once.
// Once true it never reverts (§3 invariant).
func (c Cell) Covered() bool { return c.VisitCount > 0 }

// A Grid tiles a world of size W×H into Nx×Ny square cells of side S.
type Grid struct {
	S          float64
	Nx, Ny     int
	cells      []Cell
	covered    int
	blocked    int
	totalCells int
}

// New builds a grid over a world of dimensions w,h with cell side s.
// s must be positive and smaller than the world in both dimensions;
// callers are expected to have already validated s < 2·r (§7 class 1)
// before calling New.
func New(w, h, s float64) *Grid {
	nx := int(w / s)
	ny := int(h / s)
	if nx < 1 {
		nx = 1
	}
	if ny < 1 {
		ny = 1
	}
	return &Grid{
		S:          s,
		Nx:         nx,
		Ny:         ny,
		cells:      make([]Cell, nx*ny),
		totalCells: nx * ny,
	}
}

func (g *Grid) index(i, j int) int { return j*g.Nx + i }

// At returns the cell at (i,j). i and j must be in range.
func (g *Grid) At(i, j int) Cell { return g.cells[g.index(i, j)] }

// Center returns the world-coordinate center of cell (i,j).
func (g *Grid) Center(i, j int) geometry.Vector {
	return geometry.Vector{X: (float64(i) + 0.5) * g.S, Y: (float64(j) + 0.5) * g.S}
}

// Corners returns the four corners of cell (i,j).
func (g *Grid) Corners(i, j int) [4]geometry.Vector {
	x0, y0 := float64(i)*g.S, float64(j)*g.S
	x1, y1 := x0+g.S, y0+g.S
	return [4]geometry.Vector{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}}
}

// CellAt returns the cell indices containing the world point p, and
// whether p lies within the grid's bounds.
func (g *Grid) CellAt(p geometry.Vector) (i, j int, ok bool) {
	i = int(p.X / g.S)
	j = int(p.Y / g.S)
	if i < 0 || i >= g.Nx || j < 0 || j >= g.Ny {
		return 0, 0, false
	}
	return i, j, true
}

// BlockObstacles marks every cell whose geometric center lies inside
// any of obstacles as blocked, and excludes it from the coverage
// denominator. Must be called once, before the simulation starts
// stepping: blocked cells are immutable for the life of the grid.
func (g *Grid) BlockObstacles(obstacles []Blocker) {
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			c := g.Center(i, j)
			for _, o := range obstacles {
				if o.Contains(c) {
					idx := g.index(i, j)
					if !g.cells[idx].Blocked {
						g.cells[idx].Blocked = true
						g.blocked++
					}
					break
				}
			}
		}
	}
}

// Visit increments the visit count of cell (i,j) and, the first time
// the cell is visited, increments the covered-cell total. Visiting a
// blocked cell is a no-op: blocked and covered sets are kept disjoint
// (§3 invariant).
func (g *Grid) Visit(i, j int) {
	idx := g.index(i, j)
	cell := &g.cells[idx]
	if cell.Blocked {
		return
	}
	if cell.VisitCount == 0 {
		g.covered++
	}
	cell.VisitCount++
}

// Covered returns the total number of covered cells.
func (g *Grid) Covered() int { return g.covered }

// BlockedCount returns the total number of blocked cells.
func (g *Grid) BlockedCount() int { return g.blocked }

// TotalCells returns Nx*Ny.
func (g *Grid) TotalCells() int { return g.totalCells }

// CoverageFraction returns covered/(total-blocked), the denominator
// named in §3. Returns 0 if every cell is blocked.
func (g *Grid) CoverageFraction() float64 {
	denom := g.totalCells - g.blocked
	if denom <= 0 {
		return 0
	}
	return float64(g.covered) / float64(denom)
}
