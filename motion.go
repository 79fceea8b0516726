package gridcover

import (
	"math"

	"github.com/gridcover/gridcover/geometry"
)

// MotionParams collects the tunable probabilities and magnitudes of
// §4.5 (mid-segment perturbation, bounce perturbation) and §4.7
// (wheel slippage and imbalance). All angles are in radians, all
// distances in world length units.
type MotionParams struct {
	// PerturbSegmentProbability is the probability, per unit of cell
	// side traveled, of rotating the heading mid-segment (§9
	// "perturb-segment-percent" semantics: value 0.5 means 0.5% per
	// cell, so store it here already as a probability in [0,1]).
	PerturbSegmentProbability float64
	PerturbSegmentAngle       float64 // θ_seg

	PerturbOnBounce   bool
	PerturbBounceAngle float64 // θ_b, ≈ 60° when enabled

	SlipActivationDistance float64
	SlipProbability        float64
	SlipLMin, SlipLMax     float64
	SlipRMin, SlipRMax     float64
	SlipAdjustStep         float64

	ImbalanceAdjustStep   float64
	ImbalanceRMin, ImbalanceRMax float64
}

// applyPerturbation implements §4.5 step 1: with probability scaled
// by the fraction of a cell traveled this step, rotate the heading by
// a small random angle.
func (s *Simulation) applyPerturbation(ds float64) {
	p := s.Params.PerturbSegmentProbability * (ds / s.Grid.S)
	if s.RNG.Bool(p) {
		s.Cutter.Heading = s.Cutter.Heading.Rotate(s.RNG.Angle(s.Params.PerturbSegmentAngle))
	}
}

// applySlippage implements the transient slipping sub-state of §4.7:
// every SlipActivationDistance of travel, a coin flip may enter a
// slip for a distance sampled from [LMin,LMax]; while active, every
// SlipAdjustStep of travel rotates the heading along an arc of radius
// sampled from [RMin,RMax] at entry.
func (s *Simulation) applySlippage(ds float64) {
	c := &s.Cutter
	if !c.Slip.Active {
		c.Slip.SinceLastCheck += ds
		if c.Slip.SinceLastCheck < s.Params.SlipActivationDistance {
			return
		}
		c.Slip.SinceLastCheck = 0
		if !s.RNG.Bool(s.Params.SlipProbability) {
			return
		}
		c.Slip.Active = true
		c.Slip.Sign = s.RNG.Sign()
		c.Slip.Radius = s.RNG.Uniform(s.Params.SlipRMin, s.Params.SlipRMax)
		c.Slip.RemainingL = s.RNG.Uniform(s.Params.SlipLMin, s.Params.SlipLMax)
		c.Slip.distanceSinceAdjust = 0
	}
	if !c.Slip.Active {
		return
	}
	step := s.Params.SlipAdjustStep
	if step <= 0 {
		return
	}
	c.Slip.distanceSinceAdjust += ds
	for c.Slip.Active && c.Slip.distanceSinceAdjust >= step {
		dθ := c.Slip.Sign * (step / c.Slip.Radius)
		c.Heading = c.Heading.Rotate(dθ)
		c.Slip.distanceSinceAdjust -= step
		c.Slip.RemainingL -= step
		if c.Slip.RemainingL <= 0 {
			c.Slip.Active = false
		}
	}
}

// applyImbalance implements the permanent constant-radius bias of
// §4.7: every ImbalanceAdjustStep of travel, rotate by a fixed-sign
// angle around a radius sampled once at simulation start.
func (s *Simulation) applyImbalance(ds float64) {
	c := &s.Cutter
	step := s.Params.ImbalanceAdjustStep
	if step <= 0 || c.Imbalance.Radius == 0 {
		return
	}
	c.Imbalance.SinceLastAdjust += ds
	for c.Imbalance.SinceLastAdjust >= step {
		dθ := c.Imbalance.Sign * (step / c.Imbalance.Radius)
		c.Heading = c.Heading.Rotate(dθ)
		c.Imbalance.SinceLastAdjust -= step
	}
}

// collisionResult describes the first obstruction found along a
// candidate displacement, if any.
type collisionResult struct {
	hit    bool
	t      float64
	normal geometry.Vector
}

// segmentObstacleCollision searches [0,1] along the segment start→end
// for the first parameter t at which the cutter's leading edge
// (radius r) touches the boundary of any candidate obstacle. It uses
// a coarse sampling pass to bracket a sign change in the signed
// distance, then bisects to refine it — a uniform approach across all
// four obstacle kinds since Obstacle.SignedDistance already abstracts
// over them (§9 "static dispatch on kind", done once in Obstacle
// rather than repeated here).
func segmentObstacleCollision(obstacles []Obstacle, candidates []int, start, end geometry.Vector, r float64) collisionResult {
	const samples = 32
	const bisectIters = 24

	best := collisionResult{t: math.Inf(1)}
	for _, idx := range candidates {
		o := &obstacles[idx]
		f := func(t float64) float64 {
			p := geometry.Vector{X: start.X + t*(end.X-start.X), Y: start.Y + t*(end.Y-start.Y)}
			return o.SignedDistance(p) - r
		}
		if f(0) <= 0 {
			// Already overlapping at the start of the step; treat as
			// no new collision event so the caller's prior bounce
			// logic (which pulled the pose back) is not re-triggered.
			continue
		}
		prevT := 0.0
		for i := 1; i <= samples; i++ {
			t := float64(i) / samples
			if f(t) <= 0 {
				lo, hi := prevT, t
				for k := 0; k < bisectIters; k++ {
					mid := (lo + hi) / 2
					if f(mid) <= 0 {
						hi = mid
					} else {
						lo = mid
					}
				}
				if hi < best.t {
					p := geometry.Vector{X: start.X + hi*(end.X-start.X), Y: start.Y + hi*(end.Y-start.Y)}
					best = collisionResult{hit: true, t: hi, normal: o.Normal(p)}
				}
				break
			}
			prevT = t
		}
	}
	return best
}

// boundaryCollision checks the four world-boundary half-planes
// offset inward by r, returning the earliest crossing along
// start→end, if any.
func boundaryCollision(w World, start, end geometry.Vector, r float64) collisionResult {
	best := collisionResult{t: math.Inf(1)}
	consider := func(t float64, ok bool, n geometry.Vector) {
		if ok && t > geometry.Epsilon && t <= 1 && t < best.t {
			best = collisionResult{hit: true, t: t, normal: n}
		}
	}
	dx, dy := end.X-start.X, end.Y-start.Y
	if dx < 0 {
		t := (r - start.X) / dx
		consider(t, true, geometry.Vector{X: 1})
	}
	if dx > 0 {
		t := (w.W - r - start.X) / dx
		consider(t, true, geometry.Vector{X: -1})
	}
	if dy < 0 {
		t := (r - start.Y) / dy
		consider(t, true, geometry.Vector{Y: 1})
	}
	if dy > 0 {
		t := (w.H - r - start.Y) / dy
		consider(t, true, geometry.Vector{Y: -1})
	}
	return best
}
