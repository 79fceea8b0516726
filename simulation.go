package gridcover

import (
	"math"
	"time"

	"github.com/gridcover/gridcover/geometry"
	"github.com/gridcover/gridcover/grid"
	"github.com/gridcover/gridcover/quadtree"
)

// Logger is the host-injected logging capability (§9: "the core never
// uses process-wide loggers"). Any field left nil is treated as a
// no-op.
type Logger struct {
	Info  func(format string, args ...interface{})
	Warn  func(format string, args ...interface{})
	Error func(format string, args ...interface{})
}

func (l Logger) infof(format string, args ...interface{}) {
	if l.Info != nil {
		l.Info(format, args...)
	}
}

func (l Logger) warnf(format string, args ...interface{}) {
	if l.Warn != nil {
		l.Warn(format, args...)
	}
}

// minNodeFactor is the multiplier applied to the cutter radius to
// derive the quad-tree's minimum node side (§4.3, §3 "Quad-tree node").
const minNodeFactor = 2.0

// maxStartAttempts bounds the number of random start-pose samples
// before giving up and reporting a configuration error, avoiding an
// unbounded loop when obstacles leave no valid region.
const maxStartAttempts = 10000

// A Simulation owns every piece of mutable state for one run: the
// map, grid, quad-tree, cutter, stopping configuration and random
// source are all explicit fields, never globals (§9 "Global state:
// none").
type Simulation struct {
	Map    *Map
	Grid   *grid.Grid
	Tree   *quadtree.QuadTree
	Cutter Cutter
	Stop   *StopConfig
	RNG    *RNG
	Params MotionParams
	Log    Logger

	StepSize float64 // ds, world length units per step

	Clock          float64 // simulated seconds elapsed
	Reason         StopReason
	wallStart      time.Time
	trackCenters   bool
	centerTrack    []geometry.Vector
	startPos       geometry.Vector
	startDir       float64
}

// SimConfig is the full set of inputs needed to construct a
// Simulation: everything args.rs/Config-equivalent CLI/TOML layers
// resolve to before handing off to the core.
type SimConfig struct {
	Map         *Map
	CellSize    float64
	Geometry    CutterGeometry
	Speed       float64
	Battery     Battery
	Stop        *StopConfig
	Params      MotionParams
	Seed        int64
	StartPos    *geometry.Vector
	StartDir    *float64
	TrackCenter bool
	Log         Logger
}

// NewSimulation validates cfg and builds a ready-to-step Simulation:
// the grid (with obstacles blocked), the quad-tree over obstacle
// AABBs, and a valid cutter start pose (explicit, or sampled from the
// RNG within the non-blocked interior).
func NewSimulation(cfg SimConfig) (*Simulation, error) {
	r := cfg.Geometry.Radius
	if cfg.CellSize <= 0 || cfg.CellSize >= 2*r {
		return nil, &ConfigError{Msg: "cell size must be positive and smaller than 2×cutter radius"}
	}
	if cfg.Geometry.Kind == GeomBlade && (cfg.Geometry.BladeLength <= 0 || cfg.Geometry.BladeLength > r) {
		return nil, &ConfigError{Msg: "blade length must be in (0, radius]"}
	}

	g := grid.New(cfg.Map.World.W, cfg.Map.World.H, cfg.CellSize)
	blockers := make([]grid.Blocker, len(cfg.Map.Obstacles))
	for i := range cfg.Map.Obstacles {
		blockers[i] = &cfg.Map.Obstacles[i]
	}
	g.BlockObstacles(blockers)

	items := make([]quadtree.Item, len(cfg.Map.Obstacles))
	for i := range cfg.Map.Obstacles {
		items[i] = quadtree.Item{Index: i, Box: cfg.Map.Obstacles[i].AABB()}
	}
	minSide := math.Max(minNodeFactor*r, cfg.CellSize)
	tree := quadtree.Build(geometry.Rect{X: 0, Y: 0, W: cfg.Map.World.W, H: cfg.Map.World.H}, items, quadtree.DefaultCapacity, minSide)

	rng := NewRNG(cfg.Seed)

	stepSize := 0.6 * cfg.CellSize

	s := &Simulation{
		Map:      cfg.Map,
		Grid:     g,
		Tree:     tree,
		Stop:     cfg.Stop,
		RNG:      rng,
		Params:   cfg.Params,
		Log:      cfg.Log,
		StepSize: stepSize,
		wallStart: time.Now(),
		trackCenters: cfg.TrackCenter,
	}

	s.Cutter.Geometry = cfg.Geometry
	s.Cutter.Speed = cfg.Speed
	s.Cutter.Battery = cfg.Battery
	s.Cutter.Battery.Remaining = cfg.Battery.RunTime

	if s.Params.ImbalanceRMax > 0 {
		s.Cutter.Imbalance.Sign = rng.Sign()
		s.Cutter.Imbalance.Radius = rng.Uniform(s.Params.ImbalanceRMin, s.Params.ImbalanceRMax)
	}

	pos := cfg.StartPos
	if pos == nil {
		var found *geometry.Vector
		for i := 0; i < maxStartAttempts; i++ {
			cand := geometry.Vector{X: rng.Uniform(r, cfg.Map.World.W-r), Y: rng.Uniform(r, cfg.Map.World.H-r)}
			if validStartRegion(cfg.Map.World, cfg.Map.Obstacles, cand, r) {
				found = &cand
				break
			}
		}
		if found == nil {
			return nil, &ConfigError{Msg: "could not find a valid start position after exhausting attempts"}
		}
		pos = found
	} else if !validStartRegion(cfg.Map.World, cfg.Map.Obstacles, *pos, r) {
		return nil, &ConfigError{Msg: "explicit start position is outside the world or overlaps an obstacle"}
	}
	s.Cutter.Pos = *pos

	dir := cfg.StartDir
	if dir == nil {
		h := rng.HeadingInWorld()
		dir = &h
	}
	s.Cutter.Heading = geometry.Vector{X: 1}.Rotate(*dir)
	s.startPos = s.Cutter.Pos
	s.startDir = *dir

	applyCoverage(s.Grid, &s.Cutter)
	if s.trackCenters {
		s.centerTrack = append(s.centerTrack, s.Cutter.Pos)
	}

	return s, nil
}

// dt returns the simulated seconds one motion step of length StepSize
// takes at the cutter's speed.
func (s *Simulation) dt() float64 { return s.StepSize / s.Cutter.Speed }

// StepSeconds exposes dt to external collaborators (the CLI's
// animation frame sampler) that need to know how much simulated time
// one Step call advances, without reaching into unexported fields.
func (s *Simulation) StepSeconds() float64 { return s.dt() }

// Step advances the simulation by one tick: battery bookkeeping,
// then either a charging interval (no motion, no coverage) or a full
// motion-and-collision step followed by the coverage oracle (§4.5,
// §4.8).
func (s *Simulation) Step() {
	Δt := s.dt()

	if s.Cutter.Battery.Enabled() {
		s.Cutter.Battery.Remaining -= Δt
		if s.Cutter.Battery.Remaining <= 0 {
			penalty := s.RNG.Uniform(60, 900)
			s.Clock += s.Cutter.Battery.ChargeTime + penalty
			s.Cutter.Battery.Remaining = s.Cutter.Battery.RunTime
			s.Cutter.Battery.ChargeCount++
			s.evaluateStop()
			return
		}
	}

	c := &s.Cutter
	ds := s.StepSize

	s.applyPerturbation(ds)
	s.applySlippage(ds)
	s.applyImbalance(ds)

	start := c.Pos
	end := start.Add(c.Heading.Scale(ds))

	queryBox := geometry.Rect{
		X: math.Min(start.X, end.X) - c.Geometry.Radius,
		Y: math.Min(start.Y, end.Y) - c.Geometry.Radius,
		W: math.Abs(end.X-start.X) + 2*c.Geometry.Radius,
		H: math.Abs(end.Y-start.Y) + 2*c.Geometry.Radius,
	}
	candidates := s.Tree.Query(queryBox)

	obstacleHit := segmentObstacleCollision(s.Map.Obstacles, candidates, start, end, c.Geometry.Radius)
	boundaryHit := boundaryCollision(s.Map.World, start, end, c.Geometry.Radius)

	hit := obstacleHit
	if boundaryHit.hit && boundaryHit.t < hit.t {
		hit = boundaryHit
	}

	var actualDs float64
	if hit.hit {
		t := hit.t - geometry.Epsilon
		if t < 0 {
			t = 0
		}
		c.Pos = geometry.Vector{X: start.X + t*(end.X-start.X), Y: start.Y + t*(end.Y-start.Y)}
		c.Heading = c.Heading.Reflect(hit.normal)
		if s.Params.PerturbOnBounce {
			for attempt := 0; attempt < 8; attempt++ {
				candidate := c.Heading.Rotate(s.RNG.Angle(s.Params.PerturbBounceAngle))
				if candidate.Dot(hit.normal) >= 0 {
					c.Heading = candidate
					break
				}
			}
		}
		c.Bounces++
		actualDs = t * ds
	} else {
		c.Pos = end
		actualDs = ds
	}

	c.Distance += actualDs
	c.Steps++
	s.Clock += Δt

	applyCoverage(s.Grid, c)
	if s.trackCenters {
		s.centerTrack = append(s.centerTrack, c.Pos)
	}

	s.evaluateStop()
}

func (s *Simulation) evaluateStop() {
	s.Reason = s.Stop.Evaluate(s.Cutter.Bounces, s.Clock, s.Grid.CoverageFraction(), s.Cutter.Steps, s.Cutter.Distance)
	if s.Reason == Running && s.Clock >= FailsafeSeconds {
		s.Log.warnf("gridcover: failsafe time limit reached after %d steps, seed %d", s.Cutter.Steps, s.RNG.Seed())
		s.Reason = ReasonTime
	}
}

// Run steps the simulation until a stopping condition fires,
// returning the reason.
func (s *Simulation) Run() StopReason {
	for s.Reason == Running {
		s.Step()
	}
	return s.Reason
}

// CenterTrack returns the recorded cutter-center trail, if
// TrackCenter was requested, for the optional image overlay (§6).
func (s *Simulation) CenterTrack() []geometry.Vector { return s.centerTrack }

// WallElapsed returns the wall-clock duration since the simulation
// was constructed.
func (s *Simulation) WallElapsed() time.Duration { return time.Since(s.wallStart) }
