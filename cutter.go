package gridcover

import "github.com/gridcover/gridcover/geometry"

// CutterGeomKind selects which cutting-geometry variant a Cutter uses.
// Both share the same bounding disc radius R (§3).
type CutterGeomKind int

const (
	// GeomDisc is a solid disc: a cell is covered once all four
	// corners fall within R of the center.
	GeomDisc CutterGeomKind = iota
	// GeomBlade is a thin rotating blade of length BladeLength
	// sweeping the outer annulus [R-BladeLength, R] each step.
	GeomBlade
)

// CutterGeometry describes the cutting shape (§3, §4.4).
type CutterGeometry struct {
	Kind        CutterGeomKind
	Radius      float64
	BladeLength float64
	Phase       float64
}

// Battery models the cutter's run-time budget and charging cycle
// (§4.8). RunTime of 0 disables battery modelling entirely.
type Battery struct {
	RunTime     float64 // total seconds of charge; 0 disables the model
	Remaining   float64
	ChargeTime  float64 // seconds spent charging, before the teleport penalty
	ChargeCount int
}

// Enabled reports whether battery modelling is active.
func (b *Battery) Enabled() bool { return b.RunTime > 0 }

// Slippage is the transient "slipping" sub-state of §4.7: entered
// stochastically, it biases the heading along an arc for a bounded
// distance before releasing control back to the nominal path.
type Slippage struct {
	Active              bool
	Sign                float64 // fixed for the duration of one slip
	Radius              float64 // arc radius sampled at entry
	RemainingL          float64 // remaining distance budget
	SinceLastCheck      float64
	distanceSinceAdjust float64
}

// Imbalance is the permanent constant-radius wheel bias of §4.7,
// sampled once per simulation.
type Imbalance struct {
	Sign           float64
	Radius         float64
	SinceLastAdjust float64
}

// A Cutter is the moving agent: its pose, kinematics, geometry,
// battery, and perturbation sub-states.
type Cutter struct {
	Pos     geometry.Vector
	Heading geometry.Vector // unit vector
	Speed   float64         // length/second

	Geometry CutterGeometry
	Battery  Battery

	Slip      Slippage
	Imbalance Imbalance

	// Bounces, Distance, Steps are cumulative counters reported in
	// the result report (§6).
	Bounces  int
	Distance float64
	Steps    int
}

// BoundingRadius returns the cutter's bounding-disc radius, used for
// collision margins and valid-placement checks regardless of
// geometry kind.
func (c *Cutter) BoundingRadius() float64 { return c.Geometry.Radius }
