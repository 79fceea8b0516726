package gridcover

import (
	"math"
	"testing"

	"github.com/gridcover/gridcover/geometry"
)

func newTestSimulation(t *testing.T) *Simulation {
	t.Helper()
	m, err := NewMap("", World{W: 10, H: 10}, nil)
	if err != nil {
		t.Fatal(err)
	}
	stop, err := NewStopConfig(0, 0, 0, 100000, 0)
	if err != nil {
		t.Fatal(err)
	}
	sim, err := NewSimulation(SimConfig{
		Map:      m,
		CellSize: 0.1,
		Geometry: CutterGeometry{Kind: GeomDisc, Radius: 0.2},
		Speed:    1,
		Stop:     stop,
		Seed:     1,
	})
	if err != nil {
		t.Fatal(err)
	}
	return sim
}

func TestApplySlippageConsumesBudgetAndDeactivates(t *testing.T) {
	sim := newTestSimulation(t)
	sim.Params.SlipActivationDistance = 0
	sim.Params.SlipProbability = 1
	sim.Params.SlipRMin, sim.Params.SlipRMax = 1, 1
	sim.Params.SlipLMin, sim.Params.SlipLMax = 0.5, 0.5
	sim.Params.SlipAdjustStep = 0.1

	sim.applySlippage(0.01) // triggers entry, no distance consumed by the roll check itself
	if !sim.Cutter.Slip.Active {
		t.Fatal("expected slippage to activate with SlipProbability=1")
	}

	// Consume the whole remaining slip length in one large step.
	sim.applySlippage(1.0)
	if sim.Cutter.Slip.Active {
		t.Error("expected slippage to deactivate once RemainingL is exhausted")
	}
}

func TestApplyImbalanceRotatesHeadingPeriodically(t *testing.T) {
	sim := newTestSimulation(t)
	sim.Cutter.Imbalance.Sign = 1
	sim.Cutter.Imbalance.Radius = 1
	sim.Params.ImbalanceAdjustStep = 0.1
	before := sim.Cutter.Heading

	sim.applyImbalance(0.1)
	if sim.Cutter.Heading == before {
		t.Error("expected heading to change after consuming one full adjust step")
	}
}

func TestApplyImbalanceNoOpWithoutRadius(t *testing.T) {
	sim := newTestSimulation(t)
	sim.Params.ImbalanceAdjustStep = 0.1
	before := sim.Cutter.Heading
	sim.applyImbalance(10)
	if sim.Cutter.Heading != before {
		t.Error("expected no heading change when Imbalance.Radius is zero")
	}
}

func TestSegmentObstacleCollisionFindsRectangle(t *testing.T) {
	obstacles := []Obstacle{{Kind: KindRectangle, Rect: geometry.Rect{X: 5, Y: 0, W: 1, H: 10}}}
	start := geometry.Vector{X: 0, Y: 5}
	end := geometry.Vector{X: 10, Y: 5}
	res := segmentObstacleCollision(obstacles, []int{0}, start, end, 0.1)
	if !res.hit {
		t.Fatal("expected a collision with the rectangle")
	}
	wantT := (5 - 0.1) / 10
	if math.Abs(res.t-wantT) > 0.01 {
		t.Errorf("collision t = %v, want ~%v", res.t, wantT)
	}
	if res.normal.X >= 0 {
		t.Errorf("normal = %+v, want pointing in -X", res.normal)
	}
}

func TestSegmentObstacleCollisionNoHitWhenClear(t *testing.T) {
	obstacles := []Obstacle{{Kind: KindRectangle, Rect: geometry.Rect{X: 5, Y: 0, W: 1, H: 10}}}
	start := geometry.Vector{X: 0, Y: 0}
	end := geometry.Vector{X: 1, Y: 0}
	res := segmentObstacleCollision(obstacles, []int{0}, start, end, 0.1)
	if res.hit {
		t.Error("expected no collision for a segment far from the obstacle")
	}
}

func TestBoundaryCollisionDetectsEachWall(t *testing.T) {
	w := World{W: 10, H: 10}
	cases := []struct {
		name       string
		start, end geometry.Vector
		wantNormal geometry.Vector
	}{
		{"right", geometry.Vector{X: 9, Y: 5}, geometry.Vector{X: 11, Y: 5}, geometry.Vector{X: -1}},
		{"left", geometry.Vector{X: 1, Y: 5}, geometry.Vector{X: -1, Y: 5}, geometry.Vector{X: 1}},
		{"top", geometry.Vector{X: 5, Y: 9}, geometry.Vector{X: 5, Y: 11}, geometry.Vector{Y: -1}},
		{"bottom", geometry.Vector{X: 5, Y: 1}, geometry.Vector{X: 5, Y: -1}, geometry.Vector{Y: 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := boundaryCollision(w, c.start, c.end, 0.2)
			if !res.hit {
				t.Fatalf("expected a boundary collision crossing the %s wall", c.name)
			}
			if res.normal != c.wantNormal {
				t.Errorf("normal = %+v, want %+v", res.normal, c.wantNormal)
			}
		})
	}
}
