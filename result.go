package gridcover

import "time"

// Result is the structured report emitted at the end of a run (§6
// "Result report"). Every field named as required by the spec is
// present; additional fields are implementation-defined extensions.
type Result struct {
	CoveredFraction float64       `json:"covered_fraction"`
	CoveredCells    int           `json:"covered_cells"`
	TotalCells      int           `json:"total_cells"`
	BlockedCells    int           `json:"blocked_cells"`
	Distance        float64       `json:"distance"`
	Bounces         int           `json:"bounces"`
	SimulatedSecs   float64       `json:"simulated_seconds"`
	WallElapsed     time.Duration `json:"wall_elapsed_ns"`
	Steps           int           `json:"steps"`

	CutterGeometry CutterGeometry `json:"cutter_geometry"`

	ChargeCount      int     `json:"charge_count"`
	RemainingFraction float64 `json:"battery_remaining_fraction"`

	WorldW float64 `json:"world_w,omitempty"`
	WorldH float64 `json:"world_h,omitempty"`
	GridNx int     `json:"grid_nx,omitempty"`
	GridNy int     `json:"grid_ny,omitempty"`

	StartX   float64 `json:"start_x"`
	StartY   float64 `json:"start_y"`
	StartDir float64 `json:"start_dir"`

	Seed   int64      `json:"seed"`
	Reason StopReason `json:"-"`
	ReasonName string  `json:"reason"`
}

// Report builds the Result snapshot for the current simulation state,
// callable whether the run stopped normally or was cancelled
// mid-flight (§5 "Cancellation": partial grid state is still valid).
func (s *Simulation) Report() Result {
	var remainingFrac float64
	if s.Cutter.Battery.Enabled() {
		remainingFrac = s.Cutter.Battery.Remaining / s.Cutter.Battery.RunTime
	}
	return Result{
		CoveredFraction:   s.Grid.CoverageFraction(),
		CoveredCells:      s.Grid.Covered(),
		TotalCells:        s.Grid.TotalCells(),
		BlockedCells:      s.Grid.BlockedCount(),
		Distance:          s.Cutter.Distance,
		Bounces:           s.Cutter.Bounces,
		SimulatedSecs:     s.Clock,
		WallElapsed:       s.WallElapsed(),
		Steps:             s.Cutter.Steps,
		CutterGeometry:    s.Cutter.Geometry,
		ChargeCount:       s.Cutter.Battery.ChargeCount,
		RemainingFraction: remainingFrac,
		WorldW:            s.Map.World.W,
		WorldH:            s.Map.World.H,
		GridNx:            s.Grid.Nx,
		GridNy:            s.Grid.Ny,
		StartX:            s.startPos.X,
		StartY:            s.startPos.Y,
		StartDir:          s.startDir,
		Seed:              s.RNG.Seed(),
		Reason:            s.Reason,
		ReasonName:        s.Reason.String(),
	}
}
