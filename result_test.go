package gridcover

import "testing"

func TestReportReflectsSimulationState(t *testing.T) {
	cfg := baseSimConfig(t)
	cfg.Battery = Battery{RunTime: 1000, ChargeTime: 5}
	sim, err := NewSimulation(cfg)
	if err != nil {
		t.Fatal(err)
	}
	sim.Run()

	r := sim.Report()
	if r.TotalCells != sim.Grid.TotalCells() {
		t.Errorf("TotalCells = %d, want %d", r.TotalCells, sim.Grid.TotalCells())
	}
	if r.CoveredCells != sim.Grid.Covered() {
		t.Errorf("CoveredCells = %d, want %d", r.CoveredCells, sim.Grid.Covered())
	}
	if r.Steps != sim.Cutter.Steps {
		t.Errorf("Steps = %d, want %d", r.Steps, sim.Cutter.Steps)
	}
	if r.Distance != sim.Cutter.Distance {
		t.Errorf("Distance = %v, want %v", r.Distance, sim.Cutter.Distance)
	}
	if r.Seed != sim.RNG.Seed() {
		t.Errorf("Seed = %d, want %d", r.Seed, sim.RNG.Seed())
	}
	if r.ReasonName != sim.Reason.String() {
		t.Errorf("ReasonName = %q, want %q", r.ReasonName, sim.Reason.String())
	}
	if r.RemainingFraction < 0 || r.RemainingFraction > 1 {
		t.Errorf("RemainingFraction = %v, want in [0,1]", r.RemainingFraction)
	}
}

func TestReportRemainingFractionZeroWithoutBattery(t *testing.T) {
	cfg := baseSimConfig(t)
	sim, err := NewSimulation(cfg)
	if err != nil {
		t.Fatal(err)
	}
	r := sim.Report()
	if r.RemainingFraction != 0 {
		t.Errorf("RemainingFraction = %v, want 0 when battery modelling is disabled", r.RemainingFraction)
	}
}
