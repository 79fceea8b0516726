package gridcover

// StopReason names the unique stopping-condition predicate satisfied
// first (§4.6, glossary "Reason").
type StopReason int

const (
	// Running means no stopping predicate has fired yet.
	Running StopReason = iota
	ReasonBounces
	ReasonTime
	ReasonCoverage
	ReasonSteps
	ReasonDistance
)

func (r StopReason) String() string {
	switch r {
	case Running:
		return "running"
	case ReasonBounces:
		return "bounces"
	case ReasonTime:
		return "time"
	case ReasonCoverage:
		return "coverage"
	case ReasonSteps:
		return "steps"
	case ReasonDistance:
		return "distance"
	default:
		return "unknown"
	}
}

// StopConfig holds the five stopping limits. A limit is disabled when
// its value is zero (§4.6). At least one must be enabled, or
// NewStopConfig returns a *ConfigError (§7 class 1).
type StopConfig struct {
	MaxBounces  int
	MaxSeconds  float64
	MaxCoverage float64
	MaxSteps    int
	MaxDistance float64
}

// NewStopConfig validates that at least one limit is enabled.
func NewStopConfig(maxBounces int, maxSeconds, maxCoverage float64, maxSteps int, maxDistance float64) (*StopConfig, error) {
	c := &StopConfig{maxBounces, maxSeconds, maxCoverage, maxSteps, maxDistance}
	if c.MaxBounces == 0 && c.MaxSeconds == 0 && c.MaxCoverage == 0 && c.MaxSteps == 0 && c.MaxDistance == 0 {
		return nil, &ConfigError{Msg: "no stopping condition set: at least one of bounces/time/coverage/steps/distance must be nonzero"}
	}
	return c, nil
}

// Evaluate returns the first satisfied stopping predicate, in the
// fixed order named by §4.6, so the reported reason is deterministic
// even when two predicates cross within the same step.
func (c *StopConfig) Evaluate(bounces int, seconds, coverage float64, steps int, distance float64) StopReason {
	switch {
	case c.MaxBounces != 0 && bounces >= c.MaxBounces:
		return ReasonBounces
	case c.MaxSeconds != 0 && seconds >= c.MaxSeconds:
		return ReasonTime
	case c.MaxCoverage != 0 && coverage >= c.MaxCoverage:
		return ReasonCoverage
	case c.MaxSteps != 0 && steps >= c.MaxSteps:
		return ReasonSteps
	case c.MaxDistance != 0 && distance >= c.MaxDistance:
		return ReasonDistance
	default:
		return Running
	}
}

// FailsafeSeconds is an absolute simulated-time ceiling applied
// regardless of configuration: seven simulated days. It exists to
// guarantee termination when a stopping condition (e.g. a coverage
// target behind unreachable blocked cells) can never be satisfied.
const FailsafeSeconds = 7 * 24 * 60 * 60
