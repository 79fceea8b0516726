package main

import "github.com/BurntSushi/toml"

// Config holds every parameter the CLI exposes, mirroring the flag
// set of spec §6 one field per flag so the TOML arguments document
// and the flag set stay in lockstep (§10 "Configuration").
type Config struct {
	WorldWidth  float64
	WorldHeight float64
	CellSize    float64

	Geometry    string // "disc" or "blade"
	Radius      float64
	BladeLength float64
	Speed       float64

	PerturbSegmentProbability float64
	PerturbSegmentAngle       float64
	PerturbOnBounce           bool
	PerturbBounceAngle        float64

	SlipActivationDistance float64
	SlipProbability        float64
	SlipLMin, SlipLMax     float64
	SlipRMin, SlipRMax     float64
	SlipAdjustStep         float64

	ImbalanceAdjustStep float64
	ImbalanceRMin       float64
	ImbalanceRMax       float64

	BatteryRunTime    float64
	BatteryChargeTime float64

	StopBounces  int
	StopTime     float64
	StopCoverage float64
	StopSteps    int
	StopDistance float64

	Seed int64

	StartX, StartY float64 // used only when HasStart is set; otherwise the start is sampled
	StartDir       float64
	HasStart       bool

	MapFile string

	Verbosity    string // "quiet", "normal", "verbose"
	ShowProgress bool

	OutputImage string
	PaperSize   string
	ImageWidth  float64 // mm; with ImageHeight, overrides PaperSize when both are positive
	ImageHeight float64
	DPI         float64
	ColorTheme  string
	GridLines   bool
	TrackCenter bool
	QuadTreeOverlay bool
	DumpQuadTree    string

	AnimOutput       string
	AnimFrameRate    float64
	AnimSpeedup      float64
	AnimHWEncoding   bool
	AnimDeleteFrames bool

	Database string

	JSONResult bool
}

// DefaultConf are the default parameters, used when no config file is
// given and no flag overrides them.
var DefaultConf = &Config{
	WorldWidth:   10,
	WorldHeight:  10,
	CellSize:     0.1,
	Geometry:     "disc",
	Radius:       0.2,
	BladeLength:  0.05,
	Speed:        0.3,
	StopCoverage: 0.9,
	Seed:         0,
	Verbosity:    "normal",
	OutputImage:  "gridcover.png",
	PaperSize:    "A4",
	DPI:          150,
	ColorTheme:   "default",
	AnimFrameRate: 24,
	AnimSpeedup:   1,
}

// ParseConfig loads a TOML arguments document into a copy of
// DefaultConf, so unset fields keep their defaults (§10
// "Configuration": CLI flags override these after loading).
func ParseConfig(path string) (*Config, error) {
	conf := *DefaultConf
	_, err := toml.DecodeFile(path, &conf)
	return &conf, err
}

// WriteConfig persists conf as a TOML arguments document at path
// (§6 "Arguments persistence").
func WriteConfig(path string, conf *Config) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := toml.NewEncoder(f)
	return enc.Encode(conf)
}
