package main

import (
	"fmt"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gridcover/gridcover"
	"github.com/gridcover/gridcover/geometry"
	"github.com/gridcover/gridcover/mapfile"
	"github.com/gridcover/gridcover/render"
	"github.com/gridcover/gridcover/store"
)

func newRootCommand() *cobra.Command {
	conf := *DefaultConf
	var argsFile, writeArgsFile string

	cmd := &cobra.Command{
		Use:   "gridcover",
		Short: "Simulate a robotic lawn cutter's coverage of a bounded world",
		RunE: func(cmd *cobra.Command, args []string) error {
			if argsFile != "" {
				loaded, err := ParseConfig(argsFile)
				if err != nil {
					return fmt.Errorf("reading args file: %w", err)
				}
				mergeUnsetFlags(cmd, &conf, loaded)
			}
			if writeArgsFile != "" {
				if err := WriteConfig(writeArgsFile, &conf); err != nil {
					return fmt.Errorf("writing args file: %w", err)
				}
			}
			return run(&conf)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&conf.WorldWidth, "width", conf.WorldWidth, "world width")
	f.Float64Var(&conf.WorldHeight, "height", conf.WorldHeight, "world height")
	f.Float64Var(&conf.CellSize, "cell-size", conf.CellSize, "grid cell side length")
	f.StringVar(&conf.Geometry, "geometry", conf.Geometry, "cutter geometry: disc or blade")
	f.Float64Var(&conf.Radius, "radius", conf.Radius, "cutter bounding radius")
	f.Float64Var(&conf.BladeLength, "blade-length", conf.BladeLength, "blade length (geometry=blade only)")
	f.Float64Var(&conf.Speed, "speed", conf.Speed, "cutter speed, length/second")

	f.Float64Var(&conf.PerturbSegmentProbability, "perturb-segment-percent", conf.PerturbSegmentProbability, "mid-segment perturbation probability per cell traveled")
	f.Float64Var(&conf.PerturbSegmentAngle, "perturb-segment-angle", conf.PerturbSegmentAngle, "mid-segment perturbation angle bound, radians")
	f.BoolVar(&conf.PerturbOnBounce, "perturb-on-bounce", conf.PerturbOnBounce, "perturb heading on every bounce")
	f.Float64Var(&conf.PerturbBounceAngle, "perturb-bounce-angle", conf.PerturbBounceAngle, "bounce perturbation angle bound, radians")

	f.Float64Var(&conf.SlipActivationDistance, "slip-activation-distance", conf.SlipActivationDistance, "distance between slip rolls")
	f.Float64Var(&conf.SlipProbability, "slip-probability", conf.SlipProbability, "probability of entering a slip on each roll")
	f.Float64Var(&conf.SlipLMin, "slip-length-min", conf.SlipLMin, "minimum slip distance")
	f.Float64Var(&conf.SlipLMax, "slip-length-max", conf.SlipLMax, "maximum slip distance")
	f.Float64Var(&conf.SlipRMin, "slip-radius-min", conf.SlipRMin, "minimum slip arc radius")
	f.Float64Var(&conf.SlipRMax, "slip-radius-max", conf.SlipRMax, "maximum slip arc radius")
	f.Float64Var(&conf.SlipAdjustStep, "slip-adjust-step", conf.SlipAdjustStep, "distance between slip heading adjustments")

	f.Float64Var(&conf.ImbalanceAdjustStep, "imbalance-adjust-step", conf.ImbalanceAdjustStep, "distance between imbalance heading adjustments")
	f.Float64Var(&conf.ImbalanceRMin, "imbalance-radius-min", conf.ImbalanceRMin, "minimum imbalance arc radius")
	f.Float64Var(&conf.ImbalanceRMax, "imbalance-radius-max", conf.ImbalanceRMax, "maximum imbalance arc radius")

	f.Float64Var(&conf.BatteryRunTime, "battery-run-time", conf.BatteryRunTime, "battery run time in seconds, 0 disables")
	f.Float64Var(&conf.BatteryChargeTime, "battery-charge-time", conf.BatteryChargeTime, "charge time in seconds before the teleport penalty")

	f.IntVar(&conf.StopBounces, "stop-bounces", conf.StopBounces, "stop after this many bounces, 0 disables")
	f.Float64Var(&conf.StopTime, "stop-time", conf.StopTime, "stop after this many simulated seconds, 0 disables")
	f.Float64Var(&conf.StopCoverage, "stop-coverage", conf.StopCoverage, "stop at this covered fraction, 0 disables")
	f.IntVar(&conf.StopSteps, "stop-steps", conf.StopSteps, "stop after this many steps, 0 disables")
	f.Float64Var(&conf.StopDistance, "stop-distance", conf.StopDistance, "stop after this much distance traveled, 0 disables")

	f.Int64Var(&conf.Seed, "seed", conf.Seed, "random seed, 0 draws one from the OS")
	f.Float64Var(&conf.StartX, "start-x", conf.StartX, "explicit start X (requires --start-y)")
	f.Float64Var(&conf.StartY, "start-y", conf.StartY, "explicit start Y (requires --start-x)")
	f.Float64Var(&conf.StartDir, "start-dir", conf.StartDir, "explicit start heading in radians")
	f.BoolVar(&conf.HasStart, "has-start", conf.HasStart, "use --start-x/--start-y/--start-dir instead of sampling")

	f.StringVar(&conf.MapFile, "map-file", conf.MapFile, "path to a YAML obstacle map")
	f.StringVar(&conf.Verbosity, "verbosity", conf.Verbosity, "quiet, normal, or verbose")
	f.BoolVar(&conf.ShowProgress, "show-progress", conf.ShowProgress, "print a single overwritten progress line (not with --animation-output)")

	f.StringVar(&conf.OutputImage, "output-image", conf.OutputImage, "output PNG path")
	f.StringVar(&conf.PaperSize, "paper-size", conf.PaperSize, "A4, A3, or Letter")
	f.Float64Var(&conf.ImageWidth, "image-width-mm", conf.ImageWidth, "explicit image width in mm, overrides paper size")
	f.Float64Var(&conf.ImageHeight, "image-height-mm", conf.ImageHeight, "explicit image height in mm, overrides paper size")
	f.Float64Var(&conf.DPI, "dpi", conf.DPI, "image resolution in dots per inch")
	f.StringVar(&conf.ColorTheme, "color-theme", conf.ColorTheme, "default, blue, pure_green, gray_green, or high_contrast")
	f.BoolVar(&conf.GridLines, "grid-lines", conf.GridLines, "draw grid lines on integer world coordinates")
	f.BoolVar(&conf.TrackCenter, "track-center", conf.TrackCenter, "record and overlay the cutter center trail")
	f.BoolVar(&conf.QuadTreeOverlay, "quadtree-overlay", conf.QuadTreeOverlay, "draw quad-tree node rectangles")
	f.StringVar(&conf.DumpQuadTree, "dump-quadtree", conf.DumpQuadTree, "path to dump the quad-tree structure as JSON")

	f.StringVar(&conf.AnimOutput, "animation-output", conf.AnimOutput, "directory to write sampled animation frames, empty disables")
	f.Float64Var(&conf.AnimFrameRate, "animation-fps", conf.AnimFrameRate, "animation frame rate")
	f.Float64Var(&conf.AnimSpeedup, "animation-speedup", conf.AnimSpeedup, "animation playback speedup, realized by frame sampling")
	f.BoolVar(&conf.AnimHWEncoding, "hw-encoding", conf.AnimHWEncoding, "use hevc_videotoolbox instead of libx265")
	f.BoolVar(&conf.AnimDeleteFrames, "delete-frames", conf.AnimDeleteFrames, "delete frame files after video assembly")

	f.StringVar(&conf.Database, "database", conf.Database, "path to a SQLite database to append this run's result to")
	f.BoolVar(&conf.JSONResult, "json", conf.JSONResult, "emit the result report as JSON")

	f.StringVar(&argsFile, "args-file", "", "read flag defaults from a TOML arguments document")
	f.StringVar(&writeArgsFile, "write-args-file", "", "write the resolved arguments to a TOML document and continue")

	cmd.AddCommand(newCompletionCommand())
	return cmd
}

// mergeUnsetFlags applies loaded (the --args-file document) as the
// new base configuration, then replays every flag the user explicitly
// set on the command line back on top of it — giving CLI flags
// precedence over the args file (§6 "Values provided on the CLI
// override file values") without per-field reflection.
func mergeUnsetFlags(cmd *cobra.Command, conf *Config, loaded *Config) {
	overrides := *conf
	*conf = *loaded
	cmd.Flags().Visit(func(fl *pflag.Flag) {
		if set, ok := flagSetters[fl.Name]; ok {
			set(conf, &overrides)
		}
	})
}

// flagSetters copies one field from src to dst, keyed by flag name.
// Every flag defined in newRootCommand has an entry except
// args-file/write-args-file themselves, which are meaningless here.
var flagSetters = map[string]func(dst, src *Config){
	"width":        func(d, s *Config) { d.WorldWidth = s.WorldWidth },
	"height":       func(d, s *Config) { d.WorldHeight = s.WorldHeight },
	"cell-size":    func(d, s *Config) { d.CellSize = s.CellSize },
	"geometry":     func(d, s *Config) { d.Geometry = s.Geometry },
	"radius":       func(d, s *Config) { d.Radius = s.Radius },
	"blade-length": func(d, s *Config) { d.BladeLength = s.BladeLength },
	"speed":        func(d, s *Config) { d.Speed = s.Speed },

	"perturb-segment-percent": func(d, s *Config) { d.PerturbSegmentProbability = s.PerturbSegmentProbability },
	"perturb-segment-angle":   func(d, s *Config) { d.PerturbSegmentAngle = s.PerturbSegmentAngle },
	"perturb-on-bounce":       func(d, s *Config) { d.PerturbOnBounce = s.PerturbOnBounce },
	"perturb-bounce-angle":    func(d, s *Config) { d.PerturbBounceAngle = s.PerturbBounceAngle },

	"slip-activation-distance": func(d, s *Config) { d.SlipActivationDistance = s.SlipActivationDistance },
	"slip-probability":         func(d, s *Config) { d.SlipProbability = s.SlipProbability },
	"slip-length-min":          func(d, s *Config) { d.SlipLMin = s.SlipLMin },
	"slip-length-max":          func(d, s *Config) { d.SlipLMax = s.SlipLMax },
	"slip-radius-min":          func(d, s *Config) { d.SlipRMin = s.SlipRMin },
	"slip-radius-max":          func(d, s *Config) { d.SlipRMax = s.SlipRMax },
	"slip-adjust-step":         func(d, s *Config) { d.SlipAdjustStep = s.SlipAdjustStep },

	"imbalance-adjust-step": func(d, s *Config) { d.ImbalanceAdjustStep = s.ImbalanceAdjustStep },
	"imbalance-radius-min":  func(d, s *Config) { d.ImbalanceRMin = s.ImbalanceRMin },
	"imbalance-radius-max":  func(d, s *Config) { d.ImbalanceRMax = s.ImbalanceRMax },

	"battery-run-time":    func(d, s *Config) { d.BatteryRunTime = s.BatteryRunTime },
	"battery-charge-time": func(d, s *Config) { d.BatteryChargeTime = s.BatteryChargeTime },

	"stop-bounces":  func(d, s *Config) { d.StopBounces = s.StopBounces },
	"stop-time":     func(d, s *Config) { d.StopTime = s.StopTime },
	"stop-coverage": func(d, s *Config) { d.StopCoverage = s.StopCoverage },
	"stop-steps":    func(d, s *Config) { d.StopSteps = s.StopSteps },
	"stop-distance": func(d, s *Config) { d.StopDistance = s.StopDistance },

	"seed":      func(d, s *Config) { d.Seed = s.Seed },
	"start-x":   func(d, s *Config) { d.StartX = s.StartX },
	"start-y":   func(d, s *Config) { d.StartY = s.StartY },
	"start-dir": func(d, s *Config) { d.StartDir = s.StartDir },
	"has-start": func(d, s *Config) { d.HasStart = s.HasStart },

	"map-file":      func(d, s *Config) { d.MapFile = s.MapFile },
	"verbosity":     func(d, s *Config) { d.Verbosity = s.Verbosity },
	"show-progress": func(d, s *Config) { d.ShowProgress = s.ShowProgress },

	"output-image":    func(d, s *Config) { d.OutputImage = s.OutputImage },
	"paper-size":      func(d, s *Config) { d.PaperSize = s.PaperSize },
	"image-width-mm":  func(d, s *Config) { d.ImageWidth = s.ImageWidth },
	"image-height-mm": func(d, s *Config) { d.ImageHeight = s.ImageHeight },
	"dpi":             func(d, s *Config) { d.DPI = s.DPI },
	"color-theme":     func(d, s *Config) { d.ColorTheme = s.ColorTheme },
	"grid-lines":      func(d, s *Config) { d.GridLines = s.GridLines },
	"track-center":    func(d, s *Config) { d.TrackCenter = s.TrackCenter },
	"quadtree-overlay": func(d, s *Config) { d.QuadTreeOverlay = s.QuadTreeOverlay },
	"dump-quadtree":   func(d, s *Config) { d.DumpQuadTree = s.DumpQuadTree },

	"animation-output":   func(d, s *Config) { d.AnimOutput = s.AnimOutput },
	"animation-fps":      func(d, s *Config) { d.AnimFrameRate = s.AnimFrameRate },
	"animation-speedup":  func(d, s *Config) { d.AnimSpeedup = s.AnimSpeedup },
	"hw-encoding":        func(d, s *Config) { d.AnimHWEncoding = s.AnimHWEncoding },
	"delete-frames":      func(d, s *Config) { d.AnimDeleteFrames = s.AnimDeleteFrames },

	"database": func(d, s *Config) { d.Database = s.Database },
	"json":     func(d, s *Config) { d.JSONResult = s.JSONResult },
}

func run(conf *Config) error {
	var m *gridcover.Map
	if conf.MapFile != "" {
		file, err := mapfile.Load(conf.MapFile)
		if err != nil {
			return err
		}
		m, err = file.ToMap(conf.WorldWidth, conf.WorldHeight)
		if err != nil {
			return err
		}
	} else {
		var err error
		m, err = gridcover.NewMap("", gridcover.World{W: conf.WorldWidth, H: conf.WorldHeight}, nil)
		if err != nil {
			return err
		}
	}

	stop, err := gridcover.NewStopConfig(conf.StopBounces, conf.StopTime, conf.StopCoverage, conf.StopSteps, conf.StopDistance)
	if err != nil {
		return err
	}

	var kind gridcover.CutterGeomKind
	switch conf.Geometry {
	case "disc":
		kind = gridcover.GeomDisc
	case "blade":
		kind = gridcover.GeomBlade
	default:
		return &gridcover.ConfigError{Msg: fmt.Sprintf("unknown geometry %q (want disc or blade)", conf.Geometry)}
	}

	log := cliLogger(conf.Verbosity)

	simCfg := gridcover.SimConfig{
		Map:      m,
		CellSize: conf.CellSize,
		Geometry: gridcover.CutterGeometry{Kind: kind, Radius: conf.Radius, BladeLength: conf.BladeLength},
		Speed:    conf.Speed,
		Battery:  gridcover.Battery{RunTime: conf.BatteryRunTime, ChargeTime: conf.BatteryChargeTime},
		Stop:     stop,
		Params: gridcover.MotionParams{
			PerturbSegmentProbability: conf.PerturbSegmentProbability / 100,
			PerturbSegmentAngle:       conf.PerturbSegmentAngle,
			PerturbOnBounce:           conf.PerturbOnBounce,
			PerturbBounceAngle:        conf.PerturbBounceAngle,
			SlipActivationDistance:    conf.SlipActivationDistance,
			SlipProbability:           conf.SlipProbability,
			SlipLMin:                  conf.SlipLMin,
			SlipLMax:                  conf.SlipLMax,
			SlipRMin:                  conf.SlipRMin,
			SlipRMax:                  conf.SlipRMax,
			SlipAdjustStep:            conf.SlipAdjustStep,
			ImbalanceAdjustStep:       conf.ImbalanceAdjustStep,
			ImbalanceRMin:             conf.ImbalanceRMin,
			ImbalanceRMax:             conf.ImbalanceRMax,
		},
		Seed:        conf.Seed,
		TrackCenter: conf.TrackCenter,
		Log:         log,
	}
	if conf.HasStart {
		pos := geometry.Vector{X: conf.StartX, Y: conf.StartY}
		dir := conf.StartDir
		simCfg.StartPos = &pos
		simCfg.StartDir = &dir
	}

	sim, err := gridcover.NewSimulation(simCfg)
	if err != nil {
		return err
	}

	var reason gridcover.StopReason
	if conf.AnimOutput != "" {
		reason = runWithAnimation(sim, conf, log)
	} else if conf.ShowProgress {
		for sim.Reason == gridcover.Running {
			sim.Step()
			if sim.Cutter.Steps%1000 == 0 {
				fmt.Printf("\rsteps: %d  coverage: %.2f%%", sim.Cutter.Steps, sim.Grid.CoverageFraction()*100)
			}
		}
		fmt.Println()
		reason = sim.Reason
	} else {
		reason = sim.Run()
	}
	log.Info("simulation stopped: %s", reason)

	res := sim.Report()
	if conf.JSONResult {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		printResult(res)
	}

	if conf.OutputImage != "" {
		theme := render.ThemeByName(conf.ColorTheme)
		w, h := paperDims(conf)
		opts := render.Options{
			Grid:            sim.Grid,
			World:           m.World,
			Map:             m,
			Theme:           theme,
			ImageW:          w,
			ImageH:          h,
			DrawGridLines:   conf.GridLines,
			DrawQuadTree:    conf.QuadTreeOverlay,
			QuadTree:        sim.Tree,
			DrawCenterTrack: conf.TrackCenter,
			CenterTrack:     sim.CenterTrack(),
			Legend:          fmt.Sprintf("%s — coverage %.1f%%", m.Name, res.CoveredFraction*100),
		}
		if err := render.WritePNGFile(conf.OutputImage, opts); err != nil {
			log.Warn("writing image: %v", err)
		}
	}

	if conf.DumpQuadTree != "" {
		if err := sim.Tree.Save(conf.DumpQuadTree); err != nil {
			log.Warn("dumping quad-tree: %v", err)
		}
	}

	if conf.Database != "" {
		db, err := store.Open(conf.Database)
		if err != nil {
			log.Warn("opening database: %v", err)
		} else {
			defer db.Close()
			if _, err := db.SaveRun(store.Params{CellSize: conf.CellSize, Speed: conf.Speed}, res); err != nil {
				log.Warn("saving run: %v", err)
			}
		}
	}

	return nil
}

// runWithAnimation steps sim to completion, writing a PNG frame every
// SampleInterval steps (§6 "Animation output": frames are sampled, not
// rendered every step, so --animation-speedup trades playback speed
// for fidelity without perturbing the physics). The sampled frames are
// assembled into a video with ffmpeg once the simulation stops.
func runWithAnimation(sim *gridcover.Simulation, conf *Config, log gridcover.Logger) gridcover.StopReason {
	if err := os.MkdirAll(conf.AnimOutput, 0755); err != nil {
		log.Warn("creating animation directory: %v, falling back to un-animated run", err)
		return sim.Run()
	}

	interval := render.SampleInterval(sim.StepSeconds(), conf.AnimFrameRate, conf.AnimSpeedup)
	theme := render.ThemeByName(conf.ColorTheme)
	w, h := paperDims(conf)
	frame := 0

	writeFrame := func() {
		opts := render.Options{
			Grid:            sim.Grid,
			World:           sim.Map.World,
			Map:             sim.Map,
			Theme:           theme,
			ImageW:          w,
			ImageH:          h,
			DrawGridLines:   conf.GridLines,
			DrawQuadTree:    conf.QuadTreeOverlay,
			QuadTree:        sim.Tree,
			DrawCenterTrack: conf.TrackCenter,
			CenterTrack:     sim.CenterTrack(),
		}
		if err := render.WritePNGFile(render.FramePath(conf.AnimOutput, frame), opts); err != nil {
			log.Warn("writing animation frame %d: %v", frame, err)
		}
		frame++
	}

	writeFrame()
	for step := 1; sim.Reason == gridcover.Running; step++ {
		sim.Step()
		if step%interval == 0 {
			writeFrame()
		}
	}

	videoPath := filepath.Join(conf.AnimOutput, "animation.mp4")
	if err := render.Encode(render.EncodeOptions{
		FramesDir:    conf.AnimOutput,
		OutputPath:   videoPath,
		FrameRate:    conf.AnimFrameRate,
		HWEncoding:   conf.AnimHWEncoding,
		DeleteFrames: conf.AnimDeleteFrames,
	}); err != nil {
		log.Warn("encoding animation: %v", err)
	} else {
		log.Info("animation written to %s", videoPath)
	}

	return sim.Reason
}

func paperDims(conf *Config) (int, int) {
	if conf.ImageWidth > 0 && conf.ImageHeight > 0 {
		p := render.PaperSize{WidthMM: conf.ImageWidth, HeightMM: conf.ImageHeight}
		return p.PixelsAt(conf.DPI)
	}
	switch conf.PaperSize {
	case "A3":
		return render.A3.PixelsAt(conf.DPI)
	case "Letter":
		return render.Letter.PixelsAt(conf.DPI)
	default:
		return render.A4.PixelsAt(conf.DPI)
	}
}

func printResult(res gridcover.Result) {
	fmt.Printf("covered:    %.2f%% (%d/%d cells, %d blocked)\n", res.CoveredFraction*100, res.CoveredCells, res.TotalCells, res.BlockedCells)
	fmt.Printf("distance:   %.3f\n", res.Distance)
	fmt.Printf("bounces:    %d\n", res.Bounces)
	fmt.Printf("steps:      %d\n", res.Steps)
	fmt.Printf("sim time:   %.3fs\n", res.SimulatedSecs)
	fmt.Printf("wall time:  %s\n", res.WallElapsed)
	fmt.Printf("charges:    %d\n", res.ChargeCount)
	fmt.Printf("seed:       %d\n", res.Seed)
	fmt.Printf("reason:     %s\n", res.ReasonName)
}
