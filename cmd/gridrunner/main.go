// Command gridrunner sweeps a gridcover simulation across a range of
// stopping coverages, rendering one frame per sweep point and
// optionally assembling the frames into a video. Sweep points run
// concurrently across goroutines rather than one subprocess per
// point, since each point is an independent simulation.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/gridcover/gridcover"
	"github.com/gridcover/gridcover/render"
	"github.com/gridcover/gridcover/store"
)

func main() {
	var (
		width, height = flag.Float64("width", 10, "world width"), flag.Float64("height", 10, "world height")
		cellSize      = flag.Float64("cell-size", 0.1, "grid cell side length")
		radius        = flag.Float64("radius", 0.2, "cutter bounding radius")
		speed         = flag.Float64("speed", 0.3, "cutter speed")
		seed          = flag.Int64("seed", 42, "base random seed; point i uses seed+i")
		coverageStart = flag.Float64("coverage-start", 0.1, "first sweep point's stop-coverage")
		coverageEnd   = flag.Float64("coverage-end", 0.9, "last sweep point's stop-coverage")
		points        = flag.Int("points", 9, "number of sweep points")
		outputDir     = flag.String("output-dir", "gridrunner-frames", "directory to write one PNG per sweep point")
		database      = flag.String("database", "", "optional SQLite database to append each point's result to")
		video         = flag.String("video", "", "optional video path to assemble the frames into")
		fps           = flag.Float64("fps", 2, "video frame rate")
		hwEncoding    = flag.Bool("hw-encoding", false, "use hevc_videotoolbox instead of libx265")
		deleteFrames  = flag.Bool("delete-frames", false, "delete frame PNGs after video assembly")
		quiet         = flag.Bool("quiet", false, "suppress progress output")
	)
	flag.Parse()

	if err := run(sweepConfig{
		width: *width, height: *height, cellSize: *cellSize, radius: *radius, speed: *speed,
		seed: *seed, coverageStart: *coverageStart, coverageEnd: *coverageEnd, points: *points,
		outputDir: *outputDir, database: *database, video: *video, fps: *fps,
		hwEncoding: *hwEncoding, deleteFrames: *deleteFrames, quiet: *quiet,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

type sweepConfig struct {
	width, height, cellSize, radius, speed float64
	seed                                   int64
	coverageStart, coverageEnd             float64
	points                                 int
	outputDir, database, video             string
	fps                                    float64
	hwEncoding, deleteFrames, quiet        bool
}

type sweepResult struct {
	index  int
	result gridcover.Result
	err    error
}

func run(cfg sweepConfig) error {
	if cfg.points < 1 {
		return fmt.Errorf("points must be at least 1")
	}
	if err := os.MkdirAll(cfg.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	var db *store.Store
	if cfg.database != "" {
		var err error
		db, err = store.Open(cfg.database)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	jobs := make(chan int)
	results := make(chan sweepResult)
	workers := runtime.NumCPU()
	if workers > cfg.points {
		workers = cfg.points
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := sweepPoint(cfg, i)
				results <- sweepResult{index: i, result: res, err: err}
			}
		}()
	}

	go func() {
		for i := 0; i < cfg.points; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	var firstErr error
	for r := range results {
		completed++
		if !cfg.quiet {
			fmt.Printf("\rsweep: %d/%d complete", completed, cfg.points)
		}
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		if db != nil {
			if _, err := db.SaveRun(store.Params{CellSize: cfg.cellSize, Speed: cfg.speed}, r.result); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	if !cfg.quiet {
		fmt.Println()
	}
	if firstErr != nil {
		return firstErr
	}

	if cfg.video != "" {
		return render.Encode(render.EncodeOptions{
			FramesDir:    cfg.outputDir,
			OutputPath:   cfg.video,
			FrameRate:    cfg.fps,
			HWEncoding:   cfg.hwEncoding,
			DeleteFrames: cfg.deleteFrames,
		})
	}
	return nil
}

func sweepPoint(cfg sweepConfig, i int) (gridcover.Result, error) {
	frac := 0.0
	if cfg.points > 1 {
		frac = float64(i) / float64(cfg.points-1)
	}
	coverage := cfg.coverageStart + frac*(cfg.coverageEnd-cfg.coverageStart)

	m, err := gridcover.NewMap("", gridcover.World{W: cfg.width, H: cfg.height}, nil)
	if err != nil {
		return gridcover.Result{}, err
	}
	stop, err := gridcover.NewStopConfig(0, 0, coverage, 0, 0)
	if err != nil {
		return gridcover.Result{}, err
	}
	sim, err := gridcover.NewSimulation(gridcover.SimConfig{
		Map:      m,
		CellSize: cfg.cellSize,
		Geometry: gridcover.CutterGeometry{Kind: gridcover.GeomDisc, Radius: cfg.radius},
		Speed:    cfg.speed,
		Stop:     stop,
		Seed:     cfg.seed + int64(i),
	})
	if err != nil {
		return gridcover.Result{}, err
	}
	sim.Run()
	res := sim.Report()

	theme := render.ThemeByName("default")
	opts := render.Options{
		Grid:   sim.Grid,
		World:  m.World,
		Map:    m,
		Theme:  theme,
		ImageW: 800,
		ImageH: 800,
		Legend: fmt.Sprintf("coverage target %.0f%%", coverage*100),
	}
	if err := render.WritePNGFile(render.FramePath(cfg.outputDir, i), opts); err != nil {
		return res, err
	}
	return res, nil
}
