// Package store persists simulation parameters and results to SQLite
// (§6 "Persistent store": an optional append-only table of (model
// parameters, result metrics) rows addressed by a run id): open a
// file, write a schema, write one row per run.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gridcover/gridcover"
)

// Store wraps a SQLite database handle. The zero value is not usable;
// construct with Open.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT NOT NULL,
	seed INTEGER NOT NULL,
	world_w REAL NOT NULL,
	world_h REAL NOT NULL,
	cell_size REAL NOT NULL,
	cutter_kind INTEGER NOT NULL,
	cutter_radius REAL NOT NULL,
	blade_length REAL NOT NULL,
	speed REAL NOT NULL,
	stop_reason TEXT NOT NULL,
	covered_fraction REAL NOT NULL,
	covered_cells INTEGER NOT NULL,
	total_cells INTEGER NOT NULL,
	blocked_cells INTEGER NOT NULL,
	distance REAL NOT NULL,
	bounces INTEGER NOT NULL,
	steps INTEGER NOT NULL,
	simulated_seconds REAL NOT NULL,
	wall_elapsed_ns INTEGER NOT NULL,
	charge_count INTEGER NOT NULL,
	params_json TEXT NOT NULL,
	result_json TEXT NOT NULL
);
`

// Open creates (or opens) the SQLite database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema in %q: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Params mirrors the subset of a run's configuration worth persisting
// alongside its result, for later cross-run analysis.
type Params struct {
	CellSize float64
	Speed    float64
}

// SaveRun inserts one row for a completed simulation, returning the
// new row's id.
func (s *Store) SaveRun(cfg Params, res gridcover.Result) (int64, error) {
	paramsJSON, err := json.Marshal(cfg)
	if err != nil {
		return 0, err
	}
	resultJSON, err := json.Marshal(res)
	if err != nil {
		return 0, err
	}
	row, err := s.db.Exec(
		`INSERT INTO runs (
			created_at, seed, world_w, world_h, cell_size,
			cutter_kind, cutter_radius, blade_length, speed,
			stop_reason, covered_fraction, covered_cells, total_cells,
			blocked_cells, distance, bounces, steps, simulated_seconds,
			wall_elapsed_ns, charge_count, params_json, result_json
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().UTC().Format(time.RFC3339),
		res.Seed, res.WorldW, res.WorldH, cfg.CellSize,
		int(res.CutterGeometry.Kind), res.CutterGeometry.Radius, res.CutterGeometry.BladeLength, cfg.Speed,
		res.ReasonName, res.CoveredFraction, res.CoveredCells, res.TotalCells,
		res.BlockedCells, res.Distance, res.Bounces, res.Steps, res.SimulatedSecs,
		res.WallElapsed.Nanoseconds(), res.ChargeCount, string(paramsJSON), string(resultJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	return row.LastInsertId()
}
