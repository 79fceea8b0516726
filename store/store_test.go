package store

import (
	"path/filepath"
	"testing"

	"github.com/gridcover/gridcover"
)

func TestOpenCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()
}

func TestSaveRunReturnsIncrementingIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	res := gridcover.Result{
		CoveredFraction: 0.5,
		CoveredCells:    50,
		TotalCells:      100,
		Seed:            7,
		ReasonName:      "coverage",
	}
	id1, err := s.SaveRun(Params{CellSize: 0.1, Speed: 1}, res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id2, err := s.SaveRun(Params{CellSize: 0.1, Speed: 1}, res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("expected id2 (%d) > id1 (%d)", id2, id1)
	}
}
