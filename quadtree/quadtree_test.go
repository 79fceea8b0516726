package quadtree

import (
	"path/filepath"
	"testing"

	"github.com/gridcover/gridcover/geometry"
)

func TestQueryFindsOverlappingItem(t *testing.T) {
	bounds := geometry.Rect{X: 0, Y: 0, W: 100, H: 100}
	items := []Item{
		{Index: 0, Box: geometry.Rect{X: 10, Y: 10, W: 5, H: 5}},
		{Index: 1, Box: geometry.Rect{X: 80, Y: 80, W: 5, H: 5}},
	}
	qt := Build(bounds, items, 1, 1)

	got := qt.Query(geometry.Rect{X: 8, Y: 8, W: 4, H: 4})
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("Query near item 0 = %v, want [0]", got)
	}

	if got := qt.Query(geometry.Rect{X: 40, Y: 40, W: 2, H: 2}); len(got) != 0 {
		t.Errorf("Query over empty region = %v, want empty", got)
	}
}

func TestQueryNoDuplicatesAcrossLeaves(t *testing.T) {
	bounds := geometry.Rect{X: 0, Y: 0, W: 100, H: 100}
	// An item straddling the quadrant split must appear once, not once
	// per leaf it was bucketed into. The second, distant item takes the
	// root over capacity 1, so the root really is split.
	items := []Item{
		{Index: 0, Box: geometry.Rect{X: 45, Y: 45, W: 10, H: 10}},
		{Index: 1, Box: geometry.Rect{X: 80, Y: 80, W: 5, H: 5}},
	}
	qt := Build(bounds, items, 1, 1)

	got := qt.Query(geometry.Rect{X: 40, Y: 40, W: 20, H: 20})
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("Query = %v, want exactly one match [0]", got)
	}
}

func TestMightHaveCollisionMatchesQueryEmptiness(t *testing.T) {
	bounds := geometry.Rect{X: 0, Y: 0, W: 100, H: 100}
	items := []Item{{Index: 0, Box: geometry.Rect{X: 10, Y: 10, W: 5, H: 5}}}
	qt := Build(bounds, items, 1, 1)

	if !qt.MightHaveCollision(geometry.Rect{X: 8, Y: 8, W: 4, H: 4}) {
		t.Error("expected MightHaveCollision to be true near the item")
	}
	if qt.MightHaveCollision(geometry.Rect{X: 90, Y: 90, W: 2, H: 2}) {
		t.Error("expected MightHaveCollision to be false far from the item")
	}
}

func TestBuildRespectsMinSide(t *testing.T) {
	bounds := geometry.Rect{X: 0, Y: 0, W: 16, H: 16}
	var items []Item
	for i := 0; i < 100; i++ {
		items = append(items, Item{Index: i, Box: geometry.Rect{X: float64(i % 16), Y: float64(i / 16 % 16), W: 0.1, H: 0.1}})
	}
	qt := Build(bounds, items, 4, 4)
	for _, leaf := range qt.Leaves() {
		if leaf.W < 3.999 && leaf.W != 0 {
			t.Errorf("leaf width %v smaller than min side 4", leaf.W)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	bounds := geometry.Rect{X: 0, Y: 0, W: 10, H: 10}
	items := []Item{{Index: 0, Box: geometry.Rect{X: 1, Y: 1, W: 2, H: 2}}}
	qt := Build(bounds, items, 1, 1)

	path := filepath.Join(t.TempDir(), "tree.json")
	if err := qt.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Root.Bounds != qt.Root.Bounds {
		t.Errorf("loaded root bounds = %+v, want %+v", loaded.Root.Bounds, qt.Root.Bounds)
	}
	if len(loaded.Leaves()) != len(qt.Leaves()) {
		t.Errorf("loaded leaf count = %d, want %d", len(loaded.Leaves()), len(qt.Leaves()))
	}
}

