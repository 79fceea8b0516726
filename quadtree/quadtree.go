// Package quadtree is the spatial index over obstacle bounding boxes
// that makes collision queries scalable (§4.3). A node holds weak
// references — integer indices into the caller's obstacle slice, never
// pointers — so the tree can be rebuilt or discarded without
// coordinating with the map that owns the obstacles (§9 "Ownership").
package quadtree

import (
	"encoding/json"
	"os"

	"github.com/gridcover/gridcover/geometry"
)

// DefaultCapacity is the maximum number of obstacle references a leaf
// holds before it is split, unless the minimum node size has already
// been reached (§4.3: K=8).
const DefaultCapacity = 8

// Item is an obstacle's weak reference as seen by the tree: its index
// into the caller's obstacle slice, and its axis-aligned bounding box.
type Item struct {
	Index int
	Box   geometry.Rect
}

// A Node is either a leaf holding item references or an internal node
// with four children partitioning its rectangle.
type Node struct {
	Bounds             geometry.Rect
	Items              []Item
	NW, NE, SW, SE     *Node
}

func (n *Node) leaf() bool { return n.NW == nil }

// A QuadTree indexes a fixed set of obstacle bounding boxes over a
// world rectangle.
type QuadTree struct {
	Root     *Node
	Capacity int
	MinSide  float64
}

// Build constructs a QuadTree over bounds containing items, splitting
// nodes whose item count exceeds capacity until the node's shorter
// side would fall below minSide (§4.3: minimum side is
// max(min_node_factor·r, s), passed in by the caller as minSide).
func Build(bounds geometry.Rect, items []Item, capacity int, minSide float64) *QuadTree {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	qt := &QuadTree{Capacity: capacity, MinSide: minSide}
	qt.Root = build(bounds, items, capacity, minSide)
	return qt
}

func build(bounds geometry.Rect, items []Item, capacity int, minSide float64) *Node {
	n := &Node{Bounds: bounds}
	shortSide := bounds.W
	if bounds.H < shortSide {
		shortSide = bounds.H
	}
	if len(items) <= capacity || shortSide/2 < minSide {
		n.Items = items
		return n
	}

	hw, hh := bounds.W/2, bounds.H/2
	quadrants := [4]geometry.Rect{
		{X: bounds.X, Y: bounds.Y + hh, W: hw, H: hh},        // NW
		{X: bounds.X + hw, Y: bounds.Y + hh, W: hw, H: hh},   // NE
		{X: bounds.X, Y: bounds.Y, W: hw, H: hh},             // SW
		{X: bounds.X + hw, Y: bounds.Y, W: hw, H: hh},        // SE
	}
	var buckets [4][]Item
	for _, it := range items {
		for q, r := range quadrants {
			if r.Intersects(it.Box) {
				buckets[q] = append(buckets[q], it)
			}
		}
	}
	n.NW = build(quadrants[0], buckets[0], capacity, minSide)
	n.NE = build(quadrants[1], buckets[1], capacity, minSide)
	n.SW = build(quadrants[2], buckets[2], capacity, minSide)
	n.SE = build(quadrants[3], buckets[3], capacity, minSide)
	return n
}

// Query returns, without duplicates, the indices of every item whose
// bounding box might intersect box. False positives are permitted;
// false negatives are not (§4.3 guarantee).
func (qt *QuadTree) Query(box geometry.Rect) []int {
	if qt.Root == nil {
		return nil
	}
	seen := make(map[int]bool)
	var out []int
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil || !n.Bounds.Intersects(box) {
			return
		}
		if n.leaf() {
			for _, it := range n.Items {
				if it.Box.Intersects(box) && !seen[it.Index] {
					seen[it.Index] = true
					out = append(out, it.Index)
				}
			}
			return
		}
		walk(n.NW)
		walk(n.NE)
		walk(n.SW)
		walk(n.SE)
	}
	walk(qt.Root)
	return out
}

// MightHaveCollision is a short-circuit form of Query for callers that
// only need to know whether any candidate obstacle exists, avoiding
// the allocation of a result slice on the common empty-node case.
func (qt *QuadTree) MightHaveCollision(box geometry.Rect) bool {
	if qt.Root == nil {
		return false
	}
	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		if n == nil || !n.Bounds.Intersects(box) {
			return false
		}
		if n.leaf() {
			for _, it := range n.Items {
				if it.Box.Intersects(box) {
					return true
				}
			}
			return false
		}
		return walk(n.NW) || walk(n.NE) || walk(n.SW) || walk(n.SE)
	}
	return walk(qt.Root)
}

// Leaves returns the bounding rectangle of every leaf node, for
// rendering the optional quad-tree overlay (§6 "Image output").
func (qt *QuadTree) Leaves() []geometry.Rect {
	var out []geometry.Rect
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.leaf() {
			out = append(out, n.Bounds)
			return
		}
		walk(n.NW)
		walk(n.NE)
		walk(n.SW)
		walk(n.SE)
	}
	walk(qt.Root)
	return out
}

// dumpNode is the JSON-serializable shadow of Node used by Save/Load
// (--dump-quadtree, §6 "quad-tree toggles and dump path").
type dumpNode struct {
	Bounds             geometry.Rect `json:"bounds"`
	Items              []Item        `json:"items,omitempty"`
	NW                 *dumpNode     `json:"nw,omitempty"`
	NE                 *dumpNode     `json:"ne,omitempty"`
	SW                 *dumpNode     `json:"sw,omitempty"`
	SE                 *dumpNode     `json:"se,omitempty"`
}

func toDump(n *Node) *dumpNode {
	if n == nil {
		return nil
	}
	return &dumpNode{
		Bounds: n.Bounds,
		Items:  n.Items,
		NW:     toDump(n.NW),
		NE:     toDump(n.NE),
		SW:     toDump(n.SW),
		SE:     toDump(n.SE),
	}
}

func fromDump(d *dumpNode) *Node {
	if d == nil {
		return nil
	}
	return &Node{
		Bounds: d.Bounds,
		Items:  d.Items,
		NW:     fromDump(d.NW),
		NE:     fromDump(d.NE),
		SW:     fromDump(d.SW),
		SE:     fromDump(d.SE),
	}
}

// Save writes the tree structure to path as JSON, for inspection.
func (qt *QuadTree) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(toDump(qt.Root))
}

// Load reads a tree structure previously written by Save.
func Load(path string) (*QuadTree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var d dumpNode
	if err := json.NewDecoder(f).Decode(&d); err != nil {
		return nil, err
	}
	return &QuadTree{Root: fromDump(&d)}, nil
}
