// Package mapfile loads the YAML map document described in §6
// "Map file": world dimensions plus an ordered list of obstacles. It
// is an external collaborator — the core package never parses files
// itself.
package mapfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gridcover/gridcover"
	"github.com/gridcover/gridcover/geometry"
)

// File is the top-level YAML document shape: a name, optional
// description, optional grid-size override, and an ordered obstacle
// list (§6).
type File struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Grid        *GridSize    `yaml:"grid,omitempty"`
	Obstacles   []ObstacleYAML `yaml:"obstacles"`
}

// GridSize optionally overrides the world dimensions named on the CLI.
type GridSize struct {
	Width  *float64 `yaml:"width,omitempty"`
	Height *float64 `yaml:"height,omitempty"`
}

// ObstacleYAML is one obstacle entry. Type selects which of the
// type-specific fields are meaningful: rectangle, circle, polygon, or
// line.
type ObstacleYAML struct {
	Type   string      `yaml:"type"`
	Name   string      `yaml:"name,omitempty"`
	X      float64     `yaml:"x,omitempty"`
	Y      float64     `yaml:"y,omitempty"`
	Width  float64     `yaml:"width,omitempty"`
	Height float64     `yaml:"height,omitempty"`
	Radius float64     `yaml:"radius,omitempty"`
	Points [][2]float64 `yaml:"points,omitempty"`
}

// Load reads and parses the map file at path without validating it
// against a world (use ToMap for that).
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file %q: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing map file %q: %w", path, err)
	}
	return &f, nil
}

// ToMap converts the parsed file into a validated gridcover.Map over
// a world of size w×h (overridden by the file's own grid section when
// present), dispatching each YAML obstacle to its
// gridcover.ObstacleKind.
func (f *File) ToMap(w, h float64) (*gridcover.Map, error) {
	if f.Grid != nil {
		if f.Grid.Width != nil {
			w = *f.Grid.Width
		}
		if f.Grid.Height != nil {
			h = *f.Grid.Height
		}
	}

	obstacles := make([]gridcover.Obstacle, 0, len(f.Obstacles))
	for i, o := range f.Obstacles {
		conv, err := o.toObstacle()
		if err != nil {
			return nil, fmt.Errorf("obstacle %d: %w", i, err)
		}
		obstacles = append(obstacles, conv)
	}

	return gridcover.NewMap(f.Name, gridcover.World{W: w, H: h}, obstacles)
}

func (o ObstacleYAML) toObstacle() (gridcover.Obstacle, error) {
	switch o.Type {
	case "rectangle":
		return gridcover.Obstacle{
			Kind: gridcover.KindRectangle,
			Name: o.Name,
			Rect: geometry.Rect{X: o.X, Y: o.Y, W: o.Width, H: o.Height},
		}, nil
	case "circle":
		return gridcover.Obstacle{
			Kind:   gridcover.KindCircle,
			Name:   o.Name,
			Circle: geometry.Circle{Center: geometry.Vector{X: o.X, Y: o.Y}, R: o.Radius},
		}, nil
	case "polygon":
		return gridcover.Obstacle{
			Kind:    gridcover.KindPolygon,
			Name:    o.Name,
			Polygon: geometry.Polygon{Points: toPoints(o.Points)},
		}, nil
	case "line":
		pts := toPoints(o.Points)
		if len(pts) != 2 {
			return gridcover.Obstacle{}, fmt.Errorf("line obstacle needs exactly 2 points, got %d", len(pts))
		}
		return gridcover.Obstacle{
			Kind: gridcover.KindLine,
			Name: o.Name,
			Line: geometry.ThickLine{A: pts[0], B: pts[1], Width: o.Width},
		}, nil
	default:
		return gridcover.Obstacle{}, fmt.Errorf("unknown obstacle type %q", o.Type)
	}
}

func toPoints(raw [][2]float64) []geometry.Vector {
	pts := make([]geometry.Vector, len(raw))
	for i, p := range raw {
		pts[i] = geometry.Vector{X: p[0], Y: p[1]}
	}
	return pts
}
