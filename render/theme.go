// Package render turns a finished (or in-flight) simulation into a
// raster image and, optionally, an animation assembled from sampled
// frames (§6 "Image output", "Animation output"). It is an external
// collaborator: the core simulation package never imports it.
package render

import "image/color"

// Theme is a named palette: background, grid lines, obstacles, the
// center-track overlay, and a coverage gradient indexed by
// min(visit_count, len(shades)-1) (§6).
type Theme struct {
	Name            string
	Background      color.RGBA
	GridLine        color.RGBA
	Obstacle        color.RGBA
	Center          color.RGBA
	Text            color.RGBA
	QuadTreeOverlay color.RGBA
	Shades          []color.RGBA
}

// CoverageColor returns the gradient color for a cell visited
// timesVisited times, clamped to the theme's shade count.
func (t Theme) CoverageColor(timesVisited int) color.RGBA {
	idx := timesVisited
	if idx >= len(t.Shades) {
		idx = len(t.Shades) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return t.Shades[idx]
}

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{r, g, b, 255} }

func greenGradient(steps int, start, end [3]int) []color.RGBA {
	shades := make([]color.RGBA, steps)
	for i := 0; i < steps; i++ {
		f := float64(i) / float64(steps-1)
		r := uint8(float64(start[0]) + f*float64(end[0]-start[0]))
		g := uint8(float64(start[1]) + f*float64(end[1]-start[1]))
		b := uint8(float64(start[2]) + f*float64(end[2]-start[2]))
		shades[i] = rgb(r, g, b)
	}
	return shades
}

// Themes is the registry of built-in themes, selectable with
// --color-theme (§12 "Color themes" supplemented feature).
var Themes = map[string]Theme{
	"default": {
		Name:       "default",
		Background: rgb(150, 150, 150),
		GridLine:   rgb(0, 0, 0),
		Obstacle:   rgb(150, 0, 0),
		Center:     rgb(0, 0, 0),
		Text:       rgb(255, 255, 255),
		QuadTreeOverlay: color.RGBA{0, 0, 255, 160},
		Shades:     greenGradient(21, [3]int{240, 255, 240}, [3]int{0, 44, 0}),
	},
	"blue": {
		Name:       "blue",
		Background: rgb(150, 150, 150),
		GridLine:   rgb(0, 0, 0),
		Obstacle:   rgb(150, 0, 0),
		Center:     rgb(0, 0, 0),
		Text:       rgb(255, 255, 255),
		QuadTreeOverlay: color.RGBA{255, 255, 0, 160},
		Shades:     greenGradient(21, [3]int{230, 240, 255}, [3]int{0, 20, 90}),
	},
	"pure_green": {
		Name:       "pure_green",
		Background: rgb(150, 150, 150),
		GridLine:   rgb(0, 0, 0),
		Obstacle:   rgb(150, 0, 0),
		Center:     rgb(0, 0, 0),
		Text:       rgb(255, 255, 255),
		QuadTreeOverlay: color.RGBA{0, 0, 255, 160},
		Shades:     greenGradient(21, [3]int{235, 255, 235}, [3]int{0, 60, 0}),
	},
	"gray_green": {
		Name:       "gray_green",
		Background: rgb(170, 170, 170),
		GridLine:   rgb(40, 40, 40),
		Obstacle:   rgb(120, 40, 40),
		Center:     rgb(20, 20, 20),
		Text:       rgb(255, 255, 255),
		QuadTreeOverlay: color.RGBA{80, 80, 255, 160},
		Shades:     greenGradient(21, [3]int{220, 225, 220}, [3]int{30, 60, 30}),
	},
	"high_contrast": {
		Name:       "high_contrast",
		Background: rgb(255, 255, 255),
		GridLine:   rgb(0, 0, 0),
		Obstacle:   rgb(255, 0, 0),
		Center:     rgb(255, 128, 0),
		Text:       rgb(0, 0, 0),
		QuadTreeOverlay: color.RGBA{0, 0, 0, 200},
		Shades:     greenGradient(5, [3]int{230, 255, 230}, [3]int{0, 30, 0}),
	},
}

// ThemeByName returns the named theme, falling back to "default" for an
// unrecognized name.
func ThemeByName(name string) Theme {
	if t, ok := Themes[name]; ok {
		return t
	}
	return Themes["default"]
}
