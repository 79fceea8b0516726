package render

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gridcover/gridcover"
	"github.com/gridcover/gridcover/geometry"
	"github.com/gridcover/gridcover/grid"
	"github.com/gridcover/gridcover/quadtree"
)

// PaperSize names a standard physical page, converted to pixels via
// DPI (§6 "sized to (paper_size or explicit mm) × DPI").
type PaperSize struct {
	Name        string
	WidthMM     float64
	HeightMM    float64
}

// Standard paper sizes.
var (
	A4     = PaperSize{"A4", 210, 297}
	A3     = PaperSize{"A3", 297, 420}
	Letter = PaperSize{"Letter", 215.9, 279.4}
)

// PixelsAt returns the pixel dimensions of p at the given DPI.
func (p PaperSize) PixelsAt(dpi float64) (w, h int) {
	const mmPerInch = 25.4
	w = int(p.WidthMM / mmPerInch * dpi)
	h = int(p.HeightMM / mmPerInch * dpi)
	return w, h
}

// Options controls one still-image render.
type Options struct {
	Grid  *grid.Grid
	World gridcover.World
	Map   *gridcover.Map
	Theme Theme

	ImageW, ImageH int // target pixel dimensions

	DrawGridLines     bool
	DrawQuadTree      bool
	QuadTree          *quadtree.QuadTree
	DrawCenterTrack   bool
	CenterTrack       []geometry.Vector
	Legend            string
}

// Render rasterizes the current grid/world/obstacle state into an
// image according to opts (§6 "Image output" pixel semantics).
func Render(opts Options) (image.Image, error) {
	if opts.ImageW <= 0 || opts.ImageH <= 0 {
		return nil, fmt.Errorf("render: image dimensions must be positive, got %dx%d", opts.ImageW, opts.ImageH)
	}
	img := image.NewRGBA(image.Rect(0, 0, opts.ImageW, opts.ImageH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: opts.Theme.Background}, image.Point{}, draw.Src)

	sx := float64(opts.ImageW) / opts.World.W
	sy := float64(opts.ImageH) / opts.World.H
	toPixel := func(p geometry.Vector) (int, int) {
		return int(p.X * sx), opts.ImageH - 1 - int(p.Y*sy)
	}

	g := opts.Grid
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			cell := g.At(i, j)
			var c = opts.Theme.Background
			switch {
			case cell.Blocked:
				c = opts.Theme.Obstacle
			case cell.Covered():
				c = opts.Theme.CoverageColor(cell.VisitCount)
			default:
				continue
			}
			x0, y1 := toPixel(geometry.Vector{X: float64(i) * g.S, Y: float64(j) * g.S})
			x1, y0 := toPixel(geometry.Vector{X: float64(i+1) * g.S, Y: float64(j+1) * g.S})
			fillRect(img, x0, y0, x1, y1, c)
		}
	}

	if opts.DrawGridLines {
		drawGridLines(img, g, toPixel, opts.Theme.GridLine)
	}

	if opts.DrawQuadTree && opts.QuadTree != nil {
		for _, leaf := range opts.QuadTree.Leaves() {
			x0, y1 := toPixel(geometry.Vector{X: leaf.X, Y: leaf.Y})
			x1, y0 := toPixel(geometry.Vector{X: leaf.X + leaf.W, Y: leaf.Y + leaf.H})
			strokeRect(img, x0, y0, x1, y1, opts.Theme.QuadTreeOverlay)
		}
	}

	if opts.DrawCenterTrack {
		for _, p := range opts.CenterTrack {
			x, y := toPixel(p)
			setPixel(img, x, y, opts.Theme.Center)
		}
	}

	if opts.Legend != "" {
		if err := drawLegend(img, opts.Legend, opts.Theme); err != nil {
			return img, fmt.Errorf("render: legend text: %w", err)
		}
	}

	return img, nil
}

// WritePNG renders opts and encodes the result to w.
func WritePNG(w io.Writer, opts Options) error {
	img, err := Render(opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// WritePNGFile renders opts and writes the PNG to path.
func WritePNGFile(path string, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating image file %q: %w", path, err)
	}
	defer f.Close()
	return WritePNG(f, opts)
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c interface{ RGBA() (uint32, uint32, uint32, uint32) }) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	draw.Draw(img, image.Rect(x0, y0, x1+1, y1+1), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, c interface{ RGBA() (uint32, uint32, uint32, uint32) }) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for x := x0; x <= x1; x++ {
		setPixel(img, x, y0, c)
		setPixel(img, x, y1, c)
	}
	for y := y0; y <= y1; y++ {
		setPixel(img, x0, y, c)
		setPixel(img, x1, y, c)
	}
}

func setPixel(img *image.RGBA, x, y int, c interface{ RGBA() (uint32, uint32, uint32, uint32) }) {
	if x < 0 || y < 0 || x >= img.Bounds().Dx() || y >= img.Bounds().Dy() {
		return
	}
	img.Set(x, y, c)
}

func drawGridLines(img *image.RGBA, g *grid.Grid, toPixel func(geometry.Vector) (int, int), c interface{ RGBA() (uint32, uint32, uint32, uint32) }) {
	xMax, yMax := float64(g.Nx)*g.S, float64(g.Ny)*g.S
	_, y0 := toPixel(geometry.Vector{Y: 0})
	_, y1 := toPixel(geometry.Vector{Y: yMax})
	x0, _ := toPixel(geometry.Vector{X: 0})
	x1, _ := toPixel(geometry.Vector{X: xMax})
	for x := 0.0; x <= xMax; x++ {
		px, _ := toPixel(geometry.Vector{X: x})
		strokeVerticalLine(img, px, y1, y0, c)
	}
	for y := 0.0; y <= yMax; y++ {
		_, py := toPixel(geometry.Vector{Y: y})
		strokeHorizontalLine(img, py, x0, x1, c)
	}
}

func strokeVerticalLine(img *image.RGBA, x, y0, y1 int, c interface{ RGBA() (uint32, uint32, uint32, uint32) }) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		setPixel(img, x, y, c)
	}
}

func strokeHorizontalLine(img *image.RGBA, y, x0, x1 int, c interface{ RGBA() (uint32, uint32, uint32, uint32) }) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		setPixel(img, x, y, c)
	}
}

// drawLegend renders a single line of text in the image's top-left
// corner using the embedded Go regular font via golang/freetype.
func drawLegend(img *image.RGBA, text string, theme Theme) error {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return err
	}
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetFontSize(14)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(&image.Uniform{C: theme.Text})
	pt := freetype.Pt(8, 18)
	_, err = ctx.DrawString(text, pt)
	return err
}
