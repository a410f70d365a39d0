package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/richard-senior/edutune/internal/logger"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// coordLimit keeps far off-canvas samples (asymptotes) finite for float32 rasterization
const coordLimit = 1e5

type fpoint struct {
	x, y float32
}

// RasterSurface draws into an RGBA image with anti-aliased strokes.
// Strokes are tessellated into quads plus round joins and filled with x/image/vector.
type RasterSurface struct {
	img         *image.RGBA
	stroke      color.NRGBA
	strokeWidth float64
	fill        color.NRGBA
	subpaths    [][]fpoint
	face        font.Face
}

func NewRasterSurface(width, height int) *RasterSurface {
	return &RasterSurface{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		stroke:      color.NRGBA{A: 255},
		strokeWidth: 1,
		fill:        color.NRGBA{A: 255},
		face:        basicfont.Face7x13,
	}
}

// Image returns the backing image
func (s *RasterSurface) Image() *image.RGBA {
	return s.img
}

func (s *RasterSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *RasterSurface) Clear(background string) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(s.color(background)), image.Point{}, draw.Src)
}

func (s *RasterSurface) SetStroke(c string, width float64) {
	s.stroke = s.color(c)
	s.strokeWidth = width
}

func (s *RasterSurface) SetFill(c string) {
	s.fill = s.color(c)
}

func (s *RasterSurface) color(c string) color.NRGBA {
	parsed, err := ParseColor(c)
	if err != nil {
		logger.Warn("Falling back to white for colour", c, err)
		return MustParseColor("white")
	}
	return parsed
}

func (s *RasterSurface) BeginPath() {
	s.subpaths = s.subpaths[:0]
}

func (s *RasterSurface) MoveTo(x, y float64) {
	s.subpaths = append(s.subpaths, []fpoint{clampPoint(x, y)})
}

func (s *RasterSurface) LineTo(x, y float64) {
	if len(s.subpaths) == 0 {
		s.MoveTo(x, y)
		return
	}
	last := len(s.subpaths) - 1
	s.subpaths[last] = append(s.subpaths[last], clampPoint(x, y))
}

func clampPoint(x, y float64) fpoint {
	return fpoint{
		x: float32(math.Max(-coordLimit, math.Min(coordLimit, x))),
		y: float32(math.Max(-coordLimit, math.Min(coordLimit, y))),
	}
}

func (s *RasterSurface) Stroke() {
	w, h := s.Size()
	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Over
	hw := float32(s.strokeWidth / 2)
	if hw < 0.25 {
		hw = 0.25
	}
	drew := false
	for _, sp := range s.subpaths {
		for i := 1; i < len(sp); i++ {
			if addQuad(z, sp[i-1], sp[i], hw) {
				drew = true
			}
			// round joins keep thick polylines free of notches
			if i < len(sp)-1 && hw >= 1 {
				addCircle(z, sp[i], hw)
			}
		}
	}
	if drew {
		z.Draw(s.img, s.img.Bounds(), image.NewUniform(s.stroke), image.Point{})
	}
}

// addQuad adds the rectangle of half width hw around a->b.
// Every shape is wound the same way so overlaps saturate rather than cancel.
func addQuad(z *vector.Rasterizer, a, b fpoint, hw float32) bool {
	dx, dy := b.x-a.x, b.y-a.y
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return false
	}
	nx, ny := -dy/l*hw, dx/l*hw
	z.MoveTo(a.x+nx, a.y+ny)
	z.LineTo(b.x+nx, b.y+ny)
	z.LineTo(b.x-nx, b.y-ny)
	z.LineTo(a.x-nx, a.y-ny)
	z.ClosePath()
	return true
}

// addCircle adds a polygonal circle wound in the same direction as addQuad
func addCircle(z *vector.Rasterizer, c fpoint, r float32) {
	n := int(math.Max(12, math.Ceil(float64(r)*4)))
	for i := 0; i <= n; i++ {
		a := -2 * math.Pi * float64(i) / float64(n)
		x := c.x + r*float32(math.Cos(a))
		y := c.y + r*float32(math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

func (s *RasterSurface) FillCircle(x, y, r float64) {
	w, h := s.Size()
	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Over
	addCircle(z, clampPoint(x, y), float32(r))
	z.Draw(s.img, s.img.Bounds(), image.NewUniform(s.fill), image.Point{})
}

func (s *RasterSurface) Text(x, y float64, str string) {
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(s.fill),
		Face: s.face,
		Dot:  fixed.P(int(math.Round(x)), int(math.Round(y))),
	}
	d.DrawString(str)
}
