package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"

	"github.com/richard-senior/edutune/pkg/graph"
)

// RenderPNG draws objects onto a fresh raster canvas and encodes it as PNG
func (r *Renderer) RenderPNG(objects []*graph.GraphObject, view ViewState, width, height int, t float64) ([]byte, Stats, error) {
	s := NewRasterSurface(width, height)
	stats := r.Draw(s, objects, view, t)
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.Image()); err != nil {
		return nil, stats, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), stats, nil
}

// RenderSVG draws objects as an SVG document
func (r *Renderer) RenderSVG(objects []*graph.GraphObject, view ViewState, width, height int, t float64) ([]byte, Stats) {
	s := NewSVGSurface(width, height)
	stats := r.Draw(s, objects, view, t)
	return s.Bytes(), stats
}

// RenderGIF draws one frame per parameter in frames and encodes them as an animated GIF.
// delay is in hundredths of a second.
func (r *Renderer) RenderGIF(objects []*graph.GraphObject, view ViewState, width, height int, frames []float64, delay int) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames to render")
	}
	anim := &gif.GIF{}
	s := NewRasterSurface(width, height)
	for _, t := range frames {
		r.Draw(s, objects, view, t)
		anim.Image = append(anim.Image, quantize(s.Image()))
		anim.Delay = append(anim.Delay, delay)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, fmt.Errorf("failed to encode gif: %w", err)
	}
	return buf.Bytes(), nil
}

func quantize(src *image.RGBA) *image.Paletted {
	dst := image.NewPaletted(src.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(dst, src.Bounds(), src, image.Point{})
	return dst
}
