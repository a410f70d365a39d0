package render

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/richard-senior/edutune/internal/logger"
	"github.com/richard-senior/edutune/pkg/expr"
	"github.com/richard-senior/edutune/pkg/graph"
)

// Options are the fixed drawing parameters of a Renderer
type Options struct {
	UnitPixels      float64
	ParametricSteps int
	PointRadius     float64
	LabelOffset     float64
	GridColor       string
	GridWidth       float64
	AxesColor       string
	AxesWidth       float64
	Background      string
	LabelColor      string
}

func DefaultOptions() Options {
	return Options{
		UnitPixels:      UnitPixels,
		ParametricSteps: 100,
		PointRadius:     5,
		LabelOffset:     8,
		GridColor:       "rgba(255, 255, 255, 0.1)",
		GridWidth:       0.5,
		AxesColor:       "rgba(255, 255, 255, 0.5)",
		AxesWidth:       1.5,
		Background:      "#0f0f1a",
		LabelColor:      "white",
	}
}

// Renderer draws graph objects onto a Surface. It holds no per-frame state,
// so drawing the same inputs twice produces the same output.
type Renderer struct {
	opts Options
}

func NewRenderer(opts Options) *Renderer {
	d := DefaultOptions()
	if opts.UnitPixels <= 0 {
		opts.UnitPixels = d.UnitPixels
	}
	if opts.ParametricSteps < 1 {
		opts.ParametricSteps = d.ParametricSteps
	}
	if opts.PointRadius <= 0 {
		opts.PointRadius = d.PointRadius
	}
	if opts.LabelOffset == 0 {
		opts.LabelOffset = d.LabelOffset
	}
	if opts.GridWidth <= 0 {
		opts.GridWidth = d.GridWidth
	}
	if opts.AxesWidth <= 0 {
		opts.AxesWidth = d.AxesWidth
	}
	opts.GridColor = orDefault(opts.GridColor, d.GridColor)
	opts.AxesColor = orDefault(opts.AxesColor, d.AxesColor)
	opts.Background = orDefault(opts.Background, d.Background)
	opts.LabelColor = orDefault(opts.LabelColor, d.LabelColor)
	return &Renderer{opts: opts}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (r *Renderer) Options() Options {
	return r.opts
}

// Stats summarises one Draw call. Failures never stop drawing, they are counted here.
type Stats struct {
	Drawn         int      `json:"drawn"`
	Hidden        int      `json:"hidden"`
	Failed        []string `json:"failed,omitempty"`
	FailedSamples int      `json:"failedSamples"`
}

// Sample is one evaluated point of a curve. PenUp marks the first point after a gap.
type Sample struct {
	MathX, MathY float64
	X, Y         float64
	PenUp        bool
}

// Draw clears the surface and paints grid, axes and every visible object in order.
// t in [0, 1] places the cursor on parametric curves.
func (r *Renderer) Draw(s Surface, objects []*graph.GraphObject, view ViewState, t float64) Stats {
	w, h := s.Size()
	tr := view.Transform(w, h, r.opts.UnitPixels)
	var stats Stats

	s.Clear(r.opts.Background)
	if view.ShowGrid {
		r.drawGrid(s, tr)
	}
	r.drawAxes(s, tr)

	for _, obj := range objects {
		if obj == nil {
			continue
		}
		if !obj.Visible {
			stats.Hidden++
			continue
		}
		var failed int
		var err error
		switch obj.Kind {
		case graph.Function:
			failed, err = r.drawFunction(s, obj, tr)
		case graph.Parametric:
			failed, err = r.drawParametric(s, obj, tr, t)
		case graph.Point:
			err = r.drawPoint(s, obj, tr)
		default:
			err = fmt.Errorf("unknown kind %v", obj.Kind)
		}
		stats.FailedSamples += failed
		if err != nil {
			logger.Warn("Could not draw", obj.ID, obj.Equation, err)
			stats.Failed = append(stats.Failed, obj.ID)
			continue
		}
		stats.Drawn++
	}
	return stats
}

func (r *Renderer) drawGrid(s Surface, tr Transform) {
	spacing := tr.PixelsPerUnit
	if spacing < 2 {
		return
	}
	s.SetStroke(r.opts.GridColor, r.opts.GridWidth)
	s.BeginPath()
	for x := math.Mod(tr.OriginX, spacing); x <= float64(tr.Width); x += spacing {
		if x < 0 {
			continue
		}
		s.MoveTo(x, 0)
		s.LineTo(x, float64(tr.Height))
	}
	for y := math.Mod(tr.OriginY, spacing); y <= float64(tr.Height); y += spacing {
		if y < 0 {
			continue
		}
		s.MoveTo(0, y)
		s.LineTo(float64(tr.Width), y)
	}
	s.Stroke()
}

func (r *Renderer) drawAxes(s Surface, tr Transform) {
	s.SetStroke(r.opts.AxesColor, r.opts.AxesWidth)
	s.BeginPath()
	s.MoveTo(0, tr.OriginY)
	s.LineTo(float64(tr.Width), tr.OriginY)
	s.MoveTo(tr.OriginX, 0)
	s.LineTo(tr.OriginX, float64(tr.Height))
	s.Stroke()
}

// SampleFunction evaluates y = f(x) once per pixel column.
// Columns that fail to evaluate are left out and the next good one starts a new run.
func SampleFunction(equation string, tr Transform) ([]Sample, int, error) {
	fn, err := expr.CompileFunction(equation)
	if err != nil {
		return nil, 0, err
	}
	samples := make([]Sample, 0, tr.Width)
	failed := 0
	gap := true
	for px := 0; px < tr.Width; px++ {
		mx, _ := tr.ToMath(float64(px), 0)
		my, err := fn.At(mx)
		if err != nil {
			failed++
			gap = true
			continue
		}
		sx, sy := tr.ToScreen(mx, my)
		samples = append(samples, Sample{MathX: mx, MathY: my, X: sx, Y: sy, PenUp: gap})
		gap = false
	}
	if failed > 0 {
		logger.Debug("Function samples failed:", equation, failed)
	}
	return samples, failed, nil
}

// SampleParametric evaluates a parametric curve at steps+1 evenly spaced parameters
// across its declared domain. Failed evaluations are omitted without breaking the curve.
func SampleParametric(p *expr.Parametric, tr Transform, steps int) ([]Sample, int) {
	samples := make([]Sample, 0, steps+1)
	failed := 0
	for i := 0; i <= steps; i++ {
		t := p.Start + (p.End-p.Start)*float64(i)/float64(steps)
		mx, my, err := p.At(t)
		if err != nil {
			logger.Debug("Parametric sample failed at t =", t, err)
			failed++
			continue
		}
		sx, sy := tr.ToScreen(mx, my)
		samples = append(samples, Sample{MathX: mx, MathY: my, X: sx, Y: sy, PenUp: len(samples) == 0})
	}
	return samples, failed
}

func (r *Renderer) drawFunction(s Surface, obj *graph.GraphObject, tr Transform) (int, error) {
	samples, failed, err := SampleFunction(obj.Equation, tr)
	if err != nil {
		return 0, err
	}
	r.strokeSamples(s, obj, samples)
	if obj.Label != "" && len(samples) > 0 {
		last := samples[len(samples)-1]
		s.SetFill(obj.Color)
		s.Text(last.X-r.opts.LabelOffset*4, last.Y-r.opts.LabelOffset, obj.Label)
	}
	return failed, nil
}

func (r *Renderer) drawParametric(s Surface, obj *graph.GraphObject, tr Transform, t float64) (int, error) {
	p, err := expr.CompileParametric(obj.Equation)
	if err != nil {
		return 0, err
	}
	samples, failed := SampleParametric(p, tr, r.opts.ParametricSteps)
	r.strokeSamples(s, obj, samples)

	cx, cy, err := p.At(p.Start + (p.End-p.Start)*t)
	if err != nil {
		logger.Debug("Cursor evaluation failed for", obj.ID, err)
		return failed + 1, nil
	}
	sx, sy := tr.ToScreen(cx, cy)
	s.SetFill(obj.Color)
	s.FillCircle(sx, sy, r.opts.PointRadius)
	if obj.Label != "" {
		s.SetFill(r.opts.LabelColor)
		s.Text(sx+r.opts.LabelOffset, sy-r.opts.LabelOffset, obj.Label)
	}
	return failed, nil
}

var pointPattern = regexp.MustCompile(`^\(\s*([-+0-9.eE]+)\s*,\s*([-+0-9.eE]+)\s*\)$`)

// ParsePoint reads the canonical "(x, y)" form of a point equation
func ParsePoint(equation string) (float64, float64, error) {
	m := pointPattern.FindStringSubmatch(equation)
	if m == nil {
		return 0, 0, fmt.Errorf("not a point: %q", equation)
	}
	x, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad x in %q: %w", equation, err)
	}
	y, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad y in %q: %w", equation, err)
	}
	return x, y, nil
}

func (r *Renderer) drawPoint(s Surface, obj *graph.GraphObject, tr Transform) error {
	mx, my, err := ParsePoint(obj.Equation)
	if err != nil {
		return err
	}
	sx, sy := tr.ToScreen(mx, my)
	s.SetFill(obj.Color)
	s.FillCircle(sx, sy, r.opts.PointRadius)

	label := obj.Label
	if label == "" {
		label = obj.Equation
	}
	s.SetFill(r.opts.LabelColor)
	s.Text(sx+r.opts.LabelOffset, sy-r.opts.LabelOffset, label)
	return nil
}

func (r *Renderer) strokeSamples(s Surface, obj *graph.GraphObject, samples []Sample) {
	if len(samples) == 0 {
		return
	}
	s.SetStroke(obj.Color, float64(graph.ClampThickness(obj.Thickness)))
	s.BeginPath()
	for _, sm := range samples {
		if sm.PenUp {
			s.MoveTo(sm.X, sm.Y)
		} else {
			s.LineTo(sm.X, sm.Y)
		}
	}
	s.Stroke()
}
