package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"image/gif"
	"image/png"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/richard-senior/edutune/pkg/expr"
	"github.com/richard-senior/edutune/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a Surface that logs every call
type recorder struct {
	w, h int
	ops  []string
}

func newRecorder() *recorder { return &recorder{w: 800, h: 400} }

func (r *recorder) Size() (int, int)               { return r.w, r.h }
func (r *recorder) Clear(bg string)                { r.ops = append(r.ops, "clear "+bg) }
func (r *recorder) SetStroke(c string, w float64)  { r.ops = append(r.ops, fmt.Sprintf("stroke-style %s %g", c, w)) }
func (r *recorder) SetFill(c string)               { r.ops = append(r.ops, "fill-style "+c) }
func (r *recorder) BeginPath()                     { r.ops = append(r.ops, "begin") }
func (r *recorder) MoveTo(x, y float64)            { r.ops = append(r.ops, fmt.Sprintf("move %.2f %.2f", x, y)) }
func (r *recorder) LineTo(x, y float64)            { r.ops = append(r.ops, fmt.Sprintf("line %.2f %.2f", x, y)) }
func (r *recorder) Stroke()                        { r.ops = append(r.ops, "stroke") }
func (r *recorder) FillCircle(x, y, rad float64)   { r.ops = append(r.ops, fmt.Sprintf("circle %.2f %.2f %g", x, y, rad)) }
func (r *recorder) Text(x, y float64, s string)    { r.ops = append(r.ops, fmt.Sprintf("text %.2f %.2f %s", x, y, s)) }

func (r *recorder) count(prefix string) int {
	n := 0
	for _, op := range r.ops {
		if strings.HasPrefix(op, prefix) {
			n++
		}
	}
	return n
}

func (r *recorder) index(op string) int {
	for i, o := range r.ops {
		if o == op {
			return i
		}
	}
	return -1
}

func fn(id, eq string) *graph.GraphObject {
	return &graph.GraphObject{ID: id, Kind: graph.Function, Equation: eq, Color: "#8b5cf6", Visible: true, Thickness: 2}
}

func TestTransform(t *testing.T) {
	tr := DefaultView().Transform(800, 400, UnitPixels)
	x, y := tr.ToScreen(1, 1)
	assert.Equal(t, 650.0, x)
	assert.Equal(t, -50.0, y)

	view := DefaultView().PanBy(10, -20)
	view.Zoom = 10
	tr = view.Transform(800, 400, UnitPixels)
	x, y = tr.ToScreen(2, 3)
	assert.Equal(t, 2*50+400+10.0, x)
	assert.Equal(t, 200-20-3*50.0, y)

	mx, my := tr.ToMath(x, y)
	assert.InDelta(t, 2, mx, 1e-12)
	assert.InDelta(t, 3, my, 1e-12)
}

func TestViewZoomAndReset(t *testing.T) {
	v := DefaultView()
	assert.Equal(t, 5.0, v.Scale())
	assert.Equal(t, 200.0, v.ZoomBy(500, MinZoom, MaxZoom).Zoom)
	assert.Equal(t, 10.0, v.ZoomBy(-500, MinZoom, MaxZoom).Zoom)
	assert.Equal(t, 55.0, v.ZoomBy(WheelZoomStep, MinZoom, MaxZoom).Zoom)

	v = v.PanBy(30, 40).ZoomBy(ButtonZoomStep, MinZoom, MaxZoom)
	v.ShowGrid = false
	v = v.Reset()
	assert.Equal(t, ViewState{Zoom: DefaultZoom}, v)
}

func TestDrag(t *testing.T) {
	var d Drag
	_, _, ok := d.Move(1, 1)
	assert.False(t, ok)

	d.Begin(10, 10)
	dx, dy, ok := d.Move(15, 7)
	require.True(t, ok)
	assert.Equal(t, 5.0, dx)
	assert.Equal(t, -3.0, dy)
	dx, _, _ = d.Move(16, 7)
	assert.Equal(t, 1.0, dx)
	d.End()
	assert.False(t, d.Active())
}

func TestDrawOrderGridThenAxesThenObjects(t *testing.T) {
	rec := newRecorder()
	opts := DefaultOptions()
	NewRenderer(opts).Draw(rec, []*graph.GraphObject{fn("a", "y = x")}, DefaultView(), 0)

	require.True(t, strings.HasPrefix(rec.ops[0], "clear"))
	grid := rec.index(fmt.Sprintf("stroke-style %s %g", opts.GridColor, opts.GridWidth))
	axes := rec.index(fmt.Sprintf("stroke-style %s %g", opts.AxesColor, opts.AxesWidth))
	object := rec.index("stroke-style #8b5cf6 2")
	assert.True(t, grid >= 0 && grid < axes && axes < object, "grid %d axes %d object %d", grid, axes, object)

	rec = newRecorder()
	view := DefaultView()
	view.ShowGrid = false
	NewRenderer(opts).Draw(rec, nil, view, 0)
	assert.Equal(t, -1, rec.index(fmt.Sprintf("stroke-style %s %g", opts.GridColor, opts.GridWidth)))
	assert.Equal(t, 1, rec.count("stroke-style"))
}

func TestSampleFunctionOmitsFailures(t *testing.T) {
	tr := DefaultView().Transform(800, 400, UnitPixels)
	samples, failed, err := SampleFunction("y = 1/x", tr)
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
	assert.Len(t, samples, 799)
	for _, s := range samples {
		assert.NotEqual(t, 0.0, s.MathX)
	}
	// column 400 is x = 0; column 401 restarts the line
	assert.True(t, samples[0].PenUp)
	assert.True(t, samples[400].PenUp)
	assert.InDelta(t, 401.0, samples[400].X, 1e-9)
	assert.False(t, samples[399].PenUp)

	_, _, err = SampleFunction("y = x +", tr)
	assert.Error(t, err)
}

func TestSampleFunctionOnePerColumn(t *testing.T) {
	tr := DefaultView().Transform(120, 80, UnitPixels)
	samples, failed, err := SampleFunction("y = x^2", tr)
	require.NoError(t, err)
	assert.Zero(t, failed)
	require.Len(t, samples, 120)
	for i, s := range samples {
		assert.InDelta(t, float64(i), s.X, 1e-9)
		assert.InDelta(t, s.MathX*s.MathX, s.MathY, 1e-12)
	}
}

func TestSampleParametricUsesDeclaredDomain(t *testing.T) {
	p, err := expr.CompileParametric("x(t) = 2 * cos(t)\ny(t) = 2 * sin(t)\nfor t ∈ [0, 2*pi]")
	require.NoError(t, err)
	tr := DefaultView().Transform(800, 400, UnitPixels)

	samples, failed := SampleParametric(p, tr, 100)
	assert.Zero(t, failed)
	require.Len(t, samples, 101)
	assert.InDelta(t, samples[0].MathX, samples[100].MathX, 1e-9)
	assert.InDelta(t, samples[0].MathY, samples[100].MathY, 1e-9)
	assert.InDelta(t, -2, samples[50].MathX, 1e-9)
	assert.True(t, samples[0].PenUp)
	assert.False(t, samples[1].PenUp)
}

func TestSampleParametricSkipsWithoutBreaking(t *testing.T) {
	p, err := expr.CompileParametric("x(t) = t\ny(t) = 1/(t - 0.5)")
	require.NoError(t, err)
	samples, failed := SampleParametric(p, DefaultView().Transform(800, 400, UnitPixels), 100)
	assert.Equal(t, 1, failed)
	assert.Len(t, samples, 100)
	for _, s := range samples[1:] {
		assert.False(t, s.PenUp)
	}
}

func TestDrawParametricCursor(t *testing.T) {
	rec := newRecorder()
	obj := &graph.GraphObject{ID: "c", Kind: graph.Parametric, Color: "#10b981", Visible: true, Thickness: 3, Label: "C",
		Equation: "x(t) = 0 + 2 * cos(t)\ny(t) = 0 + 2 * sin(t)\nfor t ∈ [0, 2*pi]"}
	view := DefaultView()
	view.ShowGrid = false
	stats := NewRenderer(DefaultOptions()).Draw(rec, []*graph.GraphObject{obj}, view, 0.5)
	assert.Equal(t, 1, stats.Drawn)
	// t = 0.5 of [0, 2pi] is (-2, 0)
	assert.Equal(t, 1, rec.count("circle -100.00 200.00 5"))
	assert.Equal(t, 1, rec.count("text -92.00 192.00 C"))
	assert.Equal(t, 100, rec.count("line ")-2) // axes contribute two lines
}

func TestDrawPoint(t *testing.T) {
	rec := newRecorder()
	obj := &graph.GraphObject{ID: "p", Kind: graph.Point, Equation: "(1, -0.5)", Color: "#f59e0b", Visible: true, Thickness: 2}
	stats := NewRenderer(DefaultOptions()).Draw(rec, []*graph.GraphObject{obj}, DefaultView(), 0)
	assert.Equal(t, 1, stats.Drawn)
	assert.Equal(t, 1, rec.count("circle 650.00 325.00 5"))
	assert.Equal(t, 1, rec.count("text 658.00 317.00 (1, -0.5)"))

	obj.Label = "P"
	rec = newRecorder()
	NewRenderer(DefaultOptions()).Draw(rec, []*graph.GraphObject{obj}, DefaultView(), 0)
	assert.Equal(t, 1, rec.count("text 658.00 317.00 P"))
}

func TestDrawFailuresAreSoft(t *testing.T) {
	rec := newRecorder()
	hidden := fn("hidden", "y = x")
	hidden.Visible = false
	objs := []*graph.GraphObject{
		fn("bad", "y = x +* 2"),
		{ID: "badpoint", Kind: graph.Point, Equation: "(a, b)", Visible: true},
		{ID: "badcurve", Kind: graph.Parametric, Equation: "x(t) = t", Visible: true},
		hidden,
		nil,
		fn("good", "y = 1/x"),
	}
	stats := NewRenderer(DefaultOptions()).Draw(rec, objs, DefaultView(), 0)
	assert.Equal(t, 1, stats.Drawn)
	assert.Equal(t, 1, stats.Hidden)
	assert.Equal(t, []string{"bad", "badpoint", "badcurve"}, stats.Failed)
	assert.Equal(t, 1, stats.FailedSamples)
	assert.Equal(t, 1, rec.count("stroke-style #8b5cf6 2"))
}

func TestDrawIsIdempotent(t *testing.T) {
	objs := []*graph.GraphObject{fn("a", "y = sin(x)"), {ID: "p", Kind: graph.Point, Equation: "(0, 0)", Color: "red", Visible: true}}
	a, b := newRecorder(), newRecorder()
	r := NewRenderer(DefaultOptions())
	r.Draw(a, objs, DefaultView(), 0.25)
	r.Draw(b, objs, DefaultView(), 0.25)
	assert.Equal(t, a.ops, b.ops)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#8b5cf6", color.NRGBA{0x8b, 0x5c, 0xf6, 0xff}},
		{"#fff", color.NRGBA{0xff, 0xff, 0xff, 0xff}},
		{"#00000080", color.NRGBA{0, 0, 0, 0x80}},
		{"rgba(255, 255, 255, 0.1)", color.NRGBA{255, 255, 255, 26}},
		{"rgb(1,2,3)", color.NRGBA{1, 2, 3, 255}},
		{"White", color.NRGBA{255, 255, 255, 255}},
		{"orange", color.NRGBA{255, 165, 0, 255}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	for _, bad := range []string{"#12", "rgba(1,2)", "nocolour", "#zzzzzz"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestRenderPNG(t *testing.T) {
	objs := []*graph.GraphObject{
		fn("f", "y = x^2"),
		{ID: "p", Kind: graph.Point, Equation: "(0, 0)", Color: "#ef4444", Visible: true, Thickness: 2},
	}
	data, stats, err := NewRenderer(DefaultOptions()).RenderPNG(objs, DefaultView(), 200, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Drawn)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())

	r, g, b, a := img.At(100, 50).RGBA()
	assert.Equal(t, [4]uint32{0xefef, 0x4444, 0x4444, 0xffff}, [4]uint32{r, g, b, a})

	bg := MustParseColor(DefaultOptions().Background)
	r, g, b, _ = img.At(3, 3).RGBA()
	assert.Equal(t, uint32(bg.R)*0x101, r)
	assert.Equal(t, uint32(bg.G)*0x101, g)
	assert.Equal(t, uint32(bg.B)*0x101, b)
}

func TestRenderSVG(t *testing.T) {
	objs := []*graph.GraphObject{
		fn("f", "y = x"),
		{ID: "p", Kind: graph.Point, Equation: "(1, 1)", Color: "#ef4444", Visible: true, Label: "<A>"},
	}
	data, stats := NewRenderer(DefaultOptions()).RenderSVG(objs, DefaultView(), 300, 200, 0)
	assert.Equal(t, 2, stats.Drawn)
	doc := string(data)
	assert.True(t, strings.HasPrefix(doc, "<?xml"))
	assert.Contains(t, doc, `width="300" height="200"`)
	assert.Contains(t, doc, `stroke="#8b5cf6"`)
	assert.Contains(t, doc, `<circle cx="400" cy="-150" r="5" fill="#ef4444"/>`)
	assert.Contains(t, doc, "&lt;A&gt;")
	assert.True(t, strings.HasSuffix(doc, "</svg>\n"))
}

func TestAnimatorAdvance(t *testing.T) {
	a := NewAnimator(0, Loop)
	assert.Equal(t, DefaultAnimationStep, a.Step)

	next, done := a.Advance(0)
	assert.Equal(t, 0.005, next)
	assert.False(t, done)

	next, _ = a.Advance(0.999)
	assert.Equal(t, 1.0, next)
	next, done = a.Advance(1)
	assert.Equal(t, 0.0, next)
	assert.False(t, done)

	once := NewAnimator(0.25, Once)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, once.Frames(0, 10))

	frames := NewAnimator(0.5, Loop).Frames(0, 5)
	assert.Equal(t, []float64{0, 0.5, 1, 0, 0.5}, frames)
	for _, f := range a.Frames(0, 400) {
		assert.True(t, f >= 0 && f <= 1)
	}
}

func TestAnimatorRunCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var seen []float64
	last, err := NewAnimator(0.1, Loop).Run(ctx, time.Millisecond, 0, func(t float64) error {
		seen = append(seen, t)
		if len(seen) == 3 {
			cancel()
		}
		return nil
	})
	assert.True(t, errors.Is(err, context.Canceled))
	require.Len(t, seen, 3)
	assert.InDelta(t, 0.3, last, 1e-9)
}

func TestAnimatorRunOnceCompletes(t *testing.T) {
	n := 0
	last, err := NewAnimator(0.5, Once).Run(context.Background(), time.Millisecond, 0, func(float64) error {
		n++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1.0, last)

	boom := errors.New("boom")
	_, err = NewAnimator(0.5, Loop).Run(context.Background(), time.Millisecond, 0, func(float64) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestRenderGIF(t *testing.T) {
	obj := &graph.GraphObject{ID: "c", Kind: graph.Parametric, Color: "#3b82f6", Visible: true, Thickness: 2,
		Equation: "x(t) = cos(t)\ny(t) = sin(t)\nfor t ∈ [0, 2*pi]"}
	data, err := NewRenderer(DefaultOptions()).RenderGIF([]*graph.GraphObject{obj}, DefaultView(), 64, 48, []float64{0, 0.5, 1}, 4)
	require.NoError(t, err)
	anim, err := gif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, anim.Image, 3)

	_, err = NewRenderer(DefaultOptions()).RenderGIF(nil, DefaultView(), 10, 10, nil, 4)
	assert.Error(t, err)
}

func TestCoord(t *testing.T) {
	assert.Equal(t, "1.23", coord(1.23456))
	assert.Equal(t, "0", coord(-0.001))
	assert.Equal(t, "100000", coord(math.Inf(1)))
}
