package svgpath

import (
	"fmt"
	"strconv"
)

////////////////////////////////////////////////////////////////////
/// POINT
////////////////////////////////////////////////////////////////////

// Point is a 2D coordinate in SVG user space
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Lerp returns the point a fraction t of the way from p to o
func (p Point) Lerp(o Point, t float64) Point {
	return Point{X: p.X + (o.X-p.X)*t, Y: p.Y + (o.Y-p.Y)*t}
}

func (p Point) String() string {
	return fmt.Sprintf("(%s, %s)", FormatNumber(p.X), FormatNumber(p.Y))
}

// FormatNumber prints v in its shortest exact decimal form, 4 rather than 4.000000
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

////////////////////////////////////////////////////////////////////
/// SEGMENTS
////////////////////////////////////////////////////////////////////

type SegmentKind int

const (
	KindLine SegmentKind = iota
	KindQuadratic
	KindCubic
)

func (k SegmentKind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindQuadratic:
		return "quadratic"
	case KindCubic:
		return "cubic"
	}
	return "unknown"
}

// Segment is one drawable piece of a path. The set of implementations is closed.
type Segment interface {
	Kind() SegmentKind
	Start() Point
	End() Point
	// At evaluates the segment at t in [0, 1]
	At(t float64) Point
	// Points returns the defining points in order, end points included
	Points() []Point
	segment()
}

// Line is a straight segment from P0 to P1
type Line struct {
	P0, P1 Point
}

// Quadratic is a quadratic Bezier with control point P1
type Quadratic struct {
	P0, P1, P2 Point
}

// Cubic is a cubic Bezier with control points P1 and P2
type Cubic struct {
	P0, P1, P2, P3 Point
}

func (Line) segment()      {}
func (Quadratic) segment() {}
func (Cubic) segment()     {}

func (l Line) Kind() SegmentKind      { return KindLine }
func (q Quadratic) Kind() SegmentKind { return KindQuadratic }
func (c Cubic) Kind() SegmentKind     { return KindCubic }

func (l Line) Start() Point      { return l.P0 }
func (q Quadratic) Start() Point { return q.P0 }
func (c Cubic) Start() Point     { return c.P0 }

func (l Line) End() Point      { return l.P1 }
func (q Quadratic) End() Point { return q.P2 }
func (c Cubic) End() Point     { return c.P3 }

func (l Line) Points() []Point      { return []Point{l.P0, l.P1} }
func (q Quadratic) Points() []Point { return []Point{q.P0, q.P1, q.P2} }
func (c Cubic) Points() []Point     { return []Point{c.P0, c.P1, c.P2, c.P3} }

func (l Line) At(t float64) Point {
	return l.P0.Lerp(l.P1, t)
}

// At uses the Bernstein form B(t) = (1-t)²P0 + 2(1-t)tP1 + t²P2
func (q Quadratic) At(t float64) Point {
	mt := 1 - t
	return q.P0.Scale(mt * mt).
		Add(q.P1.Scale(2 * mt * t)).
		Add(q.P2.Scale(t * t))
}

// At uses B(t) = (1-t)³P0 + 3(1-t)²tP1 + 3(1-t)t²P2 + t³P3
func (c Cubic) At(t float64) Point {
	mt := 1 - t
	return c.P0.Scale(mt * mt * mt).
		Add(c.P1.Scale(3 * mt * mt * t)).
		Add(c.P2.Scale(3 * mt * t * t)).
		Add(c.P3.Scale(t * t * t))
}

// Sample returns n+1 evenly spaced points along seg, both ends included
func Sample(seg Segment, n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, seg.At(float64(i)/float64(n)))
	}
	return pts
}
