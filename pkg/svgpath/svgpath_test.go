package svgpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoveThenLine(t *testing.T) {
	segs := Parse("M 0 0 L 10 10")
	require.Len(t, segs, 1)
	assert.Equal(t, Line{P0: Point{0, 0}, P1: Point{10, 10}}, segs[0])
}

func TestParseClosePath(t *testing.T) {
	segs := Parse("M 0 0 L 10 0 L 10 10 Z")
	require.Len(t, segs, 3)
	assert.Equal(t, Line{P0: Point{10, 10}, P1: Point{0, 0}}, segs[2])
}

func TestParseCloseWithoutMove(t *testing.T) {
	assert.Empty(t, Parse("Z"))
	assert.Empty(t, Parse(""))
}

func TestParseRelativeCommands(t *testing.T) {
	segs := Parse("m 5 5 l 10 0 v 10 h -10 z")
	require.Len(t, segs, 4)
	assert.Equal(t, Line{P0: Point{5, 5}, P1: Point{15, 5}}, segs[0])
	assert.Equal(t, Line{P0: Point{15, 5}, P1: Point{15, 15}}, segs[1])
	assert.Equal(t, Line{P0: Point{15, 15}, P1: Point{5, 15}}, segs[2])
	assert.Equal(t, Line{P0: Point{5, 15}, P1: Point{5, 5}}, segs[3])
}

func TestParseAbsoluteHV(t *testing.T) {
	segs := Parse("M1 2 H 7 V 9")
	require.Len(t, segs, 2)
	assert.Equal(t, Line{P0: Point{1, 2}, P1: Point{7, 2}}, segs[0])
	assert.Equal(t, Line{P0: Point{7, 2}, P1: Point{7, 9}}, segs[1])
}

func TestParseCurves(t *testing.T) {
	segs := Parse("M0,0 Q5,10 10,0 c1 1 2 2 3 3")
	require.Len(t, segs, 2)
	assert.Equal(t, Quadratic{P0: Point{0, 0}, P1: Point{5, 10}, P2: Point{10, 0}}, segs[0])
	assert.Equal(t, Cubic{P0: Point{10, 0}, P1: Point{11, 1}, P2: Point{12, 2}, P3: Point{13, 3}}, segs[1])
}

func TestParseCompactNumbers(t *testing.T) {
	segs := Parse("M10-5L.5.5")
	require.Len(t, segs, 1)
	assert.Equal(t, Line{P0: Point{10, -5}, P1: Point{0.5, 0.5}}, segs[0])

	segs = Parse("M1e1 0 L2E1 1e0")
	require.Len(t, segs, 1)
	assert.Equal(t, Line{P0: Point{10, 0}, P1: Point{20, 1}}, segs[0])
}

func TestParseImplicitRepeats(t *testing.T) {
	segs := Parse("M 0 0 10 0 10 10")
	require.Len(t, segs, 2)
	assert.Equal(t, Line{P0: Point{0, 0}, P1: Point{10, 0}}, segs[0])
	assert.Equal(t, Line{P0: Point{10, 0}, P1: Point{10, 10}}, segs[1])

	segs = Parse("m 1 1 2 0 0 2")
	require.Len(t, segs, 2)
	assert.Equal(t, Point{3, 3}, segs[1].End())
}

func TestParseUnsupportedCommandsAreSkipped(t *testing.T) {
	// the arc moves the cursor to (20, 0) but draws nothing
	segs := Parse("M 0 0 L 10 0 A 5 5 0 0 1 20 0 l 0 10")
	require.Len(t, segs, 2)
	assert.Equal(t, Line{P0: Point{20, 0}, P1: Point{20, 10}}, segs[1])

	segs = Parse("M 0 0 S 1 1 2 2 T 4 4 X 9 9 L 5 5")
	require.Len(t, segs, 1)
	assert.Equal(t, Line{P0: Point{4, 4}, P1: Point{5, 5}}, segs[0])
}

func TestParseShortArgumentsDropped(t *testing.T) {
	segs := Parse("M 0 0 L 5 L 1 1")
	require.Len(t, segs, 1)
	assert.Equal(t, Line{P0: Point{0, 0}, P1: Point{1, 1}}, segs[0])

	assert.Empty(t, Parse("M 0 0 C 1 2 3"))
}

func TestSegmentsAreContinuous(t *testing.T) {
	segs := Parse("M 1 1 L 4 1 Q 6 3 4 5 C 3 6 2 6 1 5 H 0 V 1 Z")
	require.Len(t, segs, 6)
	for i := 1; i < len(segs); i++ {
		assert.Equal(t, segs[i-1].End(), segs[i].Start(), "segment %d", i)
	}
}

func TestSegmentsDoNotAliasCursor(t *testing.T) {
	segs := Parse("M 0 0 L 1 1 L 2 2")
	require.Len(t, segs, 2)
	first := segs[0].(Line)
	first.P1.X = 99
	assert.Equal(t, Point{1, 1}, segs[1].Start())
}

func TestBezierEvaluation(t *testing.T) {
	q := Quadratic{P0: Point{0, 0}, P1: Point{1, 2}, P2: Point{2, 0}}
	assert.Equal(t, Point{0, 0}, q.At(0))
	assert.Equal(t, Point{2, 0}, q.At(1))
	assert.Equal(t, Point{1, 1}, q.At(0.5))

	c := Cubic{P0: Point{0, 0}, P1: Point{0, 1}, P2: Point{1, 1}, P3: Point{1, 0}}
	mid := c.At(0.5)
	assert.InDelta(t, 0.5, mid.X, 1e-12)
	assert.InDelta(t, 0.75, mid.Y, 1e-12)

	pts := Sample(Line{P0: Point{0, 0}, P1: Point{4, 0}}, 4)
	require.Len(t, pts, 5)
	assert.Equal(t, Point{1, 0}, pts[1])
}

func TestPointString(t *testing.T) {
	assert.Equal(t, "(4, -0.5)", Point{4, -0.5}.String())
	assert.Equal(t, "0", FormatNumber(-0.0))
}

func TestExtractPathData(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
  <g><path id="a" d="M 0 0 L 10 10"/></g>
  <path d=""/>
  <path id="b" d="M 1 1 Q 2 2 3 1"/>
</svg>`
	data, err := ExtractPathData(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"M 0 0 L 10 10", "M 1 1 Q 2 2 3 1"}, data)

	paths, err := ParseDocument(doc)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "a", paths[0].ID)
	assert.Len(t, Segments(paths), 2)
}

func TestIsDocument(t *testing.T) {
	assert.True(t, IsDocument("<svg></svg>"))
	assert.False(t, IsDocument("M 0 0 L 1 1"))
}
