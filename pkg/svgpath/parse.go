package svgpath

import (
	"regexp"

	"github.com/richard-senior/edutune/internal/logger"
	"github.com/tdewolff/parse/v2/strconv"
)

// One scan picks out command letters and numeric literals, in document order.
// "10-5" yields two numbers and "1.5.5" yields 1.5 and .5, as in SVG.
var tokenPattern = regexp.MustCompile(`([A-Za-z])|([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)`)

type pathToken struct {
	cmd byte
	num float64
}

func (t pathToken) isCommand() bool {
	return t.cmd != 0
}

// Tokenize splits path data into command letters and numbers.
// Letters are returned for every alphabetic character so that unknown
// commands still terminate the previous command's arguments.
func tokenize(d string) []pathToken {
	var toks []pathToken
	for _, m := range tokenPattern.FindAllStringSubmatchIndex(d, -1) {
		if m[2] >= 0 {
			toks = append(toks, pathToken{cmd: d[m[2]]})
			continue
		}
		text := []byte(d[m[4]:m[5]])
		v, n := strconv.ParseFloat(text)
		if n != len(text) {
			logger.Debug("Skipping unparsable number in path data:", string(text))
			continue
		}
		toks = append(toks, pathToken{num: v})
	}
	return toks
}

// arity is the number of values one repetition of a command consumes.
// Zero means the letter takes no values (Z) or is not an SVG path command at all.
func arity(cmd byte) int {
	switch cmd | 0x20 { // lower case
	case 'm', 'l', 't':
		return 2
	case 'h', 'v':
		return 1
	case 'q', 's':
		return 4
	case 'c':
		return 6
	case 'a':
		return 7
	}
	return 0
}

func isRelative(cmd byte) bool {
	return cmd >= 'a' && cmd <= 'z'
}

// pathState is the cursor of a parse: the current point and the start of the subpath
type pathState struct {
	current  Point
	start    Point
	hasStart bool
	segments []Segment
}

// Parse converts SVG path data into segments.
//
// M L H V Q C Z are supported in absolute and relative form. Extra coordinate
// groups repeat the previous command, with moves continuing as lines. Smooth
// curves (S, T) and arcs (A) produce no segments but still move the cursor to
// their end point. A command short of arguments is dropped. Parsing never fails.
func Parse(d string) []Segment {
	st := &pathState{}
	toks := tokenize(d)

	var cmd byte
	for i := 0; i < len(toks); {
		if toks[i].isCommand() {
			cmd = toks[i].cmd
			i++
			if cmd == 'Z' || cmd == 'z' {
				st.closePath()
				cmd = 0
				continue
			}
			if arity(cmd) == 0 {
				logger.Debug("Skipping unknown path command:", string(cmd))
			}
		}
		n := arity(cmd)
		if n == 0 {
			// numbers with no usable command in force
			if i < len(toks) && !toks[i].isCommand() {
				i++
			}
			continue
		}

		args := make([]float64, 0, n)
		for len(args) < n && i < len(toks) && !toks[i].isCommand() {
			args = append(args, toks[i].num)
			i++
		}
		if len(args) < n {
			logger.Debug("Dropping path command with missing arguments:", string(cmd), args)
			continue
		}

		st.apply(cmd, args)
		switch cmd {
		case 'M':
			cmd = 'L'
		case 'm':
			cmd = 'l'
		}
	}
	return st.segments
}

// point resolves the coordinate pair (x, y) against the cursor for relative commands
func (st *pathState) point(cmd byte, x, y float64) Point {
	if isRelative(cmd) {
		return Point{X: st.current.X + x, Y: st.current.Y + y}
	}
	return Point{X: x, Y: y}
}

func (st *pathState) apply(cmd byte, a []float64) {
	p0 := st.current
	switch cmd {
	case 'M', 'm':
		st.current = st.point(cmd, a[0], a[1])
		st.start = st.current
		st.hasStart = true
	case 'L', 'l':
		p1 := st.point(cmd, a[0], a[1])
		st.segments = append(st.segments, Line{P0: p0, P1: p1})
		st.current = p1
	case 'H':
		p1 := Point{X: a[0], Y: p0.Y}
		st.segments = append(st.segments, Line{P0: p0, P1: p1})
		st.current = p1
	case 'h':
		p1 := Point{X: p0.X + a[0], Y: p0.Y}
		st.segments = append(st.segments, Line{P0: p0, P1: p1})
		st.current = p1
	case 'V':
		p1 := Point{X: p0.X, Y: a[0]}
		st.segments = append(st.segments, Line{P0: p0, P1: p1})
		st.current = p1
	case 'v':
		p1 := Point{X: p0.X, Y: p0.Y + a[0]}
		st.segments = append(st.segments, Line{P0: p0, P1: p1})
		st.current = p1
	case 'Q', 'q':
		q := Quadratic{
			P0: p0,
			P1: st.point(cmd, a[0], a[1]),
			P2: st.point(cmd, a[2], a[3]),
		}
		st.segments = append(st.segments, q)
		st.current = q.P2
	case 'C', 'c':
		c := Cubic{
			P0: p0,
			P1: st.point(cmd, a[0], a[1]),
			P2: st.point(cmd, a[2], a[3]),
			P3: st.point(cmd, a[4], a[5]),
		}
		st.segments = append(st.segments, c)
		st.current = c.P3
	default:
		// S, T and A: follow the end point without emitting anything
		n := len(a)
		st.current = st.point(cmd, a[n-2], a[n-1])
		logger.Debug("Unsupported path command moved cursor to", st.current.String())
	}
}

func (st *pathState) closePath() {
	if !st.hasStart {
		return
	}
	st.segments = append(st.segments, Line{P0: st.current, P1: st.start})
	st.current = st.start
}
