package geogebra

import (
	"fmt"
	"strings"

	"github.com/richard-senior/edutune/pkg/svgpath"
)

var num = svgpath.FormatNumber

// SegmentCommand renders one segment as a GeoGebra command the interpreter can read back.
// Lines become Segment commands and Beziers become Curve commands over t in [0, 1].
func SegmentCommand(seg svgpath.Segment) string {
	switch s := seg.(type) {
	case svgpath.Line:
		return fmt.Sprintf("Segment[%s, %s]", s.P0, s.P1)
	case svgpath.Quadratic:
		return fmt.Sprintf("Curve[%s, %s, t, 0, 1]",
			quadraticTerm(s.P0.X, s.P1.X, s.P2.X),
			quadraticTerm(s.P0.Y, s.P1.Y, s.P2.Y))
	case svgpath.Cubic:
		return fmt.Sprintf("Curve[%s, %s, t, 0, 1]",
			cubicTerm(s.P0.X, s.P1.X, s.P2.X, s.P3.X),
			cubicTerm(s.P0.Y, s.P1.Y, s.P2.Y, s.P3.Y))
	}
	return ""
}

func quadraticTerm(a, b, c float64) string {
	return fmt.Sprintf("(1-t)^2*%s + 2*(1-t)*t*%s + t^2*%s", num(a), num(b), num(c))
}

func cubicTerm(a, b, c, d float64) string {
	return fmt.Sprintf("(1-t)^3*%s + 3*(1-t)^2*t*%s + 3*(1-t)*t^2*%s + t^3*%s", num(a), num(b), num(c), num(d))
}

// Commands renders segments in order, one command each
func Commands(segments []svgpath.Segment) []string {
	out := make([]string, 0, len(segments))
	for _, s := range segments {
		if c := SegmentCommand(s); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// PathToCommands parses bare path data and renders it
func PathToCommands(d string) []string {
	return Commands(svgpath.Parse(d))
}

// SvgToCommands renders every path of an SVG document, paths in document order
func SvgToCommands(document string) ([]string, error) {
	paths, err := svgpath.ParseDocument(document)
	if err != nil {
		return nil, err
	}
	return Commands(svgpath.Segments(paths)), nil
}

// JoinCommands produces the export text: one command per line and nothing else
func JoinCommands(commands []string) string {
	return strings.Join(commands, "\n")
}
