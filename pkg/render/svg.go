package render

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`

const svgFooter = `</svg>
`

// SVGSurface records drawing calls as SVG elements
type SVGSurface struct {
	width, height int
	body          strings.Builder
	stroke        string
	strokeWidth   float64
	fill          string
	d             strings.Builder
}

func NewSVGSurface(width, height int) *SVGSurface {
	return &SVGSurface{width: width, height: height, stroke: "black", strokeWidth: 1, fill: "black"}
}

func (s *SVGSurface) Size() (int, int) {
	return s.width, s.height
}

func (s *SVGSurface) Clear(background string) {
	s.body.Reset()
	fmt.Fprintf(&s.body, "<rect width=\"%d\" height=\"%d\" fill=\"%s\"/>\n", s.width, s.height, attr(background))
}

func (s *SVGSurface) SetStroke(color string, width float64) {
	s.stroke = color
	s.strokeWidth = width
}

func (s *SVGSurface) SetFill(color string) {
	s.fill = color
}

func (s *SVGSurface) BeginPath() {
	s.d.Reset()
}

func (s *SVGSurface) MoveTo(x, y float64) {
	fmt.Fprintf(&s.d, "M%s %s", coord(x), coord(y))
}

func (s *SVGSurface) LineTo(x, y float64) {
	if s.d.Len() == 0 {
		s.MoveTo(x, y)
		return
	}
	fmt.Fprintf(&s.d, "L%s %s", coord(x), coord(y))
}

func (s *SVGSurface) Stroke() {
	if s.d.Len() == 0 {
		return
	}
	fmt.Fprintf(&s.body,
		"<path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"%s\" stroke-linejoin=\"round\" stroke-linecap=\"round\"/>\n",
		s.d.String(), attr(s.stroke), coord(s.strokeWidth))
}

func (s *SVGSurface) FillCircle(x, y, r float64) {
	fmt.Fprintf(&s.body, "<circle cx=\"%s\" cy=\"%s\" r=\"%s\" fill=\"%s\"/>\n", coord(x), coord(y), coord(r), attr(s.fill))
}

func (s *SVGSurface) Text(x, y float64, str string) {
	fmt.Fprintf(&s.body, "<text x=\"%s\" y=\"%s\" fill=\"%s\" font-family=\"monospace\" font-size=\"12\">%s</text>\n",
		coord(x), coord(y), attr(s.fill), html.EscapeString(str))
}

// String returns the complete SVG document
func (s *SVGSurface) String() string {
	return fmt.Sprintf(svgHeader, s.width, s.height, s.width, s.height) + s.body.String() + svgFooter
}

func (s *SVGSurface) Bytes() []byte {
	return []byte(s.String())
}

func attr(v string) string {
	return html.EscapeString(v)
}

// coord rounds to two decimals, enough for pixel space
func coord(v float64) string {
	v = math.Max(-coordLimit, math.Min(coordLimit, v))
	v = math.Round(v*100) / 100
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
