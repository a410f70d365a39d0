package geogebra

import (
	"regexp"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Templates of every command the interpreter understands, keyed by keyword
var Templates = map[string]string{
	"Curve":   "Curve[<x(t)>, <y(t)>, t, <start>, <end>]",
	"Segment": "Segment[(<x1>, <y1>), (<x2>, <y2>)]",
	"Circle":  "Circle[(<cx>, <cy>), <r>]",
	"f(x)":    "f(x) = <expression in x>",
	"Point":   "(<x>, <y>)",
}

var keywordPattern = regexp.MustCompile(`^(?:[A-Za-z0-9]+\s*:\s*)?([A-Za-z]+)`)

const suggestionThreshold = 0.5

// Suggest proposes the closest known command template for an unrecognised command,
// or "" when nothing is close enough
func Suggest(command string) string {
	m := keywordPattern.FindStringSubmatch(strings.TrimSpace(command))
	if m == nil {
		if strings.HasPrefix(strings.TrimSpace(command), "(") {
			return Templates["Point"]
		}
		return ""
	}
	word := m[1]

	lev := metrics.NewLevenshtein()
	lev.CaseSensitive = false

	best, bestScore := "", 0.0
	for _, kw := range []string{"Curve", "Segment", "Circle"} {
		if score := strutil.Similarity(word, kw, lev); score > bestScore {
			best, bestScore = kw, score
		}
	}
	if bestScore >= suggestionThreshold {
		return Templates[best]
	}
	if len(word) <= 2 {
		return Templates["f(x)"]
	}
	return ""
}
