package svgpath

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/richard-senior/edutune/internal/logger"
)

// Path is the parsed form of one <path> element
type Path struct {
	ID       string    `json:"id,omitempty"`
	Data     string    `json:"d"`
	Segments []Segment `json:"-"`
}

// IsDocument reports whether s looks like markup rather than bare path data
func IsDocument(s string) bool {
	return strings.Contains(s, "<")
}

// ReadPaths returns every <path> element with a non-empty d attribute, in document order
func ReadPaths(r io.Reader) ([]Path, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse svg document: %w", err)
	}

	var paths []Path
	doc.Find("path").Each(func(i int, s *goquery.Selection) {
		d, ok := s.Attr("d")
		d = strings.TrimSpace(d)
		if !ok || d == "" {
			logger.Warn("Skipping path without data at index", i)
			return
		}
		id, _ := s.Attr("id")
		paths = append(paths, Path{ID: id, Data: d})
	})
	return paths, nil
}

// ExtractPathData returns the d attribute of every <path> in the document
func ExtractPathData(document string) ([]string, error) {
	paths, err := ReadPaths(strings.NewReader(document))
	if err != nil {
		return nil, err
	}
	data := make([]string, len(paths))
	for i, p := range paths {
		data[i] = p.Data
	}
	return data, nil
}

// ParseDocument extracts and parses all paths of an SVG document
func ParseDocument(document string) ([]Path, error) {
	paths, err := ReadPaths(strings.NewReader(document))
	if err != nil {
		return nil, err
	}
	for i := range paths {
		paths[i].Segments = Parse(paths[i].Data)
		logger.Debug("Parsed path", paths[i].ID, "into", len(paths[i].Segments), "segments")
	}
	return paths, nil
}

// Segments flattens the segments of all paths, preserving order
func Segments(paths []Path) []Segment {
	var out []Segment
	for _, p := range paths {
		out = append(out, p.Segments...)
	}
	return out
}
