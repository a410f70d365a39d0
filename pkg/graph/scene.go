package graph

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned by edits addressed to an id the scene does not hold
var ErrNotFound = errors.New("graph object not found")

var pointPattern = regexp.MustCompile(`^\(\s*[-+]?\d*\.?\d+\s*,\s*[-+]?\d*\.?\d+\s*\)$`)

var parametricPattern = regexp.MustCompile(`(?m)^\s*[xy]\s*\(\s*t\s*\)\s*=`)

// Classify guesses the kind of a hand typed equation
func Classify(equation string) Kind {
	eq := strings.TrimSpace(equation)
	switch {
	case parametricPattern.MatchString(eq):
		return Parametric
	case pointPattern.MatchString(eq):
		return Point
	}
	return Function
}

// NormalizeFunction prefixes a bare expression with "y = "
func NormalizeFunction(equation string) string {
	eq := strings.TrimSpace(equation)
	if strings.Contains(eq, "=") {
		return eq
	}
	return "y = " + eq
}

// Scene is the ordered, editable list of objects on the canvas.
// Order is draw order. A Scene is not safe for concurrent use.
type Scene struct {
	objects []*GraphObject
	palette Palette
	added   int
	newID   func() string
}

func NewScene(palette Palette) *Scene {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &Scene{palette: palette, newID: uuid.NewString}
}

// Objects returns the scene contents in draw order
func (s *Scene) Objects() []*GraphObject {
	out := make([]*GraphObject, len(s.objects))
	copy(out, s.objects)
	return out
}

// Visible returns only the objects that will be drawn
func (s *Scene) Visible() []*GraphObject {
	var out []*GraphObject
	for _, o := range s.objects {
		if o.Visible {
			out = append(out, o)
		}
	}
	return out
}

func (s *Scene) Len() int {
	return len(s.objects)
}

// Get returns the object with the given id
func (s *Scene) Get(id string) (*GraphObject, error) {
	for _, o := range s.objects {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// AddEquation classifies a typed equation and appends it with the next palette colour
func (s *Scene) AddEquation(equation string) (*GraphObject, error) {
	eq := strings.TrimSpace(equation)
	if eq == "" {
		return nil, errors.New("empty equation")
	}
	kind := Classify(eq)
	if kind == Function {
		eq = NormalizeFunction(eq)
	}
	obj := &GraphObject{
		ID:        s.newID(),
		Kind:      kind,
		Equation:  eq,
		Color:     s.palette.At(s.added),
		Visible:   true,
		Thickness: DefaultThickness,
	}
	s.added++
	s.objects = append(s.objects, obj)
	return obj, nil
}

// Import appends objects whose ids are not already present and returns how many were added
func (s *Scene) Import(objs []*GraphObject) int {
	seen := make(map[string]bool, len(s.objects))
	for _, o := range s.objects {
		seen[o.ID] = true
	}
	n := 0
	for _, o := range objs {
		if o == nil || seen[o.ID] {
			continue
		}
		seen[o.ID] = true
		s.objects = append(s.objects, o)
		s.added++
		n++
	}
	return n
}

// Remove deletes the object with the given id
func (s *Scene) Remove(id string) error {
	for i, o := range s.objects {
		if o.ID == id {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ToggleVisibility flips visibility and returns the new state
func (s *Scene) ToggleVisibility(id string) (bool, error) {
	o, err := s.Get(id)
	if err != nil {
		return false, err
	}
	o.Visible = !o.Visible
	return o.Visible, nil
}

// SetColor changes an object's stroke colour
func (s *Scene) SetColor(id, color string) error {
	o, err := s.Get(id)
	if err != nil {
		return err
	}
	o.Color = color
	return nil
}

// SetThickness changes the stroke width, clamped to 1..5
func (s *Scene) SetThickness(id string, thickness int) (int, error) {
	o, err := s.Get(id)
	if err != nil {
		return 0, err
	}
	o.Thickness = ClampThickness(thickness)
	return o.Thickness, nil
}

// Clear removes every object
func (s *Scene) Clear() {
	s.objects = nil
	s.added = 0
}
