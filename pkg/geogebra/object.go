package geogebra

import (
	"fmt"
	"strings"

	"github.com/richard-senior/edutune/pkg/graph"
)

// Kind is the surface kind a command was written as
type Kind int

const (
	Function Kind = iota
	Parametric
	Point
	Segment
	Circle
)

var kindNames = [...]string{"function", "parametric", "point", "segment", "circle"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	name := strings.ToLower(string(b))
	for i, n := range kindNames {
		if n == name {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown object kind: %q", string(b))
}

// RenderKind lowers segments and circles to the parametric curves they are drawn as
func (k Kind) RenderKind() graph.Kind {
	switch k {
	case Function:
		return graph.Function
	case Point:
		return graph.Point
	}
	return graph.Parametric
}

// MathObject is one interpreted command.
// Segment and Circle keep their declared kind but carry an already lowered parametric equation.
type MathObject struct {
	ID       string `json:"id"`
	Kind     Kind   `json:"type"`
	Equation string `json:"equation"`
	Label    string `json:"label,omitempty"`
	Color    string `json:"color,omitempty"`
}

// ToGraphObject turns an interpreted object into a drawable one.
// Colour is the object's own, or the palette entry for colorIndex.
func ToGraphObject(obj *MathObject, colorIndex int, palette graph.Palette) *graph.GraphObject {
	color := obj.Color
	if color == "" {
		color = palette.At(colorIndex)
	}
	return &graph.GraphObject{
		ID:        obj.ID,
		Kind:      obj.Kind.RenderKind(),
		Equation:  obj.Equation,
		Color:     color,
		Visible:   true,
		Thickness: graph.DefaultThickness,
		Label:     obj.Label,
	}
}

// ToGraphObjects converts a batch, giving the i-th object palette index i
func ToGraphObjects(objs []*MathObject, palette graph.Palette) []*graph.GraphObject {
	out := make([]*graph.GraphObject, 0, len(objs))
	for i, o := range objs {
		out = append(out, ToGraphObject(o, i, palette))
	}
	return out
}
