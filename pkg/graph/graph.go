package graph

import (
	"fmt"
	"strings"
)

// Kind is what the renderer knows how to draw
type Kind int

const (
	Function Kind = iota
	Parametric
	Point
)

func (k Kind) String() string {
	switch k {
	case Function:
		return "function"
	case Parametric:
		return "parametric"
	case Point:
		return "point"
	}
	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "function":
		*k = Function
	case "parametric":
		*k = Parametric
	case "point":
		*k = Point
	default:
		return fmt.Errorf("unknown graph kind: %q", string(b))
	}
	return nil
}

const (
	DefaultThickness = 2
	MinThickness     = 1
	MaxThickness     = 5
)

// GraphObject is a drawable entry of the scene
type GraphObject struct {
	ID        string `json:"id"`
	Kind      Kind   `json:"type"`
	Equation  string `json:"equation"`
	Color     string `json:"color"`
	Visible   bool   `json:"visible"`
	Thickness int    `json:"thickness"`
	Label     string `json:"label,omitempty"`
}

// Palette is the ordered set of colours assigned to objects without one
type Palette []string

// DefaultPalette is violet, pink, blue, emerald, amber, red
var DefaultPalette = Palette{"#8b5cf6", "#ec4899", "#3b82f6", "#10b981", "#f59e0b", "#ef4444"}

// At returns the colour for index i, cycling through the palette
func (p Palette) At(i int) string {
	if len(p) == 0 {
		return DefaultPalette.At(i)
	}
	i %= len(p)
	if i < 0 {
		i += len(p)
	}
	return p[i]
}

// ClampThickness bounds t to the supported stroke widths
func ClampThickness(t int) int {
	if t < MinThickness {
		return MinThickness
	}
	if t > MaxThickness {
		return MaxThickness
	}
	return t
}
