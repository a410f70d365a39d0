package graph

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("obj-%d", n)
	}
}

func TestPaletteCycles(t *testing.T) {
	assert.Equal(t, "#8b5cf6", DefaultPalette.At(0))
	assert.Equal(t, "#ef4444", DefaultPalette.At(5))
	assert.Equal(t, "#8b5cf6", DefaultPalette.At(6))
	assert.Equal(t, "#ec4899", DefaultPalette.At(7))
	assert.Equal(t, "#ef4444", DefaultPalette.At(-1))
	assert.Equal(t, "#8b5cf6", Palette(nil).At(0))
}

func TestKindJSON(t *testing.T) {
	b, err := json.Marshal(GraphObject{ID: "a", Kind: Parametric, Visible: true, Thickness: 2})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"parametric"`)

	var o GraphObject
	require.NoError(t, json.Unmarshal([]byte(`{"id":"b","type":"point"}`), &o))
	assert.Equal(t, Point, o.Kind)

	assert.Error(t, json.Unmarshal([]byte(`{"type":"blob"}`), &o))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Point, Classify("(3, 4)"))
	assert.Equal(t, Point, Classify("(-1.5,.5)"))
	assert.Equal(t, Point, Classify("(+3, 4)"))
	assert.Equal(t, Parametric, Classify("x(t) = cos(t)\ny(t) = sin(t)"))
	assert.Equal(t, Function, Classify("tan(x)"))
	assert.Equal(t, Function, Classify("y = t + x"))
}

func TestSceneAddEquation(t *testing.T) {
	s := NewScene(nil)
	s.newID = sequentialIDs()

	o, err := s.AddEquation("x^2")
	require.NoError(t, err)
	assert.Equal(t, "obj-1", o.ID)
	assert.Equal(t, Function, o.Kind)
	assert.Equal(t, "y = x^2", o.Equation)
	assert.Equal(t, "#8b5cf6", o.Color)
	assert.True(t, o.Visible)
	assert.Equal(t, 2, o.Thickness)

	o, err = s.AddEquation("(1, 2)")
	require.NoError(t, err)
	assert.Equal(t, Point, o.Kind)
	assert.Equal(t, "#ec4899", o.Color)

	_, err = s.AddEquation("   ")
	assert.Error(t, err)
	assert.Equal(t, 2, s.Len())
}

func TestSceneEdits(t *testing.T) {
	s := NewScene(DefaultPalette)
	s.newID = sequentialIDs()
	a, _ := s.AddEquation("y = x")
	b, _ := s.AddEquation("y = 2*x")

	visible, err := s.ToggleVisibility(a.ID)
	require.NoError(t, err)
	assert.False(t, visible)
	assert.Equal(t, []*GraphObject{b}, s.Visible())

	require.NoError(t, s.SetColor(b.ID, "orange"))
	assert.Equal(t, "orange", b.Color)

	th, err := s.SetThickness(b.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, 5, th)
	th, _ = s.SetThickness(b.ID, 0)
	assert.Equal(t, 1, th)

	require.NoError(t, s.Remove(a.ID))
	assert.ErrorIs(t, s.Remove(a.ID), ErrNotFound)
	_, err = s.ToggleVisibility("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestSceneImportSkipsDuplicates(t *testing.T) {
	s := NewScene(nil)
	objs := []*GraphObject{
		{ID: "1", Kind: Point, Equation: "(0, 0)", Visible: true},
		{ID: "2", Kind: Point, Equation: "(1, 1)", Visible: true},
	}
	assert.Equal(t, 2, s.Import(objs))
	assert.Equal(t, 0, s.Import(objs[:1]))
	assert.Equal(t, 1, s.Import([]*GraphObject{nil, {ID: "3"}}))
	assert.Equal(t, 3, s.Len())
}
