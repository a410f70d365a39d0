package tools

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/richard-senior/edutune/internal/config"
	"github.com/richard-senior/edutune/pkg/geogebra"
	"github.com/richard-senior/edutune/pkg/history"
	"github.com/richard-senior/edutune/pkg/protocol"
	"github.com/richard-senior/edutune/pkg/util"
	"github.com/richard-senior/edutune/pkg/visualizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newToolbox(t *testing.T) *Toolbox {
	t.Helper()
	store, err := history.Open(":memory:", 100)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewToolbox(config.DefaultConfig(), store)
}

func toolResult(t *testing.T, v any) *protocol.ToolResult {
	t.Helper()
	res, ok := v.(*protocol.ToolResult)
	require.True(t, ok, "expected *protocol.ToolResult, got %T", v)
	return res
}

func TestDefinitions(t *testing.T) {
	tb := newToolbox(t)
	var names []string
	for _, d := range tb.Definitions() {
		require.NotNil(t, d.Handler)
		assert.Equal(t, "object", d.Tool.InputSchema.Type)
		names = append(names, d.Tool.Name)
	}
	assert.Equal(t, []string{
		"geogebra_parse", "svg_to_geogebra", "plot_graph", "plot_animation",
		"evaluate_expression", "visualizer", "geogebra_history", "geogebra_help",
	}, names)
}

func TestGeogebraParse(t *testing.T) {
	tb := newToolbox(t)
	out, err := tb.HandleGeogebraParse(map[string]any{
		"commands": "f(x) = x^2\nPolygon[(0, 0), (1, 1)]\nA: (3, 4)",
	})
	require.NoError(t, err)
	m := out.(map[string]any)

	objs := m["objects"].([]*geogebra.MathObject)
	require.Len(t, objs, 2)
	assert.Equal(t, "A", objs[1].Label)

	rejected := m["rejected"].([]geogebra.Rejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, 2, rejected[0].Line)
	assert.Equal(t, "Polygon[(0, 0), (1, 1)]", rejected[0].Command)

	_, err = tb.HandleGeogebraParse(map[string]any{})
	assert.ErrorIs(t, err, util.ErrInvalidParams)
}

func TestSvgToGeogebra(t *testing.T) {
	tb := newToolbox(t)

	out, err := tb.HandleSvgToGeogebra(map[string]any{"path": "M 1 1 h 2"})
	require.NoError(t, err)
	assert.Equal(t, "Segment[(1, 1), (3, 1)]", out.(map[string]any)["commands"])
	assert.Equal(t, 1, out.(map[string]any)["count"])

	out, err = tb.HandleSvgToGeogebra(map[string]any{
		"svg":     `<svg><path d="M0 0 L10 0"/><path d="M0 0 L0 10"/></svg>`,
		"session": "drawing",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.(map[string]any)["count"])
	assert.Equal(t, 2, out.(map[string]any)["added"])
	assert.Len(t, tb.Sessions().Get("drawing").Objects(), 2)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg"><path d="M0 0 L5 5"/></svg>`))
	}))
	defer srv.Close()
	out, err = tb.HandleSvgToGeogebra(map[string]any{"url": srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "Segment[(0, 0), (5, 5)]", out.(map[string]any)["commands"])

	_, err = tb.HandleSvgToGeogebra(map[string]any{})
	assert.ErrorIs(t, err, util.ErrInvalidParams)
	_, err = tb.HandleSvgToGeogebra(map[string]any{"path": "M 0 0 L 1 1", "url": srv.URL})
	assert.ErrorIs(t, err, util.ErrInvalidParams)
}

func TestPlotGraph(t *testing.T) {
	tb := newToolbox(t)

	out, err := tb.HandlePlotGraph(map[string]any{
		"commands":  "f(x) = sin(x)\n(1, 2)",
		"equations": []any{"x^2"},
		"width":     float64(200),
		"height":    float64(100),
	})
	require.NoError(t, err)
	res := toolResult(t, out)
	require.Len(t, res.Content, 2)
	assert.Equal(t, "text", res.Content[0].Type)
	assert.Equal(t, "image", res.Content[1].Type)
	assert.Equal(t, "image/png", res.Content[1].MimeType)
	png, err := base64.StdEncoding.DecodeString(res.Content[1].Data)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))

	var summary struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].Text), &summary))
	assert.Equal(t, 200, summary.Width)
	assert.Equal(t, 100, summary.Height)

	out, err = tb.HandlePlotGraph(map[string]any{"commands": "Circle[(0, 0), 2]", "format": "svg"})
	require.NoError(t, err)
	res = toolResult(t, out)
	require.Len(t, res.Content, 2)
	assert.Contains(t, res.Content[1].Text, "<svg")

	_, err = tb.HandlePlotGraph(map[string]any{"commands": "nonsense here"})
	assert.ErrorIs(t, err, util.ErrInvalidParams)
	_, err = tb.HandlePlotGraph(map[string]any{"commands": "f(x) = x", "format": "gif"})
	assert.ErrorIs(t, err, util.ErrInvalidParams)
	_, err = tb.HandlePlotGraph(map[string]any{"commands": "f(x) = x", "zoom": float64(500)})
	assert.ErrorIs(t, err, util.ErrInvalidParams)
}

func TestPlotAnimation(t *testing.T) {
	tb := newToolbox(t)
	out, err := tb.HandlePlotAnimation(map[string]any{
		"commands": "Segment[(0, 0), (3, 3)]",
		"frames":   float64(4),
		"width":    float64(120),
		"height":   float64(80),
	})
	require.NoError(t, err)
	res := toolResult(t, out)
	require.Len(t, res.Content, 2)
	assert.Equal(t, "image/gif", res.Content[1].MimeType)
	gif, err := base64.StdEncoding.DecodeString(res.Content[1].Data)
	require.NoError(t, err)
	assert.Equal(t, "GIF89a", string(gif[:6]))

	_, err = tb.HandlePlotAnimation(map[string]any{"commands": "f(x) = x", "frames": float64(1)})
	assert.ErrorIs(t, err, util.ErrInvalidParams)
}

func TestEvaluateExpression(t *testing.T) {
	out, err := HandleEvaluateExpression(map[string]any{"expression": "y = x^2 + 1", "value": float64(3)})
	require.NoError(t, err)
	m := out.(map[string]any)
	assert.InDelta(t, 10.0, m["result"].(float64), 1e-9)
	assert.Contains(t, m["functions"], "sin")

	out, err = HandleEvaluateExpression(map[string]any{"expression": "sin(t)", "variable": "t", "value": float64(0)})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, out.(map[string]any)["result"].(float64), 1e-9)

	out, err = HandleEvaluateExpression(map[string]any{"expression": "1/x"})
	require.NoError(t, err)
	assert.Equal(t, "division by zero", out.(map[string]any)["error"])

	_, err = HandleEvaluateExpression(map[string]any{"expression": "2 +* 3"})
	assert.ErrorIs(t, err, util.ErrInvalidParams)
	_, err = HandleEvaluateExpression(map[string]any{"expression": "os.exit(1)"})
	assert.ErrorIs(t, err, util.ErrInvalidParams)
}

func TestVisualizerFlow(t *testing.T) {
	tb := newToolbox(t)
	call := func(args map[string]any) any {
		t.Helper()
		out, err := tb.HandleVisualizer(args)
		require.NoError(t, err)
		return out
	}

	res := call(map[string]any{"action": "execute", "commands": "f(x) = x\n(1, 1)"}).(*visualizer.Result)
	require.Len(t, res.Added, 2)
	id := res.Added[0].ID

	assert.Equal(t, false, call(map[string]any{"action": "toggle", "id": id}).(map[string]any)["visible"])
	assert.Equal(t, 5, call(map[string]any{"action": "thickness", "id": id, "thickness": float64(9)}).(map[string]any)["thickness"])
	call(map[string]any{"action": "color", "id": id, "color": "#ff0000"})

	_, err := tb.HandleVisualizer(map[string]any{"action": "color", "id": id, "color": "not a colour"})
	assert.ErrorIs(t, err, util.ErrInvalidParams)

	before := tb.Sessions().Get(visualizer.DefaultSession).View().Zoom
	call(map[string]any{"action": "zoom_in"})
	assert.Greater(t, tb.Sessions().Get(visualizer.DefaultSession).View().Zoom, before)
	call(map[string]any{"action": "reset"})
	assert.Equal(t, before, tb.Sessions().Get(visualizer.DefaultSession).View().Zoom)

	assert.Equal(t, false, call(map[string]any{"action": "grid"}).(map[string]any)["showGrid"])
	assert.Equal(t, 0.5, call(map[string]any{"action": "set_t", "t": 0.5}).(map[string]any)["t"])

	out := toolResult(t, call(map[string]any{"action": "render", "format": "svg"}))
	assert.Contains(t, out.Content[1].Text, "<svg")

	call(map[string]any{"action": "remove", "id": id})
	state := call(map[string]any{"action": "list"}).(visualizer.State)
	assert.Len(t, state.Objects, 1)

	_, err = tb.HandleVisualizer(map[string]any{"action": "remove", "id": "missing"})
	assert.ErrorIs(t, err, util.ErrInvalidParams)
	_, err = tb.HandleVisualizer(map[string]any{"action": "fly"})
	assert.ErrorIs(t, err, util.ErrInvalidParams)

	assert.Equal(t, true, call(map[string]any{"action": "close"}).(map[string]any)["closed"])
}

func TestGeogebraHistory(t *testing.T) {
	tb := newToolbox(t)
	s := tb.Sessions().Get("lesson")
	_, err := s.Execute("f(x) = x", history.Typed)
	require.NoError(t, err)
	_, err = s.Execute("(1, 2)", history.Typed)
	require.NoError(t, err)

	out, err := tb.HandleGeogebraHistory(map[string]any{})
	require.NoError(t, err)
	entries := out.(map[string]any)["entries"].([]map[string]any)
	require.Len(t, entries, 2)
	assert.Equal(t, "(1, 2)", entries[0]["commands"])

	out, err = tb.HandleGeogebraHistory(map[string]any{"action": "export"})
	require.NoError(t, err)
	assert.Equal(t, "f(x) = x\n(1, 2)", toolResult(t, out).Content[0].Text)

	out, err = tb.HandleGeogebraHistory(map[string]any{"action": "clear"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.(map[string]any)["cleared"])

	noStore := NewToolbox(config.DefaultConfig(), nil)
	_, err = noStore.HandleGeogebraHistory(map[string]any{})
	assert.Error(t, err)
}

func TestGeogebraHelp(t *testing.T) {
	out, err := HandleGeogebraHelp(map[string]any{"topic": "circle"})
	require.NoError(t, err)
	text := toolResult(t, out).Content[0].Text
	assert.True(t, strings.Contains(text, "Circle["), text)

	_, err = HandleGeogebraHelp(map[string]any{"topic": "polygon"})
	assert.ErrorIs(t, err, util.ErrInvalidParams)
}
