package processor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func process(t *testing.T, input string) map[string]any {
	t.Helper()
	out, err := ProcessRequest([]byte(input))
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	return m
}

func TestCalculate(t *testing.T) {
	m := process(t, `{"query": "calculate x^2 + 1 at 3", "requestId": "r1"}`)
	assert.Equal(t, "r1", m["requestId"])
	ctx := m["context"].(map[string]any)
	assert.InDelta(t, 10.0, ctx["result"].(float64), 1e-9)

	m = process(t, "calculate 2 * pi")
	assert.InDelta(t, 6.283185, m["context"].(map[string]any)["result"].(float64), 1e-6)
}

func TestInvalidQueries(t *testing.T) {
	m := process(t, "calculate 2 +* 3")
	assert.Equal(t, "invalid_params", m["error"].(map[string]any)["code"])

	m = process(t, `{"query": `)
	assert.Equal(t, "invalid_request", m["error"].(map[string]any)["code"])
}

func TestParseAndSvg(t *testing.T) {
	m := process(t, "parse f(x) = x; Circle[(0, 0), 1]; nonsense")
	ctx := m["context"].(map[string]any)
	assert.Len(t, ctx["objects"], 2)
	assert.Len(t, ctx["rejected"], 1)

	m = process(t, "svg M 0 0 L 10 10")
	assert.Equal(t, "Segment[(0, 0), (10, 10)]", m["context"].(map[string]any)["commands"])
}

func TestHelpToolsAndFallback(t *testing.T) {
	m := process(t, "help point")
	assert.Contains(t, m["context"].(map[string]any)["text"], "(")

	m = process(t, "tools")
	assert.Contains(t, m["tools"], "plot_graph")

	m = process(t, "what can you do")
	assert.NotEmpty(t, m["suggestions"])
}
