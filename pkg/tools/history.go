package tools

import (
	"fmt"

	"github.com/richard-senior/edutune/internal/logger"
	"github.com/richard-senior/edutune/pkg/protocol"
	"github.com/richard-senior/edutune/pkg/util"
)

func GeogebraHistoryTool() protocol.Tool {
	return protocol.Tool{
		Name: "geogebra_history",
		Description: `
		Lists, clears or exports the GeoGebra commands executed in visualizer sessions.
		'export' returns every recorded command, oldest first, one per line, ready to save as geogebra_commands.txt.
		`,
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"action": {
					Type:        "string",
					Description: "list (default), clear or export",
					Enum:        []string{"list", "clear", "export"},
				},
				"limit": {Type: "integer", Description: "Maximum entries for list (default 20)"},
			},
			Required: []string{},
		},
	}
}

func (tb *Toolbox) HandleGeogebraHistory(params any) (any, error) {
	logger.Info("Handling geogebra_history tool invocation")
	if tb.history == nil {
		return nil, fmt.Errorf("command history is not available")
	}
	p, err := util.AsParams(params)
	if err != nil {
		return nil, err
	}

	switch action := p.String("action", "list"); action {
	case "list":
		limit, err := p.Int("limit", 20)
		if err != nil {
			return nil, err
		}
		entries, err := tb.history.List(limit)
		if err != nil {
			return nil, err
		}
		out := make([]map[string]any, 0, len(entries))
		for _, e := range entries {
			out = append(out, map[string]any{
				"id":       e.ID,
				"commands": e.Commands,
				"source":   e.Source,
				"accepted": e.Accepted,
				"rejected": e.Rejected,
				"age":      e.Age(),
			})
		}
		return map[string]any{"entries": out}, nil
	case "clear":
		n, err := tb.history.Clear()
		if err != nil {
			return nil, err
		}
		return map[string]any{"cleared": n}, nil
	case "export":
		text, err := tb.history.Export()
		if err != nil {
			return nil, err
		}
		return &protocol.ToolResult{Content: []protocol.Content{protocol.TextContent(text)}}, nil
	default:
		return nil, util.Invalid("unknown action %q", action)
	}
}
