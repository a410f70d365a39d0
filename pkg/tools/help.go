package tools

import (
	"strings"

	"github.com/richard-senior/edutune/internal/logger"
	"github.com/richard-senior/edutune/pkg/help"
	"github.com/richard-senior/edutune/pkg/protocol"
	"github.com/richard-senior/edutune/pkg/util"
)

func GeogebraHelpTool() protocol.Tool {
	return protocol.Tool{
		Name:        "geogebra_help",
		Description: "Returns the GeoGebra command reference as Markdown, or the entry for one command",
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"topic": {
					Type:        "string",
					Description: "Optional command name: " + strings.Join(help.Topics(), ", "),
				},
			},
			Required: []string{},
		},
	}
}

func HandleGeogebraHelp(params any) (any, error) {
	logger.Info("Handling geogebra_help tool invocation")
	p, err := util.AsParams(params)
	if err != nil {
		return nil, err
	}
	md, err := help.Topic(p.String("topic", ""))
	if err != nil {
		return nil, util.Invalid("%v", err)
	}
	return &protocol.ToolResult{Content: []protocol.Content{protocol.TextContent(md)}}, nil
}
