package tools

import (
	"context"
	"time"

	"github.com/richard-senior/edutune/internal/logger"
	"github.com/richard-senior/edutune/pkg/geogebra"
	"github.com/richard-senior/edutune/pkg/graph"
	"github.com/richard-senior/edutune/pkg/protocol"
	"github.com/richard-senior/edutune/pkg/transport"
	"github.com/richard-senior/edutune/pkg/util"
	"github.com/richard-senior/edutune/pkg/visualizer"
)

func GeogebraParseTool() protocol.Tool {
	return protocol.Tool{
		Name: "geogebra_parse",
		Description: `
		Interprets GeoGebra style commands and returns the drawable objects they describe.
		Supported: f(x) = ..., y = ..., (x, y), Segment[(x1, y1), (x2, y2)], Circle[(x, y), r],
		Curve[x(t), y(t), t, start, end]. Any command may start with a 'label:'.
		Lines that cannot be interpreted are listed with the reason and a suggested template.
		`,
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"commands": {
					Type:        "string",
					Description: "Commands separated by newlines or ';'",
				},
			},
			Required: []string{"commands"},
		},
	}
}

func (tb *Toolbox) HandleGeogebraParse(params any) (any, error) {
	logger.Info("Handling geogebra_parse tool invocation")
	p, err := util.AsParams(params)
	if err != nil {
		return nil, err
	}
	commands, err := p.RequiredString("commands")
	if err != nil {
		return nil, err
	}

	objs, rejected := geogebra.NewInterpreter().ParseManyReport(commands)
	return map[string]any{
		"objects":      objs,
		"graphObjects": geogebra.ToGraphObjects(objs, graph.Palette(tb.cfg.Palette)),
		"rejected":     rejected,
	}, nil
}

func SvgToGeogebraTool() protocol.Tool {
	return protocol.Tool{
		Name: "svg_to_geogebra",
		Description: `
		Converts SVG path geometry into GeoGebra commands: straight pieces become Segment[...] and
		quadratic or cubic Beziers become Curve[..., t, 0, 1]. Arcs and smooth curve shorthands are skipped.
		Pass exactly one of svg (a whole document), path (one d attribute) or url (an SVG to download).
		`,
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"svg":  {Type: "string", Description: "An SVG document"},
				"path": {Type: "string", Description: "Path data such as 'M 0 0 L 10 10 Q 20 0 30 10'"},
				"url":  {Type: "string", Description: "http(s) URL of an SVG file"},
				"session": {
					Type:        "string",
					Description: "If set, the commands are also executed in this visualizer session",
				},
			},
			Required: []string{},
		},
	}
}

func (tb *Toolbox) HandleSvgToGeogebra(params any) (any, error) {
	logger.Info("Handling svg_to_geogebra tool invocation")
	p, err := util.AsParams(params)
	if err != nil {
		return nil, err
	}

	var source string
	given := 0
	for _, key := range []string{"svg", "path", "url"} {
		if p.String(key, "") != "" {
			given++
		}
	}
	if given != 1 {
		return nil, util.Invalid("pass exactly one of svg, path or url")
	}

	switch {
	case p.String("svg", "") != "":
		source = p.String("svg", "")
	case p.String("path", "") != "":
		source = p.String("path", "")
	default:
		data, err := transport.FetchSVG(context.Background(), p.String("url", ""), transport.FetchOptions{
			Timeout:  time.Duration(tb.cfg.HTTPTimeoutSeconds) * time.Second,
			MaxBytes: tb.cfg.MaxSVGBytes,
		})
		if err != nil {
			return nil, err
		}
		source = string(data)
	}

	commands, err := visualizer.SVGCommands(source)
	if err != nil {
		return nil, err
	}
	result := map[string]any{
		"commands": geogebra.JoinCommands(commands),
		"count":    len(commands),
	}

	if name := p.String("session", ""); name != "" && len(commands) > 0 {
		res, err := tb.sessions.Get(name).ImportSVG(source)
		if err != nil {
			return nil, err
		}
		result["added"] = len(res.Added)
	}
	return result, nil
}
