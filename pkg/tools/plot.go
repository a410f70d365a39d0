package tools

import (
	"strings"

	"github.com/richard-senior/edutune/internal/logger"
	"github.com/richard-senior/edutune/pkg/protocol"
	"github.com/richard-senior/edutune/pkg/render"
	"github.com/richard-senior/edutune/pkg/util"
	"github.com/richard-senior/edutune/pkg/visualizer"
)

var plotProperties = map[string]protocol.ToolProperty{
	"commands": {
		Type:        "string",
		Description: "GeoGebra commands, one per line or separated by ';'. e.g. f(x) = x^2\\nSegment[(0, 0), (1, 1)]",
	},
	"equations": {
		Type:        "array",
		Description: "Plain equations such as 'sin(x)', '(1, 2)' or a parametric 'x(t) = ...\\ny(t) = ...'",
		Items:       &protocol.ToolProperty{Type: "string"},
	},
	"width":    {Type: "integer", Description: "Canvas width in pixels (default 800)"},
	"height":   {Type: "integer", Description: "Canvas height in pixels (default 400)"},
	"zoom":     {Type: "number", Description: "Zoom between 10 and 200, one unit is zoom*5 pixels (default 50)"},
	"panX":     {Type: "number", Description: "Horizontal pan in pixels"},
	"panY":     {Type: "number", Description: "Vertical pan in pixels, positive moves the origin down"},
	"showGrid": {Type: "boolean", Description: "Draw the unit grid (default true)"},
}

func withProperties(extra map[string]protocol.ToolProperty) map[string]protocol.ToolProperty {
	out := make(map[string]protocol.ToolProperty, len(plotProperties)+len(extra))
	for k, v := range plotProperties {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func PlotGraphTool() protocol.Tool {
	return protocol.Tool{
		Name: "plot_graph",
		Description: `
		Draws functions, parametric curves, points, segments and circles on a dark cartesian canvas
		with a grid and axes and returns the picture.
		Use this when the user wants to see a graph of an equation or of GeoGebra commands.
		Anything that cannot be parsed or evaluated is skipped and reported, the rest is still drawn.
		`,
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: withProperties(map[string]protocol.ToolProperty{
				"format": {Type: "string", Description: "png (default) or svg", Enum: []string{"png", "svg"}},
				"t":      {Type: "number", Description: "Where to place the cursor on parametric curves, 0 to 1"},
			}),
			Required: []string{},
		},
	}
}

func (tb *Toolbox) HandlePlotGraph(params any) (any, error) {
	logger.Info("Handling plot_graph tool invocation")
	p, err := util.AsParams(params)
	if err != nil {
		return nil, err
	}
	format, err := visualizer.ParseFormat(p.String("format", "png"))
	if err != nil || format == visualizer.GIF {
		return nil, util.Invalid("format must be png or svg")
	}
	t, err := p.Float("t", 0)
	if err != nil {
		return nil, err
	}
	t = min(1, max(0, t))
	view, err := viewFromParams(p, tb.cfg)
	if err != nil {
		return nil, err
	}
	w, h, err := sizeFromParams(p, tb.cfg)
	if err != nil {
		return nil, err
	}
	objs, warnings, err := sceneFromParams(p, tb.cfg)
	if err != nil {
		return nil, withWarnings(err, warnings)
	}

	renderer := visualizer.NewRenderer(tb.cfg)
	var data []byte
	var stats render.Stats
	if format == visualizer.SVG {
		data, stats = renderer.RenderSVG(objs, view, w, h, t)
	} else if data, stats, err = renderer.RenderPNG(objs, view, w, h, t); err != nil {
		return nil, err
	}
	return imageResult(data, format, map[string]any{
		"objects":  objs,
		"stats":    stats,
		"warnings": warnings,
		"width":    w,
		"height":   h,
	})
}

func PlotAnimationTool() protocol.Tool {
	return protocol.Tool{
		Name: "plot_animation",
		Description: `
		Like plot_graph, but returns an animated GIF in which a dot travels along every parametric curve
		(including segments and circles) from the start of its domain to the end.
		`,
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: withProperties(map[string]protocol.ToolProperty{
				"frames": {Type: "integer", Description: "Number of frames, 2 to 200 (default 40)"},
				"delay":  {Type: "integer", Description: "Delay between frames in hundredths of a second (default 5)"},
			}),
			Required: []string{},
		},
	}
}

func (tb *Toolbox) HandlePlotAnimation(params any) (any, error) {
	logger.Info("Handling plot_animation tool invocation")
	p, err := util.AsParams(params)
	if err != nil {
		return nil, err
	}
	frames, err := p.Int("frames", 40)
	if err != nil {
		return nil, err
	}
	if frames < 2 || frames > 200 {
		return nil, util.Invalid("frames must be between 2 and 200")
	}
	delay, err := p.Int("delay", 5)
	if err != nil {
		return nil, err
	}
	view, err := viewFromParams(p, tb.cfg)
	if err != nil {
		return nil, err
	}
	w, h, err := sizeFromParams(p, tb.cfg)
	if err != nil {
		return nil, err
	}
	objs, warnings, err := sceneFromParams(p, tb.cfg)
	if err != nil {
		return nil, withWarnings(err, warnings)
	}

	// spread the frames over one full pass of the cursor
	anim := render.NewAnimator(1/float64(frames-1), render.Once)
	data, err := visualizer.NewRenderer(tb.cfg).RenderGIF(objs, view, w, h, anim.Frames(0, frames), max(1, delay))
	if err != nil {
		return nil, err
	}
	return imageResult(data, visualizer.GIF, map[string]any{
		"objects":  objs,
		"frames":   frames,
		"warnings": warnings,
	})
}

func withWarnings(err error, warnings []string) error {
	if len(warnings) == 0 {
		return err
	}
	return util.Invalid("%v (%s)", err, strings.Join(warnings, "; "))
}
