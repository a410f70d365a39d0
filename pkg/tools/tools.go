package tools

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/richard-senior/edutune/internal/config"
	"github.com/richard-senior/edutune/pkg/graph"
	"github.com/richard-senior/edutune/pkg/history"
	"github.com/richard-senior/edutune/pkg/protocol"
	"github.com/richard-senior/edutune/pkg/render"
	"github.com/richard-senior/edutune/pkg/util"
	"github.com/richard-senior/edutune/pkg/visualizer"
)

// Definition pairs a tool description with the function that serves it
type Definition struct {
	Tool    protocol.Tool
	Handler func(params any) (any, error)
}

// Toolbox holds what the tool handlers share
type Toolbox struct {
	cfg      *config.AppConfig
	sessions *visualizer.Manager
	history  *history.Store
}

// NewToolbox wires handlers to cfg and store. store may be nil, history tools then fail.
func NewToolbox(cfg *config.AppConfig, store *history.Store) *Toolbox {
	if cfg == nil {
		cfg = config.Config
	}
	return &Toolbox{cfg: cfg, sessions: visualizer.NewManager(cfg, store), history: store}
}

func (tb *Toolbox) Sessions() *visualizer.Manager {
	return tb.sessions
}

// Definitions lists every tool with unprefixed names, in registration order
func (tb *Toolbox) Definitions() []Definition {
	return []Definition{
		{GeogebraParseTool(), tb.HandleGeogebraParse},
		{SvgToGeogebraTool(), tb.HandleSvgToGeogebra},
		{PlotGraphTool(), tb.HandlePlotGraph},
		{PlotAnimationTool(), tb.HandlePlotAnimation},
		{EvaluateExpressionTool(), HandleEvaluateExpression},
		{VisualizerTool(), tb.HandleVisualizer},
		{GeogebraHistoryTool(), tb.HandleGeogebraHistory},
		{GeogebraHelpTool(), HandleGeogebraHelp},
	}
}

// textResult marshals v as indented JSON into a single text block
func textResult(v any) (*protocol.ToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &protocol.ToolResult{Content: []protocol.Content{protocol.TextContent(string(b))}}, nil
}

// imageResult returns an encoded frame plus a JSON summary. SVG is returned as text.
func imageResult(data []byte, format visualizer.Format, summary any) (*protocol.ToolResult, error) {
	res, err := textResult(summary)
	if err != nil {
		return nil, err
	}
	if format == visualizer.SVG {
		res.Content = append(res.Content, protocol.TextContent(string(data)))
		return res, nil
	}
	res.Content = append(res.Content, protocol.ImageContent(base64.StdEncoding.EncodeToString(data), format.MimeType()))
	return res, nil
}

// viewFromParams reads the optional view arguments shared by the plot tools
func viewFromParams(p util.Params, cfg *config.AppConfig) (render.ViewState, error) {
	view := render.DefaultView()
	view.Zoom = cfg.DefaultZoom
	var err error
	if view.Zoom, err = p.Float("zoom", view.Zoom); err != nil {
		return view, err
	}
	if view.Zoom < cfg.MinZoom || view.Zoom > cfg.MaxZoom {
		return view, util.Invalid("zoom must be between %v and %v", cfg.MinZoom, cfg.MaxZoom)
	}
	if view.PanX, err = p.Float("panX", 0); err != nil {
		return view, err
	}
	if view.PanY, err = p.Float("panY", 0); err != nil {
		return view, err
	}
	if view.ShowGrid, err = p.Bool("showGrid", true); err != nil {
		return view, err
	}
	return view, nil
}

func sizeFromParams(p util.Params, cfg *config.AppConfig) (int, int, error) {
	w, err := p.Int("width", cfg.CanvasWidth)
	if err != nil {
		return 0, 0, err
	}
	h, err := p.Int("height", cfg.CanvasHeight)
	if err != nil {
		return 0, 0, err
	}
	if w < 1 || h < 1 || w > 4096 || h > 4096 {
		return 0, 0, util.Invalid("canvas size %dx%d out of range", w, h)
	}
	return w, h, nil
}

// sceneFromParams builds the objects to draw from "commands" and "equations"
func sceneFromParams(p util.Params, cfg *config.AppConfig) ([]*graph.GraphObject, []string, error) {
	session := visualizer.NewSession(cfg, nil)
	var warnings []string

	if commands := p.String("commands", ""); commands != "" {
		res, err := session.Execute(commands, history.Typed)
		if err != nil {
			return nil, nil, err
		}
		for _, r := range res.Rejected {
			warnings = append(warnings, fmt.Sprintf("line %d %q: %s", r.Line, r.Command, r.Reason))
		}
	}
	equations, err := p.Strings("equations")
	if err != nil {
		return nil, nil, err
	}
	for _, eq := range equations {
		if _, err := session.AddEquation(eq); err != nil {
			warnings = append(warnings, fmt.Sprintf("equation %q: %v", eq, err))
		}
	}
	objs := session.Objects()
	if len(objs) == 0 {
		return nil, warnings, util.Invalid("nothing to plot, pass commands or equations")
	}
	return objs, warnings, nil
}
