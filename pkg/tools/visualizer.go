package tools

import (
	"github.com/richard-senior/edutune/internal/logger"
	"github.com/richard-senior/edutune/pkg/history"
	"github.com/richard-senior/edutune/pkg/protocol"
	"github.com/richard-senior/edutune/pkg/util"
	"github.com/richard-senior/edutune/pkg/visualizer"
)

var visualizerActions = []string{
	"execute", "import_svg", "add", "remove", "toggle", "color", "thickness",
	"zoom_in", "zoom_out", "wheel", "pan", "drag", "reset", "grid",
	"animate", "tick", "set_t", "resize", "clear", "list", "render", "close",
}

func VisualizerTool() protocol.Tool {
	return protocol.Tool{
		Name: "visualizer",
		Description: `
		A stateful graphing canvas. Each session keeps its objects, pan, zoom, grid and animation cursor
		between calls, so a drawing can be built up step by step and rendered at any point.
		Actions:
		- execute: run GeoGebra commands (commands)
		- import_svg: convert and run SVG paths (svg)
		- add: add one equation (equation); remove, toggle, color (color), thickness (thickness) edit by id
		- zoom_in, zoom_out, wheel (deltaY), pan (dx, dy), drag (fromX, fromY, toX, toY), reset, grid
		- animate toggles the cursor animation, tick advances it one frame, set_t places it (t)
		- resize (width, height), clear, list, render (format png|svg|gif), close
		`,
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"action":    {Type: "string", Description: "What to do", Enum: visualizerActions},
				"session":   {Type: "string", Description: "Session name (default 'default')"},
				"commands":  {Type: "string", Description: "GeoGebra commands for execute"},
				"svg":       {Type: "string", Description: "SVG document or path data for import_svg"},
				"equation":  {Type: "string", Description: "Equation for add"},
				"id":        {Type: "string", Description: "Object id for remove, toggle, color and thickness"},
				"color":     {Type: "string", Description: "CSS colour, e.g. #3b82f6 or orange"},
				"thickness": {Type: "integer", Description: "Stroke width 1 to 5"},
				"deltaY":    {Type: "number", Description: "Wheel delta, positive zooms out"},
				"dx":        {Type: "number"},
				"dy":        {Type: "number"},
				"fromX":     {Type: "number"},
				"fromY":     {Type: "number"},
				"toX":       {Type: "number"},
				"toY":       {Type: "number"},
				"t":         {Type: "number", Description: "Cursor position 0 to 1"},
				"width":     {Type: "integer"},
				"height":    {Type: "integer"},
				"format":    {Type: "string", Enum: []string{"png", "svg", "gif"}},
			},
			Required: []string{"action"},
		},
	}
}

func (tb *Toolbox) HandleVisualizer(params any) (any, error) {
	p, err := util.AsParams(params)
	if err != nil {
		return nil, err
	}
	action, err := p.RequiredString("action")
	if err != nil {
		return nil, err
	}
	name := p.String("session", visualizer.DefaultSession)
	logger.Info("Handling visualizer tool invocation:", action, "on", name)
	s := tb.sessions.Get(name)

	switch action {
	case "execute":
		commands, err := p.RequiredString("commands")
		if err != nil {
			return nil, err
		}
		return s.Execute(commands, history.Typed)
	case "import_svg":
		svg, err := p.RequiredString("svg")
		if err != nil {
			return nil, err
		}
		res, err := s.ImportSVG(svg)
		if err != nil {
			return nil, util.Invalid("%v", err)
		}
		return res, nil
	case "add":
		eq, err := p.RequiredString("equation")
		if err != nil {
			return nil, err
		}
		return s.AddEquation(eq)
	case "remove", "toggle", "color", "thickness":
		return tb.editObject(s, action, p)
	case "zoom_in":
		return s.ZoomIn(), nil
	case "zoom_out":
		return s.ZoomOut(), nil
	case "wheel":
		dy, err := p.Float("deltaY", 0)
		if err != nil {
			return nil, err
		}
		return s.Wheel(dy), nil
	case "pan":
		dx, err := p.Float("dx", 0)
		if err != nil {
			return nil, err
		}
		dy, err := p.Float("dy", 0)
		if err != nil {
			return nil, err
		}
		return s.Pan(dx, dy), nil
	case "drag":
		var pts [4]float64
		for i, key := range []string{"fromX", "fromY", "toX", "toY"} {
			if pts[i], err = p.Float(key, 0); err != nil {
				return nil, err
			}
		}
		return s.DragTo(pts[0], pts[1], pts[2], pts[3]), nil
	case "reset":
		return s.ResetView(), nil
	case "grid":
		return map[string]any{"showGrid": s.ToggleGrid()}, nil
	case "animate":
		return map[string]any{"animating": s.ToggleAnimation()}, nil
	case "tick":
		return map[string]any{"t": s.Tick()}, nil
	case "set_t":
		t, err := p.Float("t", 0)
		if err != nil {
			return nil, err
		}
		return map[string]any{"t": s.SetParameter(t)}, nil
	case "resize":
		st := s.State()
		w, err := p.Int("width", st.Width)
		if err != nil {
			return nil, err
		}
		h, err := p.Int("height", st.Height)
		if err != nil {
			return nil, err
		}
		if err := s.Resize(w, h); err != nil {
			return nil, util.Invalid("%v", err)
		}
		return s.State(), nil
	case "clear":
		s.Clear()
		return s.State(), nil
	case "list":
		return s.State(), nil
	case "render":
		format, err := visualizer.ParseFormat(p.String("format", "png"))
		if err != nil {
			return nil, util.Invalid("%v", err)
		}
		data, stats, err := s.Render(format)
		if err != nil {
			return nil, err
		}
		return imageResult(data, format, map[string]any{"stats": stats, "state": s.State()})
	case "close":
		return map[string]any{"closed": tb.sessions.Drop(name)}, nil
	default:
		return nil, util.Invalid("unknown action %q", action)
	}
}

func (tb *Toolbox) editObject(s *visualizer.Session, action string, p util.Params) (any, error) {
	id, err := p.RequiredString("id")
	if err != nil {
		return nil, err
	}
	switch action {
	case "remove":
		if err := s.Remove(id); err != nil {
			return nil, util.Invalid("%v", err)
		}
		return map[string]any{"removed": id}, nil
	case "toggle":
		visible, err := s.ToggleVisibility(id)
		if err != nil {
			return nil, util.Invalid("%v", err)
		}
		return map[string]any{"id": id, "visible": visible}, nil
	case "color":
		color, err := p.RequiredString("color")
		if err != nil {
			return nil, err
		}
		if err := s.SetColor(id, color); err != nil {
			return nil, util.Invalid("%v", err)
		}
		return map[string]any{"id": id, "color": color}, nil
	default:
		thickness, err := p.Int("thickness", 2)
		if err != nil {
			return nil, err
		}
		got, err := s.SetThickness(id, thickness)
		if err != nil {
			return nil, util.Invalid("%v", err)
		}
		return map[string]any{"id": id, "thickness": got}, nil
	}
}
