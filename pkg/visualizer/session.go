package visualizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/richard-senior/edutune/internal/config"
	"github.com/richard-senior/edutune/internal/logger"
	"github.com/richard-senior/edutune/pkg/geogebra"
	"github.com/richard-senior/edutune/pkg/graph"
	"github.com/richard-senior/edutune/pkg/history"
	"github.com/richard-senior/edutune/pkg/render"
	"github.com/richard-senior/edutune/pkg/svgpath"
)

// Format of a rendered frame
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
	GIF Format = "gif"
)

// MimeType is the content type of the encoded frame
func (f Format) MimeType() string {
	switch f {
	case SVG:
		return "image/svg+xml"
	case GIF:
		return "image/gif"
	default:
		return "image/png"
	}
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return PNG, nil
	case PNG, SVG, GIF:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q, use png, svg or gif", s)
	}
}

// Session is one visualizer: a scene, a view, an animation cursor and the
// command history it records into. All methods are safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	cfg       *config.AppConfig
	scene     *graph.Scene
	palette   graph.Palette
	view      render.ViewState
	drag      render.Drag
	t         float64
	animating bool
	animator  *render.Animator
	interp    *geogebra.Interpreter
	renderer  *render.Renderer
	history   *history.Store
	width     int
	height    int
}

// NewSession builds a session from cfg. store may be nil, then nothing is recorded.
func NewSession(cfg *config.AppConfig, store *history.Store) *Session {
	if cfg == nil {
		cfg = config.Config
	}
	palette := graph.Palette(cfg.Palette)
	return &Session{
		cfg:      cfg,
		scene:    graph.NewScene(palette),
		palette:  palette,
		view:     defaultView(cfg),
		animator: render.NewAnimator(cfg.AnimationStep, render.Loop),
		interp:   geogebra.NewInterpreter(),
		renderer: NewRenderer(cfg),
		history:  store,
		width:    cfg.CanvasWidth,
		height:   cfg.CanvasHeight,
	}
}

// NewRenderer maps the drawing settings of cfg onto render options
func NewRenderer(cfg *config.AppConfig) *render.Renderer {
	opts := render.DefaultOptions()
	opts.UnitPixels = cfg.UnitPixels
	opts.ParametricSteps = cfg.ParametricSteps
	opts.PointRadius = cfg.PointRadius
	opts.GridColor = cfg.GridColor
	opts.AxesColor = cfg.AxesColor
	opts.Background = cfg.Background
	opts.LabelColor = cfg.LabelColor
	return render.NewRenderer(opts)
}

func defaultView(cfg *config.AppConfig) render.ViewState {
	v := render.DefaultView()
	v.Zoom = cfg.DefaultZoom
	return v
}

// Result reports what a batch of commands did to the scene
type Result struct {
	Added    []*graph.GraphObject `json:"added"`
	Rejected []geogebra.Rejected  `json:"rejected,omitempty"`
	Commands []string             `json:"commands,omitempty"`
}

// Execute interprets a batch of commands and adds what parses to the scene
func (s *Session) Execute(commands string, source history.Source) (*Result, error) {
	if strings.TrimSpace(commands) == "" {
		return nil, fmt.Errorf("no commands to execute")
	}
	objs, rejected := s.interp.ParseManyReport(commands)

	s.mu.Lock()
	defer s.mu.Unlock()
	added := geogebra.ToGraphObjects(objs, s.palette)
	s.scene.Import(added)
	logger.Info("Executed commands:", len(added), "added,", len(rejected), "rejected")

	if s.history != nil && len(added) > 0 {
		if _, err := s.history.Add(commands, source, len(added), len(rejected)); err != nil {
			logger.Warn("Failed to record history", err)
		}
	}
	return &Result{Added: added, Rejected: rejected}, nil
}

// ImportSVG converts an SVG document or bare path data into commands and executes them
func (s *Session) ImportSVG(svg string) (*Result, error) {
	commands, err := SVGCommands(svg)
	if err != nil {
		return nil, err
	}
	if len(commands) == 0 {
		return nil, fmt.Errorf("no drawable path segments found")
	}
	res, err := s.Execute(geogebra.JoinCommands(commands), history.SVG)
	if err != nil {
		return nil, err
	}
	res.Commands = commands
	return res, nil
}

// SVGCommands accepts either a whole SVG document or one path's d attribute
func SVGCommands(svg string) ([]string, error) {
	if svgpath.IsDocument(svg) {
		return geogebra.SvgToCommands(svg)
	}
	return geogebra.PathToCommands(svg), nil
}

func (s *Session) AddEquation(equation string) (*graph.GraphObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene.AddEquation(equation)
}

func (s *Session) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene.Remove(id)
}

func (s *Session) ToggleVisibility(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene.ToggleVisibility(id)
}

// SetColor accepts any colour the renderer can paint
func (s *Session) SetColor(id, color string) error {
	if _, err := render.ParseColor(color); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene.SetColor(id, color)
}

func (s *Session) SetThickness(id string, thickness int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene.SetThickness(id, thickness)
}

// Clear empties the scene and stops the animation
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scene.Clear()
	s.animating = false
	s.t = 0
}

func (s *Session) Objects() []*graph.GraphObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene.Objects()
}

func (s *Session) View() render.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Session) Zoom(delta float64) render.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = s.view.ZoomBy(delta, s.cfg.MinZoom, s.cfg.MaxZoom)
	return s.view
}

func (s *Session) ZoomIn() render.ViewState  { return s.Zoom(render.ButtonZoomStep) }
func (s *Session) ZoomOut() render.ViewState { return s.Zoom(-render.ButtonZoomStep) }

// Wheel zooms out for a positive deltaY (scrolling down) and in otherwise
func (s *Session) Wheel(deltaY float64) render.ViewState {
	if deltaY > 0 {
		return s.Zoom(-render.WheelZoomStep)
	}
	return s.Zoom(render.WheelZoomStep)
}

func (s *Session) Pan(dx, dy float64) render.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = s.view.PanBy(dx, dy)
	return s.view
}

// DragTo pans by the distance between (fromX, fromY) and (toX, toY) in screen pixels
func (s *Session) DragTo(fromX, fromY, toX, toY float64) render.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag.Begin(fromX, fromY)
	if dx, dy, ok := s.drag.Move(toX, toY); ok {
		s.view = s.view.PanBy(dx, dy)
	}
	s.drag.End()
	return s.view
}

// ResetView restores pan and zoom, the grid setting is kept
func (s *Session) ResetView() render.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = s.view.Reset()
	s.view.Zoom = s.cfg.DefaultZoom
	return s.view
}

func (s *Session) ToggleGrid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.ShowGrid = !s.view.ShowGrid
	return s.view.ShowGrid
}

func (s *Session) ToggleAnimation() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.animating = !s.animating
	return s.animating
}

// Tick advances the cursor one frame while animating and returns the parameter
func (s *Session) Tick() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.animating {
		s.t, _ = s.animator.Advance(s.t)
	}
	return s.t
}

// SetParameter places the cursor directly, clamped to [0, 1]
func (s *Session) SetParameter(t float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t = min(1, max(0, t))
	return s.t
}

// State is a snapshot of the session for clients
type State struct {
	Objects   []*graph.GraphObject `json:"objects"`
	View      render.ViewState     `json:"view"`
	Parameter float64              `json:"t"`
	Animating bool                 `json:"animating"`
	Width     int                  `json:"width"`
	Height    int                  `json:"height"`
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Objects:   s.scene.Objects(),
		View:      s.view,
		Parameter: s.t,
		Animating: s.animating,
		Width:     s.width,
		Height:    s.height,
	}
}

// Resize changes the canvas size used by Render
func (s *Session) Resize(width, height int) error {
	if width < 1 || height < 1 || width > 4096 || height > 4096 {
		return fmt.Errorf("canvas size %dx%d out of range", width, height)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
	return nil
}

// Render draws the current frame
func (s *Session) Render(format Format) ([]byte, render.Stats, error) {
	s.mu.Lock()
	objs, view, t, w, h := s.scene.Objects(), s.view, s.t, s.width, s.height
	s.mu.Unlock()

	switch format {
	case SVG:
		data, stats := s.renderer.RenderSVG(objs, view, w, h, t)
		return data, stats, nil
	case GIF:
		data, err := s.renderer.RenderGIF(objs, view, w, h, s.animator.Frames(t, s.cfg.AnimationFPS), 100/max(1, s.cfg.AnimationFPS))
		return data, render.Stats{Drawn: len(objs)}, err
	default:
		return s.renderer.RenderPNG(objs, view, w, h, t)
	}
}

// Animate drives the cursor at the configured frame rate, calling frame each tick,
// until ctx is done or frame fails. The animation flag is on while it runs.
func (s *Session) Animate(ctx context.Context, frame func(t float64) error) error {
	s.mu.Lock()
	s.animating = true
	start := s.t
	fps := max(1, s.cfg.AnimationFPS)
	s.mu.Unlock()

	last, err := s.animator.Run(ctx, time.Second/time.Duration(fps), start, func(t float64) error {
		s.mu.Lock()
		s.t = t
		s.mu.Unlock()
		return frame(t)
	})

	s.mu.Lock()
	s.t = last
	s.animating = false
	s.mu.Unlock()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
