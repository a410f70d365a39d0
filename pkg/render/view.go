package render

import "math"

const (
	DefaultZoom = 50
	MinZoom     = 10
	MaxZoom     = 200
	// ButtonZoomStep and WheelZoomStep are the zoom increments of the two input styles
	ButtonZoomStep = 10
	WheelZoomStep  = 5
	// UnitPixels is the size of one math unit at scale 1
	UnitPixels = 50
)

// ViewState is everything about the camera that survives between frames
type ViewState struct {
	PanX     float64 `json:"panX"`
	PanY     float64 `json:"panY"`
	Zoom     float64 `json:"zoom"`
	ShowGrid bool    `json:"showGrid"`
}

func DefaultView() ViewState {
	return ViewState{Zoom: DefaultZoom, ShowGrid: true}
}

// Scale is the zoom factor, 1 at zoom 10 and 5 at the default zoom of 50
func (v ViewState) Scale() float64 {
	return v.Zoom / 10
}

// ZoomBy returns the view zoomed by delta with the result clamped to [lo, hi]
func (v ViewState) ZoomBy(delta, lo, hi float64) ViewState {
	v.Zoom = math.Max(lo, math.Min(hi, v.Zoom+delta))
	return v
}

// PanBy returns the view shifted by a screen space delta
func (v ViewState) PanBy(dx, dy float64) ViewState {
	v.PanX += dx
	v.PanY += dy
	return v
}

// Reset centres the origin and restores the default zoom, grid visibility is kept
func (v ViewState) Reset() ViewState {
	v.PanX, v.PanY = 0, 0
	v.Zoom = DefaultZoom
	return v
}

// Transform maps math coordinates to a particular canvas
type Transform struct {
	Width, Height int
	// OriginX and OriginY are the screen position of math (0, 0)
	OriginX, OriginY float64
	// PixelsPerUnit is unit pixels times the view scale
	PixelsPerUnit float64
}

// Transform binds the view to a canvas size
func (v ViewState) Transform(width, height int, unit float64) Transform {
	if unit <= 0 {
		unit = UnitPixels
	}
	return Transform{
		Width:         width,
		Height:        height,
		OriginX:       float64(width)/2 + v.PanX,
		OriginY:       float64(height)/2 + v.PanY,
		PixelsPerUnit: unit * v.Scale(),
	}
}

// ToScreen is screenX = mathX*ppu + centerX + panX, screenY = centerY + panY - mathY*ppu
func (t Transform) ToScreen(mx, my float64) (float64, float64) {
	return t.OriginX + mx*t.PixelsPerUnit, t.OriginY - my*t.PixelsPerUnit
}

// ToMath inverts ToScreen
func (t Transform) ToMath(sx, sy float64) (float64, float64) {
	return (sx - t.OriginX) / t.PixelsPerUnit, (t.OriginY - sy) / t.PixelsPerUnit
}

// Drag turns a stream of pointer positions into pan deltas
type Drag struct {
	active       bool
	lastX, lastY float64
}

// Begin starts a drag at the pointer position
func (d *Drag) Begin(x, y float64) {
	d.active = true
	d.lastX, d.lastY = x, y
}

// Move returns the movement since the previous position, ok is false when no drag is active
func (d *Drag) Move(x, y float64) (dx, dy float64, ok bool) {
	if !d.active {
		return 0, 0, false
	}
	dx, dy = x-d.lastX, y-d.lastY
	d.lastX, d.lastY = x, y
	return dx, dy, true
}

func (d *Drag) End() {
	d.active = false
}

func (d *Drag) Active() bool {
	return d.active
}
