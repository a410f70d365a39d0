package render

// Surface is the drawing target of the renderer, shaped after a 2D canvas context.
// Colours are CSS strings; each surface decides how to interpret them.
type Surface interface {
	Size() (width, height int)
	Clear(background string)
	SetStroke(color string, width float64)
	SetFill(color string)
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	// Stroke draws the path built since BeginPath with the current stroke
	Stroke()
	FillCircle(x, y, r float64)
	// Text draws s with its baseline starting at (x, y) in the fill colour
	Text(x, y float64, s string)
}
