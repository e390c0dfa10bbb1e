package surface

import (
	"image"
	"image/color"
)

// Point is a position in surface pixels. The origin is top-left, x grows to
// the right and y grows downwards.
type Point struct {
	X, Y float64
}

// Surface accepts the drawing primitives used by the number line, the math
// problem and the visualiser. Calls are synchronous and applied in order.
type Surface interface {
	DrawLine(p1, p2 Point)
	// DrawArc strokes an arc with canvas semantics: angles in radians measured
	// from the positive x axis, clockwise on screen unless counterclockwise is set.
	DrawArc(center Point, radius, startAngle, endAngle float64, counterclockwise bool)
	// DrawText fills text with its alphabetic baseline at y.
	DrawText(s string, x, y, fontSize float64)
	FillCircle(center Point, radius float64, c color.Color)
	ClearRect(x, y, w, h float64)
	DrawImage(img image.Image, x, y, w, h float64)
}

// TextMeasurer is implemented by surfaces that can report the rendered width
// of a string.
type TextMeasurer interface {
	MeasureText(s string, fontSize float64) float64
}

// Black is the fill used for markers.
var Black = color.RGBA{A: 0xff}
