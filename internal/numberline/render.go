package numberline

import (
	"strconv"

	"github.com/san-kum/numhop/internal/surface"
)

// Render recomputes the layout and draws the axis, both arrowheads, and a tick
// with a label for every labeled integer that falls on the scale.
func (l *NumberLine) Render(s surface.Surface) {
	l.ComputeLayout()
	l.drawAxis(s)
	l.drawArrowHeads(s)
	l.drawNumbersAndTickMarks(s, -l.tickSize/2, l.tickSize*3.5, l.tickSize*5)
}

func (l *NumberLine) drawAxis(s surface.Surface) {
	o := l.Origin()
	s.DrawLine(o, surface.Point{X: o.X + l.cfg.Width, Y: o.Y})
}

func (l *NumberLine) drawArrowHeads(s surface.Surface) {
	tip, a := l.Origin(), l.arrowHeadSize
	x, y := tip.X, tip.Y

	s.DrawLine(surface.Point{X: x + a, Y: y - a}, tip)
	s.DrawLine(tip, surface.Point{X: x + a, Y: y + a})

	right := x + l.cfg.Width
	tip = surface.Point{X: right, Y: y}
	s.DrawLine(surface.Point{X: right - a, Y: y - a}, tip)
	s.DrawLine(tip, surface.Point{X: right - a, Y: y + a})
}

// drawNumbersAndTickMarks uses alignX and alignY to place each label below
// its tick.
func (l *NumberLine) drawNumbersAndTickMarks(s surface.Surface, alignX, alignY, fontSize float64) {
	measurer, canMeasure := s.(surface.TextMeasurer)
	if l.cfg.Centering == CenterHeuristic {
		canMeasure = false
	}

	for n := l.cfg.Min; n <= l.cfg.Max; n++ {
		if (n-l.cfg.Min)%l.cfg.Scale != 0 {
			continue
		}
		p, err := l.PositionOf(n)
		if err != nil {
			continue
		}

		label := strconv.Itoa(n)
		x := p.X + labelOffset(n)*alignX
		if canMeasure {
			x = p.X - measurer.MeasureText(label, fontSize)/2
		}
		s.DrawText(label, x, p.Y+1.5*alignY, fontSize)

		s.DrawLine(
			surface.Point{X: p.X, Y: p.Y - l.tickSize},
			surface.Point{X: p.X, Y: p.Y + l.tickSize},
		)
	}
}

// labelOffset is the alignX multiplier for a label, tuned for a serif face:
// two-digit negatives, one-digit negatives, single digits, and the rest.
func labelOffset(n int) float64 {
	switch {
	case n < -9:
		return 8.5
	case n < 0:
		return 6
	case n <= 9:
		return 2.5
	default:
		return 5
	}
}
