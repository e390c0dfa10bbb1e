package surface

import (
	"image"
	"image/color"
)

// Tee fans every call out to primary and then to rest. The result measures
// text with primary when primary implements TextMeasurer.
func Tee(primary Surface, rest ...Surface) Surface {
	t := &tee{all: append([]Surface{primary}, rest...)}
	if m, ok := primary.(TextMeasurer); ok {
		return &measuringTee{tee: t, m: m}
	}
	return t
}

type tee struct {
	all []Surface
}

func (t *tee) DrawLine(p1, p2 Point) {
	for _, s := range t.all {
		s.DrawLine(p1, p2)
	}
}

func (t *tee) DrawArc(center Point, radius, startAngle, endAngle float64, counterclockwise bool) {
	for _, s := range t.all {
		s.DrawArc(center, radius, startAngle, endAngle, counterclockwise)
	}
}

func (t *tee) DrawText(str string, x, y, fontSize float64) {
	for _, s := range t.all {
		s.DrawText(str, x, y, fontSize)
	}
}

func (t *tee) FillCircle(center Point, radius float64, c color.Color) {
	for _, s := range t.all {
		s.FillCircle(center, radius, c)
	}
}

func (t *tee) ClearRect(x, y, w, h float64) {
	for _, s := range t.all {
		s.ClearRect(x, y, w, h)
	}
}

func (t *tee) DrawImage(img image.Image, x, y, w, h float64) {
	for _, s := range t.all {
		s.DrawImage(img, x, y, w, h)
	}
}

type measuringTee struct {
	*tee
	m TextMeasurer
}

func (t *measuringTee) MeasureText(s string, fontSize float64) float64 {
	return t.m.MeasureText(s, fontSize)
}
