package surface

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
)

// SVG is a Surface that collects drawing calls as SVG elements.
type SVG struct {
	Width, Height float64
	Background    string
	Stroke        string
	FontFamily    string

	body strings.Builder
}

func NewSVG(width, height float64) *SVG {
	return &SVG{
		Width:      width,
		Height:     height,
		Background: "#ffffff",
		Stroke:     "#000000",
		FontFamily: "sans-serif",
	}
}

func (s *SVG) DrawLine(p1, p2 Point) {
	s.body.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"/>
`, p1.X, p1.Y, p2.X, p2.Y, s.Stroke))
}

// DrawArc emits a path arc. Angles follow the canvas convention: measured
// from the positive x axis with y pointing down.
func (s *SVG) DrawArc(center Point, radius, startAngle, endAngle float64, counterclockwise bool) {
	span := endAngle - startAngle
	sweep := 1
	if counterclockwise {
		span = -span
		sweep = 0
	}
	for span < 0 {
		span += 2 * math.Pi
	}
	if span == 0 {
		return
	}

	x0 := center.X + radius*math.Cos(startAngle)
	y0 := center.Y + radius*math.Sin(startAngle)
	x1 := center.X + radius*math.Cos(endAngle)
	y1 := center.Y + radius*math.Sin(endAngle)

	// A full turn cannot be a single arc command.
	if span >= 2*math.Pi {
		mx := center.X - (x0 - center.X)
		my := center.Y - (y0 - center.Y)
		s.body.WriteString(fmt.Sprintf(`<path d="M%.2f,%.2f A%.2f,%.2f 0 1 %d %.2f,%.2f A%.2f,%.2f 0 1 %d %.2f,%.2f" fill="none" stroke="%s"/>
`, x0, y0, radius, radius, sweep, mx, my, radius, radius, sweep, x0, y0, s.Stroke))
		return
	}

	large := 0
	if span > math.Pi {
		large = 1
	}
	s.body.WriteString(fmt.Sprintf(`<path d="M%.2f,%.2f A%.2f,%.2f 0 %d %d %.2f,%.2f" fill="none" stroke="%s"/>
`, x0, y0, radius, radius, large, sweep, x1, y1, s.Stroke))
}

func (s *SVG) DrawText(text string, x, y, fontSize float64) {
	s.body.WriteString(fmt.Sprintf(`<text x="%.2f" y="%.2f" font-family="%s" font-size="%.0f">%s</text>
`, x, y, s.FontFamily, fontSize, escapeXML(text)))
}

func (s *SVG) FillCircle(center Point, radius float64, c color.Color) {
	s.body.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, center.X, center.Y, radius, Hex(c)))
}

// ClearRect paints the background over the area.
func (s *SVG) ClearRect(x, y, w, h float64) {
	s.body.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>
`, x, y, w, h, s.Background))
}

// DrawImage embeds img as a base64 PNG.
func (s *SVG) DrawImage(img image.Image, x, y, w, h float64) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return
	}
	s.body.WriteString(fmt.Sprintf(`<image x="%.2f" y="%.2f" width="%.2f" height="%.2f" href="data:image/png;base64,%s"/>
`, x, y, w, h, base64.StdEncoding.EncodeToString(buf.Bytes())))
}

func (s *SVG) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.Width, s.Height, s.Width, s.Height, s.Background))
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
