package surface

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Raster is a Surface backed by an RGBA image. It measures text with the Go
// regular face, so labels drawn onto it can be centered exactly.
type Raster struct {
	dc         *gg.Context
	font       *truetype.Font
	faces      map[float64]font.Face
	background color.Color
	stroke     color.Color
}

func NewRaster(width, height int) (*Raster, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	r := &Raster{
		dc:         gg.NewContext(width, height),
		font:       f,
		faces:      make(map[float64]font.Face),
		background: color.White,
		stroke:     color.Black,
	}
	r.dc.SetColor(r.background)
	r.dc.Clear()
	r.dc.SetLineWidth(1)
	return r, nil
}

func (r *Raster) face(size float64) font.Face {
	if f, ok := r.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(r.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	r.faces[size] = f
	return f
}

func (r *Raster) DrawLine(p1, p2 Point) {
	r.dc.SetColor(r.stroke)
	r.dc.DrawLine(p1.X, p1.Y, p2.X, p2.Y)
	r.dc.Stroke()
}

func (r *Raster) DrawArc(center Point, radius, startAngle, endAngle float64, counterclockwise bool) {
	// gg sweeps linearly from the first angle to the second.
	if counterclockwise {
		for endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else {
		for endAngle < startAngle {
			endAngle += 2 * math.Pi
		}
	}
	r.dc.SetColor(r.stroke)
	r.dc.NewSubPath()
	r.dc.DrawArc(center.X, center.Y, radius, startAngle, endAngle)
	r.dc.Stroke()
}

func (r *Raster) DrawText(s string, x, y, fontSize float64) {
	r.dc.SetColor(r.stroke)
	r.dc.SetFontFace(r.face(fontSize))
	r.dc.DrawString(s, x, y)
}

func (r *Raster) MeasureText(s string, fontSize float64) float64 {
	r.dc.SetFontFace(r.face(fontSize))
	w, _ := r.dc.MeasureString(s)
	return w
}

func (r *Raster) FillCircle(center Point, radius float64, c color.Color) {
	r.dc.SetColor(c)
	r.dc.DrawCircle(center.X, center.Y, radius)
	r.dc.Fill()
}

func (r *Raster) ClearRect(x, y, w, h float64) {
	r.dc.SetColor(r.background)
	r.dc.DrawRectangle(x, y, w, h)
	r.dc.Fill()
}

func (r *Raster) DrawImage(img image.Image, x, y, w, h float64) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	r.dc.Push()
	r.dc.Translate(x, y)
	r.dc.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
	r.dc.DrawImage(img, 0, 0)
	r.dc.Pop()
}

func (r *Raster) EncodePNG(w io.Writer) error { return r.dc.EncodePNG(w) }
