package sprite

import (
	"context"
	"image"

	"github.com/fogleman/gg"
)

// Procedural draws a stick figure for each pose, so no asset files are needed.
// Images are 150x250 before scaling.
type Procedural struct{}

const (
	figureW = 150
	figureH = 250
)

func (Procedural) Load(ctx context.Context, pose Pose) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := pose.FileName(); err != nil {
		return nil, err
	}

	dc := gg.NewContext(figureW, figureH)
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(8)
	dc.SetLineCapRound()

	dc.DrawCircle(75, 45, 30)
	dc.Stroke()

	dc.DrawLine(75, 75, 75, 160)
	dc.DrawLine(30, 115, 120, 115)
	dc.DrawLine(75, 160, 40, 240)
	dc.DrawLine(75, 160, 110, 240)
	dc.Stroke()

	// eyes follow the direction the figure faces
	left, right := 63.0, 87.0
	switch pose {
	case LookLeft:
		left, right = 52, 72
	case LookRight:
		left, right = 78, 98
	}
	dc.DrawCircle(left, 40, 5)
	dc.DrawCircle(right, 40, 5)
	dc.Fill()

	return dc.Image(), nil
}
