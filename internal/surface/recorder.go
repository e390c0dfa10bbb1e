package surface

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"time"
)

type OpKind string

const (
	OpLine   OpKind = "line"
	OpArc    OpKind = "arc"
	OpText   OpKind = "text"
	OpCircle OpKind = "circle"
	OpClear  OpKind = "clear"
	OpImage  OpKind = "image"
)

// Op is one recorded drawing call. Fields not used by Kind are zero.
type Op struct {
	At       time.Duration `msgpack:"at"`
	Kind     OpKind        `msgpack:"kind"`
	P1       Point         `msgpack:"p1"`
	P2       Point         `msgpack:"p2"`
	Radius   float64       `msgpack:"r,omitempty"`
	Start    float64       `msgpack:"start,omitempty"`
	End      float64       `msgpack:"end,omitempty"`
	CCW      bool          `msgpack:"ccw,omitempty"`
	Text     string        `msgpack:"text,omitempty"`
	FontSize float64       `msgpack:"font,omitempty"`
	W        float64       `msgpack:"w,omitempty"`
	H        float64       `msgpack:"h,omitempty"`
	Color    string        `msgpack:"color,omitempty"`
	Image    image.Image   `msgpack:"-"`
}

func (o Op) String() string {
	switch o.Kind {
	case OpLine:
		return fmt.Sprintf("line (%.2f,%.2f)-(%.2f,%.2f)", o.P1.X, o.P1.Y, o.P2.X, o.P2.Y)
	case OpArc:
		return fmt.Sprintf("arc c=(%.2f,%.2f) r=%.2f %.4f->%.4f ccw=%t", o.P1.X, o.P1.Y, o.Radius, o.Start, o.End, o.CCW)
	case OpText:
		return fmt.Sprintf("text %q at (%.2f,%.2f) %.0fpx", o.Text, o.P1.X, o.P1.Y, o.FontSize)
	case OpCircle:
		return fmt.Sprintf("circle c=(%.2f,%.2f) r=%.2f %s", o.P1.X, o.P1.Y, o.Radius, o.Color)
	case OpClear:
		return fmt.Sprintf("clear (%.2f,%.2f) %.2fx%.2f", o.P1.X, o.P1.Y, o.W, o.H)
	case OpImage:
		return fmt.Sprintf("image at (%.2f,%.2f) %.2fx%.2f", o.P1.X, o.P1.Y, o.W, o.H)
	}
	return string(o.Kind)
}

// Recorder is a Surface that keeps every call. Now, when set, stamps each op.
type Recorder struct {
	Now func() time.Duration
	Ops []Op
}

func NewRecorder() *Recorder {
	return &Recorder{Ops: make([]Op, 0, 64)}
}

func (r *Recorder) add(op Op) {
	if r.Now != nil {
		op.At = r.Now()
	}
	r.Ops = append(r.Ops, op)
}

func (r *Recorder) DrawLine(p1, p2 Point) {
	r.add(Op{Kind: OpLine, P1: p1, P2: p2})
}

func (r *Recorder) DrawArc(center Point, radius, startAngle, endAngle float64, counterclockwise bool) {
	r.add(Op{Kind: OpArc, P1: center, Radius: radius, Start: startAngle, End: endAngle, CCW: counterclockwise})
}

func (r *Recorder) DrawText(s string, x, y, fontSize float64) {
	r.add(Op{Kind: OpText, P1: Point{X: x, Y: y}, Text: s, FontSize: fontSize})
}

func (r *Recorder) FillCircle(center Point, radius float64, c color.Color) {
	r.add(Op{Kind: OpCircle, P1: center, Radius: radius, Color: Hex(c)})
}

func (r *Recorder) ClearRect(x, y, w, h float64) {
	r.add(Op{Kind: OpClear, P1: Point{X: x, Y: y}, W: w, H: h})
}

func (r *Recorder) DrawImage(img image.Image, x, y, w, h float64) {
	r.add(Op{Kind: OpImage, P1: Point{X: x, Y: y}, W: w, H: h, Image: img})
}

// Filter returns the recorded ops of one kind, in order.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Reset drops every recorded op.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}

// Replay applies ops to dst in order. Image ops without pixel data are skipped.
func Replay(ops []Op, dst Surface) {
	for _, op := range ops {
		switch op.Kind {
		case OpLine:
			dst.DrawLine(op.P1, op.P2)
		case OpArc:
			dst.DrawArc(op.P1, op.Radius, op.Start, op.End, op.CCW)
		case OpText:
			dst.DrawText(op.Text, op.P1.X, op.P1.Y, op.FontSize)
		case OpCircle:
			dst.FillCircle(op.P1, op.Radius, ParseHex(op.Color))
		case OpClear:
			dst.ClearRect(op.P1.X, op.P1.Y, op.W, op.H)
		case OpImage:
			if op.Image != nil {
				dst.DrawImage(op.Image, op.P1.X, op.P1.Y, op.W, op.H)
			}
		}
	}
}

// Hex formats c as #rrggbb.
func Hex(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// ParseHex reads #rrggbb, returning black for anything else.
func ParseHex(s string) color.Color {
	if len(s) != 7 || s[0] != '#' {
		return Black
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return Black
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
