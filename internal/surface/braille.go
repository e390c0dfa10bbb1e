package surface

import (
	"image"
	"image/color"
	"math"
	"strings"
)

// Braille patterns pack 2x4 dots per cell:
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Braille is a Surface that rasterises onto a grid of braille cells so the
// animation can run inside a terminal. Canvas coordinates are scaled to the
// grid's sub-pixel resolution; text is overlaid cell by cell.
type Braille struct {
	Cols, Rows int
	grid       [][]rune
	text       [][]rune
	sx, sy     float64
}

// NewBraille maps a width x height canvas onto cols x rows cells.
func NewBraille(cols, rows int, width, height float64) *Braille {
	b := &Braille{
		Cols: cols,
		Rows: rows,
		grid: make([][]rune, rows),
		text: make([][]rune, rows),
		sx:   float64(cols*2) / width,
		sy:   float64(rows*4) / height,
	}
	for i := range b.grid {
		b.grid[i] = make([]rune, cols)
		b.text[i] = make([]rune, cols)
	}
	b.Clear()
	return b
}

func (b *Braille) Clear() {
	for i := range b.grid {
		for j := range b.grid[i] {
			b.grid[i][j] = brailleBlank
			b.text[i][j] = 0
		}
	}
}

func (b *Braille) sub(p Point) (int, int) {
	return int(math.Round(p.X * b.sx)), int(math.Round(p.Y * b.sy))
}

// Set turns on the dot at sub-pixel (x, y).
func (b *Braille) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= b.Cols || row >= b.Rows {
		return
	}
	b.grid[row][col] |= pixelMap[y%4][x%2]
}

// Unset turns off the dot at sub-pixel (x, y).
func (b *Braille) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= b.Cols || row >= b.Rows {
		return
	}
	b.grid[row][col] &^= pixelMap[y%4][x%2]
}

// IsSet reports whether the dot at sub-pixel (x, y) is on.
func (b *Braille) IsSet(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	col, row := x/2, y/4
	if col >= b.Cols || row >= b.Rows {
		return false
	}
	return b.grid[row][col]&pixelMap[y%4][x%2] != 0
}

// line draws in sub-pixels using Bresenham's algorithm.
func (b *Braille) line(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		b.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (b *Braille) DrawLine(p1, p2 Point) {
	x0, y0 := b.sub(p1)
	x1, y1 := b.sub(p2)
	b.line(x0, y0, x1, y1)
}

func (b *Braille) DrawArc(center Point, radius, startAngle, endAngle float64, counterclockwise bool) {
	if counterclockwise {
		for endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else {
		for endAngle < startAngle {
			endAngle += 2 * math.Pi
		}
	}
	span := math.Abs(endAngle - startAngle)
	n := int(math.Ceil(span*radius*math.Max(b.sx, b.sy))) + 1

	prev := Point{X: center.X + radius*math.Cos(startAngle), Y: center.Y + radius*math.Sin(startAngle)}
	for i := 1; i <= n; i++ {
		a := startAngle + (endAngle-startAngle)*float64(i)/float64(n)
		p := Point{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
		b.DrawLine(prev, p)
		prev = p
	}
}

// DrawText writes s into the cells starting at the baseline point. The font
// size is ignored; every character takes one cell.
func (b *Braille) DrawText(s string, x, y, fontSize float64) {
	sx, sy := b.sub(Point{X: x, Y: y})
	col, row := sx/2, (sy-1)/4
	if row < 0 || row >= b.Rows {
		return
	}
	for _, r := range s {
		if col >= b.Cols {
			return
		}
		if col >= 0 {
			b.text[row][col] = r
		}
		col++
	}
}

func (b *Braille) FillCircle(center Point, radius float64, c color.Color) {
	cx, cy := b.sub(center)
	rx := int(math.Ceil(radius * b.sx))
	ry := int(math.Ceil(radius * b.sy))
	for y := -ry; y <= ry; y++ {
		for x := -rx; x <= rx; x++ {
			fx, fy := float64(x)/math.Max(float64(rx), 1), float64(y)/math.Max(float64(ry), 1)
			if fx*fx+fy*fy <= 1 {
				b.Set(cx+x, cy+y)
			}
		}
	}
}

// ClearRect turns off the dots and removes the text inside the rectangle.
func (b *Braille) ClearRect(x, y, w, h float64) {
	x0, y0 := b.sub(Point{X: x, Y: y})
	x1, y1 := b.sub(Point{X: x + w, Y: y + h})
	for sy := y0; sy < y1; sy++ {
		for sx := x0; sx < x1; sx++ {
			b.Unset(sx, sy)
		}
	}
	for row := max(y0/4, 0); row <= min((y1-1)/4, b.Rows-1); row++ {
		for col := max(x0/2, 0); col <= min((x1-1)/2, b.Cols-1); col++ {
			b.text[row][col] = 0
		}
	}
}

// DrawImage sets a dot wherever the sampled pixel is dark and opaque.
func (b *Braille) DrawImage(img image.Image, x, y, w, h float64) {
	bounds := img.Bounds()
	x0, y0 := b.sub(Point{X: x, Y: y})
	x1, y1 := b.sub(Point{X: x + w, Y: y + h})
	if x1 <= x0 || y1 <= y0 {
		return
	}
	for sy := y0; sy < y1; sy++ {
		for sx := x0; sx < x1; sx++ {
			px := bounds.Min.X + (sx-x0)*bounds.Dx()/(x1-x0)
			py := bounds.Min.Y + (sy-y0)*bounds.Dy()/(y1-y0)
			if dark(img.At(px, py)) {
				b.Set(sx, sy)
			}
		}
	}
}

func dark(c color.Color) bool {
	r, g, bl, a := c.RGBA()
	if a < 0x8000 {
		return false
	}
	return (r+g+bl)/3 < 0x8000
}

func (b *Braille) String() string {
	var sb strings.Builder
	for row := range b.grid {
		for col, r := range b.grid[row] {
			if t := b.text[row][col]; t != 0 {
				sb.WriteRune(t)
				continue
			}
			sb.WriteRune(r)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Lines returns String split into rows, without the trailing newline.
func (b *Braille) Lines() []string {
	return strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
