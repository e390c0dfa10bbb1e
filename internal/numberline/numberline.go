package numberline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/numhop/internal/surface"
)

// Centering selects how tick labels are placed under their tick.
type Centering int

const (
	// CenterMeasured centers labels on their measured width when the surface
	// implements surface.TextMeasurer, and falls back to CenterHeuristic otherwise.
	CenterMeasured Centering = iota
	// CenterHeuristic offsets labels by a fixed multiplier chosen from the
	// digit count and sign of the value.
	CenterHeuristic
)

// Config describes a number line. Min and Max bound the labeled integers; one
// extra slot on each side is reserved for the arrowheads.
type Config struct {
	Width     float64
	Scale     int
	Min, Max  int
	X, Y      float64
	Centering Centering
}

// Position is the pixel anchor of one integer on the line.
type Position struct {
	Value int
	X, Y  float64
}

type NumberLine struct {
	cfg           Config
	tickSize      float64
	arrowHeadSize float64
	positions     []Position
}

func New(cfg Config) (*NumberLine, error) {
	if cfg.Width <= 0 || cfg.Scale < 1 {
		return nil, ErrInvalidGeometry
	}
	if cfg.Min >= cfg.Max {
		return nil, fmt.Errorf("%w: got [%d, %d]", ErrInvalidRange, cfg.Min, cfg.Max)
	}
	return &NumberLine{
		cfg:           cfg,
		tickSize:      cfg.Width / 160,
		arrowHeadSize: cfg.Width / 160,
	}, nil
}

func (l *NumberLine) Min() int               { return l.cfg.Min }
func (l *NumberLine) Max() int               { return l.cfg.Max }
func (l *NumberLine) Scale() int             { return l.cfg.Scale }
func (l *NumberLine) Width() float64         { return l.cfg.Width }
func (l *NumberLine) Origin() surface.Point  { return surface.Point{X: l.cfg.X, Y: l.cfg.Y} }
func (l *NumberLine) TickSize() float64      { return l.tickSize }
func (l *NumberLine) ArrowHeadSize() float64 { return l.arrowHeadSize }

// Contains reports whether v is one of the labeled integers.
func (l *NumberLine) Contains(v int) bool {
	return v >= l.cfg.Min && v <= l.cfg.Max
}

// ComputeLayout places every integer in [min-1, max+1] at equal spacing so
// that min-1 sits on the left end of the axis and max+1 on the right end.
// It may be called any number of times.
func (l *NumberLine) ComputeLayout() {
	lo := l.cfg.Min - 1
	slots := l.cfg.Max + 1 - lo
	unit := l.cfg.Width / float64(slots)

	positions := make([]Position, 0, slots+1)
	for i := 0; i <= slots; i++ {
		positions = append(positions, Position{
			Value: lo + i,
			X:     l.cfg.X + float64(i)*unit,
			Y:     l.cfg.Y,
		})
	}
	l.positions = positions
}

func (l *NumberLine) layout() []Position {
	if l.positions == nil {
		l.ComputeLayout()
	}
	return l.positions
}

// PositionOf returns the pixel anchor of v. Values outside [min-1, max+1]
// fail with a *BoundsError.
func (l *NumberLine) PositionOf(v int) (surface.Point, error) {
	positions := l.layout()
	// slot 0 is the left arrowhead margin, so labeled index i lives at i+1.
	slot := l.IndexOf(v) + 1
	if slot < 0 || slot >= len(positions) {
		return surface.Point{}, &BoundsError{Value: v, Lo: l.cfg.Min - 1, Hi: l.cfg.Max + 1}
	}
	p := positions[slot]
	return surface.Point{X: p.X, Y: p.Y}, nil
}

// ValueAt maps an index to its integer. Index 0 is min.
func (l *NumberLine) ValueAt(i int) int { return l.cfg.Min + i }

// IndexOf maps an integer to its index. It is the inverse of ValueAt.
func (l *NumberLine) IndexOf(v int) int { return v - l.cfg.Min }

// UnitDistance is the pixel distance between consecutive integers.
func (l *NumberLine) UnitDistance() float64 {
	positions := l.layout()
	return positions[1].X - positions[0].X
}

// Positions returns a copy of the layout, arrowhead slots included.
func (l *NumberLine) Positions() []Position {
	positions := l.layout()
	out := make([]Position, len(positions))
	copy(out, positions)
	return out
}

// Describe formats the position of one labeled value.
func (l *NumberLine) Describe(n int) (string, error) {
	if !l.Contains(n) {
		return "", &BoundsError{Value: n, Lo: l.cfg.Min, Hi: l.cfg.Max}
	}
	p, err := l.PositionOf(n)
	if err != nil {
		return "", err
	}
	return "(number: " + strconv.Itoa(n) +
		", x coordinate: " + strconv.FormatFloat(p.X, 'f', -1, 64) +
		", y coordinate: " + strconv.FormatFloat(p.Y, 'f', -1, 64) + ")", nil
}

// Print lists every labeled value, one per line.
func (l *NumberLine) Print() string {
	var sb strings.Builder
	for n := l.cfg.Min; n <= l.cfg.Max; n++ {
		s, err := l.Describe(n)
		if err != nil {
			continue
		}
		sb.WriteString(s)
		sb.WriteString(", \n")
	}
	return sb.String()
}
