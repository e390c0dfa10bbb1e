package problem

import (
	"math"
	"strconv"

	"github.com/san-kum/numhop/internal/surface"
)

// Reveal stages for Describe and Render. Any other stage shows the full
// equation with its result.
const (
	StageFirstOperand = 1
	StageOperator     = 2
	StageOperands     = 3
	StageFull         = 4
)

// Problem is a two-operand expression drawn next to the number line. It is
// immutable once built.
type Problem struct {
	x, y     float64
	op       Operator
	a, b     int
	fontSize float64
}

func New(x, y float64, op Operator, a, b int, fontSize float64) *Problem {
	return &Problem{x: x, y: y, op: op, a: a, b: b, fontSize: fontSize}
}

func (p *Problem) Operator() Operator    { return p.op }
func (p *Problem) A() int                { return p.a }
func (p *Problem) B() int                { return p.b }
func (p *Problem) FontSize() float64     { return p.fontSize }
func (p *Problem) Anchor() surface.Point { return surface.Point{X: p.x, Y: p.y} }

// Solve evaluates the expression. Division by zero is not an error: it yields
// ±Inf or NaN like any other float division.
func (p *Problem) Solve() float64 {
	a, b := float64(p.a), float64(p.b)
	switch p.op {
	case Add:
		return a + b
	case Subtract:
		return a - b
	case Multiply:
		return a * b
	case Divide:
		return a / b
	}
	return math.NaN()
}

// Describe returns the expression text for a reveal stage.
func (p *Problem) Describe(stage int) string {
	a := strconv.Itoa(p.a)
	switch stage {
	case StageFirstOperand:
		return a
	case StageOperator:
		return a + " " + p.op.Symbol()
	case StageOperands:
		return a + " " + p.op.Symbol() + " " + strconv.Itoa(p.b)
	}
	return a + " " + p.op.Symbol() + " " + strconv.Itoa(p.b) + " = " + FormatNumber(p.Solve())
}

func (p *Problem) String() string {
	return p.Describe(StageFull)
}

// Render erases the previous expression and draws the one for stage.
func (p *Problem) Render(s surface.Surface, stage int) {
	p.Erase(s)
	at := p.Anchor()
	s.DrawText(p.Describe(stage), at.X, at.Y, p.fontSize)
}

// Erase clears the fixed box the expression is drawn into.
func (p *Problem) Erase(s surface.Surface) {
	at := p.Anchor()
	s.ClearRect(at.X, at.Y-p.fontSize, p.fontSize*6, p.fontSize)
}

// FormatNumber prints integers without a fraction and non-finite values as
// Infinity, -Infinity and NaN.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
