package numberline

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/san-kum/numhop/internal/surface"
)

func newClassic(t *testing.T) *NumberLine {
	t.Helper()
	l, err := New(Config{Width: 600, Scale: 1, Min: -10, Max: 10, X: 50, Y: 150})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return l
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero width", Config{Width: 0, Scale: 1, Min: 0, Max: 10}, ErrInvalidGeometry},
		{"zero scale", Config{Width: 100, Scale: 0, Min: 0, Max: 10}, ErrInvalidGeometry},
		{"empty range", Config{Width: 100, Scale: 1, Min: 5, Max: 5}, ErrInvalidRange},
		{"inverted range", Config{Width: 100, Scale: 1, Min: 5, Max: -5}, ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestTickAndArrowSize(t *testing.T) {
	l := newClassic(t)
	if l.TickSize() != 3.75 || l.ArrowHeadSize() != 3.75 {
		t.Errorf("expected 3.75, got tick %v arrow %v", l.TickSize(), l.ArrowHeadSize())
	}
	if o := l.Origin(); o != (surface.Point{X: 50, Y: 150}) {
		t.Errorf("expected origin (50, 150), got %v", o)
	}
}

func TestPositionOf_Layout(t *testing.T) {
	l := newClassic(t)
	unit := 600.0 / 22

	tests := []struct {
		value int
		x     float64
	}{
		{-11, 50},
		{-10, 50 + unit},
		{0, 50 + 11*unit},
		{10, 50 + 21*unit},
		{11, 650},
	}

	for _, tt := range tests {
		p, err := l.PositionOf(tt.value)
		if err != nil {
			t.Fatalf("PositionOf(%d): %v", tt.value, err)
		}
		if math.Abs(p.X-tt.x) > 1e-9 {
			t.Errorf("PositionOf(%d).X = %v, want %v", tt.value, p.X, tt.x)
		}
		if p.Y != 150 {
			t.Errorf("PositionOf(%d).Y = %v, want 150", tt.value, p.Y)
		}
	}
}

func TestPositionOf_OutOfBounds(t *testing.T) {
	l := newClassic(t)

	for _, v := range []int{-12, 12, -100, 100} {
		_, err := l.PositionOf(v)
		if !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("PositionOf(%d): expected ErrOutOfBounds, got %v", v, err)
		}
		var be *BoundsError
		if !errors.As(err, &be) {
			t.Fatalf("PositionOf(%d): expected *BoundsError", v)
		}
		if be.Lo != -11 || be.Hi != 11 || be.Value != v {
			t.Errorf("unexpected bounds error %+v", be)
		}
	}
}

func TestIndexRoundTrip(t *testing.T) {
	l := newClassic(t)
	for v := l.Min(); v <= l.Max(); v++ {
		i := l.IndexOf(v)
		if got := l.IndexOf(l.ValueAt(i)); got != i {
			t.Errorf("round trip of %d: got index %d, want %d", v, got, i)
		}
	}
	if l.IndexOf(-10) != 0 || l.ValueAt(0) != -10 {
		t.Error("index 0 should be min")
	}
}

func TestUnitDistanceConstant(t *testing.T) {
	l := newClassic(t)
	unit := l.UnitDistance()
	if math.Abs(unit-600.0/22) > 1e-9 {
		t.Errorf("expected unit %v, got %v", 600.0/22, unit)
	}
	for v := l.Min() - 1; v < l.Max()+1; v++ {
		a, _ := l.PositionOf(v)
		b, _ := l.PositionOf(v + 1)
		if math.Abs((b.X-a.X)-unit) > 1e-9 {
			t.Errorf("spacing between %d and %d is %v, want %v", v, v+1, b.X-a.X, unit)
		}
	}
}

func TestComputeLayout_Idempotent(t *testing.T) {
	l := newClassic(t)
	l.ComputeLayout()
	first := l.Positions()
	l.ComputeLayout()
	second := l.Positions()

	if len(first) != 23 || len(first) != len(second) {
		t.Fatalf("expected 23 positions, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("position %d changed: %v -> %v", i, first[i], second[i])
		}
	}
}

func TestDescribe(t *testing.T) {
	l, err := New(Config{Width: 120, Scale: 1, Min: 0, Max: 10, X: 0, Y: 10})
	if err != nil {
		t.Fatal(err)
	}

	got, err := l.Describe(0)
	if err != nil {
		t.Fatal(err)
	}
	if got != "(number: 0, x coordinate: 10, y coordinate: 10)" {
		t.Errorf("unexpected description %q", got)
	}

	if _, err := l.Describe(11); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds for arrowhead slot, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(l.Print()), "\n")
	if len(lines) != 11 {
		t.Errorf("expected 11 printed lines, got %d", len(lines))
	}
}

func TestRender_Heuristic(t *testing.T) {
	l := newClassic(t)
	rec := surface.NewRecorder()
	l.Render(rec)

	lines := rec.Filter(surface.OpLine)
	// axis + two chevrons of two segments + one tick per labeled value
	if len(lines) != 1+4+21 {
		t.Errorf("expected 26 line ops, got %d", len(lines))
	}
	if lines[0].P1 != (surface.Point{X: 50, Y: 150}) || lines[0].P2 != (surface.Point{X: 650, Y: 150}) {
		t.Errorf("unexpected axis %v", lines[0])
	}

	texts := rec.Filter(surface.OpText)
	if len(texts) != 21 {
		t.Fatalf("expected 21 labels, got %d", len(texts))
	}

	alignX := -3.75 / 2
	tests := []struct {
		label string
		mult  float64
	}{
		{"-10", 8.5},
		{"-9", 6},
		{"-1", 6},
		{"0", 2.5},
		{"9", 2.5},
		{"10", 5},
	}
	for _, tt := range tests {
		var found *surface.Op
		for i := range texts {
			if texts[i].Text == tt.label {
				found = &texts[i]
				break
			}
		}
		if found == nil {
			t.Fatalf("label %s not drawn", tt.label)
		}
		v, _ := strconv.Atoi(tt.label)
		p, _ := l.PositionOf(v)
		if math.Abs(found.P1.X-(p.X+tt.mult*alignX)) > 1e-9 {
			t.Errorf("label %s at x=%v, want %v", tt.label, found.P1.X, p.X+tt.mult*alignX)
		}
		if math.Abs(found.P1.Y-(150+1.5*3.75*3.5)) > 1e-9 {
			t.Errorf("label %s at y=%v", tt.label, found.P1.Y)
		}
		if found.FontSize != 18.75 {
			t.Errorf("label %s font %v, want 18.75", tt.label, found.FontSize)
		}
	}
}

type measuringRecorder struct {
	*surface.Recorder
}

func (measuringRecorder) MeasureText(s string, fontSize float64) float64 {
	return float64(len(s)) * 10
}

func TestRender_Measured(t *testing.T) {
	l := newClassic(t)
	rec := measuringRecorder{surface.NewRecorder()}
	l.Render(rec)

	texts := rec.Filter(surface.OpText)
	p, _ := l.PositionOf(-10)
	if texts[0].Text != "-10" || math.Abs(texts[0].P1.X-(p.X-15)) > 1e-9 {
		t.Errorf("expected measured label centered at %v, got %v", p.X-15, texts[0])
	}

	heuristic, _ := New(Config{Width: 600, Scale: 1, Min: -10, Max: 10, X: 50, Y: 150, Centering: CenterHeuristic})
	rec.Reset()
	heuristic.Render(rec)
	texts = rec.Filter(surface.OpText)
	if math.Abs(texts[0].P1.X-(p.X-8.5*1.875)) > 1e-9 {
		t.Errorf("heuristic centering ignored: %v", texts[0])
	}
}

func TestRender_Scale(t *testing.T) {
	l, err := New(Config{Width: 600, Scale: 2, Min: -10, Max: 10, X: 50, Y: 150})
	if err != nil {
		t.Fatal(err)
	}
	rec := surface.NewRecorder()
	l.Render(rec)

	texts := rec.Filter(surface.OpText)
	if len(texts) != 11 {
		t.Fatalf("expected 11 labels, got %d", len(texts))
	}
	for i, op := range texts {
		if want := -10 + 2*i; op.Text != strconv.Itoa(want) {
			t.Errorf("label %d = %s, want %d", i, op.Text, want)
		}
	}
	if math.Abs(l.UnitDistance()-600.0/22) > 1e-9 {
		t.Error("scale should not change spacing")
	}
}
