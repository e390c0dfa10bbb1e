package visualiser

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/numhop/internal/numberline"
	"github.com/san-kum/numhop/internal/problem"
	"github.com/san-kum/numhop/internal/schedule"
	"github.com/san-kum/numhop/internal/sprite"
	"github.com/san-kum/numhop/internal/surface"
)

const (
	DefaultStepDuration = time.Second
	DefaultFrames       = 20
	DefaultSpriteScale  = 0.2
	DefaultCanvasWidth  = 700
	DefaultCanvasHeight = 300
)

// Sprites returns pose images that are ready to draw.
type Sprites interface {
	Get(pose sprite.Pose) (image.Image, bool)
}

type Options struct {
	Scheduler    schedule.Scheduler
	Sprites      Sprites
	SpriteScale  float64
	StepDuration time.Duration
	// Frames per hop. It must divide StepDuration exactly.
	Frames       int
	CanvasWidth  float64
	CanvasHeight float64
	Logger       *zap.Logger
}

func (o *Options) applyDefaults() {
	if o.Scheduler == nil {
		o.Scheduler = schedule.NewRealtime()
	}
	if o.SpriteScale <= 0 {
		o.SpriteScale = DefaultSpriteScale
	}
	if o.StepDuration <= 0 {
		o.StepDuration = DefaultStepDuration
	}
	if o.Frames <= 0 {
		o.Frames = DefaultFrames
	}
	if o.CanvasWidth <= 0 {
		o.CanvasWidth = DefaultCanvasWidth
	}
	if o.CanvasHeight <= 0 {
		o.CanvasHeight = DefaultCanvasHeight
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

type Visualiser struct {
	line      *numberline.NumberLine
	problem   *problem.Problem
	opts      Options
	observers []Observer

	mu     sync.Mutex
	active *Run
}

func New(line *numberline.NumberLine, p *problem.Problem, opts Options) *Visualiser {
	opts.applyDefaults()
	return &Visualiser{
		line:      line,
		problem:   p,
		opts:      opts,
		observers: make([]Observer, 0),
	}
}

// AddObserver registers o. It is safe to call while a Run is in flight; o sees
// the transitions that follow.
func (v *Visualiser) AddObserver(o Observer) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.observers = append(v.observers, o)
}

func (v *Visualiser) observerList() []Observer {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.observers[:len(v.observers):len(v.observers)]
}

func (v *Visualiser) Line() *numberline.NumberLine { return v.line }
func (v *Visualiser) Problem() *problem.Problem    { return v.problem }

// Active returns the Run in flight, or nil.
func (v *Visualiser) Active() *Run {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.active
}

// Steps is the number of hops the animation takes.
func (v *Visualiser) Steps() int {
	b := v.problem.B()
	if b < 0 {
		return -b
	}
	return b
}

// Reset clears the canvas and draws the number line.
func (v *Visualiser) Reset(s surface.Surface) {
	s.ClearRect(0, 0, v.opts.CanvasWidth, v.opts.CanvasHeight)
	v.line.Render(s)
}

// Play resets the canvas and then starts Animate.
func (v *Visualiser) Play(ctx context.Context, s surface.Surface) (*Run, error) {
	if v.Active() != nil {
		return nil, ErrAnimationInFlight
	}
	if v.opts.StepDuration%time.Duration(v.opts.Frames) != 0 {
		return nil, fmt.Errorf("%w: %s / %d", ErrUnevenFrames, v.opts.StepDuration, v.opts.Frames)
	}
	v.Reset(s)
	return v.Animate(ctx, s)
}

// Animate checks that the problem can be shown and starts a Run drawing onto s.
// When the answer lies outside the labeled range the "does not fit" message is
// drawn, no timer is started and ErrAnswerDoesNotFit is returned.
func (v *Visualiser) Animate(ctx context.Context, s surface.Surface) (*Run, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.active != nil {
		return nil, ErrAnimationInFlight
	}

	dir, err := HopDirection(v.problem.Operator(), v.problem.B())
	if err != nil {
		return nil, err
	}
	if v.opts.StepDuration%time.Duration(v.opts.Frames) != 0 {
		return nil, fmt.Errorf("%w: %s / %d", ErrUnevenFrames, v.opts.StepDuration, v.opts.Frames)
	}

	a := v.problem.A()
	if !v.line.Contains(a) {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrOperandOutOfBounds, a, v.line.Min(), v.line.Max())
	}

	if err := v.checkFits(s); err != nil {
		return nil, err
	}

	run := newRun(ctx, v, s, dir)
	v.active = run
	cancel := v.opts.Scheduler.Every(v.opts.StepDuration/time.Duration(v.opts.Frames), run.tick)
	run.mu.Lock()
	run.cancel = cancel
	run.mu.Unlock()

	v.opts.Logger.Debug("animation started",
		zap.String("problem", v.problem.Describe(problem.StageOperands)),
		zap.Stringer("direction", dir),
		zap.Int("steps", v.Steps()),
	)
	return run, nil
}

func (v *Visualiser) checkFits(s surface.Surface) error {
	result := v.problem.Solve()
	lo, hi := float64(v.line.Min()), float64(v.line.Max())
	if !math.IsNaN(result) && result >= lo && result <= hi {
		return nil
	}

	msg := fmt.Sprintf("The answer to %s is outside the bounds, (%d, %d), of the number line.",
		v.problem.Describe(problem.StageOperands), v.line.Min(), v.line.Max())
	fontSize := v.problem.FontSize()
	s.DrawText("The answer does not fit on this numberline", v.opts.CanvasWidth/6, fontSize*1.5, fontSize)
	v.opts.Logger.Warn(msg)
	return fmt.Errorf("%w: %s", ErrAnswerDoesNotFit, msg)
}

func (v *Visualiser) release(r *Run) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.active == r {
		v.active = nil
	}
}

// DrawStartPoint fills the marker at the first operand.
func (v *Visualiser) DrawStartPoint(s surface.Surface) error {
	p, err := v.line.PositionOf(v.problem.A())
	if err != nil {
		return err
	}
	s.FillCircle(p, v.line.TickSize(), surface.Black)
	return nil
}

// DrawSteps draws every hop arc at once, without animation.
func (v *Visualiser) DrawSteps(s surface.Surface) error {
	dir, err := HopDirection(v.problem.Operator(), v.problem.B())
	if err != nil {
		return err
	}
	a := v.problem.A()
	radius := v.line.UnitDistance() / 2
	for i := 0; i < v.Steps(); i++ {
		p, err := v.line.PositionOf(a + dir.Sign()*i)
		if err != nil {
			return err
		}
		center := surface.Point{X: p.X + float64(dir.Sign())*radius, Y: p.Y}
		s.DrawArc(center, radius, math.Pi, 2*math.Pi, false)
	}
	return nil
}

func (v *Visualiser) drawSprite(s surface.Surface, pose sprite.Pose, x, y float64) {
	if v.opts.Sprites == nil {
		return
	}
	img, ok := v.opts.Sprites.Get(pose)
	if !ok {
		v.opts.Logger.Debug("sprite not ready, skipped", zap.String("pose", string(pose)))
		return
	}
	b := img.Bounds()
	scale := v.opts.SpriteScale
	s.DrawImage(img, x, y, float64(b.Dx())*scale, float64(b.Dy())*scale)
}
