package visualiser

import (
	"context"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/numhop/internal/problem"
	"github.com/san-kum/numhop/internal/schedule"
	"github.com/san-kum/numhop/internal/sprite"
	"github.com/san-kum/numhop/internal/surface"
)

// Named stages before the hops. Hops are stages 1..N and N+1 is terminal.
const (
	StageRevealFirst    = -4
	StageStartMarker    = -3
	StageRevealOperator = -2
	StageOrient         = -1
	StageRevealSecond   = 0
)

// HopFrame is the sub-state of a hop in progress.
type HopFrame struct {
	Hop       int
	Frame     int
	Frames    int
	From, To  int
	Direction Direction
}

// State is a snapshot of a Run. Stage is the last stage performed, starting
// below StageRevealFirst before the first tick.
type State struct {
	Stage    int
	Hop      *HopFrame
	Position int
	Done     bool
	Err      error
}

type hop struct {
	HopFrame
	center     surface.Point
	radius     float64
	startAngle float64
	endAngle   float64
	increment  float64
}

// segment is the angular slice drawn by frame k. The last frame ends exactly
// on the end angle.
func (h *hop) segment(k int) (float64, float64) {
	from := h.startAngle + float64(k)*h.increment
	if k >= h.Frames-1 {
		return from, h.endAngle
	}
	return from, h.startAngle + float64(k+1)*h.increment
}

// Run is one in-flight animation. Its fields are owned by the scheduler
// timeline; State may be read from any goroutine.
type Run struct {
	v       *Visualiser
	ctx     context.Context
	surface surface.Surface
	dir     Direction
	steps   int
	frames  int

	mu       sync.Mutex
	cancel   schedule.Cancel
	ticks    int
	stage    int
	position int
	hop      *hop
	done     bool
	err      error
	doneCh   chan struct{}
}

func newRun(ctx context.Context, v *Visualiser, s surface.Surface, dir Direction) *Run {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Run{
		v:        v,
		ctx:      ctx,
		surface:  s,
		dir:      dir,
		steps:    v.Steps(),
		frames:   v.opts.Frames,
		stage:    StageRevealFirst - 1,
		position: v.problem.A(),
		doneCh:   make(chan struct{}),
	}
}

// Done is closed when the Run reaches its terminal stage or is aborted.
func (r *Run) Done() <-chan struct{} { return r.doneCh }

// Direction is the direction every hop travels.
func (r *Run) Direction() Direction { return r.dir }

// Err is nil after normal completion and the context error after an abort.
func (r *Run) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Run) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := State{Stage: r.stage, Position: r.position, Done: r.done, Err: r.err}
	if r.hop != nil {
		hf := r.hop.HopFrame
		st.Hop = &hf
	}
	return st
}

func (r *Run) tick() {
	r.mu.Lock()
	if r.done {
		r.mu.Unlock()
		return
	}

	var events []Event
	if err := r.ctx.Err(); err != nil {
		r.err = err
		r.done = true
		events = append(events, r.event(EventAborted))
	} else {
		r.ticks++
		if r.ticks%r.frames == 0 {
			events = r.advanceStage()
		} else if r.hop != nil {
			events = r.advanceHop()
		}
	}
	finished := r.done
	cancel := r.cancel
	r.mu.Unlock()

	observers := r.v.observerList()
	for _, e := range events {
		for _, o := range observers {
			o.OnEvent(e)
		}
	}

	if finished {
		if cancel != nil {
			cancel()
		}
		r.v.release(r)
		close(r.doneCh)
	}
}

func (r *Run) event(kind EventKind) Event {
	return Event{
		Kind:     kind,
		At:       r.v.opts.Scheduler.Now(),
		Stage:    r.stage,
		Position: r.position,
	}
}

func (r *Run) hopEvent(kind EventKind, h *hop) Event {
	e := r.event(kind)
	e.Hop = h.Hop
	e.From = h.From
	e.To = h.To
	e.Direction = h.Direction
	return e
}

func (r *Run) advanceStage() []Event {
	var events []Event
	if r.hop != nil {
		events = append(events, r.finishHop()...)
	}

	r.stage++
	v := r.v
	s := r.surface
	log := v.opts.Logger.With(zap.Int("stage", r.stage))

	switch {
	case r.stage == StageRevealFirst:
		v.problem.Render(s, problem.StageFirstOperand)
	case r.stage == StageStartMarker:
		if err := v.DrawStartPoint(s); err != nil {
			log.Error("start marker", zap.Error(err))
		}
		r.drawFigure(sprite.Stand, 2)
	case r.stage == StageRevealOperator:
		v.problem.Render(s, problem.StageOperator)
	case r.stage == StageOrient:
		switch v.problem.Operator() {
		case problem.Add:
			r.drawFigure(sprite.LookRight, 2.5)
		case problem.Subtract:
			r.drawFigure(sprite.LookLeft, 2.5)
		}
	case r.stage == StageRevealSecond:
		v.problem.Render(s, problem.StageOperands)
	case r.stage <= r.steps:
		events = append(events, r.event(EventStage))
		return append(events, r.startHop()...)
	default:
		v.problem.Render(s, problem.StageFull)
		r.done = true
		log.Debug("animation finished", zap.String("equation", v.problem.String()))
		events = append(events, r.event(EventStage))
		return append(events, r.event(EventDone))
	}

	log.Debug("stage")
	return append(events, r.event(EventStage))
}

// drawFigure draws a pose above the first operand, shifted left by
// offset ticks.
func (r *Run) drawFigure(pose sprite.Pose, offset float64) {
	p, err := r.v.line.PositionOf(r.v.problem.A())
	if err != nil {
		return
	}
	tick := r.v.line.TickSize()
	r.v.drawSprite(r.surface, pose, p.X-offset*tick, p.Y-16*tick)
}

func (r *Run) startHop() []Event {
	line := r.v.line
	target := r.v.problem.A() + r.dir.Sign()*r.stage
	p, err := line.PositionOf(target)
	if err != nil {
		r.v.opts.Logger.Error("hop target", zap.Int("target", target), zap.Error(err))
		return nil
	}

	radius := line.UnitDistance() / 2
	h := &hop{
		HopFrame: HopFrame{
			Hop:       r.stage,
			Frames:    r.frames,
			From:      r.position,
			To:        target,
			Direction: r.dir,
		},
		radius: radius,
	}
	switch r.dir {
	case Right:
		h.center = surface.Point{X: p.X - radius, Y: p.Y}
		h.startAngle, h.endAngle = math.Pi, 2*math.Pi
	case Left:
		h.center = surface.Point{X: p.X + radius, Y: p.Y}
		h.startAngle, h.endAngle = 2*math.Pi, math.Pi
	}
	h.increment = (h.endAngle - h.startAngle) / float64(r.frames)
	r.hop = h

	r.v.opts.Logger.Debug("hop",
		zap.Int("hop", h.Hop),
		zap.Int("from", h.From),
		zap.Int("to", h.To),
		zap.Stringer("direction", h.Direction),
	)

	events := []Event{r.hopEvent(EventHopStart, h)}
	return append(events, r.drawHopFrame()...)
}

func (r *Run) advanceHop() []Event {
	r.hop.Frame++
	return r.drawHopFrame()
}

func (r *Run) drawHopFrame() []Event {
	h := r.hop
	from, to := h.segment(h.Frame)
	r.surface.DrawArc(h.center, h.radius, from, to, h.Direction == Left)
	if h.Frame < h.Frames-1 {
		return nil
	}
	r.position = h.To
	r.hop = nil
	return []Event{r.hopEvent(EventHopEnd, h)}
}

// finishHop draws whatever is left of an unfinished hop in one stroke.
func (r *Run) finishHop() []Event {
	h := r.hop
	from, _ := h.segment(h.Frame + 1)
	h.Frame = h.Frames - 1
	r.surface.DrawArc(h.center, h.radius, from, h.endAngle, h.Direction == Left)
	r.position = h.To
	r.hop = nil
	return []Event{r.hopEvent(EventHopEnd, h)}
}
