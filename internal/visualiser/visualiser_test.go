package visualiser_test

import (
	"context"
	"image"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/numhop/internal/numberline"
	"github.com/san-kum/numhop/internal/problem"
	"github.com/san-kum/numhop/internal/schedule"
	"github.com/san-kum/numhop/internal/sprite"
	"github.com/san-kum/numhop/internal/surface"
	"github.com/san-kum/numhop/internal/visualiser"
)

type staticSprites map[sprite.Pose]image.Image

func (s staticSprites) Get(p sprite.Pose) (image.Image, bool) {
	img, ok := s[p]
	return img, ok
}

func allSprites() staticSprites {
	img := image.NewRGBA(image.Rect(0, 0, 150, 250))
	return staticSprites{sprite.Stand: img, sprite.LookLeft: img, sprite.LookRight: img}
}

type fixture struct {
	line   *numberline.NumberLine
	clock  *schedule.Virtual
	rec    *surface.Recorder
	vis    *visualiser.Visualiser
	events []visualiser.Event
}

func newFixture(op problem.Operator, a, b int, sprites visualiser.Sprites) *fixture {
	line, err := numberline.New(numberline.Config{Width: 600, Scale: 1, Min: -10, Max: 10, X: 50, Y: 150})
	Expect(err).NotTo(HaveOccurred())

	f := &fixture{line: line, clock: schedule.NewVirtual()}
	f.rec = surface.NewRecorder()
	f.rec.Now = f.clock.Now
	f.vis = visualiser.New(line, problem.New(300, 40, op, a, b, 25), visualiser.Options{
		Scheduler: f.clock,
		Sprites:   sprites,
	})
	f.vis.AddObserver(visualiser.ObserverFunc(func(e visualiser.Event) {
		f.events = append(f.events, e)
	}))
	return f
}

func (f *fixture) eventsOf(kind visualiser.EventKind) []visualiser.Event {
	var out []visualiser.Event
	for _, e := range f.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (f *fixture) x(v int) float64 {
	p, err := f.line.PositionOf(v)
	Expect(err).NotTo(HaveOccurred())
	return p.X
}

var _ = Describe("HopDirection", func() {
	DescribeTable("direction by operator and sign of B",
		func(op problem.Operator, b int, want visualiser.Direction) {
			got, err := visualiser.HopDirection(op, b)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("add, positive B", problem.Add, 5, visualiser.Right),
		Entry("add, zero B", problem.Add, 0, visualiser.Right),
		Entry("add, negative B", problem.Add, -5, visualiser.Left),
		Entry("subtract, positive B", problem.Subtract, 5, visualiser.Left),
		Entry("subtract, zero B", problem.Subtract, 0, visualiser.Left),
		Entry("subtract, negative B", problem.Subtract, -5, visualiser.Right),
	)

	It("rejects multiply and divide", func() {
		_, err := visualiser.HopDirection(problem.Multiply, 2)
		Expect(err).To(MatchError(visualiser.ErrNotAnimatable))
		_, err = visualiser.HopDirection(problem.Divide, 2)
		Expect(err).To(MatchError(visualiser.ErrNotAnimatable))
	})
})

var _ = Describe("Visualiser", func() {
	Context("3 + 5 on [-10, 10]", func() {
		var f *fixture
		var run *visualiser.Run

		BeforeEach(func() {
			f = newFixture(problem.Add, 3, 5, allSprites())
			var err error
			run, err = f.vis.Animate(context.Background(), f.rec)
			Expect(err).NotTo(HaveOccurred())
		})

		It("draws nothing before the first period", func() {
			f.clock.Advance(999 * time.Millisecond)
			Expect(f.rec.Ops).To(BeEmpty())
			Expect(run.State().Stage).To(Equal(visualiser.StageRevealFirst - 1))
		})

		It("reveals the problem in stages", func() {
			f.clock.Advance(time.Second)
			texts := f.rec.Filter(surface.OpText)
			Expect(texts).To(HaveLen(1))
			Expect(texts[0].Text).To(Equal("3"))

			f.clock.Advance(2 * time.Second)
			texts = f.rec.Filter(surface.OpText)
			Expect(texts[len(texts)-1].Text).To(Equal("3 +"))

			f.clock.Advance(2 * time.Second)
			texts = f.rec.Filter(surface.OpText)
			Expect(texts[len(texts)-1].Text).To(Equal("3 + 5"))
			Expect(texts[len(texts)-1].At).To(Equal(5 * time.Second))
			Expect(run.State().Stage).To(Equal(visualiser.StageRevealSecond))
		})

		It("places the marker and the figures above the first operand", func() {
			f.clock.Advance(4 * time.Second)

			circles := f.rec.Filter(surface.OpCircle)
			Expect(circles).To(HaveLen(1))
			Expect(circles[0].P1.X).To(BeNumerically("~", f.x(3), 1e-9))
			Expect(circles[0].Radius).To(Equal(3.75))
			Expect(circles[0].Color).To(Equal("#000000"))

			images := f.rec.Filter(surface.OpImage)
			Expect(images).To(HaveLen(2))
			Expect(images[0].P1.X).To(BeNumerically("~", f.x(3)-7.5, 1e-9))
			Expect(images[0].P1.Y).To(Equal(90.0))
			Expect(images[0].W).To(BeNumerically("~", 30, 1e-9))
			Expect(images[0].H).To(BeNumerically("~", 50, 1e-9))
			Expect(images[1].P1.X).To(BeNumerically("~", f.x(3)-9.375, 1e-9))
		})

		It("hops right five times and ends on the full equation", func() {
			f.clock.Advance(11 * time.Second)

			Eventually(run.Done()).Should(BeClosed())
			st := run.State()
			Expect(st.Done).To(BeTrue())
			Expect(st.Stage).To(Equal(6))
			Expect(st.Position).To(Equal(8))
			Expect(run.Err()).NotTo(HaveOccurred())

			texts := f.rec.Filter(surface.OpText)
			Expect(texts[len(texts)-1].Text).To(Equal("3 + 5 = 8"))
			Expect(texts[len(texts)-1].At).To(Equal(11 * time.Second))

			hops := f.eventsOf(visualiser.EventHopEnd)
			Expect(hops).To(HaveLen(5))
			for i, h := range hops {
				Expect(h.Direction).To(Equal(visualiser.Right))
				Expect(h.From).To(Equal(3 + i))
				Expect(h.To).To(Equal(4 + i))
			}
			Expect(f.eventsOf(visualiser.EventDone)).To(HaveLen(1))

			Expect(f.vis.Active()).To(BeNil())
			Expect(f.clock.Pending()).To(Equal(0))
		})

		It("draws each hop as twenty clockwise slices from pi to 2pi", func() {
			f.clock.Advance(6950 * time.Millisecond)

			arcs := f.rec.Filter(surface.OpArc)
			Expect(arcs).To(HaveLen(20))

			radius := f.line.UnitDistance() / 2
			for k, a := range arcs {
				Expect(a.CCW).To(BeFalse())
				Expect(a.Radius).To(BeNumerically("~", radius, 1e-9))
				Expect(a.P1.X).To(BeNumerically("~", f.x(4)-radius, 1e-9))
				Expect(a.Start).To(BeNumerically("~", math.Pi+float64(k)*math.Pi/20, 1e-9))
				Expect(a.At).To(Equal(6*time.Second + time.Duration(k)*50*time.Millisecond))
				if k > 0 {
					Expect(a.Start).To(Equal(arcs[k-1].End))
				}
			}
			Expect(arcs[0].Start).To(Equal(math.Pi))
			Expect(arcs[19].End).To(Equal(2 * math.Pi))
		})

		It("refuses a second animation while one is in flight", func() {
			f.clock.Advance(3 * time.Second)
			_, err := f.vis.Animate(context.Background(), f.rec)
			Expect(err).To(MatchError(visualiser.ErrAnimationInFlight))

			f.clock.Advance(8 * time.Second)
			Expect(run.State().Done).To(BeTrue())

			again, err := f.vis.Animate(context.Background(), f.rec)
			Expect(err).NotTo(HaveOccurred())
			Expect(again).NotTo(BeIdenticalTo(run))
		})

		It("stops on context cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			g := newFixture(problem.Add, 3, 5, nil)
			r, err := g.vis.Animate(ctx, g.rec)
			Expect(err).NotTo(HaveOccurred())

			g.clock.Advance(2 * time.Second)
			cancel()
			g.clock.Advance(50 * time.Millisecond)

			Expect(r.Done()).To(BeClosed())
			Expect(r.Err()).To(MatchError(context.Canceled))
			Expect(g.vis.Active()).To(BeNil())
			Expect(g.eventsOf(visualiser.EventAborted)).To(HaveLen(1))
			Expect(g.clock.Pending()).To(Equal(0))
		})
	})

	Context("2 - 7 on [-10, 10]", func() {
		It("faces left and hops counter-clockwise down to -5", func() {
			f := newFixture(problem.Subtract, 2, 7, allSprites())
			run, err := f.vis.Animate(context.Background(), f.rec)
			Expect(err).NotTo(HaveOccurred())
			Expect(run.Direction()).To(Equal(visualiser.Left))

			f.clock.Advance(13 * time.Second)
			Expect(run.State().Position).To(Equal(-5))

			arcs := f.rec.Filter(surface.OpArc)
			Expect(arcs).To(HaveLen(7 * 20))
			radius := f.line.UnitDistance() / 2
			Expect(arcs[0].CCW).To(BeTrue())
			Expect(arcs[0].Start).To(Equal(2 * math.Pi))
			Expect(arcs[0].P1.X).To(BeNumerically("~", f.x(1)+radius, 1e-9))
			Expect(arcs[19].End).To(Equal(math.Pi))

			texts := f.rec.Filter(surface.OpText)
			Expect(texts[len(texts)-1].Text).To(Equal("2 - 7 = -5"))
		})
	})

	Context("with a zero second operand", func() {
		It("goes straight from the revealed operands to the equation", func() {
			f := newFixture(problem.Add, 3, 0, nil)
			run, err := f.vis.Animate(context.Background(), f.rec)
			Expect(err).NotTo(HaveOccurred())

			f.clock.Advance(6 * time.Second)
			Expect(run.Done()).To(BeClosed())
			Expect(f.rec.Filter(surface.OpArc)).To(BeEmpty())
			texts := f.rec.Filter(surface.OpText)
			Expect(texts[len(texts)-1].Text).To(Equal("3 + 0 = 3"))
		})
	})

	Context("when sprites have not loaded", func() {
		It("skips the figure without failing", func() {
			f := newFixture(problem.Add, 1, 1, staticSprites{})
			run, err := f.vis.Animate(context.Background(), f.rec)
			Expect(err).NotTo(HaveOccurred())

			f.clock.Advance(7 * time.Second)
			Expect(run.Done()).To(BeClosed())
			Expect(f.rec.Filter(surface.OpImage)).To(BeEmpty())
			Expect(f.rec.Filter(surface.OpCircle)).To(HaveLen(1))
		})
	})

	Context("precheck", func() {
		It("aborts 9 + 5 before starting the timer", func() {
			f := newFixture(problem.Add, 9, 5, allSprites())
			run, err := f.vis.Animate(context.Background(), f.rec)

			Expect(run).To(BeNil())
			Expect(err).To(MatchError(visualiser.ErrAnswerDoesNotFit))
			Expect(err.Error()).To(ContainSubstring("The answer to 9 + 5 is outside the bounds, (-10, 10), of the number line."))
			Expect(f.clock.Pending()).To(Equal(0))

			Expect(f.rec.Ops).To(HaveLen(1))
			msg := f.rec.Ops[0]
			Expect(msg.Kind).To(Equal(surface.OpText))
			Expect(msg.Text).To(Equal("The answer does not fit on this numberline"))
			Expect(msg.P1.X).To(BeNumerically("~", 700.0/6, 1e-9))
			Expect(msg.P1.Y).To(Equal(37.5))

			f.clock.Advance(time.Minute)
			Expect(f.rec.Filter(surface.OpArc)).To(BeEmpty())
			Expect(f.vis.Active()).To(BeNil())
		})

		It("rejects a first operand that is not on the line", func() {
			f := newFixture(problem.Add, 15, -10, nil)
			_, err := f.vis.Animate(context.Background(), f.rec)
			Expect(err).To(MatchError(visualiser.ErrOperandOutOfBounds))
		})

		It("rejects operators it cannot animate", func() {
			f := newFixture(problem.Multiply, 2, 3, nil)
			_, err := f.vis.Animate(context.Background(), f.rec)
			Expect(err).To(MatchError(visualiser.ErrNotAnimatable))
			Expect(f.rec.Ops).To(BeEmpty())
		})

		It("rejects frames that do not divide the step", func() {
			line, err := numberline.New(numberline.Config{Width: 600, Scale: 1, Min: -10, Max: 10, X: 50, Y: 150})
			Expect(err).NotTo(HaveOccurred())
			clock := schedule.NewVirtual()
			rec := surface.NewRecorder()
			vis := visualiser.New(line, problem.New(300, 40, problem.Add, -10, 20, 25), visualiser.Options{
				Scheduler:    clock,
				StepDuration: time.Second,
				Frames:       7,
			})

			_, err = vis.Animate(context.Background(), rec)
			Expect(err).To(MatchError(visualiser.ErrUnevenFrames))
			_, err = vis.Play(context.Background(), rec)
			Expect(err).To(MatchError(visualiser.ErrUnevenFrames))
			Expect(rec.Ops).To(BeEmpty())
			Expect(clock.Pending()).To(Equal(0))
		})
	})

	Describe("observers", func() {
		It("notifies an observer added while a run is in flight", func() {
			f := newFixture(problem.Add, 3, 5, nil)
			run, err := f.vis.Animate(context.Background(), f.rec)
			Expect(err).NotTo(HaveOccurred())

			f.clock.Advance(5 * time.Second)
			var late []visualiser.Event
			f.vis.AddObserver(visualiser.ObserverFunc(func(e visualiser.Event) {
				late = append(late, e)
			}))
			f.clock.Advance(6 * time.Second)

			Eventually(run.Done()).Should(BeClosed())
			Expect(late).NotTo(BeEmpty())
			Expect(late[0].Kind).To(Equal(visualiser.EventStage))
			Expect(late[0].Stage).To(Equal(1))
			Expect(late[len(late)-1].Kind).To(Equal(visualiser.EventDone))
		})

		It("accepts observers from another goroutine on the realtime scheduler", func() {
			line, err := numberline.New(numberline.Config{Width: 600, Scale: 1, Min: -10, Max: 10, X: 50, Y: 150})
			Expect(err).NotTo(HaveOccurred())
			vis := visualiser.New(line, problem.New(300, 40, problem.Add, 1, 2, 25), visualiser.Options{
				Scheduler:    schedule.NewRealtime(),
				StepDuration: 10 * time.Millisecond,
				Frames:       2,
			})
			run, err := vis.Animate(context.Background(), surface.NewRecorder())
			Expect(err).NotTo(HaveOccurred())

			added := make(chan struct{})
			go func() {
				defer close(added)
				for i := 0; i < 10; i++ {
					vis.AddObserver(visualiser.ObserverFunc(func(visualiser.Event) {}))
					time.Sleep(2 * time.Millisecond)
				}
			}()

			Eventually(run.Done(), time.Second).Should(BeClosed())
			Eventually(added, time.Second).Should(BeClosed())
			Expect(run.Err()).NotTo(HaveOccurred())
		})
	})

	Describe("Play", func() {
		It("clears the canvas and draws the line before animating", func() {
			f := newFixture(problem.Add, 3, 5, nil)
			_, err := f.vis.Play(context.Background(), f.rec)
			Expect(err).NotTo(HaveOccurred())

			Expect(f.rec.Ops[0].Kind).To(Equal(surface.OpClear))
			Expect(f.rec.Ops[0].W).To(Equal(700.0))
			Expect(f.rec.Ops[0].H).To(Equal(300.0))
			Expect(f.rec.Filter(surface.OpText)).To(HaveLen(21))
		})
	})

	Describe("DrawSteps", func() {
		It("draws every hop of 3 + 5 at once", func() {
			f := newFixture(problem.Add, 3, 5, nil)
			Expect(f.vis.DrawSteps(f.rec)).To(Succeed())

			arcs := f.rec.Filter(surface.OpArc)
			Expect(arcs).To(HaveLen(5))
			radius := f.line.UnitDistance() / 2
			for i, a := range arcs {
				Expect(a.P1.X).To(BeNumerically("~", f.x(3+i)+radius, 1e-9))
				Expect(a.Start).To(Equal(math.Pi))
				Expect(a.End).To(Equal(2 * math.Pi))
			}
		})

		It("refuses multiplication", func() {
			f := newFixture(problem.Multiply, 3, 5, nil)
			Expect(f.vis.DrawSteps(f.rec)).To(MatchError(visualiser.ErrNotAnimatable))
		})
	})
})
