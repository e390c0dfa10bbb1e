package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/numhop/internal/config"
	"github.com/san-kum/numhop/internal/input"
	"github.com/san-kum/numhop/internal/problem"
	"github.com/san-kum/numhop/internal/schedule"
	"github.com/san-kum/numhop/internal/storage"
	"github.com/san-kum/numhop/internal/surface"
	"github.com/san-kum/numhop/internal/visualiser"
)

// transcript runs one problem on a virtual clock and keeps what was drawn.
type transcript struct {
	cfg    *config.Config
	req    input.Request
	clock  *schedule.Virtual
	rec    *surface.Recorder
	vis    *visualiser.Visualiser
	events []visualiser.Event
}

func newTranscript(cfg *config.Config, req input.Request, sprites visualiser.Sprites, logger *zap.Logger) (*transcript, error) {
	line, err := cfg.NumberLine()
	if err != nil {
		return nil, err
	}
	t := &transcript{cfg: cfg, req: req, clock: schedule.NewVirtual()}
	t.rec = surface.NewRecorder()
	t.rec.Now = t.clock.Now
	t.vis = visualiser.New(line, cfg.NewProblem(req.Op, req.A, req.B), cfg.VisualiserOptions(t.clock, sprites, logger))
	t.vis.AddObserver(visualiser.ObserverFunc(func(e visualiser.Event) {
		t.events = append(t.events, e)
	}))
	return t, nil
}

// surfaceFor tees the transcript's recorder behind out, so text is measured
// by out when it can.
func (t *transcript) surfaceFor(out surface.Surface) surface.Surface {
	if out == nil {
		return t.rec
	}
	return surface.Tee(out, t.rec)
}

// play animates to the end on the virtual clock.
func (t *transcript) play(ctx context.Context, out surface.Surface) (storage.Outcome, error) {
	run, err := t.vis.Play(ctx, t.surfaceFor(out))
	if errors.Is(err, visualiser.ErrAnswerDoesNotFit) {
		return storage.OutcomeDoesNotFit, nil
	}
	if err != nil {
		return "", err
	}

	limit := time.Duration(t.vis.Steps()+7) * t.cfg.StepDuration()
	if !t.clock.RunUntilIdle(limit) {
		return storage.OutcomeAborted, fmt.Errorf("animation did not finish within %s", limit)
	}
	if err := run.Err(); err != nil {
		return storage.OutcomeAborted, err
	}
	return storage.OutcomeDone, nil
}

// drawStatic draws the finished picture without running the animation.
func (t *transcript) drawStatic(out surface.Surface) error {
	s := t.surfaceFor(out)
	t.vis.Reset(s)
	if err := t.vis.DrawStartPoint(s); err != nil {
		return err
	}
	if err := t.vis.DrawSteps(s); err != nil {
		return err
	}
	t.vis.Problem().Render(s, problem.StageFull)
	return nil
}

func (t *transcript) save(st *storage.Store, outcome storage.Outcome) (string, error) {
	p := t.vis.Problem()
	meta := storage.RunMetadata{
		Problem:      p.Describe(problem.StageOperands),
		Operator:     p.Operator().String(),
		A:            p.A(),
		B:            p.B(),
		Result:       problem.FormatNumber(p.Solve()),
		Min:          t.cfg.Line.Min,
		Max:          t.cfg.Line.Max,
		Width:        t.cfg.Line.Width,
		Scale:        t.cfg.Line.Scale,
		StepDuration: t.cfg.StepDuration(),
		Frames:       t.cfg.Animation.Frames,
		Outcome:      outcome,
	}
	return st.Save(meta, &storage.Trace{Ops: t.rec.Ops, Events: t.events})
}

// writeSurface draws onto a surface chosen by the file extension of path and
// writes it out. A path of "-" writes svg to stdout.
func writeSurface(path string, width, height float64, draw func(surface.Surface) error) error {
	if path == stdoutPath {
		return encodeSurface(os.Stdout, ".svg", width, height, draw)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".svg" && ext != ".png" {
		return fmt.Errorf("unsupported output %q (want .svg or .png)", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeSurface(f, ext, width, height, draw); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

const stdoutPath = "-"

func encodeSurface(w io.Writer, ext string, width, height float64, draw func(surface.Surface) error) error {
	switch ext {
	case ".svg":
		svg := surface.NewSVG(width, height)
		if err := draw(svg); err != nil {
			return err
		}
		_, err := io.WriteString(w, svg.String())
		return err
	case ".png":
		r, err := surface.NewRaster(int(width), int(height))
		if err != nil {
			return err
		}
		if err := draw(r); err != nil {
			return err
		}
		return r.EncodePNG(w)
	}
	return fmt.Errorf("unsupported format %q", ext)
}
