package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/san-kum/numhop/internal/config"
	"github.com/san-kum/numhop/internal/input"
	"github.com/san-kum/numhop/internal/schedule"
	"github.com/san-kum/numhop/internal/surface"
	"github.com/san-kum/numhop/internal/visualiser"
)

const (
	frameInterval = 33 * time.Millisecond
	minSpeed      = 0.25
	maxSpeed      = 8
)

type Options struct {
	Config  *config.Config
	Logger  *zap.Logger
	Sprites visualiser.Sprites
	Theme   string

	// Request, when set, is animated straight away instead of prompting.
	Request *input.Request
	// Hold is how long the finished picture stays before Exit applies.
	Hold time.Duration
	// Exit quits after the hold instead of returning to the prompt.
	Exit bool
}

type state int

const (
	stateInput state = iota
	stateAnimating
	stateDone
)

// session is one animation. The visualiser draws into rec on the virtual
// clock; the view replays rec onto a braille grid sized to the window.
type session struct {
	req    input.Request
	clock  *schedule.Virtual
	rec    *surface.Recorder
	vis    *visualiser.Visualiser
	run    *visualiser.Run
	cancel context.CancelFunc
	last   visualiser.Event
	hops   int
	held   bool
	err    error
}

type model struct {
	opts   Options
	styles styles

	state    state
	buf      string
	inputErr error
	sess     *session

	paused   bool
	speed    float64
	lastTick time.Time

	width  int
	height int
}

func newModel(opts Options) model {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return model{
		opts:   opts,
		styles: newStyles(GetTheme(opts.Theme)),
		speed:  1,
		width:  80,
		height: 24,
	}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd {
	if m.opts.Request != nil {
		return func() tea.Msg { return startMsg(*m.opts.Request) }
	}
	return nil
}

type startMsg input.Request

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case startMsg:
		return m.start(input.Request(msg))
	case tickMsg:
		return m.step(time.Time(msg))
	}
	return m, nil
}

// start builds a fresh session for req and kicks off the animation.
func (m model) start(req input.Request) (model, tea.Cmd) {
	cfg := m.opts.Config
	line, err := cfg.NumberLine()
	if err != nil {
		m.inputErr = err
		return m, nil
	}

	s := &session{req: req, clock: schedule.NewVirtual()}
	s.rec = surface.NewRecorder()
	s.rec.Now = s.clock.Now
	s.vis = visualiser.New(line, req.Problem(cfg.Problem.X, cfg.Problem.Y, cfg.Problem.FontSize),
		cfg.VisualiserOptions(s.clock, m.opts.Sprites, m.opts.Logger))
	s.vis.AddObserver(visualiser.ObserverFunc(func(e visualiser.Event) {
		s.last = e
		if e.Kind == visualiser.EventHopEnd {
			s.hops++
		}
	}))

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.run, s.err = s.vis.Play(ctx, s.rec)

	m.sess = s
	m.buf = ""
	m.inputErr = nil
	m.paused = false
	m.lastTick = time.Time{}
	m.state = stateAnimating

	if s.err != nil {
		m.opts.Logger.Info("problem not animated", zap.String("problem", req.String()), zap.Error(s.err))
		m.finish()
	}
	return m, tick()
}

// finish moves to the done state and starts the hold timer.
func (m *model) finish() {
	m.state = stateDone
	s := m.sess
	s.cancel()
	s.clock.After(m.opts.Hold, func() { s.held = true })
}

func (m model) step(now time.Time) (tea.Model, tea.Cmd) {
	if m.state == stateInput || m.sess == nil {
		return m, nil
	}
	s := m.sess

	var elapsed time.Duration
	if !m.lastTick.IsZero() {
		elapsed = now.Sub(m.lastTick)
	}
	m.lastTick = now
	if !m.paused && elapsed > 0 {
		s.clock.Advance(time.Duration(float64(elapsed) * m.speed))
	}

	if m.state == stateAnimating && s.run != nil {
		select {
		case <-s.run.Done():
			s.err = s.run.Err()
			m.finish()
		default:
		}
	}

	if m.state == stateDone && s.held && m.opts.Exit {
		return m, tea.Quit
	}
	if m.state == stateDone && s.held {
		return m, nil
	}
	return m, tick()
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if m.sess != nil {
			m.sess.cancel()
		}
		return m, tea.Quit
	}
	switch m.state {
	case stateInput:
		return m.inputKey(msg)
	case stateAnimating:
		return m.animKey(msg)
	case stateDone:
		return m.doneKey(msg)
	}
	return m, nil
}

func (m model) inputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		req, err := input.ParseExpression(m.buf)
		if err != nil {
			m.inputErr = err
			return m, nil
		}
		return m.start(req)
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyBackspace:
		if len(m.buf) > 0 {
			r := []rune(m.buf)
			m.buf = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.buf += " "
	case tea.KeyRunes:
		m.buf += string(msg.Runes)
	}
	return m, nil
}

func (m model) animKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.sess.cancel()
		return m, tea.Quit
	case "esc":
		m.sess.cancel()
	case " ":
		m.paused = !m.paused
	case "+", "=":
		if m.speed < maxSpeed {
			m.speed *= 2
		}
	case "-":
		if m.speed > minSpeed {
			m.speed /= 2
		}
	}
	return m, nil
}

func (m model) doneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "r":
		return m.start(m.sess.req)
	case "enter", "n":
		m.state = stateInput
		m.buf = ""
		return m, nil
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	st := m.styles

	b.WriteString("\n")
	b.WriteString(st.dimmer.Render("   ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("          " + st.title.Render("n u m h o p") + "\n")
	b.WriteString(st.dimmer.Render("   ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n\n")

	if m.state == stateInput {
		b.WriteString("   " + st.dim.Render("problem ") + st.accent.Render(m.buf+"▋") + "\n\n")
		if m.inputErr != nil {
			b.WriteString("   " + st.err.Render(m.inputErr.Error()) + "\n\n")
		}
		b.WriteString(st.dim.Render("   type e.g. 3 + 5 or 2 - -4   enter animate   esc quit") + "\n")
		return b.String()
	}

	for _, row := range m.canvas().Lines() {
		b.WriteString("   " + st.canvas.Render(row) + "\n")
	}
	b.WriteString("\n" + m.status() + "\n")

	if m.state == stateDone {
		b.WriteString("\n" + st.dim.Render("   r replay   n new problem   q quit") + "\n")
	} else {
		b.WriteString("\n" + st.dim.Render("   space pause   ±speed   esc stop   q quit") + "\n")
	}
	return b.String()
}

// canvas replays everything drawn so far onto a grid that fits the window.
func (m model) canvas() *surface.Braille {
	cfg := m.opts.Config
	cols := m.width - 6
	if cols < 40 {
		cols = 40
	}
	rows := int(float64(cols)*2*cfg.Canvas.Height/(cfg.Canvas.Width*4)) + 1
	if limit := m.height - 10; rows > limit {
		rows = max(limit, 8)
	}

	grid := surface.NewBraille(cols, rows, cfg.Canvas.Width, cfg.Canvas.Height)
	if m.sess != nil {
		surface.Replay(m.sess.rec.Ops, grid)
	}
	return grid
}

func (m model) status() string {
	st := m.styles
	s := m.sess

	switch {
	case m.state == stateDone && errors.Is(s.err, visualiser.ErrAnswerDoesNotFit):
		return "   " + st.warning.Render("✗ ") + st.text.Render(s.req.String()) + "  " + st.err.Render("does not fit on this number line")
	case m.state == stateDone && s.err != nil:
		return "   " + st.warning.Render("■ ") + st.text.Render(s.req.String()) + "  " + st.err.Render(s.err.Error())
	case m.state == stateDone:
		return "   " + st.success.Render("● ") + st.text.Render(s.vis.Problem().String()) +
			st.dim.Render(fmt.Sprintf("  %d hops", s.hops))
	}

	icon := st.success.Render("●")
	label := st.success.Render("hopping")
	if m.paused {
		icon = st.warning.Render("○")
		label = st.warning.Render("paused")
	}
	at := st.dim.Render(fmt.Sprintf("t=%.2fs", s.clock.Now().Seconds()))
	pos := st.dim.Render("at ") + st.accent.Render(fmt.Sprintf("%d", s.run.State().Position))
	speed := st.dim.Render(fmt.Sprintf("×%.2g", m.speed))
	return fmt.Sprintf("   %s %s  %s  %s  %s  %s", icon, st.text.Render(s.req.String()), label, pos, at, speed)
}

// Run starts the terminal front-end and blocks until it quits.
func Run(opts Options) error {
	p := tea.NewProgram(newModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
