package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/numhop/internal/config"
	"github.com/san-kum/numhop/internal/input"
	"github.com/san-kum/numhop/internal/logging"
	"github.com/san-kum/numhop/internal/problem"
	"github.com/san-kum/numhop/internal/sprite"
	"github.com/san-kum/numhop/internal/storage"
	"github.com/san-kum/numhop/internal/surface"
	"github.com/san-kum/numhop/internal/tui"
	"github.com/san-kum/numhop/internal/visualiser"
)

var (
	configFile string
	preset     string
	dataDir    string
	logLevel   string
	logFormat  string
	lineMin    int
	lineMax    int
	stepMs     int
	frames     int
	spriteDir  string
	centering  string
	theme      string
	hold       time.Duration
	outPath    string
	frame      string
	replayAt   time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "numhop",
		Short:        "animate addition and subtraction as hops along a number line",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, nil)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level")
	pf.StringVar(&logFormat, "log-format", config.DefaultLogFormat, "log format (console or json)")
	pf.IntVar(&lineMin, "min", config.DefaultLineMin, "smallest labeled number")
	pf.IntVar(&lineMax, "max", config.DefaultLineMax, "largest labeled number")
	pf.IntVar(&stepMs, "step-ms", config.DefaultStepMillis, "milliseconds per stage")
	pf.IntVar(&frames, "frames", visualiser.DefaultFrames, "frames per hop")
	pf.StringVar(&spriteDir, "sprites", "", "directory holding sprite-*.png (drawn figures when empty)")
	pf.StringVar(&centering, "labels", config.CenteringMeasured, "label centering (measured or heuristic)")

	rootCmd.Flags().StringVar(&theme, "theme", "", fmt.Sprintf("color theme %v", tui.ThemeNames()))

	animateCmd := &cobra.Command{
		Use:   "animate A OP B",
		Short: "animate a problem in the terminal",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := input.ParseArgs(args)
			if err != nil {
				return err
			}
			return runInteractive(cmd, &req)
		},
	}
	animateCmd.Flags().DurationVar(&hold, "hold", 3*time.Second, "how long the finished picture stays before exiting")
	animateCmd.Flags().StringVar(&theme, "theme", "", fmt.Sprintf("color theme %v", tui.ThemeNames()))

	exportCmd := &cobra.Command{
		Use:   "export A OP B",
		Short: "render a problem to an svg or png file",
		Args:  cobra.RangeArgs(1, 3),
		RunE:  exportProblem,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "numhop.svg", "output file (.svg or .png, - for svg on stdout)")
	exportCmd.Flags().StringVar(&frame, "frame", "final", "final (last animation frame) or static (every hop drawn at once)")

	solveCmd := &cobra.Command{
		Use:   "solve A OP B",
		Short: "print each reveal stage of a problem",
		Args:  cobra.RangeArgs(1, 3),
		RunE:  solveProblem,
	}

	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "print the number line positions",
		Args:  cobra.NoArgs,
		RunE:  printLayout,
	}

	recordCmd := &cobra.Command{
		Use:   "record A OP B",
		Short: "run a problem headless and save its transcript",
		Args:  cobra.RangeArgs(1, 3),
		RunE:  recordProblem,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	replayCmd := &cobra.Command{
		Use:   "replay RUN",
		Short: "redraw a recorded run to an svg or png file",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}
	replayCmd.Flags().StringVarP(&outPath, "out", "o", "replay.svg", "output file (.svg or .png, - for svg on stdout)")
	replayCmd.Flags().DurationVar(&replayAt, "at", 0, "stop at this point of the timeline (0 for the end)")

	plotCmd := &cobra.Command{
		Use:   "plot RUN",
		Short: "plot where the figure stood over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tRANGE\tWIDTH\tSCALE")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t[%d, %d]\t%.0f\t%d\n", name, cfg.Line.Min, cfg.Line.Max, cfg.Line.Width, cfg.Line.Scale)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(animateCmd, exportCmd, solveCmd, layoutCmd, recordCmd, listCmd, replayCmd, plotCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves defaults, then the preset, then the config file, then
// any flag set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("min") {
		cfg.Line.Min = lineMin
	}
	if flags.Changed("max") {
		cfg.Line.Max = lineMax
	}
	if flags.Changed("step-ms") {
		cfg.Animation.StepDurationMs = stepMs
	}
	if flags.Changed("frames") {
		cfg.Animation.Frames = frames
	}
	if flags.Changed("sprites") {
		cfg.Sprites.Dir = spriteDir
	}
	if flags.Changed("labels") {
		cfg.Labels.Centering = centering
	}
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger writes to log.file when set. The terminal front-end owns the
// screen, so without a file it logs nothing.
func newLogger(cfg *config.Config, interactive bool) (*zap.Logger, error) {
	if cfg.Log.File != "" {
		return logging.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	}
	if interactive {
		return zap.NewNop(), nil
	}
	return logging.New(cfg.Log.Level, cfg.Log.Format)
}

func setup(cmd *cobra.Command, interactive bool) (*config.Config, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg, interactive)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runInteractive(cmd *cobra.Command, req *input.Request) error {
	cfg, logger, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return tui.Run(tui.Options{
		Config:  cfg,
		Logger:  logger,
		Sprites: sprite.Preload(ctx, cfg.SpriteSource(), logger, sprite.Poses...),
		Theme:   theme,
		Request: req,
		Hold:    hold,
		Exit:    req != nil,
	})
}

// headless prepares a transcript with every sprite loaded up front.
func headless(cmd *cobra.Command, args []string) (*config.Config, *zap.Logger, *transcript, error) {
	req, err := input.ParseArgs(args)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, logger, err := setup(cmd, false)
	if err != nil {
		return nil, nil, nil, err
	}

	sprites := sprite.Preload(cmd.Context(), cfg.SpriteSource(), logger, sprite.Poses...)
	if err := sprites.Wait(); err != nil {
		logger.Warn("drawing without some sprites", zap.Error(err))
	}

	t, err := newTranscript(cfg, req, sprites, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, t, nil
}

func exportProblem(cmd *cobra.Command, args []string) error {
	cfg, logger, t, err := headless(cmd, args)
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

	err = writeSurface(outPath, cfg.Canvas.Width, cfg.Canvas.Height, func(s surface.Surface) error {
		switch frame {
		case "final":
			outcome, err := t.play(cmd.Context(), s)
			if err != nil {
				return err
			}
			if outcome == storage.OutcomeDoesNotFit {
				logger.Warn("exported the does-not-fit message", zap.String("problem", t.req.String()))
			}
			return nil
		case "static":
			return t.drawStatic(s)
		}
		return fmt.Errorf("unknown frame %q (want final or static)", frame)
	})
	if err != nil {
		return err
	}

	if outPath != stdoutPath {
		fmt.Printf("wrote %s\n", outPath)
	}
	return nil
}

func solveProblem(cmd *cobra.Command, args []string) error {
	req, err := input.ParseArgs(args)
	if err != nil {
		return err
	}
	p := req.Problem(0, 0, 0)
	for stage := problem.StageFirstOperand; stage <= problem.StageFull; stage++ {
		fmt.Println(p.Describe(stage))
	}
	return nil
}

func printLayout(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	line, err := cfg.NumberLine()
	if err != nil {
		return err
	}
	fmt.Print(line.Print())
	fmt.Printf("unit distance %.4f, tick size %.4f\n", line.UnitDistance(), line.TickSize())
	return nil
}

func recordProblem(cmd *cobra.Command, args []string) error {
	cfg, logger, t, err := headless(cmd, args)
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

	outcome, err := t.play(cmd.Context(), nil)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := t.save(st, outcome)
	if err != nil {
		return err
	}

	logger.Info("run recorded",
		zap.String("run_id", runID),
		zap.String("problem", t.req.String()),
		zap.String("outcome", string(outcome)),
	)
	fmt.Println(runID)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	runs, err := storage.New(cfg.DataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROBLEM\tRESULT\tRANGE\tOUTCOME\tHOPS\tTIME")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t[%d, %d]\t%s\t%d\t%s\n",
			run.ID[:8],
			run.Problem,
			run.Result,
			run.Min, run.Max,
			run.Outcome,
			run.Hops,
			run.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}
	return w.Flush()
}

func loadRun(cmd *cobra.Command, prefix string) (*config.Config, *storage.Store, *storage.RunMetadata, *storage.Trace, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	st := storage.New(cfg.DataDir)
	runID, err := st.Resolve(prefix)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return cfg, st, meta, trace, nil
}

// replayRun redraws recorded ops. Sprite pixels are not stored, so figures
// are left out.
func replayRun(cmd *cobra.Command, args []string) error {
	cfg, _, meta, trace, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	ops := trace.Ops
	if replayAt > 0 {
		n := 0
		for n < len(ops) && ops[n].At <= replayAt {
			n++
		}
		ops = ops[:n]
	}

	err = writeSurface(outPath, cfg.Canvas.Width, cfg.Canvas.Height, func(s surface.Surface) error {
		surface.Replay(ops, s)
		return nil
	})
	if err != nil {
		return err
	}
	if outPath != stdoutPath {
		fmt.Printf("wrote %s (%s, %d of %d ops)\n", outPath, meta.Problem, len(ops), len(trace.Ops))
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	_, _, meta, trace, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	if meta.Outcome == storage.OutcomeDoesNotFit {
		return errors.New("run was not animated: the answer does not fit on its number line")
	}

	step := meta.StepDuration / time.Duration(max(meta.Frames, 1))
	series := trace.PositionSeries(meta.A, step)
	if len(series) == 0 {
		return errors.New("run has no events to plot")
	}

	fmt.Printf("\n  %s = %s\n\n", meta.Problem, meta.Result)
	graph := asciigraph.Plot(series,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("position over time (%d hops, %s per stage)", meta.Hops, meta.StepDuration)),
	)
	fmt.Println(graph)
	fmt.Println()
	return nil
}
