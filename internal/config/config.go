package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/numhop/internal/numberline"
	"github.com/san-kum/numhop/internal/problem"
	"github.com/san-kum/numhop/internal/schedule"
	"github.com/san-kum/numhop/internal/sprite"
	"github.com/san-kum/numhop/internal/visualiser"
)

const (
	DefaultLineWidth    = 600.0
	DefaultLineScale    = 1
	DefaultLineMin      = -10
	DefaultLineMax      = 10
	DefaultLineX        = 50.0
	DefaultLineY        = 150.0
	DefaultProblemX     = 300.0
	DefaultProblemY     = 40.0
	DefaultFontSize     = 25.0
	DefaultStepMillis   = 1000
	DefaultDataDir      = ".numhop/runs"
	CenteringMeasured   = "measured"
	CenteringHeuristic  = "heuristic"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
	DefaultCanvasWidth  = visualiser.DefaultCanvasWidth
	DefaultCanvasHeight = visualiser.DefaultCanvasHeight
)

var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	Line      LineConfig      `yaml:"line"`
	Problem   ProblemConfig   `yaml:"problem"`
	Canvas    CanvasConfig    `yaml:"canvas"`
	Animation AnimationConfig `yaml:"animation"`
	Sprites   SpriteConfig    `yaml:"sprites"`
	Labels    LabelConfig     `yaml:"labels"`
	Log       LogConfig       `yaml:"log"`
	DataDir   string          `yaml:"data_dir"`
}

type LineConfig struct {
	Width float64 `yaml:"width"`
	Scale int     `yaml:"scale"`
	Min   int     `yaml:"min"`
	Max   int     `yaml:"max"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
}

type ProblemConfig struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	FontSize float64 `yaml:"font_size"`
}

type CanvasConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type AnimationConfig struct {
	StepDurationMs int `yaml:"step_duration_ms"`
	Frames         int `yaml:"frames"`
}

type SpriteConfig struct {
	Dir   string  `yaml:"dir"`
	Scale float64 `yaml:"scale"`
}

type LabelConfig struct {
	Centering string `yaml:"centering"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Line: LineConfig{
			Width: DefaultLineWidth,
			Scale: DefaultLineScale,
			Min:   DefaultLineMin,
			Max:   DefaultLineMax,
			X:     DefaultLineX,
			Y:     DefaultLineY,
		},
		Problem: ProblemConfig{
			X:        DefaultProblemX,
			Y:        DefaultProblemY,
			FontSize: DefaultFontSize,
		},
		Canvas: CanvasConfig{
			Width:  DefaultCanvasWidth,
			Height: DefaultCanvasHeight,
		},
		Animation: AnimationConfig{
			StepDurationMs: DefaultStepMillis,
			Frames:         visualiser.DefaultFrames,
		},
		Sprites: SpriteConfig{
			Scale: visualiser.DefaultSpriteScale,
		},
		Labels: LabelConfig{Centering: CenteringMeasured},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		DataDir: DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every setting the visualiser could not work with.
// Each problem wraps ErrInvalid.
func (c *Config) Validate() error {
	var err error
	check := func(bad bool, format string, args ...any) {
		if bad {
			err = multierr.Append(err, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Line.Width <= 0, "line.width must be positive, got %g", c.Line.Width)
	check(c.Line.Scale < 1, "line.scale must be at least 1, got %d", c.Line.Scale)
	check(c.Line.Min >= c.Line.Max, "line.min (%d) must be less than line.max (%d)", c.Line.Min, c.Line.Max)
	check(c.Problem.FontSize <= 0, "problem.font_size must be positive")
	check(c.Canvas.Width <= 0 || c.Canvas.Height <= 0, "canvas must have a positive size")
	check(c.Animation.StepDurationMs <= 0, "animation.step_duration_ms must be positive")
	check(c.Animation.Frames < 1, "animation.frames must be at least 1")
	check(c.Animation.Frames >= 1 && c.StepDuration()%time.Duration(c.Animation.Frames) != 0,
		"animation.frames (%d) must divide animation.step_duration_ms (%d) into whole nanoseconds",
		c.Animation.Frames, c.Animation.StepDurationMs)
	check(c.Sprites.Scale <= 0, "sprites.scale must be positive")

	switch c.Labels.Centering {
	case CenteringMeasured, CenteringHeuristic:
	default:
		check(true, "labels.centering must be %s or %s, got %q", CenteringMeasured, CenteringHeuristic, c.Labels.Centering)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		check(true, "log.format must be console or json, got %q", c.Log.Format)
	}
	return err
}

func (c *Config) StepDuration() time.Duration {
	return time.Duration(c.Animation.StepDurationMs) * time.Millisecond
}

func (c *Config) NumberLine() (*numberline.NumberLine, error) {
	centering := numberline.CenterMeasured
	if c.Labels.Centering == CenteringHeuristic {
		centering = numberline.CenterHeuristic
	}
	return numberline.New(numberline.Config{
		Width:     c.Line.Width,
		Scale:     c.Line.Scale,
		Min:       c.Line.Min,
		Max:       c.Line.Max,
		X:         c.Line.X,
		Y:         c.Line.Y,
		Centering: centering,
	})
}

func (c *Config) NewProblem(op problem.Operator, a, b int) *problem.Problem {
	return problem.New(c.Problem.X, c.Problem.Y, op, a, b, c.Problem.FontSize)
}

// SpriteSource reads PNGs from sprites.dir, or draws the figures when no
// directory is configured.
func (c *Config) SpriteSource() sprite.Source {
	if c.Sprites.Dir == "" {
		return sprite.Procedural{}
	}
	return sprite.FileSource{Dir: c.Sprites.Dir}
}

func (c *Config) VisualiserOptions(sched schedule.Scheduler, sprites visualiser.Sprites, logger *zap.Logger) visualiser.Options {
	return visualiser.Options{
		Scheduler:    sched,
		Sprites:      sprites,
		SpriteScale:  c.Sprites.Scale,
		StepDuration: c.StepDuration(),
		Frames:       c.Animation.Frames,
		CanvasWidth:  c.Canvas.Width,
		CanvasHeight: c.Canvas.Height,
		Logger:       logger,
	}
}
