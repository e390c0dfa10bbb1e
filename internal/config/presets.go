package config

import "sort"

// Presets hold the sections that differ from DefaultConfig. Zero sections
// keep the default.
var Presets = map[string]*Config{
	"classic": {
		Line: LineConfig{Width: 600, Scale: 1, Min: -10, Max: 10, X: 50, Y: 150},
	},
	"small": {
		Line: LineConfig{Width: 600, Scale: 1, Min: 0, Max: 10, X: 50, Y: 150},
	},
	"positive": {
		Line: LineConfig{Width: 600, Scale: 1, Min: 0, Max: 20, X: 50, Y: 150},
	},
	"wide": {
		Line:    LineConfig{Width: 1000, Scale: 2, Min: -20, Max: 20, X: 50, Y: 150},
		Problem: ProblemConfig{X: 500, Y: 40, FontSize: 25},
		Canvas:  CanvasConfig{Width: 1100, Height: 300},
	},
}

// GetPreset returns DefaultConfig with the preset's sections applied, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Line = p.Line
	if p.Problem != (ProblemConfig{}) {
		cfg.Problem = p.Problem
	}
	if p.Canvas != (CanvasConfig{}) {
		cfg.Canvas = p.Canvas
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
