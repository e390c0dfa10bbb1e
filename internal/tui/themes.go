package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors of the terminal front-end.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Faint   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeChalkboard = Theme{
		Name:    "chalkboard",
		Primary: lipgloss.Color("#e8f0e8"),
		Accent:  lipgloss.Color("#ffd166"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#8aa08a"),
		Faint:   lipgloss.Color("#3d4f3d"),
		Success: lipgloss.Color("#06d6a0"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ef476f"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#008800"),
		Faint:   lipgloss.Color("#005500"),
		Success: lipgloss.Color("#88ff88"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Faint:   lipgloss.Color("#444444"),
		Success: lipgloss.Color("#00ff00"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#00a8cc"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Faint:   lipgloss.Color("#224466"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff4444"),
	}

	Themes = []Theme{
		ThemeChalkboard,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name, falling back to the chalkboard theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeChalkboard
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

type styles struct {
	title   lipgloss.Style
	text    lipgloss.Style
	accent  lipgloss.Style
	dim     lipgloss.Style
	dimmer  lipgloss.Style
	canvas  lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		text:    lipgloss.NewStyle().Foreground(t.Text),
		accent:  lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		dim:     lipgloss.NewStyle().Foreground(t.Muted),
		dimmer:  lipgloss.NewStyle().Foreground(t.Faint),
		canvas:  lipgloss.NewStyle().Foreground(t.Primary),
		success: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		warning: lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		err:     lipgloss.NewStyle().Foreground(t.Error),
	}
}
