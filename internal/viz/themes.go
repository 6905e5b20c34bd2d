package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for the TUI. Tick and Curve color the slope
// field and the traced solution.
type Theme struct {
	Name   string
	Tick   lipgloss.Color
	Curve  lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Error  lipgloss.Color
}

var (
	// ThemePaper is closest to the window surface: plain ticks, red curve.
	ThemePaper = Theme{
		Name:   "paper",
		Tick:   lipgloss.Color("252"),
		Curve:  lipgloss.Color("#ff0000"),
		Accent: lipgloss.Color("86"),
		Text:   lipgloss.Color("255"),
		Muted:  lipgloss.Color("242"),
		Error:  lipgloss.Color("#ff4444"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Tick:   lipgloss.Color("#005500"), // Green phosphor
		Curve:  lipgloss.Color("#88ff88"),
		Accent: lipgloss.Color("#00ff00"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#00aa00"),
		Error:  lipgloss.Color("#ffff00"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Tick:   lipgloss.Color("#4488aa"),
		Curve:  lipgloss.Color("#ffd700"),
		Accent: lipgloss.Color("#00a8cc"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
		Error:  lipgloss.Color("#ff4444"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Tick:   lipgloss.Color("#8b6b8c"),
		Curve:  lipgloss.Color("#ff6b6b"), // Coral
		Accent: lipgloss.Color("#feca57"),
		Text:   lipgloss.Color("#fff5f5"),
		Muted:  lipgloss.Color("#8b6b8c"),
		Error:  lipgloss.Color("#ff4757"),
	}

	Themes = []Theme{
		ThemePaper,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to paper.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemePaper
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// next returns the theme after t in Themes, wrapping around.
func (t Theme) next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemePaper
}
