package viz

import "github.com/charmbracelet/lipgloss"

const panelWidth = 40

// styles are derived from the active theme on every View.
type styles struct {
	canvas, panel      lipgloss.Style
	header, label      lipgloss.Style
	value, graph, help lipgloss.Style
	err                lipgloss.Style
	tick, curve        lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Padding(canvasPadY, canvasPadX),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(panelWidth),
		header: lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		graph:  lipgloss.NewStyle().Foreground(t.Curve).Padding(1, 0),
		help:   lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		err:    lipgloss.NewStyle().Foreground(t.Error),
		tick:   lipgloss.NewStyle().Foreground(t.Tick),
		curve:  lipgloss.NewStyle().Foreground(t.Curve).Bold(true),
	}
}
