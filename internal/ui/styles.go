package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"amie/internal/pipeline"
)

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // Cyan/green - for titles, highlights
	ColorHighlight = "205" // Magenta - for selected items, borders
	ColorDanger    = "196" // Red - for warnings, errors
	ColorMuted     = "241" // Gray - for dimmed text, hints
	ColorText      = "252" // Light gray - for normal text
	ColorWarning   = "208" // Orange - for warning details
	ColorActive    = "39"  // Blue - for running stages
	ColorDone      = "42"  // Green - for finished stages
)

// Styles contains shared style definitions used across views.
var Styles = struct {
	Title        lipgloss.Style // Bold accent color - for main titles
	TitleWarning lipgloss.Style // Bold danger color - for warning titles

	Box       lipgloss.Style // Standard box with rounded border
	BoxDanger lipgloss.Style // Warning/error box (danger border)

	Selected lipgloss.Style // Highlighted/selected items
	Muted    lipgloss.Style // Dimmed text
	Normal   lipgloss.Style // Normal text
	Hint     lipgloss.Style // Help/hint text
	Status   lipgloss.Style // Status indicators
	Warning  lipgloss.Style // Warning details
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	TitleWarning: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(1, 2).
		Margin(1),
	BoxDanger: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDanger)).
		Padding(1, 2).
		Margin(1),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Warning: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning)),
}

// stateColors maps a stage state to its border/icon color.
var stateColors = map[pipeline.State]lipgloss.Color{
	pipeline.StatePending:  lipgloss.Color(ColorMuted),
	pipeline.StateQueued:   lipgloss.Color(ColorText),
	pipeline.StateActive:   lipgloss.Color(ColorActive),
	pipeline.StateRetrying: lipgloss.Color(ColorWarning),
	pipeline.StateDone:     lipgloss.Color(ColorDone),
	pipeline.StateFailed:   lipgloss.Color(ColorDanger),
}

func stateColor(s pipeline.State) lipgloss.Color {
	if c, ok := stateColors[s]; ok {
		return c
	}
	return lipgloss.Color(ColorMuted)
}

// spinnerFrames for animated spinner
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SpinnerFrame returns the current spinner frame based on time
func SpinnerFrame() string {
	idx := int(time.Now().UnixMilli()/100) % len(spinnerFrames)
	return spinnerFrames[idx]
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
