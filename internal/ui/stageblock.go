package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"amie/internal/pipeline"
)

// StageBlock renders a single pipeline stage as a bordered block with a
// status icon, the stage name, and a progress bar.
type StageBlock struct {
	bar progress.Model
}

// NewStageBlock creates a stage block with its own progress bar.
func NewStageBlock() StageBlock {
	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithoutPercentage(),
	)
	return StageBlock{bar: bar}
}

// stateIcon returns the icon shown next to the stage name. Active and
// retrying stages animate.
func stateIcon(s pipeline.State) string {
	switch s {
	case pipeline.StateActive, pipeline.StateRetrying:
		return SpinnerFrame()
	case pipeline.StateDone:
		return "✓"
	case pipeline.StateFailed:
		return "✗"
	case pipeline.StateQueued:
		return "…"
	default:
		return "·"
	}
}

// Render draws the block. pct is the stage's display percent (0-100);
// elapsed is how long the stage has been running, zero if it hasn't.
func (b StageBlock) Render(stage pipeline.Stage, pct float64, elapsed time.Duration, width int) string {
	contentWidth := width - 4
	if contentWidth < 30 {
		contentWidth = 30
	}

	color := stateColor(stage.State)
	iconStyle := lipgloss.NewStyle().Foreground(color)
	nameStyle := Styles.Normal.Bold(true)

	header := fmt.Sprintf("%s %s  %s",
		iconStyle.Render(stateIcon(stage.State)),
		nameStyle.Render(stage.Name),
		Styles.Muted.Render(stage.State.String()),
	)
	if elapsed > 0 {
		header += " " + Styles.Muted.Render(formatDuration(elapsed))
	}

	pctLabel := fmt.Sprintf("%5.1f%%", pct)
	bar := b.bar
	bar.Width = contentWidth - len(pctLabel) - 1
	barLine := bar.ViewAs(pct/100) + " " + Styles.Muted.Render(pctLabel)

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)

	return border.Width(contentWidth).Render(header + "\n" + barLine)
}
