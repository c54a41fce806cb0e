package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"amie/internal/report"

	"github.com/charmbracelet/bubbles/viewport"
)

// ReportView shows an assembled manuscript report in a scrollable viewport.
// Press s to save the markdown to the report directory.
type ReportView struct {
	report *report.Report
	writer *report.Writer

	vp     viewport.Model
	ready  bool
	notice string
}

var _ View = (*ReportView)(nil)

// NewReportView creates the report screen for an assembled report.
func NewReportView(r *report.Report, w *report.Writer) *ReportView {
	return &ReportView{report: r, writer: w}
}

// Init implements View.
func (v *ReportView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (v *ReportView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Leave room for the title and the hint line.
		height := msg.Height - 4
		if height < 5 {
			height = 5
		}
		if !v.ready {
			v.vp = viewport.New(msg.Width, height)
			v.vp.SetContent(v.report.Markdown())
			v.ready = true
		} else {
			v.vp.Width = msg.Width
			v.vp.Height = height
		}
		return v, nil

	case reportSavedMsg:
		if msg.Err != nil {
			v.notice = "save failed: " + msg.Err.Error()
		} else {
			v.notice = "saved to " + msg.Path
		}
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "s":
			return v, saveReportCmd(v.writer, v.report)
		case "q", "esc":
			return v, func() tea.Msg { return BackMsg{} }
		}
	}

	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

// View implements View.
func (v *ReportView) View() string {
	title := Styles.Title.Render("AMIE · Report · " + v.report.Filename)

	body := v.report.Markdown()
	if v.ready {
		body = v.vp.View()
	}

	footer := Styles.Hint.Render("↑/↓ scroll · s save · q back")
	if v.notice != "" {
		footer = Styles.Status.Render(v.notice) + "  " + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, "", body, footer)
}
