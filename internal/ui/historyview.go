package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"amie/internal/intake"
	"amie/internal/pipeline"
	"amie/internal/report"

	"github.com/charmbracelet/bubbles/table"
)

// HistoryView lists past requests in a table. Enter opens the report for a
// completed request or resumes watching an in-flight one; failed requests
// can be retried and any request deleted.
type HistoryView struct {
	client intake.Client

	table  table.Model
	items  []intake.RequestSummary
	width  int
	notice string
	err    error
}

var _ View = (*HistoryView)(nil)

// NewHistoryView creates the request history screen.
func NewHistoryView(c intake.Client) *HistoryView {
	t := table.New(
		table.WithColumns(historyColumns(80)),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).Foreground(lipgloss.Color(ColorAccent))
	s.Selected = Styles.Selected
	t.SetStyles(s)

	return &HistoryView{client: c, table: t, width: 80}
}

func historyColumns(width int) []table.Column {
	fileWidth := width - 38 - 14 - 22 - 8
	if fileWidth < 16 {
		fileWidth = 16
	}
	return []table.Column{
		{Title: "Request", Width: 38},
		{Title: "File", Width: fileWidth},
		{Title: "Status", Width: 14},
		{Title: "Uploaded", Width: 22},
	}
}

// Init implements View.
func (v *HistoryView) Init() tea.Cmd {
	return fetchHistoryCmd(v.client)
}

// Update implements View.
func (v *HistoryView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.table.SetColumns(historyColumns(msg.Width))
		return v, nil

	case historyMsg:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.items = msg.Items
		rows := make([]table.Row, len(msg.Items))
		for i, item := range msg.Items {
			rows[i] = table.Row{item.RequestID, item.Filename, item.Status, item.UploadedAt}
		}
		v.table.SetRows(rows)
		return v, nil

	case recordMsg:
		if msg.Err != nil {
			v.notice = "could not load report: " + msg.Err.Error()
			return v, nil
		}
		r := report.FromRecord(msg.Record)
		return v, func() tea.Msg { return OpenReportMsg{Report: r} }

	case retriedMsg:
		if msg.Err != nil {
			v.notice = "retry failed: " + msg.Err.Error()
			return v, nil
		}
		v.notice = "retrying " + msg.ID
		return v, fetchHistoryCmd(v.client)

	case deletedMsg:
		if msg.Err != nil {
			v.notice = "delete failed: " + msg.Err.Error()
			return v, nil
		}
		v.notice = "deleted " + msg.ID
		return v, fetchHistoryCmd(v.client)

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if item, ok := v.selected(); ok {
				return v, v.open(item)
			}
		case "r":
			if item, ok := v.selected(); ok && item.PipelineStatus().Terminal() {
				return v, retryCmd(v.client, item.RequestID)
			}
		case "d":
			if item, ok := v.selected(); ok {
				return v, deleteCmd(v.client, item.RequestID)
			}
		case "R":
			return v, fetchHistoryCmd(v.client)
		case "q", "esc":
			return v, func() tea.Msg { return BackMsg{} }
		}
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

func (v *HistoryView) selected() (intake.RequestSummary, bool) {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.items) {
		return intake.RequestSummary{}, false
	}
	return v.items[i], true
}

// open decides what Enter does for a row: completed requests open their
// report, deleted ones do nothing, anything still moving gets watched.
func (v *HistoryView) open(item intake.RequestSummary) tea.Cmd {
	switch item.PipelineStatus() {
	case pipeline.StatusCompleted:
		return fetchRecordCmd(v.client, item.RequestID)
	case pipeline.StatusDeleted:
		return nil
	default:
		return func() tea.Msg {
			return OpenWatchMsg{RequestID: item.RequestID, Filename: item.Filename}
		}
	}
}

// View implements View.
func (v *HistoryView) View() string {
	if v.err != nil {
		return Styles.BoxDanger.Render(
			Styles.TitleWarning.Render("Could not load history") + "\n\n" + v.err.Error())
	}

	sections := []string{
		Styles.Title.Render("AMIE · Request History"),
		"",
		v.table.View(),
		"",
	}
	if v.notice != "" {
		sections = append(sections, Styles.Status.Render(v.notice))
	}
	sections = append(sections, Styles.Hint.Render("enter open · r retry · d delete · R refresh · q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
