package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"amie/internal/intake"
	"amie/internal/report"
)

// pollTickCmd schedules the next status poll.
func pollTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return pollTickMsg(t)
	})
}

// renderTickCmd schedules the next animation frame.
func renderTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return renderTickMsg(t)
	})
}

// uploadCmd submits a manuscript file to the backend.
func uploadCmd(c intake.Client, path string) tea.Cmd {
	return func() tea.Msg {
		resp, err := c.Upload(context.Background(), path)
		return uploadedMsg{Resp: resp, Err: err}
	}
}

// fetchStatusCmd polls the backend for the request's status. The gen is
// echoed back so the watch view can discard responses from stale polls.
func fetchStatusCmd(c intake.Client, id string, gen int) tea.Cmd {
	return func() tea.Msg {
		status, err := c.Status(context.Background(), id)
		return statusMsg{Gen: gen, Status: status, Err: err}
	}
}

// fetchRecordCmd loads the full request record, including agent outputs.
func fetchRecordCmd(c intake.Client, id string) tea.Cmd {
	return func() tea.Msg {
		rec, err := c.Get(context.Background(), id)
		return recordMsg{Record: rec, Err: err}
	}
}

// fetchHistoryCmd loads the request history listing.
func fetchHistoryCmd(c intake.Client) tea.Cmd {
	return func() tea.Msg {
		items, err := c.List(context.Background())
		return historyMsg{Items: items, Err: err}
	}
}

// retryCmd asks the backend to re-run a failed request.
func retryCmd(c intake.Client, id string) tea.Cmd {
	return func() tea.Msg {
		resp, err := c.Retry(context.Background(), id)
		return retriedMsg{ID: id, Resp: resp, Err: err}
	}
}

// deleteCmd soft-deletes a request.
func deleteCmd(c intake.Client, id string) tea.Cmd {
	return func() tea.Msg {
		err := c.Delete(context.Background(), id)
		return deletedMsg{ID: id, Err: err}
	}
}

// saveReportCmd writes the report to the configured output directory.
func saveReportCmd(w *report.Writer, r *report.Report) tea.Cmd {
	return func() tea.Msg {
		path, err := w.Save(r)
		return reportSavedMsg{Path: path, Err: err}
	}
}
