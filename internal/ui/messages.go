package ui

import (
	"time"

	"amie/internal/intake"
	"amie/internal/pipeline"
	"amie/internal/report"
)

// pollTickMsg fires on the poll cadence while a request is being watched.
type pollTickMsg time.Time

// renderTickMsg drives spinner and progress animation while a stage is active.
type renderTickMsg time.Time

// uploadedMsg carries the result of an upload.
type uploadedMsg struct {
	Resp *intake.UploadResponse
	Err  error
}

// statusMsg carries one status poll result. Gen ties the response to the
// poll that requested it so late responses can be discarded.
type statusMsg struct {
	Gen    int
	Status pipeline.Status
	Err    error
}

// recordMsg carries a fetched request record.
type recordMsg struct {
	Record *intake.Record
	Err    error
}

// historyMsg carries the request history listing.
type historyMsg struct {
	Items []intake.RequestSummary
	Err   error
}

// retriedMsg carries the result of a retry call.
type retriedMsg struct {
	ID   string
	Resp *intake.RetryResponse
	Err  error
}

// deletedMsg carries the result of a delete call.
type deletedMsg struct {
	ID  string
	Err error
}

// reportSavedMsg carries the result of writing a report to disk.
type reportSavedMsg struct {
	Path string
	Err  error
}

// OpenReportMsg asks the app to push a report view for the given report.
type OpenReportMsg struct {
	Report *report.Report
}

// OpenWatchMsg asks the app to push a watch view for an existing request.
type OpenWatchMsg struct {
	RequestID string
	Filename  string
}

// BackMsg asks the app to pop the current view.
type BackMsg struct{}
