package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"amie/internal/config"
	"amie/internal/intake"
	"amie/internal/pipeline"
	"amie/internal/report"
	"amie/internal/watch"
)

// WatchView tracks one request through the pipeline: it polls the backend
// on a fixed cadence, feeds results to the tracker, and renders the four
// stage blocks. On completion it fetches the record and opens the report.
type WatchView struct {
	client intake.Client
	cfg    config.WatchConfig

	uploadPath string
	requestID  string
	filename   string

	tracker *watch.Tracker
	blocks  [pipeline.NumStages]StageBlock

	startedAt time.Time
	now       time.Time
	width     int

	uploadErr error
	fetchErr  error
	lastErr   error
	retrying  bool
}

var _ View = (*WatchView)(nil)

// NewWatchView creates a view that uploads the given file and then watches
// the resulting request.
func NewWatchView(c intake.Client, cfg config.WatchConfig, path string) *WatchView {
	v := newWatchView(c, cfg)
	v.uploadPath = path
	return v
}

// NewWatchViewForRequest creates a view that watches an already-submitted
// request.
func NewWatchViewForRequest(c intake.Client, cfg config.WatchConfig, id, filename string) *WatchView {
	v := newWatchView(c, cfg)
	v.requestID = id
	v.filename = filename
	return v
}

func newWatchView(c intake.Client, cfg config.WatchConfig) *WatchView {
	v := &WatchView{
		client:  c,
		cfg:     cfg,
		tracker: watch.New(cfg.Expected(), cfg.MaxPolls),
		width:   80,
	}
	for i := range v.blocks {
		v.blocks[i] = NewStageBlock()
	}
	return v
}

// Init implements View.
func (v *WatchView) Init() tea.Cmd {
	v.startedAt = time.Now()
	v.now = v.startedAt
	if v.uploadPath != "" {
		return tea.Batch(uploadCmd(v.client, v.uploadPath), renderTickCmd(v.cfg.TickInterval()))
	}
	return v.startPolling()
}

// startPolling issues the first poll immediately and schedules the cadence.
func (v *WatchView) startPolling() tea.Cmd {
	gen, ok := v.tracker.BeginPoll()
	if !ok {
		return nil
	}
	return tea.Batch(
		fetchStatusCmd(v.client, v.requestID, gen),
		pollTickCmd(v.cfg.PollInterval()),
		renderTickCmd(v.cfg.TickInterval()),
	)
}

// Update implements View.
func (v *WatchView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		return v, nil

	case uploadedMsg:
		if msg.Err != nil {
			v.uploadErr = msg.Err
			return v, nil
		}
		v.requestID = msg.Resp.RequestID
		v.filename = msg.Resp.Filename
		zap.L().Info("upload accepted", zap.String("request_id", v.requestID))
		return v, v.startPolling()

	case pollTickMsg:
		if !v.tracker.Polling() {
			return v, nil
		}
		gen, ok := v.tracker.BeginPoll()
		if !ok {
			return v, nil
		}
		return v, tea.Batch(
			fetchStatusCmd(v.client, v.requestID, gen),
			pollTickCmd(v.cfg.PollInterval()),
		)

	case statusMsg:
		if msg.Err != nil {
			v.lastErr = msg.Err
			v.tracker.Fail(msg.Gen, msg.Err)
			return v, nil
		}
		v.lastErr = nil
		applied := v.tracker.Apply(msg.Gen, msg.Status, time.Now())
		if applied && msg.Status == pipeline.StatusCompleted {
			return v, fetchRecordCmd(v.client, v.requestID)
		}
		return v, nil

	case recordMsg:
		if msg.Err != nil {
			v.fetchErr = msg.Err
			return v, nil
		}
		r := report.FromRecord(msg.Record)
		return v, func() tea.Msg { return OpenReportMsg{Report: r} }

	case retriedMsg:
		v.retrying = false
		if msg.Err != nil {
			v.lastErr = msg.Err
			return v, nil
		}
		v.tracker.Resume()
		return v, v.startPolling()

	case renderTickMsg:
		v.now = time.Time(msg)
		if v.tracker.Animating() || v.tracker.Polling() {
			return v, renderTickCmd(v.cfg.TickInterval())
		}
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			if v.canRetry() {
				v.retrying = true
				return v, retryCmd(v.client, v.requestID)
			}
		case "q", "esc":
			v.tracker.Stop()
			return v, func() tea.Msg { return BackMsg{} }
		}
	}
	return v, nil
}

// canRetry reports whether a retry makes sense right now: the run ended in
// a failure and we can still talk to the backend.
func (v *WatchView) canRetry() bool {
	if v.retrying || v.tracker.AuthFailed() {
		return false
	}
	last := v.tracker.LastStatus()
	return last.Terminal() && last != pipeline.StatusCompleted && last != pipeline.StatusDeleted
}

// View implements View.
func (v *WatchView) View() string {
	if v.uploadErr != nil {
		return Styles.BoxDanger.Render(
			Styles.TitleWarning.Render("Upload failed") + "\n\n" + v.uploadErr.Error())
	}
	if v.requestID == "" {
		return Styles.Box.Render(SpinnerFrame() + " Uploading " + v.uploadPath + "…")
	}

	var sections []string
	title := Styles.Title.Render("AMIE · " + v.filename)
	sections = append(sections,
		title,
		Styles.Muted.Render("request "+v.requestID),
		"",
	)

	now := v.now
	if now.IsZero() {
		now = time.Now()
	}
	stages := v.tracker.Stages()
	for i, stage := range stages {
		pct := v.tracker.Percent(i, now)
		sections = append(sections, v.blocks[i].Render(stage, pct, 0, v.width))
	}

	sections = append(sections, "", v.statusLine(now))
	if warn := v.warningLine(); warn != "" {
		sections = append(sections, warn)
	}
	sections = append(sections, Styles.Hint.Render(v.hintLine()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *WatchView) statusLine(now time.Time) string {
	parts := []string{
		"status: " + string(v.tracker.LastStatus()),
		fmt.Sprintf("polls: %d", v.tracker.PollCount()),
		"elapsed: " + formatDuration(now.Sub(v.startedAt)),
	}
	return Styles.Status.Render(strings.Join(parts, " · "))
}

func (v *WatchView) warningLine() string {
	switch {
	case v.tracker.AuthFailed():
		return Styles.TitleWarning.Render("✗ Access denied: check your access code. Polling stopped.")
	case v.tracker.TimedOut():
		return Styles.Warning.Render("⏱ Poll budget exhausted; the request may still be running. Check history later.")
	case v.fetchErr != nil:
		return Styles.Warning.Render("Could not load the report: " + v.fetchErr.Error())
	case v.lastErr != nil:
		return Styles.Warning.Render("Last poll failed: " + v.lastErr.Error())
	}
	return ""
}

func (v *WatchView) hintLine() string {
	if v.canRetry() {
		return "r retry · q back"
	}
	return "q back"
}
