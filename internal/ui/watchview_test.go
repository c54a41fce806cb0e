package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amie/internal/config"
	"amie/internal/intake"
	"amie/internal/pipeline"
)

// fakeClient is a scriptable intake client for driving views in tests.
type fakeClient struct {
	status    pipeline.Status
	statusErr error
	record    *intake.Record
	items     []intake.RequestSummary
	retried   []string
	deleted   []string
}

func (f *fakeClient) Upload(_ context.Context, path string) (*intake.UploadResponse, error) {
	return &intake.UploadResponse{RequestID: "req-1", Filename: path}, nil
}

func (f *fakeClient) Status(context.Context, string) (pipeline.Status, error) {
	return f.status, f.statusErr
}

func (f *fakeClient) Get(_ context.Context, id string) (*intake.Record, error) {
	if f.record == nil {
		return nil, errors.New("no record")
	}
	return f.record, nil
}

func (f *fakeClient) List(context.Context) ([]intake.RequestSummary, error) {
	return f.items, nil
}

func (f *fakeClient) Retry(_ context.Context, id string) (*intake.RetryResponse, error) {
	f.retried = append(f.retried, id)
	return &intake.RetryResponse{PreviousStatus: "failed", NewStatus: "retrying"}, nil
}

func (f *fakeClient) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func testWatchCfg() config.WatchConfig {
	return config.WatchConfig{PollIntervalMS: 2000, MaxPolls: 600, TickIntervalMS: 200}
}

func TestWatchView_AppliesPolledStatus(t *testing.T) {
	c := &fakeClient{}
	v := NewWatchViewForRequest(c, testWatchCfg(), "req-1", "paper.pdf")
	v.Init()

	v.Update(statusMsg{Gen: 0, Status: pipeline.StatusClassifying})

	stages := v.tracker.Stages()
	assert.Equal(t, pipeline.StateDone, stages[pipeline.StageIngest].State)
	assert.Equal(t, pipeline.StateActive, stages[pipeline.StageClassify].State)
	assert.Contains(t, v.View(), "Classification")
}

func TestWatchView_CompletionFetchesRecord(t *testing.T) {
	c := &fakeClient{record: &intake.Record{RequestID: "req-1", Filename: "paper.pdf"}}
	v := NewWatchViewForRequest(c, testWatchCfg(), "req-1", "paper.pdf")
	v.Init()

	_, cmd := v.Update(statusMsg{Gen: 0, Status: pipeline.StatusCompleted})
	require.NotNil(t, cmd)

	msg := cmd()
	rec, ok := msg.(recordMsg)
	require.True(t, ok)
	require.NoError(t, rec.Err)

	_, cmd = v.Update(rec)
	require.NotNil(t, cmd)
	open, ok := cmd().(OpenReportMsg)
	require.True(t, ok)
	assert.Equal(t, "req-1", open.Report.RequestID)
}

func TestWatchView_AuthFailureIsTerminal(t *testing.T) {
	c := &fakeClient{}
	v := NewWatchViewForRequest(c, testWatchCfg(), "req-1", "paper.pdf")
	v.Init()

	v.Update(statusMsg{Gen: 0, Err: intake.ErrUnauthorized})

	assert.True(t, v.tracker.AuthFailed())
	assert.False(t, v.tracker.Polling())
	assert.Contains(t, v.View(), "Access denied")

	// A poll tick after auth failure schedules nothing.
	_, cmd := v.Update(pollTickMsg{})
	assert.Nil(t, cmd)
}

func TestWatchView_RetryKeyAfterFailure(t *testing.T) {
	c := &fakeClient{}
	v := NewWatchViewForRequest(c, testWatchCfg(), "req-1", "paper.pdf")
	v.Init()

	v.Update(statusMsg{Gen: 0, Status: pipeline.StatusFailed})
	require.True(t, v.canRetry())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.NotNil(t, cmd)

	msg := cmd()
	retried, ok := msg.(retriedMsg)
	require.True(t, ok)
	assert.Equal(t, []string{"req-1"}, c.retried)

	v.Update(retried)
	assert.True(t, v.tracker.Polling(), "polling resumes after retry")
}

func TestWatchView_RetryKeyIgnoredWhileRunning(t *testing.T) {
	c := &fakeClient{}
	v := NewWatchViewForRequest(c, testWatchCfg(), "req-1", "paper.pdf")
	v.Init()

	v.Update(statusMsg{Gen: 0, Status: pipeline.StatusAnalyzing})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	assert.Nil(t, cmd)
	assert.Empty(t, c.retried)
}

func TestWatchView_QuitStopsTracker(t *testing.T) {
	c := &fakeClient{}
	v := NewWatchViewForRequest(c, testWatchCfg(), "req-1", "paper.pdf")
	v.Init()

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	_, ok := cmd().(BackMsg)
	assert.True(t, ok)
	assert.False(t, v.tracker.Polling())
}

func TestWatchView_UploadFlow(t *testing.T) {
	c := &fakeClient{}
	v := NewWatchView(c, testWatchCfg(), "paper.pdf")
	cmd := v.Init()
	require.NotNil(t, cmd)
	assert.Contains(t, v.View(), "Uploading")

	v.Update(uploadedMsg{Resp: &intake.UploadResponse{RequestID: "req-9", Filename: "paper.pdf"}})
	assert.Equal(t, "req-9", v.requestID)
	assert.Contains(t, v.View(), "req-9")
}
