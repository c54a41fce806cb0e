package watch

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amie/internal/intake"
	"amie/internal/pipeline"
)

func newTracker(maxPolls int) *Tracker {
	return New(pipeline.DefaultExpected, maxPolls)
}

func TestTracker_PollBudget(t *testing.T) {
	tr := newTracker(600)
	now := time.Now()

	// 600 polls of the same non-terminal status go through.
	for i := 0; i < 600; i++ {
		gen, ok := tr.BeginPoll()
		require.True(t, ok, "poll %d", i)
		require.True(t, tr.Apply(gen, pipeline.StatusClassifying, now))
	}

	// The 601st is refused and surfaces as a soft timeout, not an error.
	_, ok := tr.BeginPoll()
	assert.False(t, ok)
	assert.True(t, tr.TimedOut())
	assert.False(t, tr.Polling())
	assert.Equal(t, 600, tr.PollCount())
}

func TestTracker_TerminalStatusStopsPolling(t *testing.T) {
	tr := newTracker(600)
	gen, ok := tr.BeginPoll()
	require.True(t, ok)
	tr.Apply(gen, pipeline.StatusCompleted, time.Now())

	_, ok = tr.BeginPoll()
	assert.False(t, ok)
	assert.False(t, tr.Polling())
	assert.False(t, tr.TimedOut())
}

func TestTracker_UnauthorizedIsTerminal(t *testing.T) {
	tr := newTracker(600)
	gen, ok := tr.BeginPoll()
	require.True(t, ok)

	tr.Fail(gen, intake.ErrUnauthorized)
	assert.True(t, tr.AuthFailed())

	// Subsequent ticks never fire.
	for i := 0; i < 3; i++ {
		_, ok := tr.BeginPoll()
		assert.False(t, ok)
	}
}

func TestTracker_TransientFailuresTolerated(t *testing.T) {
	tr := newTracker(600)
	netErr := errors.New("connection reset")

	for i := 0; i < maxConsecutiveFailures-1; i++ {
		gen, ok := tr.BeginPoll()
		require.True(t, ok)
		tr.Fail(gen, netErr)
	}
	assert.True(t, tr.Polling(), "still polling below the failure cap")

	// A success resets the counter.
	gen, ok := tr.BeginPoll()
	require.True(t, ok)
	tr.Apply(gen, pipeline.StatusClassifying, time.Now())

	for i := 0; i < maxConsecutiveFailures; i++ {
		gen, ok := tr.BeginPoll()
		require.True(t, ok, "failure %d", i)
		tr.Fail(gen, netErr)
	}
	assert.False(t, tr.Polling(), "stopped at the consecutive failure cap")
}

func TestTracker_StaleResponseDiscarded(t *testing.T) {
	tr := newTracker(600)
	now := time.Now()

	staleGen, ok := tr.BeginPoll()
	require.True(t, ok)

	tr.Stop()
	assert.False(t, tr.Apply(staleGen, pipeline.StatusCompleted, now),
		"response from before Stop must be discarded")
	assert.Equal(t, pipeline.Status(""), tr.LastStatus())
}

func TestTracker_StopIdempotent(t *testing.T) {
	tr := newTracker(600)
	tr.Stop()
	tr.Stop()
	_, ok := tr.BeginPoll()
	assert.False(t, ok)
	assert.False(t, tr.Animating())
}

func TestTracker_EstimateLifecycle(t *testing.T) {
	tr := newTracker(600)
	t0 := time.Unix(10000, 0)

	gen, _ := tr.BeginPoll()
	tr.Apply(gen, pipeline.StatusClassifying, t0)
	require.Equal(t, pipeline.StateActive, tr.Stages()[pipeline.StageClassify].State)
	assert.True(t, tr.Animating())

	// Estimate grows with wall-clock time, bounded by 95.
	p1 := tr.Percent(pipeline.StageClassify, t0.Add(5*time.Second))
	p2 := tr.Percent(pipeline.StageClassify, t0.Add(30*time.Second))
	assert.Greater(t, p2, p1)
	assert.LessOrEqual(t, p2, 95.0)

	// Done pins to 100 and drops the estimate.
	gen, _ = tr.BeginPoll()
	tr.Apply(gen, pipeline.StatusClassified, t0.Add(40*time.Second))
	assert.Equal(t, 100.0, tr.Percent(pipeline.StageClassify, t0.Add(41*time.Second)))
	assert.False(t, tr.Animating())

	// Inactive stages report 0.
	assert.Equal(t, 0.0, tr.Percent(pipeline.StageAssess, t0))
	assert.Equal(t, 0.0, tr.Percent(99, t0))
}

func TestTracker_ResetOnRequeue(t *testing.T) {
	tr := newTracker(600)
	t0 := time.Unix(10000, 0)

	gen, _ := tr.BeginPoll()
	tr.Apply(gen, pipeline.StatusClassifying, t0)
	require.True(t, tr.Animating())

	// Backend requeued the work (retry flow): estimates are cleared and the
	// unfinished stage shows 0 again.
	gen, _ = tr.BeginPoll()
	tr.Apply(gen, pipeline.StatusQueued, t0.Add(time.Minute))
	assert.False(t, tr.Animating())
	assert.Equal(t, 0.0, tr.Percent(pipeline.StageClassify, t0.Add(2*time.Minute)))
}

func TestTracker_RetryRestartsStageClock(t *testing.T) {
	tr := newTracker(600)
	t0 := time.Unix(10000, 0)

	gen, _ := tr.BeginPoll()
	tr.Apply(gen, pipeline.StatusClassifying, t0)
	gen, _ = tr.BeginPoll()
	tr.Apply(gen, pipeline.StatusFailed, t0.Add(20*time.Second))
	require.Equal(t, pipeline.StateFailed, tr.Stages()[pipeline.StageClassify].State)
	assert.False(t, tr.Polling(), "failed is terminal for the loop")

	// User-initiated retry re-arms the loop with a fresh budget and the
	// failed stage recovers through the Retrying override.
	tr.Resume()
	assert.True(t, tr.Polling())
	assert.Equal(t, 0, tr.PollCount())

	t1 := t0.Add(time.Minute)
	gen, ok := tr.BeginPoll()
	require.True(t, ok)
	tr.Apply(gen, pipeline.StatusRetrying, t1)
	assert.Equal(t, pipeline.StateRetrying, tr.Stages()[pipeline.StageClassify].State)

	// The retried stage's clock restarted at the retry, not the first run.
	p := tr.Percent(pipeline.StageClassify, t1.Add(time.Second))
	assert.Less(t, p, 10.0)
}

func TestTracker_ResumeBlockedAfterAuthFailure(t *testing.T) {
	tr := newTracker(600)
	gen, _ := tr.BeginPoll()
	tr.Fail(gen, intake.ErrUnauthorized)

	tr.Resume()
	_, ok := tr.BeginPoll()
	assert.False(t, ok, "auth failure is permanent")
}
