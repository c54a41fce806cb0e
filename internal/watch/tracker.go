// Package watch owns the per-submission polling state: stage list, progress
// estimates, poll budget and terminal flags. One Tracker is created per
// submission and driven entirely from the UI event loop, so it needs no
// locking; the fetches themselves happen off-loop and report back with the
// generation they were started under.
package watch

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"amie/internal/intake"
	"amie/internal/pipeline"
)

// maxConsecutiveFailures is the transient-error budget: polling survives
// flaky network reads but not a backend that has stopped answering.
const maxConsecutiveFailures = 10

// Tracker reconciles polled statuses into stage states and progress numbers.
type Tracker struct {
	stages   []pipeline.Stage
	started  map[int]time.Time // startedAt per active stage index
	expected [pipeline.NumStages]time.Duration

	gen        int // bumped on Stop; stale poll responses carry an older gen
	pollCount  int
	maxPolls   int
	lastStatus pipeline.Status

	consecFails int
	authFailed  bool
	timedOut    bool
	stopped     bool
}

// New creates a Tracker for a fresh submission: all stages pending.
func New(expected [pipeline.NumStages]time.Duration, maxPolls int) *Tracker {
	return &Tracker{
		stages:   pipeline.NewStages(),
		started:  make(map[int]time.Time),
		expected: expected,
		maxPolls: maxPolls,
	}
}

// BeginPoll reserves one poll attempt and returns the generation to tag the
// in-flight request with. ok is false once the tracker is stopped, terminal,
// or the poll budget is exhausted; exhaustion sets the TimedOut flag so the
// caller can tell a soft timeout apart from completion.
func (t *Tracker) BeginPoll() (gen int, ok bool) {
	if t.stopped || t.authFailed || t.lastStatus.Terminal() {
		return t.gen, false
	}
	if t.pollCount >= t.maxPolls {
		if !t.timedOut {
			t.timedOut = true
			zap.L().Warn("poll budget exhausted",
				zap.Int("max_polls", t.maxPolls),
				zap.String("last_status", string(t.lastStatus)),
			)
		}
		return t.gen, false
	}
	t.pollCount++
	return t.gen, true
}

// Apply feeds one fetched status into the reconciler. Responses from an
// older generation are discarded so a stale in-flight poll can never
// overwrite newer state (last-writer-wins resolved by recency check).
// Returns true if the status was applied.
func (t *Tracker) Apply(gen int, status pipeline.Status, now time.Time) bool {
	if gen != t.gen || t.stopped {
		return false
	}
	t.consecFails = 0
	t.lastStatus = status

	prev := t.stages
	t.stages = pipeline.Reconcile(prev, status)

	for i := range t.stages {
		cur := t.stages[i].State
		switch {
		case cur == pipeline.StateActive || cur == pipeline.StateRetrying:
			if _, ok := t.started[i]; !ok {
				t.started[i] = now
			}
			// A retry restarts the stage clock.
			if cur == pipeline.StateRetrying && prev[i].State == pipeline.StateFailed {
				t.started[i] = now
			}
		case cur.Terminal():
			delete(t.started, i)
		}
	}

	// Reset rule: queued/uploaded after earlier progress clears estimates
	// for stages that have not finished, so a retried run starts from 0%.
	if status == pipeline.StatusQueued || status == pipeline.StatusUploaded {
		for i := range t.stages {
			if !t.stages[i].State.Terminal() {
				delete(t.started, i)
			}
		}
	}

	return true
}

// Fail records a poll failure. An unauthorized error is terminal: the auth
// flag is set permanently and no further polls are issued. Transient errors
// only stop the loop after maxConsecutiveFailures in a row.
func (t *Tracker) Fail(gen int, err error) {
	if gen != t.gen || t.stopped || err == nil {
		return
	}
	if errors.Is(err, intake.ErrUnauthorized) {
		t.authFailed = true
		zap.L().Error("polling stopped: access code rejected", zap.Error(err))
		return
	}
	t.consecFails++
	zap.L().Warn("poll failed",
		zap.Int("consecutive", t.consecFails),
		zap.Error(err),
	)
	if t.consecFails >= maxConsecutiveFailures {
		t.stopped = true
	}
}

// Stop cancels polling. Idempotent; safe on teardown after a prior Stop.
// Bumping the generation makes any in-flight response stale.
func (t *Tracker) Stop() {
	if t.stopped {
		return
	}
	t.stopped = true
	t.gen++
}

// Resume re-arms polling after a user-initiated retry. Stage states are
// kept so the Failed -> Retrying override can recover them on the next
// applied status; the poll budget starts over. No-op on auth failure.
func (t *Tracker) Resume() {
	if t.authFailed {
		return
	}
	t.stopped = false
	t.timedOut = false
	t.consecFails = 0
	t.pollCount = 0
	t.lastStatus = pipeline.StatusRetrying
	t.gen++
}

// Stages returns the current stage list.
func (t *Tracker) Stages() []pipeline.Stage {
	return t.stages
}

// Percent returns the display percentage for a stage: 100 for Done, an
// eased estimate while Active or Retrying, 0 otherwise.
func (t *Tracker) Percent(i int, now time.Time) float64 {
	if i < 0 || i >= len(t.stages) {
		return 0
	}
	switch t.stages[i].State {
	case pipeline.StateDone:
		return 100
	case pipeline.StateActive, pipeline.StateRetrying:
		startedAt, ok := t.started[i]
		if !ok {
			return 0
		}
		return pipeline.Percent(now, startedAt, t.expected[i])
	default:
		return 0
	}
}

// LastStatus returns the most recently applied backend status.
func (t *Tracker) LastStatus() pipeline.Status {
	return t.lastStatus
}

// Animating reports whether the render tick should keep running: at least
// one stage has a live progress estimate.
func (t *Tracker) Animating() bool {
	return len(t.started) > 0 && !t.stopped
}

// Polling reports whether further poll ticks should be scheduled.
func (t *Tracker) Polling() bool {
	return !t.stopped && !t.authFailed && !t.timedOut &&
		!t.lastStatus.Terminal() && t.pollCount < t.maxPolls
}

// AuthFailed reports whether polling stopped on a rejected access code.
func (t *Tracker) AuthFailed() bool {
	return t.authFailed
}

// TimedOut reports whether the poll budget ran out before a terminal status.
func (t *Tracker) TimedOut() bool {
	return t.timedOut
}

// PollCount returns the number of polls issued so far.
func (t *Tracker) PollCount() int {
	return t.pollCount
}
