package pipeline

// Reconcile maps a backend status onto per-stage states. Pure and total: the
// input slice is never mutated, and unknown statuses return an unchanged copy.
//
// Transitions pass through a ratchet: a stage only moves to a higher-weight
// state, laterally between same-weight states, or from Failed to Retrying
// (the one sanctioned recovery path). The backend is trusted per stage; no
// cross-stage ordering is enforced here, so an out-of-order backend status
// is displayed as reported rather than suppressed.
func Reconcile(stages []Stage, status Status) []Stage {
	next := make([]Stage, len(stages))
	copy(next, stages)

	apply := func(i int, to State) {
		if i < len(next) {
			next[i].State = next[i].State.ratchet(to)
		}
	}

	switch status {
	case StatusUploaded, StatusQueued:
		apply(StageIngest, StateDone)
		apply(StageClassify, StateQueued)
	case StatusClassifying:
		apply(StageIngest, StateDone)
		apply(StageClassify, StateActive)
	case StatusClassified:
		apply(StageIngest, StateDone)
		apply(StageClassify, StateDone)
	case StatusAnalyzing:
		apply(StageIngest, StateDone)
		apply(StageClassify, StateDone)
		apply(StageAssess, StateActive)
	case StatusAssessed:
		apply(StageIngest, StateDone)
		apply(StageClassify, StateDone)
		apply(StageAssess, StateDone)
		apply(StageAggregate, StateActive)
	case StatusCompleted:
		apply(StageIngest, StateDone)
		apply(StageClassify, StateDone)
		apply(StageAssess, StateDone)
		apply(StageAggregate, StateDone)
	case StatusFailed, StatusError, StatusEnqueueFailed:
		// A failure observed after classification finished belongs to the
		// assessment stage; Classification is never failed retroactively.
		if next[StageClassify].State == StateDone {
			apply(StageAssess, StateFailed)
		} else {
			apply(StageClassify, StateFailed)
		}
	case StatusRetrying:
		for i := range next {
			if next[i].State == StateFailed {
				apply(i, StateRetrying)
			}
		}
	}

	return next
}

// ratchet decides whether a proposed transition is accepted.
func (s State) ratchet(to State) State {
	switch {
	case to.Weight() > s.Weight():
		return to
	case to.Weight() == s.Weight() && to != s:
		return to
	case s == StateFailed && to == StateRetrying:
		return to
	default:
		return s
	}
}
