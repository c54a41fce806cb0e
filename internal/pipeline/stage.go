// Package pipeline models the four-stage manuscript processing pipeline and
// reconciles the single backend-reported status string into per-stage states.
package pipeline

import "encoding/json"

// State is the lifecycle state of one pipeline stage.
type State int

const (
	StatePending State = iota
	StateQueued
	StateActive
	StateDone
	StateFailed
	StateRetrying
)

// String returns a human-readable label for the state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateQueued:
		return "queued"
	case StateActive:
		return "active"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	case StateRetrying:
		return "retrying"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Weight ranks states for ratchet decisions. Active and Retrying share a
// weight so the display can move laterally between them without backsliding.
func (s State) Weight() int {
	switch s {
	case StateQueued:
		return 1
	case StateActive, StateRetrying:
		return 2
	case StateDone:
		return 3
	case StateFailed:
		return 4
	default:
		return 0
	}
}

// Terminal reports whether the state is an end state for a stage.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Stage indexes into the fixed pipeline order.
const (
	StageIngest = iota
	StageClassify
	StageAssess
	StageAggregate

	NumStages = 4
)

// stageNames are the display names in pipeline order.
var stageNames = [NumStages]string{
	"Ingestion",
	"Classification",
	"Novelty Assessment",
	"Aggregation",
}

// Stage is one pipeline phase as shown to the user.
type Stage struct {
	Name  string `json:"name"`
	State State  `json:"state"`
}

// NewStages returns a fresh stage list, all pending, in pipeline order.
// One list is created per submission and mutated only via Reconcile.
func NewStages() []Stage {
	stages := make([]Stage, NumStages)
	for i := range stages {
		stages[i] = Stage{Name: stageNames[i], State: StatePending}
	}
	return stages
}

// Status is the single status string reported by the backend for a request.
type Status string

// Backend status vocabulary. Unknown values are tolerated and leave stage
// states unchanged, for forward compatibility with new backend states.
const (
	StatusUploaded      Status = "uploaded"
	StatusQueued        Status = "queued"
	StatusEnqueueFailed Status = "enqueue_failed"
	StatusClassifying   Status = "classifying"
	StatusClassified    Status = "classified"
	StatusAnalyzing     Status = "analyzing"
	StatusAssessed      Status = "assessed"
	StatusCompleted     Status = "completed"
	StatusFailed        Status = "failed"
	StatusError         Status = "error"
	StatusRetrying      Status = "retrying"
	StatusDeleted       Status = "deleted"
)

// Terminal reports whether polling should stop on this status.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusError, StatusEnqueueFailed, StatusDeleted:
		return true
	}
	return false
}

// failure reports whether the status signals a pipeline failure.
func (s Status) failure() bool {
	return s == StatusFailed || s == StatusError || s == StatusEnqueueFailed
}
