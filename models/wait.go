package models

import "time"

// WaitState is the per-workflow state tracked by the wait loop.
type WaitState int

const (
	// WaitPending means the workflow has not reported a terminal status yet.
	WaitPending WaitState = iota
	// WaitTerminal means the server reported a terminal status.
	WaitTerminal
	// WaitTimedOut means the deadline passed while the workflow was pending.
	WaitTimedOut
)

func (s WaitState) String() string {
	switch s {
	case WaitPending:
		return "pending"
	case WaitTerminal:
		return "terminal"
	case WaitTimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// WaitOptions controls the wait loop.
type WaitOptions struct {
	// PollInterval is the fixed pause between two polling iterations.
	PollInterval time.Duration
	// Timeout is the total time budget measured from the start of the wait.
	Timeout time.Duration
}

// WorkflowWaitState is the last known state of one workflow.
type WorkflowWaitState struct {
	// Status is the last status reported by the server, or StatusTimedOut
	// when State is WaitTimedOut.
	Status WorkflowStatus `json:"status"`
	// LastReported is the last status the server actually reported. It is
	// empty if no status call for the workflow has succeeded yet.
	LastReported WorkflowStatus `json:"last_reported,omitempty"`
	State        WaitState      `json:"-"`
}

// WaitResult maps workflow ids to their state when the wait returned.
type WaitResult map[string]WorkflowWaitState

// Pending returns the ids whose state is still WaitPending.
func (r WaitResult) Pending() []string {
	ids := make([]string, 0, len(r))
	for id, s := range r {
		if s.State == WaitPending {
			ids = append(ids, id)
		}
	}
	return ids
}

// AllSucceeded reports whether every workflow finished with Succeeded.
func (r WaitResult) AllSucceeded() bool {
	for _, s := range r {
		if s.Status != StatusSucceeded {
			return false
		}
	}
	return true
}
