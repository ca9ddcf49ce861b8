package models

// WorkflowStatus is the execution state the server reports for a workflow.
type WorkflowStatus string

const (
	// StatusSubmitted means the server accepted the workflow and queued it.
	StatusSubmitted WorkflowStatus = "Submitted"

	// StatusOnHold means the workflow was accepted with workflowOnHold=true and
	// will not start until it is released.
	StatusOnHold WorkflowStatus = "On Hold"

	// StatusRunning means at least one call of the workflow is executing.
	StatusRunning WorkflowStatus = "Running"

	// StatusAborting means an abort was requested but not yet completed.
	StatusAborting WorkflowStatus = "Aborting"

	// StatusSucceeded is terminal: all calls finished successfully.
	StatusSucceeded WorkflowStatus = "Succeeded"

	// StatusFailed is terminal: the workflow finished with an error.
	StatusFailed WorkflowStatus = "Failed"

	// StatusAborted is terminal: the workflow was aborted.
	StatusAborted WorkflowStatus = "Aborted"

	// StatusTimedOut is never sent by the server. Wait assigns it to
	// workflows that were still pending when the deadline passed.
	StatusTimedOut WorkflowStatus = "TimedOut"
)

// IsTerminal reports whether the server guarantees no further transition
// from s. Only Succeeded, Failed and Aborted are terminal; Aborting is not.
func (s WorkflowStatus) IsTerminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusAborted:
		return true
	default:
		return false
	}
}

// IsFailure reports whether s is a terminal status other than Succeeded.
func (s WorkflowStatus) IsFailure() bool {
	return s == StatusFailed || s == StatusAborted
}

func (s WorkflowStatus) String() string {
	return string(s)
}
