package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/broadinstitute/cromwell-tools/models"
)

var (
	ErrAuthRejected     = errors.New("authentication rejected")
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrTransientServer  = errors.New("server temporarily unavailable")
	ErrProtocol         = errors.New("unexpected response from server")
	ErrServerRejected   = errors.New("request rejected by server")

	ErrWaitTimeout     = errors.New("wait timed out")
	ErrToolUnavailable = errors.New("validation tool could not be run")
)

// WaitTimeoutError is returned by Wait when the deadline passes while some
// workflows are still pending. Result holds every workflow: terminal ones
// with their final status and the rest marked as timed out.
type WaitTimeoutError struct {
	Result  models.WaitResult
	Timeout time.Duration
}

func (e *WaitTimeoutError) Error() string {
	ids := e.TimedOut()
	return fmt.Sprintf("%s after %s: %d of %d workflows not finished %v",
		ErrWaitTimeout, e.Timeout, len(ids), len(e.Result), ids)
}

// Is makes errors.Is(err, ErrWaitTimeout) match.
func (e *WaitTimeoutError) Is(target error) bool {
	return target == ErrWaitTimeout
}

// TimedOut returns the sorted ids that did not reach a terminal status.
func (e *WaitTimeoutError) TimedOut() []string {
	ids := make([]string, 0, len(e.Result))
	for id, state := range e.Result {
		if state.State == models.WaitTimedOut {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
