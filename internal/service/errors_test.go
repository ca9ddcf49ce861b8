package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/broadinstitute/cromwell-tools/internal/adapter"
	"github.com/broadinstitute/cromwell-tools/models"
	"github.com/stretchr/testify/assert"
)

func TestMapAdapterError_Messages(t *testing.T) {
	err := mapAdapterError(fmt.Errorf("%w: http 503: busy", adapter.ErrTransientServer))
	assert.Equal(t, "server temporarily unavailable: http 503: busy", err.Error())

	err = mapAdapterError(fmt.Errorf("status wf-1: %w: unknown id", adapter.ErrWorkflowNotFound))
	assert.Equal(t, "workflow not found: status wf-1: unknown id", err.Error())

	assert.NoError(t, mapAdapterError(nil))
}

func TestWaitTimeoutError(t *testing.T) {
	err := &WaitTimeoutError{
		Timeout: time.Minute,
		Result: models.WaitResult{
			"b": {Status: models.StatusTimedOut, State: models.WaitTimedOut},
			"a": {Status: models.StatusTimedOut, State: models.WaitTimedOut},
			"c": {Status: models.StatusSucceeded, State: models.WaitTerminal},
		},
	}

	assert.ErrorIs(t, err, ErrWaitTimeout)
	assert.Equal(t, []string{"a", "b"}, err.TimedOut())
	assert.Equal(t, "wait timed out after 1m0s: 2 of 3 workflows not finished [a b]", err.Error())
}
