package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/broadinstitute/cromwell-tools/internal/adapter"
	"github.com/broadinstitute/cromwell-tools/internal/logger"
	"github.com/broadinstitute/cromwell-tools/internal/mock"
	"github.com/broadinstitute/cromwell-tools/internal/validators"
	"github.com/broadinstitute/cromwell-tools/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const interval = 30 * time.Second

// fakeClock replaces time.Now and the sleep between iterations. Sleeping
// advances the clock by exactly the requested duration.
type fakeClock struct {
	now     time.Time
	sleeps  []time.Duration
	onSleep func()
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if c.onSleep != nil {
		c.onSleep()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

// newTestWorkflowSvc creates a workflowService with a mock adapter and a fake
// clock.
func newTestWorkflowSvc(t *testing.T, ctrl *gomock.Controller) (*workflowService, *mock.MockWorkflowAdapter, *fakeClock) {
	t.Helper()
	mockAdapter := mock.NewMockWorkflowAdapter(ctrl)
	clock := &fakeClock{now: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}

	svc := NewWorkflowService(mockAdapter, validators.NewSubmissionValidator(), logger.Nop()).(*workflowService)
	svc.now = clock.Now
	svc.sleep = clock.Sleep

	return svc, mockAdapter, clock
}

func status(id string, s models.WorkflowStatus) models.WorkflowIDAndStatus {
	return models.WorkflowIDAndStatus{ID: id, Status: s}
}

func opts(timeout time.Duration) models.WaitOptions {
	return models.WaitOptions{PollInterval: interval, Timeout: timeout}
}

// ── Completion ───────────────────────────────────────────────────────────────

func TestWait_AllTerminalOnFirstPollReturnsWithoutSleeping(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, clock := newTestWorkflowSvc(t, ctrl)

	mockAdapter.EXPECT().Status(gomock.Any(), "a").Return(status("a", models.StatusSucceeded), nil)
	mockAdapter.EXPECT().Status(gomock.Any(), "b").Return(status("b", models.StatusFailed), nil)
	mockAdapter.EXPECT().Status(gomock.Any(), "c").Return(status("c", models.StatusAborted), nil)

	result, err := svc.Wait(context.Background(), []string{"a", "b", "c"}, opts(time.Hour))

	require.NoError(t, err)
	assert.Empty(t, clock.sleeps)
	assert.Equal(t, models.StatusSucceeded, result["a"].Status)
	assert.Equal(t, models.StatusFailed, result["b"].Status)
	assert.Equal(t, models.StatusAborted, result["c"].Status)
	assert.Empty(t, result.Pending())
	assert.False(t, result.AllSucceeded())
}

func TestWait_SleepsExactlyThePollInterval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, clock := newTestWorkflowSvc(t, ctrl)

	gomock.InOrder(
		mockAdapter.EXPECT().Status(gomock.Any(), "a").Return(status("a", models.StatusSubmitted), nil),
		mockAdapter.EXPECT().Status(gomock.Any(), "a").Return(status("a", models.StatusRunning), nil),
		mockAdapter.EXPECT().Status(gomock.Any(), "a").Return(status("a", models.StatusAborting), nil),
		mockAdapter.EXPECT().Status(gomock.Any(), "a").Return(status("a", models.StatusAborted), nil),
	)

	result, err := svc.Wait(context.Background(), []string{"a"}, opts(time.Hour))

	require.NoError(t, err)
	assert.Equal(t, []time.Duration{interval, interval, interval}, clock.sleeps)
	assert.Equal(t, models.WaitTerminal, result["a"].State)
	assert.Equal(t, models.StatusAborted, result["a"].Status)
}

func TestWait_TerminalWorkflowsAreNotPolledAgain(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, _ := newTestWorkflowSvc(t, ctrl)

	mockAdapter.EXPECT().Status(gomock.Any(), "a").Return(status("a", models.StatusSucceeded), nil).Times(1)
	gomock.InOrder(
		mockAdapter.EXPECT().Status(gomock.Any(), "b").Return(status("b", models.StatusRunning), nil),
		mockAdapter.EXPECT().Status(gomock.Any(), "b").Return(status("b", models.StatusSucceeded), nil),
	)

	result, err := svc.Wait(context.Background(), []string{"a", "b"}, opts(time.Hour))

	require.NoError(t, err)
	assert.True(t, result.AllSucceeded())
}

func TestWait_DuplicateIDsArePolledOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, _ := newTestWorkflowSvc(t, ctrl)

	mockAdapter.EXPECT().Status(gomock.Any(), "a").Return(status("a", models.StatusSucceeded), nil).Times(1)

	result, err := svc.Wait(context.Background(), []string{"a", "a", "a"}, opts(time.Hour))

	require.NoError(t, err)
	assert.Len(t, result, 1)
}

// ── Timeout ──────────────────────────────────────────────────────────────────

func TestWait_TimeoutOfTwoIntervalsPollsExactlyTwice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, clock := newTestWorkflowSvc(t, ctrl)

	mockAdapter.EXPECT().Status(gomock.Any(), "a").Return(status("a", models.StatusRunning), nil).Times(2)

	result, err := svc.Wait(context.Background(), []string{"a"}, opts(2*interval))

	require.ErrorIs(t, err, ErrWaitTimeout)
	var timeoutErr *WaitTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, []string{"a"}, timeoutErr.TimedOut())
	assert.Equal(t, result, timeoutErr.Result)

	assert.Len(t, clock.sleeps, 1)
	assert.Equal(t, models.WaitTimedOut, result["a"].State)
	assert.Equal(t, models.StatusTimedOut, result["a"].Status)
	assert.Equal(t, models.StatusRunning, result["a"].LastReported)
}

func TestWait_TimeoutKeepsTerminalResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, _ := newTestWorkflowSvc(t, ctrl)

	mockAdapter.EXPECT().Status(gomock.Any(), "done").Return(status("done", models.StatusSucceeded), nil).Times(1)
	mockAdapter.EXPECT().Status(gomock.Any(), "slow").Return(status("slow", models.StatusRunning), nil).Times(3)

	result, err := svc.Wait(context.Background(), []string{"done", "slow"}, opts(3*interval))

	require.ErrorIs(t, err, ErrWaitTimeout)
	assert.Equal(t, models.WorkflowWaitState{
		Status: models.StatusSucceeded, LastReported: models.StatusSucceeded, State: models.WaitTerminal,
	}, result["done"])
	assert.Equal(t, models.WaitTimedOut, result["slow"].State)
	assert.Contains(t, err.Error(), "1 of 2")
}

func TestWait_TimeoutShorterThanIntervalPollsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, clock := newTestWorkflowSvc(t, ctrl)

	mockAdapter.EXPECT().Status(gomock.Any(), "a").Return(status("a", models.StatusOnHold), nil).Times(1)

	_, err := svc.Wait(context.Background(), []string{"a"}, opts(interval/2))

	require.ErrorIs(t, err, ErrWaitTimeout)
	assert.Empty(t, clock.sleeps)
}

// ── Failures ─────────────────────────────────────────────────────────────────

func TestWait_TransientErrorsKeepWorkflowPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, clock := newTestWorkflowSvc(t, ctrl)

	transient := fmt.Errorf("%w: http 503: unavailable", adapter.ErrTransientServer)
	gomock.InOrder(
		mockAdapter.EXPECT().Status(gomock.Any(), "a").Return(models.WorkflowIDAndStatus{}, transient),
		mockAdapter.EXPECT().Status(gomock.Any(), "a").Return(models.WorkflowIDAndStatus{}, transient),
		mockAdapter.EXPECT().Status(gomock.Any(), "a").Return(status("a", models.StatusSucceeded), nil),
	)

	result, err := svc.Wait(context.Background(), []string{"a"}, opts(time.Hour))

	require.NoError(t, err)
	assert.Len(t, clock.sleeps, 2)
	assert.Equal(t, models.StatusSucceeded, result["a"].Status)
}

func TestWait_TransientUntilDeadlineTimesOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, _ := newTestWorkflowSvc(t, ctrl)

	mockAdapter.EXPECT().Status(gomock.Any(), "a").
		Return(models.WorkflowIDAndStatus{}, fmt.Errorf("%w: connection refused", adapter.ErrTransientServer)).
		Times(2)

	result, err := svc.Wait(context.Background(), []string{"a"}, opts(2*interval))

	require.ErrorIs(t, err, ErrWaitTimeout)
	assert.Equal(t, models.WaitTimedOut, result["a"].State)
	assert.Empty(t, result["a"].LastReported)
}

func TestWait_AbortingErrors(t *testing.T) {
	tests := []struct {
		name       string
		adapterErr error
		wantErr    error
	}{
		{"auth rejected", fmt.Errorf("%w: http 401: denied", adapter.ErrAuthRejected), ErrAuthRejected},
		{"not found", fmt.Errorf("status b: %w: unknown", adapter.ErrWorkflowNotFound), ErrWorkflowNotFound},
		{"protocol", fmt.Errorf("%w: bad json", adapter.ErrProtocol), ErrProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, mockAdapter, clock := newTestWorkflowSvc(t, ctrl)

			mockAdapter.EXPECT().Status(gomock.Any(), "a").Return(status("a", models.StatusSucceeded), nil)
			mockAdapter.EXPECT().Status(gomock.Any(), "b").Return(models.WorkflowIDAndStatus{}, tt.adapterErr)

			result, err := svc.Wait(context.Background(), []string{"a", "b"}, opts(time.Hour))

			require.ErrorIs(t, err, tt.wantErr)
			assert.NotErrorIs(t, err, ErrWaitTimeout)
			assert.Empty(t, clock.sleeps)
			assert.Equal(t, models.WaitTerminal, result["a"].State, "terminal results collected before the failure are kept")
			assert.Equal(t, models.WaitPending, result["b"].State)
		})
	}
}

func TestWait_ContextCanceledDuringSleep(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, clock := newTestWorkflowSvc(t, ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clock.onSleep = cancel

	mockAdapter.EXPECT().Status(gomock.Any(), "a").Return(status("a", models.StatusSucceeded), nil)
	mockAdapter.EXPECT().Status(gomock.Any(), "b").Return(status("b", models.StatusRunning), nil)

	result, err := svc.Wait(ctx, []string{"a", "b"}, opts(time.Hour))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, models.StatusSucceeded, result["a"].Status)
	assert.Equal(t, models.WaitPending, result["b"].State)
}

// ── Input ────────────────────────────────────────────────────────────────────

func TestWait_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		opts models.WaitOptions
	}{
		{"no ids", nil, opts(time.Hour)},
		{"zero interval", []string{"a"}, models.WaitOptions{Timeout: time.Hour}},
		{"zero timeout", []string{"a"}, models.WaitOptions{PollInterval: interval}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, _, _ := newTestWorkflowSvc(t, ctrl)

			_, err := svc.Wait(context.Background(), tt.ids, tt.opts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, validators.ErrValidationInput))
		})
	}
}
