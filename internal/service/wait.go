package service

import (
	"context"
	"errors"

	"github.com/broadinstitute/cromwell-tools/models"
	"golang.org/x/sync/errgroup"
)

type pollOutcome struct {
	id     string
	status models.WorkflowStatus
	err    error
}

// Wait implements [WorkflowService].
//
// Each iteration polls every pending workflow once, concurrently. Terminal
// statuses are recorded and never polled again. Transient server errors keep
// the workflow pending; any other failure ends the wait and is returned with
// the result collected so far. After reconciling an iteration Wait returns if
// nothing is pending, times out if the next poll would start at or after the
// deadline, and otherwise sleeps exactly opts.PollInterval.
func (s *workflowService) Wait(ctx context.Context, ids []string, opts models.WaitOptions) (models.WaitResult, error) {
	if err := s.validator.Validate(ctx, ids); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(ctx, opts); err != nil {
		return nil, err
	}

	ids = uniqueIDs(ids)
	result := make(models.WaitResult, len(ids))
	for _, id := range ids {
		result[id] = models.WorkflowWaitState{State: models.WaitPending}
	}

	deadline := s.now().Add(opts.Timeout)
	log := s.logger.With().Int("workflows", len(ids)).Dur("timeout", opts.Timeout).Logger()
	log.Debug().Msg("waiting for workflows")

	for iteration := 1; ; iteration++ {
		pending := pendingIDs(ids, result)
		outcomes, err := s.poll(ctx, pending)

		for _, o := range outcomes {
			switch {
			case o.err == nil:
				state := models.WorkflowWaitState{Status: o.status, LastReported: o.status, State: models.WaitPending}
				if o.status.IsTerminal() {
					state.State = models.WaitTerminal
					log.Info().Str("workflow_id", o.id).Stringer("status", o.status).Msg("workflow finished")
				}
				result[o.id] = state
			case errors.Is(o.err, ErrTransientServer):
				log.Warn().Err(o.err).Str("workflow_id", o.id).Int("iteration", iteration).
					Msg("status poll failed, will retry")
			}
		}
		if err != nil {
			return result, err
		}

		remaining := pendingIDs(ids, result)
		if len(remaining) == 0 {
			return result, nil
		}

		if !s.now().Add(opts.PollInterval).Before(deadline) {
			for _, id := range remaining {
				state := result[id]
				state.Status = models.StatusTimedOut
				state.State = models.WaitTimedOut
				result[id] = state
			}
			return result, &WaitTimeoutError{Result: result, Timeout: opts.Timeout}
		}

		if err = s.sleep(ctx, opts.PollInterval); err != nil {
			return result, err
		}
	}
}

// poll fetches the status of every id concurrently. Outcomes are returned in
// the order of ids. The error is the first failure that must end the wait;
// transient failures are only reported through the outcomes.
func (s *workflowService) poll(ctx context.Context, ids []string) ([]pollOutcome, error) {
	outcomes := make([]pollOutcome, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelPolls)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			status, err := s.adapter.Status(gctx, id)
			err = mapAdapterError(err)
			outcomes[i] = pollOutcome{id: id, status: status.Status, err: err}
			if err != nil && !errors.Is(err, ErrTransientServer) {
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return outcomes, err
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

func pendingIDs(ids []string, result models.WaitResult) []string {
	pending := make([]string, 0, len(ids))
	for _, id := range ids {
		if result[id].State == models.WaitPending {
			pending = append(pending, id)
		}
	}
	return pending
}
