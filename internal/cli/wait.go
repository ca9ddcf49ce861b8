package cli

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/broadinstitute/cromwell-tools/internal/validators"
	"github.com/broadinstitute/cromwell-tools/models"
	"github.com/spf13/cobra"
)

var errWorkflowsFailed = errors.New("workflows did not succeed")

// waitReport is the JSON form of a wait result.
type waitReport struct {
	Workflows map[string]models.WorkflowWaitState `json:"workflows"`
	TimedOut  bool                                `json:"timed_out"`
}

func newWaitCmd(r *runtime) *cobra.Command {
	var timeoutMinutes int
	var pollIntervalSeconds int

	cmd := &cobra.Command{
		Use:   "wait ID...",
		Short: "Wait until workflows reach a terminal status",
		Long: "Polls the status of every workflow until all of them succeed, fail or are aborted, " +
			"or until the timeout passes. Exits non-zero when a workflow did not succeed.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, ids []string) error {
			if cmd.Flags().Changed("timeout-minutes") {
				if timeoutMinutes <= 0 {
					return fmt.Errorf("%w: --timeout-minutes must be positive, got %d",
						validators.ErrInvalidWaitOptions, timeoutMinutes)
				}
				r.flags.Wait.Timeout = time.Duration(timeoutMinutes) * time.Minute
			}
			if cmd.Flags().Changed("poll-interval-seconds") {
				if pollIntervalSeconds <= 0 {
					return fmt.Errorf("%w: --poll-interval-seconds must be positive, got %d",
						validators.ErrInvalidWaitOptions, pollIntervalSeconds)
				}
				r.flags.Wait.PollInterval = time.Duration(pollIntervalSeconds) * time.Second
			}

			workflows, err := r.workflows()
			if err != nil {
				return err
			}

			opts := models.WaitOptions{PollInterval: r.cfg.Wait.PollInterval, Timeout: r.cfg.Wait.Timeout}
			r.log.Debug().
				Strs("ids", ids).
				Dur("poll_interval", opts.PollInterval).
				Dur("timeout", opts.Timeout).
				Msg("waiting for workflows")

			result, waitErr := workflows.Wait(cmd.Context(), ids, opts)
			if len(result) > 0 {
				if err := printWaitResult(r.output(), result); err != nil {
					return err
				}
			}
			if waitErr != nil {
				return waitErr
			}
			if !result.AllSucceeded() {
				return fmt.Errorf("%w: %v", errWorkflowsFailed, failedIDs(result))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&timeoutMinutes, "timeout-minutes", 0, "Total time to wait in minutes (default 120)")
	cmd.Flags().IntVar(&pollIntervalSeconds, "poll-interval-seconds", 0, "Pause between polls in seconds (default 30)")

	return cmd
}

func printWaitResult(out *Output, result models.WaitResult) error {
	ids := make([]string, 0, len(result))
	for id := range result {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([][]string, len(ids))
	timedOut := false
	for i, id := range ids {
		state := result[id]
		last := state.LastReported.String()
		if last == "" {
			last = "-"
		}
		rows[i] = []string{id, Status(state.Status), state.State.String(), last}
		timedOut = timedOut || state.State == models.WaitTimedOut
	}

	return out.Print(
		[]string{"ID", "STATUS", "STATE", "LAST REPORTED"},
		rows,
		waitReport{Workflows: result, TimedOut: timedOut},
	)
}

func failedIDs(result models.WaitResult) []string {
	var ids []string
	for id, state := range result {
		if state.Status != models.StatusSucceeded {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
