package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/newsgrab"
	"github.com/fwojciec/newsgrab/extract"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	filter := newsgrab.PendingFilter{Limit: c.Limit}
	if c.Source != "" {
		filter.SourceID = &c.Source
	}

	items, err := deps.Backlog.SelectPending(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgrab.ErrorMessage(err))
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(deps.Stdout, "Nothing to process.")
		return nil
	}

	run, err := deps.Runs.CreateRun(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgrab.ErrorMessage(err))
		return err
	}

	progress := func(event extract.ProgressEvent) {
		switch event.Type {
		case extract.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Found %d pending items\n", event.Total)
		case extract.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  fail %s: %s\n", event.ItemID, newsgrab.ErrorMessage(event.Error))
		}
	}

	result, runErr := deps.Orchestrator.Run(deps.Ctx, items, progress)

	// The run is recorded even when the batch was interrupted.
	if err := deps.Runs.FinishRun(context.WithoutCancel(deps.Ctx), run.ID, result.Total, result.Succeeded, result.Failed); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgrab.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "processed %d: %d succeeded, %d failed\n",
		result.Succeeded+result.Failed, result.Succeeded, result.Failed)

	if runErr != nil {
		fmt.Fprintf(deps.Stderr, "interrupted: %d items not started\n", result.Skipped)
		return runErr
	}
	return nil
}
