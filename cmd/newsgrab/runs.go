package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/newsgrab"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	runs, err := deps.Runs.FindRuns(deps.Ctx, c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgrab.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs yet.")
		return nil
	}

	for _, r := range runs {
		finished := "unfinished"
		if !r.FinishedAt.IsZero() {
			finished = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %d total, %d succeeded, %d failed\n",
			r.ID, r.StartedAt.Format(time.DateTime), finished, r.Total, r.Succeeded, r.Failed)
	}

	return nil
}
