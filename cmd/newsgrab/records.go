package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/newsgrab"
	"github.com/fwojciec/newsgrab/fs"
	"github.com/mattn/go-runewidth"
)

// titleWidth is the terminal width titles are cut to in listings. CJK
// characters take two columns.
const titleWidth = 60

// Run executes the records command.
func (c *RecordsCmd) Run(deps *Dependencies) error {
	filter := newsgrab.RecordFilter{Limit: c.Limit, Offset: c.Offset}
	if c.Source != "" {
		filter.SourceID = &c.Source
	}

	recs, err := deps.Records.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgrab.ErrorMessage(err))
		return err
	}

	if len(recs) == 0 {
		fmt.Fprintln(deps.Stdout, "No records found. Use 'newsgrab run' to extract pending items.")
		return nil
	}

	for _, r := range recs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", r.ItemID, r.ProcessedAt.Format(time.DateTime),
			runewidth.Truncate(r.Title, titleWidth, "…"))
	}

	return nil
}

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	rec, err := deps.Records.FindRecordByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgrab.ErrorMessage(err))
		return err
	}

	fmt.Fprint(deps.Stdout, fs.FormatRecord(rec))
	return nil
}

// Run executes the reset command.
func (c *ResetCmd) Run(deps *Dependencies) error {
	if err := deps.Records.DeleteRecord(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgrab.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Reset %q; it will be extracted on the next run\n", c.ID)
	return nil
}
