package main

import (
	"fmt"

	"github.com/fwojciec/newsgrab"
)

// Run executes the sources command.
func (c *SourcesCmd) Run(deps *Dependencies) error {
	if c.Known {
		for _, id := range deps.Adapters.List() {
			fmt.Fprintln(deps.Stdout, id)
		}
		return nil
	}

	srcs, err := deps.Backlog.FindSources(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgrab.ErrorMessage(err))
		return err
	}

	if len(srcs) == 0 {
		fmt.Fprintln(deps.Stdout, "No sources found. Use 'newsgrab add-source' to register one.")
		return nil
	}

	for _, s := range srcs {
		line := fmt.Sprintf("%s  %s", s.ID, s.Name)
		if _, err := deps.Adapters.Resolve(s.ID); err != nil {
			line += "  (no adapter)"
		}
		fmt.Fprintln(deps.Stdout, line)
	}

	return nil
}

// Run executes the add-source command.
func (c *AddSourceCmd) Run(deps *Dependencies) error {
	source := &newsgrab.Source{
		ID:   c.ID,
		Name: c.Name,
		FieldSpec: newsgrab.FieldSpec{
			TitleSelector:       c.Title,
			KeywordSelector:     c.Keywords,
			DescriptionSelector: c.Description,
			SummarySelector:     c.Summary,
			ContentSelector:     c.Content,
		},
	}

	if err := deps.Backlog.CreateSource(deps.Ctx, source); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgrab.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added source %q\n", c.ID)
	if _, err := deps.Adapters.Resolve(c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "warning: no adapter for source %q; its items will fail until one is added\n", c.ID)
	}

	return nil
}

// Run executes the add-item command.
func (c *AddItemCmd) Run(deps *Dependencies) error {
	item := &newsgrab.Item{
		ID:       c.ID,
		SourceID: c.Source,
		Locator:  c.Locator,
	}

	if err := deps.Backlog.CreateItem(deps.Ctx, item); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgrab.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added item %q to %s\n", c.ID, c.Source)
	return nil
}
