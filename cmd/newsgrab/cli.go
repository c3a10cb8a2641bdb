package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/newsgrab"
	"github.com/fwojciec/newsgrab/extract"
	"github.com/fwojciec/newsgrab/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx          context.Context
	Stdout       io.Writer
	Stderr       io.Writer
	Logger       *slog.Logger
	DB           *sqlite.DB
	Backlog      newsgrab.BacklogService
	Records      newsgrab.RecordService
	Runs         newsgrab.RunService
	Adapters     newsgrab.AdapterRegistry
	Orchestrator *extract.Orchestrator
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log every page load and store write"`

	Run       RunCmd       `cmd:"" help:"Extract every pending item"`
	Sources   SourcesCmd   `cmd:"" help:"List registered sources"`
	AddSource AddSourceCmd `cmd:"" name:"add-source" help:"Register a source and its selectors"`
	AddItem   AddItemCmd   `cmd:"" name:"add-item" help:"Add an article to the backlog"`
	Records   RecordsCmd   `cmd:"" help:"List extracted records"`
	Show      ShowCmd      `cmd:"" help:"Print an extracted record"`
	Reset     ResetCmd     `cmd:"" help:"Delete a record so its item is extracted again"`
	Runs      RunsCmd      `cmd:"" help:"List recent runs"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Renderer    string        `default:"browser" enum:"browser,static" help:"Page renderer: browser runs JavaScript, static only parses HTML"`
	Timeout     time.Duration `default:"30s" help:"Page load timeout"`
	Concurrency int           `short:"c" default:"1" help:"Items processed at once"`
	MaxPages    int64         `default:"75" help:"Pages served by one browser before it is restarted"`
	Headless    bool          `default:"true" negatable:"" help:"Run the browser without a window"`
	Browser     string        `env:"NEWSGRAB_BROWSER" help:"Chrome binary to use"`
	Retries     int           `default:"3" help:"Navigation retries with exponential backoff (max 3)"`
	Limit       int           `short:"n" help:"Process at most this many items"`
	Source      string        `short:"s" help:"Only process items of this source"`
	Output      string        `env:"NEWSGRAB_OUTPUT" default:"output" help:"Directory for plain-text record files"`
	Snapshots   string        `env:"NEWSGRAB_SNAPSHOTS" help:"Directory of stored page snapshots (<item>.html)"`
	Archive     bool          `help:"Save rendered pages to the snapshot directory"`
}

// SourcesCmd is the "sources" subcommand.
type SourcesCmd struct {
	Known bool `help:"List the source IDs that have a built-in adapter"`
}

// AddSourceCmd is the "add-source" subcommand.
type AddSourceCmd struct {
	ID          string `arg:"" help:"Source ID, matching a built-in adapter"`
	Name        string `help:"Display name"`
	Title       string `help:"Title selector (default: title)"`
	Keywords    string `help:"Keywords selector"`
	Description string `help:"Description selector"`
	Summary     string `help:"Summary selector"`
	Content     string `help:"Content selector"`
}

// AddItemCmd is the "add-item" subcommand.
type AddItemCmd struct {
	Source  string `arg:"" help:"Source ID"`
	ID      string `arg:"" help:"Item ID"`
	Locator string `arg:"" help:"Article URL or path to a stored HTML document"`
}

// RecordsCmd is the "records" subcommand.
type RecordsCmd struct {
	Source string `short:"s" help:"Only list records of this source"`
	Limit  int    `short:"n" default:"20" help:"Maximum number of records"`
	Offset int    `help:"Number of records to skip"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID string `arg:"" help:"Item ID"`
}

// ResetCmd is the "reset" subcommand.
type ResetCmd struct {
	ID string `arg:"" help:"Item ID"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Limit int `short:"n" default:"10" help:"Maximum number of runs"`
}
