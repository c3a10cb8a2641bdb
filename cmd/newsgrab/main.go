package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/newsgrab"
	"github.com/fwojciec/newsgrab/extract"
	"github.com/fwojciec/newsgrab/fs"
	"github.com/fwojciec/newsgrab/goquery"
	nghttp "github.com/fwojciec/newsgrab/http"
	"github.com/fwojciec/newsgrab/rod"
	ngslog "github.com/fwojciec/newsgrab/slog"
	"github.com/fwojciec/newsgrab/sources"
	"github.com/fwojciec/newsgrab/sqlite"
)

func main() {
	// The first interrupt stops dispatching new items; items in flight
	// finish and the partial run is recorded.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	BacklogService newsgrab.BacklogService
	RecordService  newsgrab.RecordService
	RunService     newsgrab.RunService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("newsgrab"),
		kong.Description("Extract news articles from a backlog of pages into a result store."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'newsgrab --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set NEWSGRAB_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.BacklogService = sqlite.NewBacklogService(m.DB)
	m.RecordService = sqlite.NewRecordService(m.DB)
	m.RunService = sqlite.NewRunService(m.DB)
	deps.DB = m.DB
	deps.Backlog = m.BacklogService
	deps.Records = m.RecordService
	deps.Runs = m.RunService

	registry := extract.NewRegistry()
	sources.Register(registry)
	deps.Adapters = registry

	if kongCtx.Command() == "run" {
		renderer, err := newRenderer(&cli.Run, logger)
		if err != nil {
			if cli.Run.Renderer == rendererBrowser {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or use --renderer=static")
			}
			return fmt.Errorf("failed to start renderer: %w", err)
		}
		defer renderer.Close()

		orch := &extract.Orchestrator{
			Renderer:         ngslog.NewLoggingRenderer(renderer, logger),
			Adapters:         ngslog.NewLoggingRegistry(registry, logger),
			Records:          ngslog.NewLoggingRecordService(m.RecordService, logger),
			Writer:           fs.NewWriter(cli.Run.Output),
			Logger:           logger,
			ArchiveSnapshots: cli.Run.Archive,
			RetryDelays:      retryDelays(cli.Run.Retries),
			Concurrency:      cli.Run.Concurrency,
		}
		if cli.Run.Snapshots != "" {
			orch.Snapshots = fs.NewSnapshotStore(cli.Run.Snapshots)
		}
		deps.Orchestrator = orch
	}

	return kongCtx.Run(deps)
}

const (
	rendererBrowser = "browser"
	rendererStatic  = "static"
)

// newRenderer builds the renderer selected on the command line.
func newRenderer(c *RunCmd, logger *slog.Logger) (newsgrab.Renderer, error) {
	switch c.Renderer {
	case rendererStatic:
		fetcher := nghttp.NewFetcher(nghttp.WithTimeout(c.Timeout))
		return goquery.NewRenderer(ngslog.NewLoggingFetcher(fetcher, logger)), nil
	default:
		opts := []rod.ManagerOption{
			rod.WithMaxPages(c.MaxPages),
			rod.WithHeadless(c.Headless),
		}
		if c.Browser != "" {
			opts = append(opts, rod.WithBrowserBin(c.Browser))
		}
		manager, err := rod.NewBrowserManager(opts...)
		if err != nil {
			return nil, err
		}
		return rod.NewRenderer(manager, rod.WithPageTimeout(c.Timeout)), nil
	}
}

// retryDelays returns n doubling delays starting at one second, capped at
// the default schedule.
func retryDelays(n int) []time.Duration {
	delays := extract.DefaultRetryDelays()
	if n <= 0 {
		return nil
	}
	if n > len(delays) {
		n = len(delays)
	}
	return delays[:n]
}

func defaultDBPath() string {
	if path := os.Getenv("NEWSGRAB_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "newsgrab.db"
	}
	dir := filepath.Join(home, ".newsgrab")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "newsgrab.db")
}
