package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	pgRepo "newsdesk/internal/infra/adapter/persistence/postgres"
	"newsdesk/internal/infra/db"
	"newsdesk/internal/observability/logging"
	"newsdesk/internal/usecase/maintenance"
)

// runner is the part of maintenance.Service the commands drive.
type runner interface {
	Run(ctx context.Context, job string, reset bool) (maintenance.Report, error)
	RunAll(ctx context.Context, reset bool) ([]maintenance.Report, error)
}

// opener connects to storage and returns a runner with its cleanup.
type opener func(ctx context.Context) (runner, func(), error)

func openService(ctx context.Context) (runner, func(), error) {
	database, err := db.Open(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := db.MigrateUp(ctx, database); err != nil {
		_ = database.Close()
		return nil, nil, err
	}
	svc := maintenance.NewService(pgRepo.NewNewsRepo(database), pgRepo.NewCheckpointRepo(database))
	return svc, func() { _ = database.Close() }, nil
}

func envSourcesFile() string { return os.Getenv("SOURCES_FILE") }

type options struct {
	reset  bool
	output string
}

func newRootCmd(open opener) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "maintain",
		Short:        "Repair jobs for stored news articles",
		Long:         "Each job walks the news table in id order and resumes from its checkpoint unless --reset is given.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			_ = godotenv.Load()
			// stdout carries the report
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), "newsdesk-maintain",
				os.Getenv("LOG_FORMAT"), logging.ParseLevel(os.Getenv("LOG_LEVEL"))))
		},
	}
	root.PersistentFlags().BoolVar(&opts.reset, "reset", false, "ignore saved checkpoints and start from the first row")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "report format: table or json")

	jobs := []struct{ name, short string }{
		{maintenance.JobNormalize, "Lowercase categories and map legacy statuses"},
		{maintenance.JobDedupeSlugs, "Give later duplicates of a slug a unique suffix"},
		{maintenance.JobBackfillPublished, "Set published_at on published articles that lack it"},
	}
	for _, j := range jobs {
		job := j.name
		root.AddCommand(&cobra.Command{
			Use:   job,
			Short: j.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return execute(cmd, open, opts, func(ctx context.Context, r runner) ([]maintenance.Report, error) {
					rep, err := r.Run(ctx, job, opts.reset)
					return []maintenance.Report{rep}, err
				})
			},
		})
	}
	root.AddCommand(newCheckSourcesCmd(opts))
	root.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Run every job in order, stopping at the first failure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd, open, opts, func(ctx context.Context, r runner) ([]maintenance.Report, error) {
				return r.RunAll(ctx, opts.reset)
			})
		},
	})
	return root
}

func execute(cmd *cobra.Command, open opener, opts *options, run func(context.Context, runner) ([]maintenance.Report, error)) error {
	if opts.output != "table" && opts.output != "json" {
		return fmt.Errorf("unknown output format %q", opts.output)
	}
	ctx := cmd.Context()
	r, cleanup, err := open(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer cleanup()

	reports, runErr := run(ctx, r)
	if err := render(cmd.OutOrStdout(), opts.output, reports); err != nil {
		return err
	}
	return runErr
}

func render(w io.Writer, format string, reports []maintenance.Report) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Job", "Resumed", "Scanned", "Changed", "Failed", "Last ID", "Complete"})
	for _, r := range reports {
		t.AppendRow(table.Row{r.Job, r.Resumed, r.Scanned, r.Changed, r.Failed, r.LastID, r.Complete})
	}
	t.Render()
	return nil
}
