package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"newsdesk/internal/config"
	"newsdesk/internal/domain/entity"
	"newsdesk/internal/infra/fetcher"
	"newsdesk/internal/infra/scraper"
	"newsdesk/internal/usecase/draft"
)

// feedCheck is the diagnosis of one registry source.
type feedCheck struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	FeedURL    string `json:"feedURL"`
	Status     string `json:"status"`
	Links      int    `json:"links"`
	LatestDate string `json:"latestDate,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

// newLinkFetcher is replaced in tests.
var newLinkFetcher = func(cfg fetcher.HTTPConfig) draft.LinkFetcher {
	return scraper.NewRSSLinkFetcher(cfg)
}

func newCheckSourcesCmd(opts *options) *cobra.Command {
	var file string
	var pause time.Duration
	cmd := &cobra.Command{
		Use:   "check-sources",
		Short: "Fetch every registry feed once and report which ones yield links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.output != "table" && opts.output != "json" {
				return fmt.Errorf("unknown output format %q", opts.output)
			}
			if file == "" {
				file = envSourcesFile()
			}
			sources, err := config.LoadSources(file)
			if err != nil {
				return err
			}
			httpCfg, err := fetcher.LoadHTTPConfigFromEnv()
			if err != nil {
				return err
			}

			checks := checkSources(cmd.Context(), newLinkFetcher(httpCfg), sources, pause)
			if err := renderChecks(cmd.OutOrStdout(), opts.output, checks); err != nil {
				return err
			}
			for _, c := range checks {
				if c.Status != "ok" {
					return fmt.Errorf("%d of %d sources need attention", countFailing(checks), len(checks))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "registry file (default SOURCES_FILE, then the embedded registry)")
	cmd.Flags().DurationVar(&pause, "pause", 500*time.Millisecond, "delay between feeds")
	return cmd
}

func checkSources(ctx context.Context, f draft.LinkFetcher, sources []entity.SourceDescriptor, pause time.Duration) []feedCheck {
	checks := make([]feedCheck, 0, len(sources))
	for i, src := range sources {
		if i > 0 && pause > 0 {
			select {
			case <-ctx.Done():
				return checks
			case <-time.After(pause):
			}
		}

		start := time.Now()
		res := f.Latest(ctx, src.FeedURL)
		c := feedCheck{
			Name:       src.Name,
			Category:   src.Category,
			FeedURL:    src.FeedURL,
			Links:      len(res.Items),
			DurationMs: time.Since(start).Milliseconds(),
		}
		switch {
		case !res.OK():
			c.Status = "error"
			c.Error = res.Err.Error()
		case len(res.Items) == 0:
			c.Status = "empty"
		default:
			c.Status = "ok"
			if at := res.Items[0].PublishedAt; at != nil {
				c.LatestDate = at.UTC().Format(time.RFC3339)
			}
		}
		checks = append(checks, c)
	}
	return checks
}

func countFailing(checks []feedCheck) int {
	n := 0
	for _, c := range checks {
		if c.Status != "ok" {
			n++
		}
	}
	return n
}

func renderChecks(w io.Writer, format string, checks []feedCheck) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(checks)
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Source", "Category", "Status", "Links", "Latest", "ms", "Error"})
	for _, c := range checks {
		t.AppendRow(table.Row{c.Name, c.Category, c.Status, c.Links, c.LatestDate, c.DurationMs, c.Error})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d failing", countFailing(checks)), "", "", "", ""})
	t.Render()
	return nil
}
