package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"go-vacancy-enricher/internal/config"
	"go-vacancy-enricher/internal/fetch"
	"go-vacancy-enricher/internal/reporter"
	"go-vacancy-enricher/internal/resolver"
	"go-vacancy-enricher/internal/runner"
	"go-vacancy-enricher/internal/schema"
	"go-vacancy-enricher/internal/scraper"
)

var enrichFlags struct {
	org         string
	force       bool
	playwright  bool
	quiet       bool
	maxJobs     int
	maxOrgs     int
	concurrency int
	timeoutSecs float64
	runID       string
	ndjsonPath  string
}

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Run enrichment for all registered orgs, or one with --org",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEnrich(cmd.Context())
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichFlags.org, "org", "", "org abbreviation to enrich (omit for all orgs)")
	enrichCmd.Flags().BoolVar(&enrichFlags.force, "force", false, "re-fetch all jobs, ignoring cached results")
	enrichCmd.Flags().BoolVar(&enrichFlags.playwright, "playwright", false, "use browser rendering for detail pages")
	enrichCmd.Flags().BoolVar(&enrichFlags.quiet, "quiet", false, "reduce per-job console verbosity")
	enrichCmd.Flags().IntVar(&enrichFlags.maxJobs, "max-jobs", 0, "only process the first N jobs per org")
	enrichCmd.Flags().IntVar(&enrichFlags.maxOrgs, "max-orgs", 0, "only process the first N organizations")
	enrichCmd.Flags().IntVar(&enrichFlags.concurrency, "concurrency", 1, "organizations processed in parallel")
	enrichCmd.Flags().Float64Var(&enrichFlags.timeoutSecs, "timeout", 0, "per-job timeout in seconds (overrides config)")
	enrichCmd.Flags().StringVar(&enrichFlags.runID, "run-id", "", "run identifier (generated when empty)")
	enrichCmd.Flags().StringVar(&enrichFlags.ndjsonPath, "log-ndjson", "", "path to the structured NDJSON run log")
}

// BuildRegistry assembles the static scraper registry from configuration.
func BuildRegistry(cfg *config.Config, client *fetch.Client) (*scraper.Registry, error) {
	registry := scraper.NewRegistry()
	for _, org := range cfg.Orgs {
		var s scraper.Scraper
		switch org.Scraper {
		case "tenant_api":
			s = scraper.NewTenantAPIScraper(client, org.Name, org.BaseURL, org.APIURL)
		case "links", "":
			s = scraper.NewLinkScraper(client, org.Name, org.BaseURL, org.BaseURL, org.HrefPattern)
		default:
			return nil, fmt.Errorf("org %s: unknown scraper type %q", org.Abbrev, org.Scraper)
		}
		if err := registry.Register(scraper.Entry{
			Abbrev:                  org.Abbrev,
			Name:                    org.Name,
			Scraper:                 s,
			PlaywrightDetail:        org.PlaywrightDetail,
			ProvidesFullDescription: org.ProvidesFullDescription,
		}); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func runEnrich(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if enrichFlags.timeoutSecs > 0 {
		cfg.JobTimeout = time.Duration(enrichFlags.timeoutSecs * float64(time.Second))
	}

	runID := enrichFlags.runID
	if runID == "" {
		runID = runner.DefaultRunID("run")
	}
	ndjsonPath := enrichFlags.ndjsonPath
	if ndjsonPath == "" {
		ndjsonPath = cfg.LogsPath(runID)
	}

	events, err := runner.NewEventLogger(ndjsonPath, runID, "", !enrichFlags.quiet)
	if err != nil {
		return err
	}
	defer events.Close()

	res := resolver.New(cfg)
	defer res.Close()

	registry, err := BuildRegistry(cfg, fetch.NewClient(cfg))
	if err != nil {
		return err
	}

	entries := registry.All()
	if enrichFlags.org != "" {
		entry, ok := registry.Find(enrichFlags.org)
		if !ok {
			return fmt.Errorf("no scraper registered for org %q", enrichFlags.org)
		}
		entries = []scraper.Entry{entry}
	}

	run := runner.New(cfg, res, schema.NewStore(cfg.OutputDir), events, runID)
	results := run.RunBatch(ctx, entries, runner.BatchOptions{
		OrgOptions: runner.OrgOptions{
			Force:            enrichFlags.force,
			MaxJobs:          enrichFlags.maxJobs,
			PlaywrightDetail: enrichFlags.playwright,
		},
		MaxOrgs:     enrichFlags.maxOrgs,
		Concurrency: enrichFlags.concurrency,
	})

	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := reporter.NewTelegramReporter(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			events.Warn("telegram reporter unavailable", "error", err)
		} else if err := tg.SendRunSummary(runID, results); err != nil {
			events.Warn("telegram summary failed", "error", err)
		}
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d organizations failed", failed, len(results))
	}
	return nil
}
